package store

// Row maps a column name to its cell value.
type Row map[string]string

// Result is the output of a projection: the columns actually present, in order,
// and the matching rows in table order.
type Result struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (r Result) Len() int { return len(r.Rows) }

// HasColumn reports whether name is one of the projected columns.
func (r Result) HasColumn(name string) bool {
	for _, c := range r.Columns {
		if c == name {
			return true
		}
	}
	return false
}
