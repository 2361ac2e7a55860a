package store

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNoColumns       = errors.New("table must declare at least one column")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrUnknownColumn   = errors.New("unknown column")
)

// Table is an ordered set of named columns and the rows stored under them.
// Concurrency: RWMutex guards all access; projections return copies.
type Table struct {
	mu      sync.RWMutex
	name    string
	columns []string
	index   map[string]struct{}
	rows    []Row
}

// New constructs an empty table.
func New(name string, columns ...string) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoColumns)
	}
	idx := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := idx[c]; dup {
			return nil, fmt.Errorf("%s: %w %q", name, ErrDuplicateColumn, c)
		}
		idx[c] = struct{}{}
	}
	return &Table{
		name:    name,
		columns: append([]string(nil), columns...),
		index:   idx,
	}, nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns a copy of the declared columns in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether the table declares the column.
func (t *Table) HasColumn(c string) bool {
	_, ok := t.index[c]
	return ok
}

// Len returns the number of stored rows.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Insert appends a row. Columns missing from row are stored as "".
func (t *Table) Insert(row Row) error {
	for c := range row {
		if !t.HasColumn(c) {
			return fmt.Errorf("%s: %w %q", t.name, ErrUnknownColumn, c)
		}
	}
	stored := make(Row, len(t.columns))
	for _, c := range t.columns {
		stored[c] = row[c]
	}
	t.mu.Lock()
	t.rows = append(t.rows, stored)
	t.mu.Unlock()
	return nil
}

// Project returns every row restricted to the given columns.
// An empty column list selects all columns; a column may be named once.
func (t *Table) Project(columns ...string) (Result, error) {
	if len(columns) == 0 {
		columns = t.columns
	}
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if !t.HasColumn(c) {
			return Result{}, fmt.Errorf("%s: %w %q", t.name, ErrUnknownColumn, c)
		}
		if _, dup := seen[c]; dup {
			return Result{}, fmt.Errorf("%s: %w %q", t.name, ErrDuplicateColumn, c)
		}
		seen[c] = struct{}{}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	res := Result{
		Columns: append([]string{}, columns...),
		Rows:    make([]Row, 0, len(t.rows)),
	}
	for _, r := range t.rows {
		out := make(Row, len(columns))
		for _, c := range columns {
			out[c] = r[c]
		}
		res.Rows = append(res.Rows, out)
	}
	return res, nil
}
