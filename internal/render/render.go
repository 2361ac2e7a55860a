// Package render prints result sets and status lines for the terminal client.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/mickamy/minitable/internal/store"
)

// Renderer writes to one terminal-like destination.
type Renderer struct {
	out    io.Writer
	header *color.Color
	good   *color.Color
	bad    *color.Color
	faint  *color.Color
}

// New returns a Renderer. When colored is false no escape codes are written,
// regardless of the color package's global detection.
func New(out io.Writer, colored bool) *Renderer {
	r := &Renderer{
		out:    out,
		header: color.New(color.Bold, color.FgCyan),
		good:   color.New(color.FgGreen),
		bad:    color.New(color.FgRed),
		faint:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{r.header, r.good, r.bad, r.faint} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Result prints res as an aligned table followed by a row count.
func (r *Renderer) Result(res store.Result) error {
	if len(res.Columns) == 0 {
		_, err := fmt.Fprintln(r.out, r.faint.Sprint("(no columns)"))
		return err
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(res.Columns, "\t"))
	rule := make([]string, len(res.Columns))
	for i, c := range res.Columns {
		rule[i] = strings.Repeat("-", len(c))
	}
	fmt.Fprintln(tw, strings.Join(rule, "\t"))
	cells := make([]string, len(res.Columns))
	for _, row := range res.Rows {
		for i, c := range res.Columns {
			cells[i] = row[c]
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	// Color is applied after alignment so escape codes do not skew widths.
	lines := strings.SplitAfter(buf.String(), "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		if i == 0 {
			l = r.header.Sprint(strings.TrimSuffix(l, "\n")) + "\n"
		}
		if _, err := io.WriteString(r.out, l); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.out, r.faint.Sprint(rowCount(res.Len())))
	return err
}

func rowCount(n int) string {
	if n == 1 {
		return "(1 row)"
	}
	return fmt.Sprintf("(%d rows)", n)
}

// Info prints a "[+]" status line.
func (r *Renderer) Info(format string, args ...any) {
	fmt.Fprintln(r.out, r.good.Sprint("[+] ")+fmt.Sprintf(format, args...))
}

// Fail prints a "[-]" status line.
func (r *Renderer) Fail(format string, args ...any) {
	fmt.Fprintln(r.out, r.bad.Sprint("[-] ")+fmt.Sprintf(format, args...))
}

// Plain prints a line without decoration.
func (r *Renderer) Plain(format string, args ...any) {
	fmt.Fprintln(r.out, fmt.Sprintf(format, args...))
}
