// Package formatting provides terminal output helpers for the simcat
// CLI: rounded go-pretty tables, colored status cells, and JSON
// pretty-printing.
package formatting

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Table wraps a go-pretty writer with the house style.
type Table struct {
	writer table.Writer
}

// NewTable creates a table with highlighted headers rendering to out.
func NewTable(out io.Writer, headers ...string) *Table {
	w := table.NewWriter()
	w.SetOutputMirror(out)
	w.SetStyle(table.StyleRounded)

	row := make(table.Row, 0, len(headers))
	for _, h := range headers {
		row = append(row, text.FgHiCyan.Sprint(h))
	}
	w.AppendHeader(row)

	return &Table{writer: w}
}

// AddRow appends one row of cells.
func (t *Table) AddRow(cells ...any) {
	row := make(table.Row, 0, len(cells))
	row = append(row, cells...)
	t.writer.AppendRow(row)
}

// Render writes the table to the configured output.
func (t *Table) Render() {
	t.writer.Render()
}

// StatusOK renders a green success cell.
func StatusOK(label string) string {
	return text.FgGreen.Sprint(label)
}

// StatusFailed renders a red failure cell.
func StatusFailed(label string) string {
	return text.FgRed.Sprint(label)
}

// StatusWarn renders a yellow warning cell.
func StatusWarn(label string) string {
	return text.FgYellow.Sprint(label)
}

// StatusMuted renders a dim informational cell.
func StatusMuted(label string) string {
	return text.FgHiBlack.Sprint(label)
}
