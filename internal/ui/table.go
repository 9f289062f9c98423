package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// columnGap separates table columns.
const columnGap = "  "

// Table is a plain column-aligned table in the style of `column -t`: a
// header row, a dashed separator, then the rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable returns an empty table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// Append adds a row. Missing cells render empty and extra cells are dropped.
func (t *Table) Append(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render lays the table out. Widths are display widths, so styled or wide
// characters still line up.
func (t *Table) Render() string {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := range widths {
			if i < len(row) {
				if w := lipgloss.Width(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		parts := make([]string, len(widths))
		for i, w := range widths {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			pad := w - lipgloss.Width(cell)
			if style != nil {
				cell = style(cell)
			}
			parts[i] = cell + strings.Repeat(" ", pad)
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, columnGap), " "))
		b.WriteString("\n")
	}

	writeRow(t.Headers, RenderLabel)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep, RenderMuted)
	for _, row := range t.Rows {
		writeRow(row, nil)
	}
	return b.String()
}
