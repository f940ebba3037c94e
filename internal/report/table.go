// Package report renders chapter views as plain text.
package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const columnGap = "  "

type alignment int

const (
	alignLeft alignment = iota
	alignRight
)

// textColumn describes one column of a plain-text table. A flexible column
// is truncated, down to minWidth, when the table is wider than the target.
type textColumn struct {
	title    string
	align    alignment
	flex     bool
	minWidth int
}

type textTable struct {
	columns []textColumn
	rows    [][]string
}

func (t *textTable) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// lines renders the header and rows. A positive width shrinks the flexible
// column until the widest line fits or the column reaches its minimum.
func (t textTable) lines(width int) []string {
	if len(t.columns) == 0 {
		return nil
	}
	widths := t.naturalWidths()
	if width > 0 {
		t.fit(widths, width)
	}
	out := make([]string, 0, len(t.rows)+1)
	header := make([]string, len(t.columns))
	for i, c := range t.columns {
		header[i] = c.title
	}
	out = append(out, t.formatRow(header, widths))
	for _, row := range t.rows {
		out = append(out, t.formatRow(row, widths))
	}
	return out
}

func (t textTable) naturalWidths() []int {
	widths := make([]int, len(t.columns))
	for i, c := range t.columns {
		widths[i] = displayWidth(c.title)
	}
	for _, row := range t.rows {
		for i := range t.columns {
			if i < len(row) {
				widths[i] = max(widths[i], displayWidth(row[i]))
			}
		}
	}
	return widths
}

func (t textTable) fit(widths []int, width int) {
	total := len(columnGap) * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	overflow := total - width
	for i, c := range t.columns {
		if overflow <= 0 {
			return
		}
		if !c.flex || widths[i] <= c.minWidth {
			continue
		}
		cut := min(overflow, widths[i]-c.minWidth)
		widths[i] -= cut
		overflow -= cut
	}
}

func (t textTable) formatRow(row []string, widths []int) string {
	var b strings.Builder
	for i, c := range t.columns {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString(columnGap)
		}
		b.WriteString(padCell(Truncate(cell, widths[i]), widths[i], c.align))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, align alignment) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := strings.Repeat(" ", width-valueWidth)
	if align == alignRight {
		return padding + value
	}
	return value + padding
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}

// Truncate shortens value to width cells, ending with an ellipsis when cut.
func Truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	return runewidth.Truncate(value, width, "…")
}
