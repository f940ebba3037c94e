package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/verte-zerg/pyqtrack/internal/model"
	"github.com/verte-zerg/pyqtrack/internal/report"
)

var (
	chipStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Padding(0, 1)
	activeChipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true).Padding(0, 1)
)

type chip struct {
	label  string
	active bool
	s      string
	width  int
}

func newChip(label string, active bool) chip {
	style := chipStyle
	if active {
		style = activeChipStyle
	}
	s := style.Render(label)
	return chip{label: label, active: active, s: s, width: lipgloss.Width(s)}
}

// fit shortens the label so the rendered chip is at most width cells.
func (c chip) fit(width int) chip {
	if c.width <= width {
		return c
	}
	padding := c.width - lipgloss.Width(c.label)
	return newChip(report.Truncate(c.label, maxInt(1, width-padding)), c.active)
}

// filterChips describes the active filters, highlighting the ones that
// restrict the view.
func filterChips(spec model.FilterSpec) []chip {
	chips := []chip{
		newChip("Status: "+spec.Status.String(), spec.Status != model.StatusAll),
		newChip("Classes: "+selectionLabel(spec.Classes), len(spec.Classes) > 0),
		newChip("Units: "+selectionLabel(spec.Units), len(spec.Units) > 0),
	}
	if spec.WeakOnly {
		chips = append(chips, newChip("Weak only", true))
	}
	chips = append(chips, newChip(fmt.Sprintf("Sort: %s %s", spec.SortBy, spec.Order), false))
	if spec.WhereExpr != "" {
		chips = append(chips, newChip("Where: "+spec.WhereExpr, true))
	}
	return chips
}

func selectionLabel(values []string) string {
	if len(values) == 0 {
		return "all"
	}
	return strings.Join(lo.Uniq(values), ", ")
}

func renderChips(chips []chip) string {
	var b strings.Builder
	for _, c := range chips {
		b.WriteString(c.s)
	}
	return b.String()
}

// wrapChips lays chips out left to right, starting a new line when the next
// chip would overflow width. A chip wider than width is shortened to fit.
func wrapChips(chips []chip, width int) string {
	if width <= 0 {
		return renderChips(chips)
	}
	var out strings.Builder
	line := make([]chip, 0, len(chips))
	lineWidth := 0
	for _, item := range chips {
		item = item.fit(width)
		if lineWidth+item.width > width && len(line) > 0 {
			out.WriteString(renderChips(line))
			out.WriteRune('\n')
			line = line[:0]
			lineWidth = 0
		}
		line = append(line, item)
		lineWidth += item.width
	}
	out.WriteString(renderChips(line))
	return out.String()
}
