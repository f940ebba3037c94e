package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pyqtrack/internal/report"
)

const recentYears = 2

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	statsStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.mode == modePicker {
		return fitLines(m.renderPickerModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(m.renderHeader())
	footerHeight = 1
	if m.mode == modeBrowse && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.setTableSize(m.width, bodyHeight-1)
	promptWidth := lipgloss.Width(m.whereInput.Prompt)
	m.whereInput.Width = maxInt(10, m.width-promptWidth-2)
}

func (m *Model) renderTabs() string {
	current := m.store.State().Spec
	parts := make([]string, 0, len(m.subjects))
	for i, subject := range m.subjects {
		active := subject == current.Subject || (i == 0 && current.AnySubject())
		if active {
			parts = append(parts, activeNavStyle.Render(subject))
		} else {
			parts = append(parts, inactiveNavStyle.Render(subject))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	chips := wrapChips(filterChips(m.store.State().Spec), m.width)
	return tabs + "\n" + chips
}

func (m *Model) renderBody(height int) string {
	if m.mode == modeWhere {
		return fitLines(m.renderWhereForm(), m.width, height)
	}
	state := m.store.State()
	lines := []string{statsStyle.Render(truncateLine(report.SummaryLine(state.Stats), m.width))}
	if len(state.Filtered) == 0 {
		lines = append(lines, "", report.EmptyMessage)
	} else {
		lines = append(lines, tableMutedStyle.Render(m.table.View()))
	}
	return fitLines(strings.Join(lines, "\n"), m.width, height)
}

func (m *Model) renderWhereForm() string {
	lines := []string{
		"Where expression (enter to apply, empty clears, esc to cancel)",
		m.whereInput.View(),
		headerStyle.Render("Fields: subject class unit chapter status solved total weak years[2024]"),
	}
	if m.whereError != "" {
		lines = append(lines, errorStyle.Render(truncateLine(m.whereError, m.width)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHelp() string {
	help := "Subject: left/right  Classes: c  Units: u  Status: n/f  Weak only: w  Sort: o/s/O  Where: /  Reset: r  Mark weak: space  Solved: +/-  Quit: q"
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	switch m.mode {
	case modeWhere:
		return headerStyle.Render("enter: apply  esc: cancel")
	case modePicker:
		return headerStyle.Render("up/down: move  space: toggle  a: clear  enter: apply  esc: cancel")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return m.renderHelp()
}

func (m *Model) renderPickerModal() string {
	body := []string{titleStyle.Render("Select " + m.picker.title)}
	body = append(body, m.picker.lines(modalInnerWidth(m.width), maxInt(3, m.height-8))...)
	body = append(body, headerStyle.Render("space: toggle  a: clear  enter: apply  esc: cancel"))
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) refreshTable() {
	rows := buildRows(m.store.State().Filtered, m.columns)
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(maxInt(0, len(rows)-1))
	}
}

// setTableSize replans the columns when the width changes and resizes the
// viewport when the height changes, keeping the cursor row on screen.
func (m *Model) setTableSize(width, height int) {
	height = maxInt(1, height)
	if m.tableLayout.width != width {
		m.tableLayout.width = width
		m.tableLayout.height = 0
		cursor := m.table.Cursor()
		m.columns = planColumns(m.years, width)
		m.table.SetRows(nil)
		m.table.SetColumns(tableColumns(m.columns))
		m.table.SetRows(buildRows(m.store.State().Filtered, m.columns))
		m.table.SetCursor(cursor)
		m.table.SetWidth(width)
	}
	if m.tableLayout.height == height {
		return
	}
	m.tableLayout.height = height
	m.table.SetHeight(height)
	m.adjustTableHeight(height)
	m.revealCursor()
}

// revealCursor scrolls the viewport so the cursor row is visible after a
// resize.
func (m *Model) revealCursor() {
	cursor := m.table.Cursor()
	m.table.GotoTop()
	m.table.MoveDown(cursor)
}

// adjustTableHeight corrects for header lines the table adds to its
// viewport height.
func (m *Model) adjustTableHeight(target int) {
	for i := 0; i < 2; i++ {
		viewHeight := lipgloss.Height(m.table.View())
		if viewHeight == target {
			return
		}
		height := m.table.Height() + target - viewHeight
		if height < 1 {
			height = 1
		}
		m.table.SetHeight(height)
	}
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

// padLine pads line to width and cuts anything beyond it.
func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	if lineWidth > width {
		return lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return report.Truncate(s, width)
}
