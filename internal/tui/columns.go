package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/verte-zerg/pyqtrack/internal/model"
)

type columnKind int

const (
	colChapter columnKind = iota
	colClass
	colUnit
	colYear
	colSolved
	colProgress
	colStatus
	colWeak
)

const (
	// Every table cell is followed by one padding cell.
	cellPadding = 1

	minChapterWidth    = 16
	classWidth         = 8
	unitWidth          = 18
	narrowUnitWidth    = 10
	yearWidth          = 5
	solvedWidth        = 7
	statusWidth        = 11
	weakWidth          = 4
	progressBarWidth   = 10
	narrowProgressBar  = 5
	progressLabelWidth = 5 // " 100%"
)

type column struct {
	kind  columnKind
	title string
	width int
	year  int
}

// columnPlan is the set of optional columns shown at a given terminal width.
type columnPlan struct {
	years     []int
	unitWidth int
	barWidth  int
	showUnit  bool
	showClass bool
}

func (p columnPlan) columns(chapterWidth int) []column {
	cols := []column{{kind: colChapter, title: "Chapter", width: chapterWidth}}
	if p.showClass {
		cols = append(cols, column{kind: colClass, title: "Class", width: classWidth})
	}
	if p.showUnit {
		cols = append(cols, column{kind: colUnit, title: "Unit", width: p.unitWidth})
	}
	for _, y := range p.years {
		cols = append(cols, column{kind: colYear, title: fmt.Sprintf("%d", y), width: yearWidth, year: y})
	}
	progressWidth := progressLabelWidth - 1
	if p.barWidth > 0 {
		progressWidth = p.barWidth + progressLabelWidth
	}
	return append(cols,
		column{kind: colSolved, title: "Solved", width: solvedWidth},
		column{kind: colProgress, title: "Progress", width: progressWidth},
		column{kind: colStatus, title: "Status", width: statusWidth},
		column{kind: colWeak, title: "Weak", width: weakWidth},
	)
}

// shrink drops or narrows one optional column. It reports false once only
// the essential columns are left.
func (p *columnPlan) shrink() bool {
	switch {
	case p.showUnit && p.unitWidth > narrowUnitWidth:
		p.unitWidth = narrowUnitWidth
	case p.barWidth > narrowProgressBar:
		p.barWidth = narrowProgressBar
	case len(p.years) > 0:
		p.years = p.years[:len(p.years)-1]
	case p.showUnit:
		p.showUnit = false
	case p.showClass:
		p.showClass = false
	case p.barWidth > 0:
		p.barWidth = 0
	default:
		return false
	}
	return true
}

// planColumns fits the chapter table into width. The chapter column gives
// up its slack first; below its minimum, optional columns are narrowed and
// then dropped, oldest year first.
func planColumns(years []int, width int) []column {
	plan := columnPlan{
		years:     append([]int(nil), years...),
		unitWidth: unitWidth,
		barWidth:  progressBarWidth,
		showUnit:  true,
		showClass: true,
	}
	for columnsWidth(plan.columns(minChapterWidth)) > width {
		if !plan.shrink() {
			break
		}
	}
	fixed := columnsWidth(plan.columns(0)) - cellPadding
	return plan.columns(maxInt(minChapterWidth, width-fixed-cellPadding))
}

// columnsWidth is the rendered width of a table row.
func columnsWidth(cols []column) int {
	total := 0
	for _, c := range cols {
		total += c.width + cellPadding
	}
	return total
}

func tableColumns(cols []column) []table.Column {
	out := make([]table.Column, 0, len(cols))
	for _, c := range cols {
		out = append(out, table.Column{Title: c.title, Width: c.width})
	}
	return out
}

func buildRows(records []model.Record, cols []column) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		row := make(table.Row, 0, len(cols))
		for _, c := range cols {
			row = append(row, cellValue(r, c))
		}
		rows = append(rows, row)
	}
	return rows
}

func cellValue(r model.Record, c column) string {
	switch c.kind {
	case colChapter:
		return r.Chapter
	case colClass:
		return r.Class
	case colUnit:
		return r.Unit
	case colYear:
		return fmt.Sprintf("%d", r.QuestionsIn(c.year))
	case colSolved:
		return fmt.Sprintf("%d/%d", r.QuestionSolved, r.TotalQuestions())
	case colProgress:
		if bar := c.width - progressLabelWidth; bar > 0 {
			return progressBar(r.ProgressPercent(), bar)
		}
		return fmt.Sprintf("%3.0f%%", r.ProgressPercent())
	case colStatus:
		return r.Status.String()
	case colWeak:
		if r.Weak {
			return "weak"
		}
	}
	return ""
}

// progressBar draws pct, already clamped to [0, 100], as a fixed-width bar.
func progressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(pct / 100 * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf(" %3.0f%%", pct)
}
