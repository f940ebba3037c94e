package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/pyqtrack/internal/chapter"
	"github.com/verte-zerg/pyqtrack/internal/model"
)

const (
	barChar       = "#"
	minBarWidth   = 10
	yearLabelSize = 4
)

// YearTotal is the number of questions asked across chapters in one year.
type YearTotal struct {
	Year      int
	Questions int
}

// YearTotals sums question counts per year, oldest first.
func YearTotals(records []model.Record) []YearTotal {
	years := chapter.Years(records)
	out := make([]YearTotal, len(years))
	for i, y := range years {
		out[i].Year = y
		for _, r := range records {
			out[i].Questions += r.QuestionsIn(y)
		}
	}
	return out
}

// RenderYearBars prints one horizontal bar per year scaled to width.
func RenderYearBars(w io.Writer, records []model.Record, width int) error {
	totals := YearTotals(records)
	if len(totals) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}
	peak := 0
	for _, t := range totals {
		if t.Questions > peak {
			peak = t.Questions
		}
	}
	countWidth := len(fmt.Sprintf("%d", peak))
	barWidth := width - yearLabelSize - countWidth - 4
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	for _, t := range totals {
		n := 0
		if peak > 0 {
			n = t.Questions * barWidth / peak
		}
		if _, err := fmt.Fprintf(w, "%d %*d %s\n", t.Year, countWidth, t.Questions, strings.Repeat(barChar, n)); err != nil {
			return err
		}
	}
	return nil
}
