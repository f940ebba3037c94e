package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/pyqtrack/internal/chapter"
	"github.com/verte-zerg/pyqtrack/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 100
	minChapterWidth     = 12
	recentYears         = 2
)

// EmptyMessage is printed when a filter matches nothing.
const EmptyMessage = "No chapters found matching your filters."

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// YearSeries returns the record's counts for years, oldest first, with zero
// for missing years.
func YearSeries(r model.Record, years []int) []float64 {
	out := make([]float64, len(years))
	for i, y := range years {
		out[i] = float64(r.QuestionsIn(y))
	}
	return out
}

// RecentYears returns up to n of the newest years, newest first.
func RecentYears(years []int, n int) []int {
	out := make([]int, 0, n)
	for i := len(years) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, years[i])
	}
	return out
}

// SummaryLine formats the counts shown above the chapter list.
func SummaryLine(st chapter.Stats) string {
	return fmt.Sprintf("Showing %d chapters  Completed: %d  In Progress: %d  Not Started: %d  Weak: %d",
		st.Total, st.Completed, st.InProgress, st.NotStarted, st.Weak)
}

// RenderSummary prints the summary line for a view.
func RenderSummary(w io.Writer, st chapter.Stats) error {
	_, err := fmt.Fprintln(w, SummaryLine(st))
	return err
}

// RenderChapterTable prints records as an aligned table fitted to width.
// A width of zero uses the terminal width of stdout.
func RenderChapterTable(w io.Writer, records []model.Record, width int) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}
	if width <= 0 {
		width = terminalWidth()
	}
	years := chapter.Years(records)
	recent := RecentYears(years, recentYears)

	table := textTable{columns: []textColumn{
		{title: "Chapter", flex: true, minWidth: minChapterWidth},
		{title: "Class"},
		{title: "Unit"},
	}}
	for _, y := range recent {
		table.columns = append(table.columns, textColumn{title: fmt.Sprintf("%d", y), align: alignRight})
	}
	table.columns = append(table.columns,
		textColumn{title: "Solved", align: alignRight},
		textColumn{title: "Progress", align: alignRight},
		textColumn{title: "Status"},
		textColumn{title: "Weak"},
		textColumn{title: "Trend"},
	)

	for _, r := range records {
		row := []string{r.Chapter, r.Class, r.Unit}
		for _, y := range recent {
			row = append(row, fmt.Sprintf("%dq", r.QuestionsIn(y)))
		}
		weak := ""
		if r.Weak {
			weak = "weak"
		}
		row = append(row,
			fmt.Sprintf("%d/%d", r.QuestionSolved, r.TotalQuestions()),
			fmt.Sprintf("%.0f%%", r.ProgressPercent()),
			r.Status.String(),
			weak,
			Sparkline(YearSeries(r, years)),
		)
		table.addRow(row...)
	}

	for _, line := range table.lines(width) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
