package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pyqtrack/internal/model"
)

func TestFilterChipsDescribeSpec(t *testing.T) {
	spec := model.DefaultFilterSpec()
	spec.Classes = []string{"Class 11"}
	spec.WeakOnly = true
	spec.WhereExpr = "total > 5"

	out := renderChips(filterChips(spec))
	if !containsAll(out, []string{"Status: All", "Classes: Class 11", "Units: all", "Weak only", "Sort: chapter asc", "Where: total > 5"}) {
		t.Fatalf("chips missing segments: %s", out)
	}
}

func TestFilterChipsOmitInactiveExtras(t *testing.T) {
	out := renderChips(filterChips(model.DefaultFilterSpec()))
	if strings.Contains(out, "Weak only") || strings.Contains(out, "Where:") {
		t.Fatalf("unexpected chips for default spec: %s", out)
	}
}

func TestWrapChipsBreaksLines(t *testing.T) {
	chips := []chip{
		{s: "aaaa", width: 4},
		{s: "bbbb", width: 4},
		{s: "cc", width: 2},
	}
	if got := wrapChips(chips, 10); got != "aaaabbbbcc" {
		t.Fatalf("unexpected single line %q", got)
	}
	if got := wrapChips(chips, 8); got != "aaaabbbb\ncc" {
		t.Fatalf("unexpected wrap %q", got)
	}
}

func TestWrapChipsTruncatesWideChip(t *testing.T) {
	spec := model.DefaultFilterSpec()
	spec.WhereExpr = `weak && total > 20 && chapter != "Units and Dimensions" && years[2024] > 3`

	out := wrapChips(filterChips(spec), 30)
	for _, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 30 {
			t.Fatalf("chip line wider than 30: %d %q", w, line)
		}
	}
	if !strings.Contains(out, "Where: weak") || !strings.Contains(out, "…") {
		t.Fatalf("expected shortened where chip, got %q", out)
	}
}
