package tui

import (
	"strings"
	"testing"
)

func TestPickerToggleAndSelectionOrder(t *testing.T) {
	p := newPicker(pickUnits, "Units", []string{"Mechanics", "Optics", "Waves"}, []string{"Waves", "Gone"})

	p.toggle()
	p.move(1)
	p.move(1)
	p.toggle()

	got := p.selection()
	if len(got) != 1 || got[0] != "Mechanics" {
		t.Fatalf("unexpected selection %v", got)
	}
}

func TestPickerMoveWraps(t *testing.T) {
	p := newPicker(pickClasses, "Classes", []string{"Class 11", "Class 12"}, nil)
	p.move(-1)
	if p.cursor != 1 {
		t.Fatalf("expected cursor to wrap to 1, got %d", p.cursor)
	}
	p.move(1)
	if p.cursor != 0 {
		t.Fatalf("expected cursor to wrap to 0, got %d", p.cursor)
	}
}

func TestPickerLinesScrollToCursor(t *testing.T) {
	p := newPicker(pickUnits, "Units", []string{"a", "b", "c", "d"}, []string{"d"})
	p.cursor = 3

	lines := p.lines(40, 2)
	if len(lines) != 2 {
		t.Fatalf("expected 2 visible lines, got %d", len(lines))
	}
	if !strings.Contains(lines[1], "> [x] d") {
		t.Fatalf("expected cursor line last, got %q", lines[1])
	}
	if !strings.Contains(lines[0], "[ ] c") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
}
