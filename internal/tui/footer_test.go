package tui

import (
	"strings"
	"testing"
)

func TestRenderFooterFormats(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.width = 300

	out := m.renderFooter()
	if strings.Contains(out, "\n") {
		t.Fatalf("expected single footer line, got %q", out)
	}
	if !containsAll(out, []string{"Subject: left/right", "Sort: o/s/O", "Quit: q"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}

	m.errMsg = "failed to save progress: boom"
	out = m.renderFooter()
	if lines := strings.Split(out, "\n"); len(lines) != 2 {
		t.Fatalf("expected error line in footer, got %q", out)
	}
}

func TestRenderFooterTruncates(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.width = 20

	if got := len([]rune(m.renderFooter())); got > 20 {
		t.Fatalf("expected footer to fit width, got %d runes", got)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
