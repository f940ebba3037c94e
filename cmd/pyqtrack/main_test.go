package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/pyqtrack/internal/catalog"
	"github.com/verte-zerg/pyqtrack/internal/config"
	"github.com/verte-zerg/pyqtrack/internal/model"
	"github.com/verte-zerg/pyqtrack/internal/report"
)

func setupXDG(t *testing.T) string {
	t.Helper()
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	return cfgHome
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestClassesCmd(t *testing.T) {
	setupXDG(t)
	out, err := runCLI(t, "classes")
	if err != nil {
		t.Fatalf("classes: %v", err)
	}
	if out != "Class 11\nClass 12\n" {
		t.Fatalf("unexpected classes output %q", out)
	}
}

func TestUnitsCmdForSubject(t *testing.T) {
	setupXDG(t)
	out, err := runCLI(t, "units", "--subject", "Physics")
	if err != nil {
		t.Fatalf("units: %v", err)
	}
	want := "Electricity and Magnetism\nMechanics 1\nMechanics 2\nModern Physics\nOptics\nThermal Physics\n"
	if out != want {
		t.Fatalf("unexpected units output %q", out)
	}

	if _, err := runCLI(t, "units", "--subject", "Biology"); err == nil {
		t.Fatalf("expected error for unknown subject")
	}
}

func TestProgressSetListAndReset(t *testing.T) {
	setupXDG(t)

	out, err := runCLI(t, "--persist", "progress", "set", "Units and Dimensions", "--solved", "10")
	if err != nil {
		t.Fatalf("progress set: %v", err)
	}
	if !strings.Contains(out, "Physics / Units and Dimensions: 10/33 (In Progress)") {
		t.Fatalf("unexpected progress output %q", out)
	}

	out, err = runCLI(t, "--persist", "list", "--subject", "Physics", "--where", `chapter == "Units and Dimensions"`)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "10/33") || !strings.Contains(out, "Showing 1 chapters") {
		t.Fatalf("expected saved progress in list, got %q", out)
	}

	out, err = runCLI(t, "--persist", "progress", "reset")
	if err != nil {
		t.Fatalf("progress reset: %v", err)
	}
	if strings.TrimSpace(out) != "Cleared saved progress for 1 chapters" {
		t.Fatalf("unexpected reset output %q", out)
	}
}

func TestProgressSetExplicitStatus(t *testing.T) {
	setupXDG(t)
	out, err := runCLI(t, "--persist", "progress", "set", "Units and Dimensions", "--solved", "0", "--status", "completed")
	if err != nil {
		t.Fatalf("progress set: %v", err)
	}
	if !strings.Contains(out, "0/33 (Completed)") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestProgressSetUnknownChapter(t *testing.T) {
	setupXDG(t)
	if _, err := runCLI(t, "--persist", "progress", "set", "Astrology", "--solved", "1"); err == nil {
		t.Fatalf("expected error for unknown chapter")
	}
}

func TestProgressWeakToggle(t *testing.T) {
	setupXDG(t)
	out, err := runCLI(t, "--persist", "progress", "weak", "Physics", "Laws of Motion")
	if err != nil {
		t.Fatalf("progress weak: %v", err)
	}
	if strings.TrimSpace(out) != "Physics / Laws of Motion: not weak" {
		t.Fatalf("unexpected output %q", out)
	}
	out, err = runCLI(t, "--persist", "progress", "weak", "Physics", "Laws of Motion")
	if err != nil {
		t.Fatalf("progress weak: %v", err)
	}
	if strings.TrimSpace(out) != "Physics / Laws of Motion: weak" {
		t.Fatalf("expected flag back on, got %q", out)
	}
}

func TestProgressCommandsNeedPersist(t *testing.T) {
	setupXDG(t)
	if _, err := runCLI(t, "progress", "reset"); err == nil {
		t.Fatalf("expected error without database")
	}
	if _, err := os.Stat(config.DefaultDBPath()); !os.IsNotExist(err) {
		t.Fatalf("expected no database file by default, stat err=%v", err)
	}
}

func TestConfigFileAppliesUnlessFlagSet(t *testing.T) {
	cfgHome := setupXDG(t)
	path := filepath.Join(cfgHome, "pyqtrack", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("[dashboard]\npersist = true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := runCLI(t, "progress", "reset"); err != nil {
		t.Fatalf("expected config persist to open the database: %v", err)
	}
	if _, err := runCLI(t, "--persist=false", "progress", "reset"); err == nil {
		t.Fatalf("expected flag to override config")
	}
}

func TestStatsCmd(t *testing.T) {
	setupXDG(t)
	out, err := runCLI(t, "stats", "--status", "not-started", "--subject", "Chemistry")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.HasPrefix(out, "Showing ") || !strings.Contains(out, "Completed: 0  In Progress: 0") || !strings.Contains(out, "Questions per year:") {
		t.Fatalf("unexpected stats output %q", out)
	}
}

func TestListEmptyResult(t *testing.T) {
	setupXDG(t)
	out, err := runCLI(t, "list", "--where", "total > 100000")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.TrimSpace(out) != report.EmptyMessage {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestListRejectsBadFlags(t *testing.T) {
	setupXDG(t)
	cases := [][]string{
		{"list", "--sort", "size"},
		{"list", "--order", "sideways"},
		{"list", "--status", "maybe"},
		{"list", "--where", "solved +"},
		{"list", "--where", "chapter"},
	}
	for _, args := range cases {
		if _, err := runCLI(t, args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestCatalogExportRoundTrip(t *testing.T) {
	setupXDG(t)
	if _, err := runCLI(t, "--persist", "progress", "set", "Units and Dimensions", "--solved", "4"); err != nil {
		t.Fatalf("progress set: %v", err)
	}
	path := filepath.Join(t.TempDir(), "export", "catalog.toml")
	if _, err := runCLI(t, "--persist", "catalog", "export", "--out", path); err != nil {
		t.Fatalf("export: %v", err)
	}
	records, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("load export: %v", err)
	}
	if len(records) != 66 {
		t.Fatalf("expected 66 chapters, got %d", len(records))
	}
	for _, r := range records {
		if r.Key() == (model.Key{Subject: "Physics", Chapter: "Units and Dimensions"}) {
			if r.QuestionSolved != 4 || r.Status != model.InProgress {
				t.Fatalf("expected saved progress in export, got %+v", r)
			}
			return
		}
	}
	t.Fatalf("exported catalog lost Units and Dimensions")
}

func TestDashboardSpec(t *testing.T) {
	records := []model.Record{{Subject: "Physics", Chapter: "Optics"}}
	spec, err := dashboardSpec(records, "Physics", "progress", "desc", true)
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	if spec.Subject != "Physics" || spec.SortBy != model.SortProgress || spec.Order != model.Desc || !spec.WeakOnly {
		t.Fatalf("unexpected spec %+v", spec)
	}
	if _, err := dashboardSpec(records, "Biology", "chapter", "asc", false); err == nil {
		t.Fatalf("expected unknown subject error")
	}
}
