package catalog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/pyqtrack/internal/model"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	records, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if len(records) == 0 {
		t.Fatalf("expected embedded chapters")
	}
	if err := Validate(records); err != nil {
		t.Fatalf("embedded catalog invalid: %v", err)
	}
	subjects := map[string]bool{}
	for _, r := range records {
		subjects[r.Subject] = true
		if r.TotalQuestions() == 0 {
			t.Fatalf("expected year counts for %s", r.Chapter)
		}
	}
	for _, s := range []string{"Physics", "Chemistry", "Mathematics"} {
		if !subjects[s] {
			t.Fatalf("expected subject %s in default catalog", s)
		}
	}
}

func TestWriteThenLoadTOML(t *testing.T) {
	in := []model.Record{
		{Subject: "Physics", Class: "Class 11", Unit: "Heat", Chapter: "Thermo", Status: model.InProgress, QuestionSolved: 8, YearCounts: map[int]int{2024: 4, 2025: 4}, Weak: true},
	}
	var buf bytes.Buffer
	if err := Write(&buf, in); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	got := out[0]
	if got.Chapter != "Thermo" || got.Status != model.InProgress || !got.Weak || got.QuestionsIn(2025) != 4 || got.TotalQuestions() != 8 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestLoadCSV(t *testing.T) {
	content := "Subject,Class,Unit,Chapter,Status,Solved,Weak,2025,2024\n" +
		"Physics,Class 11,Mechanics 1,Kinematics,In Progress,5,no,,10\n" +
		"\n" +
		"Chemistry,Class 12,Organic Chemistry,Amines,not-started,0,yes,3,0\n"
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].QuestionsIn(2024) != 10 || records[0].QuestionsIn(2025) != 0 {
		t.Fatalf("unexpected year counts: %+v", records[0].YearCounts)
	}
	if !records[1].Weak || records[1].Status != model.NotStarted {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Subject", "Class", "Unit", "Chapter", "Status", "Questions Solved", "Weak", "2025", "2024"},
		{"Mathematics", "Class 12", "Calculus", "Limits", "Completed", 20, "x", 12, 8},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		row := row
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Chapter != "Limits" || r.Status != model.Completed || r.QuestionSolved != 20 || !r.Weak || r.TotalQuestions() != 20 {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestValidateRejectsDuplicates(t *testing.T) {
	records := []model.Record{
		{Subject: "Physics", Chapter: "Optics"},
		{Subject: "Chemistry", Chapter: "Optics"},
		{Subject: "Physics", Chapter: "Optics"},
	}
	err := Validate(records)
	if !errors.Is(err, ErrDuplicateChapter) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestValidateRejectsNegativeCounts(t *testing.T) {
	err := Validate([]model.Record{{Subject: "Physics", Chapter: "Optics", YearCounts: map[int]int{2024: -1}}})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected invalid record error, got %v", err)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	if _, err := Load("catalog.json"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestCSVMissingChapterColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("Subject,Unit\nPhysics,Heat\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected missing column error")
	}
}

func TestValidateDescribesFieldErrors(t *testing.T) {
	cases := []struct {
		record model.Record
		want   string
	}{
		{model.Record{Subject: "  ", Chapter: "Optics"}, "subject is required"},
		{model.Record{Subject: "Physics", Chapter: "Optics", QuestionSolved: -2}, "solved must not be negative"},
		{model.Record{Subject: "Physics", Chapter: "Optics", YearCounts: map[int]int{2023: -4}}, "years[2023] must not be negative"},
	}
	for _, tc := range cases {
		err := Validate([]model.Record{tc.record})
		if !errors.Is(err, ErrInvalidRecord) {
			t.Fatalf("expected invalid record error, got %v", err)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("expected %q in %q", tc.want, err.Error())
		}
	}
}

func TestDecodeEmbeddedValidates(t *testing.T) {
	data := []byte(`[[chapter]]
subject = "Physics"
class = "Class 11"
unit = "Optics"
chapter = "Ray Optics"
years = { 2024 = 3 }

[[chapter]]
subject = "Physics"
class = "Class 12"
unit = "Optics"
chapter = "Ray Optics"
years = { 2025 = 2 }
`)
	if _, err := decodeEmbedded(data); !errors.Is(err, ErrDuplicateChapter) {
		t.Fatalf("expected duplicate error from embedded data, got %v", err)
	}
	if _, err := decodeEmbedded([]byte("[[chapter]]\nsubject = \"\"\nchapter = \"Optics\"\n")); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected invalid record error from embedded data, got %v", err)
	}
}

func TestNewValidatorRegistersNotBlank(t *testing.T) {
	v := newValidator()
	if err := v.Var("  ", notBlankTag); err == nil {
		t.Fatalf("expected blank value to fail %s", notBlankTag)
	}
	if err := v.Var("Optics", notBlankTag); err != nil {
		t.Fatalf("expected value to pass %s: %v", notBlankTag, err)
	}
}
