package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/pyqtrack/internal/model"
)

// Column names recognised in the header row of tabular catalogues. Any
// header that parses as a year becomes a year-count column.
const (
	colSubject = "subject"
	colClass   = "class"
	colUnit    = "unit"
	colChapter = "chapter"
	colStatus  = "status"
	colSolved  = "solved"
	colWeak    = "weak"
)

// LoadXLSX reads a catalogue from sheet of an Excel workbook. An empty sheet
// name selects the first sheet.
func LoadXLSX(path, sheet string) ([]model.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only workbook.
			_ = cerr
		}
	}()
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return parseRows(rows)
}

// LoadCSV reads a catalogue from a CSV file with a header row.
func LoadCSV(path string) ([]model.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only catalog.
			_ = cerr
		}
	}()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return parseRows(rows)
}

type layout struct {
	named map[string]int
	years map[int]int
}

func parseHeader(header []string) (layout, error) {
	l := layout{named: map[string]int{}, years: map[int]int{}}
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		switch name {
		case colSubject, colClass, colUnit, colChapter, colStatus, colSolved, colWeak:
			l.named[name] = i
		case "questions solved", "question solved", "questionsolved":
			l.named[colSolved] = i
		case "weak chapter", "isweakchapter":
			l.named[colWeak] = i
		default:
			if year, err := parseYear(name); err == nil {
				l.years[year] = i
			}
		}
	}
	for _, required := range []string{colSubject, colChapter} {
		if _, ok := l.named[required]; !ok {
			return layout{}, fmt.Errorf("header is missing %q column", required)
		}
	}
	return l, nil
}

func parseRows(rows [][]string) ([]model.Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("catalog has no header row")
	}
	l, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}
	records := make([]model.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if blankRow(row) {
			continue
		}
		rec, err := l.record(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (l layout) record(row []string) (model.Record, error) {
	cell := func(name string) string {
		idx, ok := l.named[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	status, err := model.ParseStatus(cell(colStatus))
	if err != nil {
		return model.Record{}, err
	}
	solved, err := parseCount(cell(colSolved))
	if err != nil {
		return model.Record{}, fmt.Errorf("solved: %w", err)
	}
	weak, err := parseFlag(cell(colWeak))
	if err != nil {
		return model.Record{}, fmt.Errorf("weak: %w", err)
	}
	years := make(map[int]int, len(l.years))
	for year, idx := range l.years {
		if idx >= len(row) {
			continue
		}
		n, err := parseCount(row[idx])
		if err != nil {
			return model.Record{}, fmt.Errorf("%d: %w", year, err)
		}
		if n > 0 {
			years[year] = n
		}
	}
	return model.Record{
		Subject:        cell(colSubject),
		Class:          cell(colClass),
		Unit:           cell(colUnit),
		Chapter:        cell(colChapter),
		Status:         status,
		QuestionSolved: solved,
		YearCounts:     years,
		Weak:           weak,
	}, nil
}

func parseCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", raw)
	}
	return n, nil
}

func parseFlag(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y", "x":
		return true, nil
	}
	return false, fmt.Errorf("invalid flag %q", raw)
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
