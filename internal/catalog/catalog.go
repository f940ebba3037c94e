// Package catalog loads chapter catalogues from TOML, XLSX and CSV files.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/pyqtrack/internal/model"
)

//go:embed default.toml
var defaultCatalog []byte

var (
	// ErrInvalidRecord marks a record with missing or negative fields.
	ErrInvalidRecord = errors.New("invalid chapter record")
	// ErrDuplicateChapter marks a repeated (subject, chapter) key.
	ErrDuplicateChapter = errors.New("duplicate chapter")
)

type fileCatalog struct {
	Chapters []fileChapter `toml:"chapter"`
}

type fileChapter struct {
	Subject string         `toml:"subject"`
	Class   string         `toml:"class"`
	Unit    string         `toml:"unit"`
	Chapter string         `toml:"chapter"`
	Status  string         `toml:"status"`
	Solved  int            `toml:"solved"`
	Weak    bool           `toml:"weak,omitempty"`
	Years   map[string]int `toml:"years"`
}

// Default returns the embedded catalogue.
func Default() ([]model.Record, error) {
	return decodeEmbedded(defaultCatalog)
}

func decodeEmbedded(data []byte) ([]model.Record, error) {
	records, err := decodeTOML(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode default catalog: %w", err)
	}
	if err := Validate(records); err != nil {
		return nil, fmt.Errorf("invalid default catalog: %w", err)
	}
	return records, nil
}

// Load reads a catalogue from path, choosing the format by extension.
// An empty path returns the embedded catalogue.
func Load(path string) ([]model.Record, error) {
	if path == "" {
		return Default()
	}
	var (
		records []model.Record
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		records, err = LoadTOML(path)
	case ".xlsx":
		records, err = LoadXLSX(path, "")
	case ".csv":
		records, err = LoadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q (use .toml, .xlsx or .csv)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if err := Validate(records); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return records, nil
}

// LoadTOML reads a TOML catalogue of [[chapter]] tables.
func LoadTOML(path string) ([]model.Record, error) {
	var cat fileCatalog
	if _, err := toml.DecodeFile(path, &cat); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return fromFile(cat)
}

func decodeTOML(r io.Reader) ([]model.Record, error) {
	var cat fileCatalog
	if _, err := toml.NewDecoder(r).Decode(&cat); err != nil {
		return nil, err
	}
	return fromFile(cat)
}

func fromFile(cat fileCatalog) ([]model.Record, error) {
	records := make([]model.Record, 0, len(cat.Chapters))
	for i, ch := range cat.Chapters {
		status, err := model.ParseStatus(ch.Status)
		if err != nil {
			return nil, fmt.Errorf("chapter %d (%s): %w", i+1, ch.Chapter, err)
		}
		years := make(map[int]int, len(ch.Years))
		for label, n := range ch.Years {
			year, err := parseYear(label)
			if err != nil {
				return nil, fmt.Errorf("chapter %d (%s): %w", i+1, ch.Chapter, err)
			}
			years[year] = n
		}
		records = append(records, model.Record{
			Subject:        strings.TrimSpace(ch.Subject),
			Class:          strings.TrimSpace(ch.Class),
			Unit:           strings.TrimSpace(ch.Unit),
			Chapter:        strings.TrimSpace(ch.Chapter),
			Status:         status,
			QuestionSolved: ch.Solved,
			YearCounts:     years,
			Weak:           ch.Weak,
		})
	}
	return records, nil
}

// Write encodes records as a TOML catalogue readable by LoadTOML.
func Write(w io.Writer, records []model.Record) error {
	cat := fileCatalog{Chapters: make([]fileChapter, 0, len(records))}
	for _, r := range records {
		years := make(map[string]int, len(r.YearCounts))
		for y, n := range r.YearCounts {
			years[strconv.Itoa(y)] = n
		}
		cat.Chapters = append(cat.Chapters, fileChapter{
			Subject: r.Subject,
			Class:   r.Class,
			Unit:    r.Unit,
			Chapter: r.Chapter,
			Status:  r.Status.String(),
			Solved:  r.QuestionSolved,
			Weak:    r.Weak,
			Years:   years,
		})
	}
	if err := toml.NewEncoder(w).Encode(cat); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return nil
}

func parseYear(label string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(label))
	if err != nil || year < 1900 || year > 2200 {
		return 0, fmt.Errorf("invalid year %q", label)
	}
	return year, nil
}
