// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
)

// Status is the solve state of a chapter.
type Status int

const (
	NotStarted Status = iota
	InProgress
	Completed
)

// Statuses lists every status in declaration order.
var Statuses = []Status{NotStarted, InProgress, Completed}

// String returns the display label used in catalogues and sorting.
func (s Status) String() string {
	switch s {
	case InProgress:
		return "In Progress"
	case Completed:
		return "Completed"
	default:
		return "Not Started"
	}
}

// ParseStatus accepts display labels as well as compact forms like
// "in-progress" or "completed".
func ParseStatus(raw string) (Status, error) {
	switch normalizeLabel(raw) {
	case "notstarted", "":
		return NotStarted, nil
	case "inprogress":
		return InProgress, nil
	case "completed", "done":
		return Completed, nil
	}
	return NotStarted, fmt.Errorf("unknown status %q", raw)
}

// StatusFilter restricts a view to one status, or to none with StatusAll.
type StatusFilter int

const (
	StatusAll StatusFilter = iota
	StatusNotStarted
	StatusInProgress
	StatusCompleted
)

// String returns the filter label.
func (f StatusFilter) String() string {
	if f == StatusAll {
		return "All"
	}
	return f.Status().String()
}

// Status maps a concrete filter to its status. StatusAll maps to NotStarted
// and must be checked first.
func (f StatusFilter) Status() Status {
	switch f {
	case StatusInProgress:
		return InProgress
	case StatusCompleted:
		return Completed
	default:
		return NotStarted
	}
}

// FilterFor returns the filter matching exactly one status.
func FilterFor(s Status) StatusFilter {
	switch s {
	case InProgress:
		return StatusInProgress
	case Completed:
		return StatusCompleted
	default:
		return StatusNotStarted
	}
}

// ParseStatusFilter parses "all" or any status label.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	if n := normalizeLabel(raw); n == "" || n == "all" {
		return StatusAll, nil
	}
	s, err := ParseStatus(raw)
	if err != nil {
		return StatusAll, err
	}
	return FilterFor(s), nil
}

// SortKey selects the comparator used to order a view.
type SortKey string

const (
	SortChapter  SortKey = "chapter"
	SortStatus   SortKey = "status"
	SortProgress SortKey = "progress"
	SortWeak     SortKey = "weakChapters"
)

// SortKeys lists the keys in the order the dashboard cycles through them.
var SortKeys = []SortKey{SortChapter, SortStatus, SortProgress, SortWeak}

// ParseSortKey parses a sort key name, case-insensitively.
func ParseSortKey(raw string) (SortKey, error) {
	switch normalizeLabel(raw) {
	case "chapter", "name", "":
		return SortChapter, nil
	case "status":
		return SortStatus, nil
	case "progress":
		return SortProgress, nil
	case "weakchapters", "weak":
		return SortWeak, nil
	}
	return SortChapter, fmt.Errorf("unknown sort key %q", raw)
}

// SortOrder is the direction applied to a comparator.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseSortOrder parses "asc" or "desc".
func ParseSortOrder(raw string) (SortOrder, error) {
	switch normalizeLabel(raw) {
	case "asc", "":
		return Asc, nil
	case "desc":
		return Desc, nil
	}
	return Asc, fmt.Errorf("unknown sort order %q", raw)
}

// Flip returns the opposite direction.
func (o SortOrder) Flip() SortOrder {
	if o == Desc {
		return Asc
	}
	return Desc
}

// Key identifies a chapter within the catalogue.
type Key struct {
	Subject string
	Chapter string
}

// Record is one chapter of the catalogue with its solve progress.
type Record struct {
	Subject        string
	Class          string
	Unit           string
	Chapter        string
	Status         Status
	QuestionSolved int
	YearCounts     map[int]int
	Weak           bool
}

// Key returns the (subject, chapter) key of the record.
func (r Record) Key() Key {
	return Key{Subject: r.Subject, Chapter: r.Chapter}
}

// TotalQuestions sums the year-wise question counts.
func (r Record) TotalQuestions() int {
	total := 0
	for _, n := range r.YearCounts {
		total += n
	}
	return total
}

// QuestionsIn returns the count for a year, zero when absent.
func (r Record) QuestionsIn(year int) int {
	return r.YearCounts[year]
}

// ProgressPercent returns solved/total as a percentage clamped to [0, 100].
func (r Record) ProgressPercent() float64 {
	total := r.TotalQuestions()
	if total <= 0 || r.QuestionSolved <= 0 {
		return 0
	}
	pct := float64(r.QuestionSolved) / float64(total) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// Clone returns a copy that does not share the year map.
func (r Record) Clone() Record {
	out := r
	if r.YearCounts != nil {
		out.YearCounts = make(map[int]int, len(r.YearCounts))
		for y, n := range r.YearCounts {
			out.YearCounts[y] = n
		}
	}
	return out
}

// DeriveStatus infers a status from solve counters.
func DeriveStatus(solved, total int) Status {
	switch {
	case solved <= 0:
		return NotStarted
	case total > 0 && solved >= total:
		return Completed
	default:
		return InProgress
	}
}

// Predicate reports whether a record should be kept.
type Predicate func(Record) bool

// FilterSpec is the active combination of filters and sort directive.
type FilterSpec struct {
	Subject  string
	Classes  []string
	Units    []string
	Status   StatusFilter
	WeakOnly bool
	SortBy   SortKey
	Order    SortOrder

	// WhereExpr is the source of Where, kept for display.
	WhereExpr string
	Where     Predicate
}

// AllSubjects is the subject selector value that disables the subject filter.
const AllSubjects = "All"

// DefaultFilterSpec returns the identity filter sorted by chapter name.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		Subject: AllSubjects,
		Status:  StatusAll,
		SortBy:  SortChapter,
		Order:   Asc,
	}
}

// AnySubject reports whether the subject filter is inactive.
func (s FilterSpec) AnySubject() bool {
	return s.Subject == "" || s.Subject == AllSubjects
}

// Config defines dashboard settings resolved from flags and config file.
type Config struct {
	CatalogPath string
	Subject     string
	SortBy      SortKey
	Order       SortOrder
	WeakOnly    bool
	Persist     bool
	DBPath      string
}

// Progress is the persisted part of a record.
type Progress struct {
	Subject        string `db:"subject"`
	Chapter        string `db:"chapter"`
	QuestionSolved int    `db:"question_solved"`
	Status         string `db:"status"`
	Weak           bool   `db:"is_weak"`
	UpdatedAt      string `db:"updated_at"`
}

func normalizeLabel(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(raw)
}
