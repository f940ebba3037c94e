package chapter

import (
	"sort"

	"github.com/samber/lo"

	"github.com/verte-zerg/pyqtrack/internal/model"
)

// Stats counts a view by status and weak flag.
type Stats struct {
	Total      int
	Completed  int
	InProgress int
	NotStarted int
	Weak       int
}

// ComputeStats scans records and returns their counts.
func ComputeStats(records []model.Record) Stats {
	return Stats{
		Total:      len(records),
		Completed:  countStatus(records, model.Completed),
		InProgress: countStatus(records, model.InProgress),
		NotStarted: countStatus(records, model.NotStarted),
		Weak: lo.CountBy(records, func(r model.Record) bool {
			return r.Weak
		}),
	}
}

func countStatus(records []model.Record, s model.Status) int {
	return lo.CountBy(records, func(r model.Record) bool {
		return r.Status == s
	})
}

// UniqueClasses returns the distinct class labels in ascending order.
func UniqueClasses(records []model.Record) []string {
	return uniqueSorted(lo.Map(records, func(r model.Record, _ int) string {
		return r.Class
	}))
}

// UniqueUnits returns the distinct unit labels, restricted to subject unless
// subject is empty or "All".
func UniqueUnits(records []model.Record, subject string) []string {
	scoped := records
	if subject != "" && subject != model.AllSubjects {
		scoped = lo.Filter(records, func(r model.Record, _ int) bool {
			return r.Subject == subject
		})
	}
	return uniqueSorted(lo.Map(scoped, func(r model.Record, _ int) string {
		return r.Unit
	}))
}

// Subjects returns the distinct subjects in ascending order.
func Subjects(records []model.Record) []string {
	return uniqueSorted(lo.Map(records, func(r model.Record, _ int) string {
		return r.Subject
	}))
}

// Years returns every year present in the records, oldest first.
func Years(records []model.Record) []int {
	seen := map[int]struct{}{}
	for _, r := range records {
		for y := range r.YearCounts {
			seen[y] = struct{}{}
		}
	}
	years := lo.Keys(seen)
	sort.Ints(years)
	return years
}

func uniqueSorted(values []string) []string {
	out := lo.Uniq(values)
	sort.Strings(out)
	return out
}
