package chapter

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/verte-zerg/pyqtrack/internal/model"
)

// Sort orders records in place. The sort is stable so ties keep catalogue
// order.
func Sort(records []model.Record, key model.SortKey, order model.SortOrder) {
	cmp := Comparator(key, order)
	sort.SliceStable(records, func(i, j int) bool {
		return cmp(records[i], records[j]) < 0
	})
}

// Comparator returns a three-way comparator for key and order.
//
// For chapter and status the natural order is ascending and desc negates it.
// For progress and weakChapters the natural order is descending (most solved
// first, weak first) and asc negates the combined result as a whole.
func Comparator(key model.SortKey, order model.SortOrder) func(a, b model.Record) int {
	var base func(a, b model.Record) int
	flip := false
	switch key {
	case model.SortStatus:
		base = compareStatus
		flip = order == model.Desc
	case model.SortProgress:
		base = compareProgress
		flip = order == model.Asc
	case model.SortWeak:
		base = compareWeak
		flip = order == model.Asc
	default:
		base = chapterCollator()
		flip = order == model.Desc
	}
	if !flip {
		return base
	}
	return func(a, b model.Record) int {
		return -base(a, b)
	}
}

func chapterCollator() func(a, b model.Record) int {
	c := collate.New(language.English)
	return func(a, b model.Record) int {
		return c.CompareString(a.Chapter, b.Chapter)
	}
}

// Alphabetical by label: Completed < In Progress < Not Started.
func compareStatus(a, b model.Record) int {
	return strings.Compare(a.Status.String(), b.Status.String())
}

func compareProgress(a, b model.Record) int {
	if d := b.QuestionSolved - a.QuestionSolved; d != 0 {
		return d
	}
	return b.TotalQuestions() - a.TotalQuestions()
}

func compareWeak(a, b model.Record) int {
	switch {
	case a.Weak == b.Weak:
		return 0
	case a.Weak:
		return -1
	default:
		return 1
	}
}
