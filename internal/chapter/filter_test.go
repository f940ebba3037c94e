package chapter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/pyqtrack/internal/model"
)

func sampleRecords() []model.Record {
	return []model.Record{
		{Subject: "Physics", Class: "Class 11", Unit: "Mechanics 1", Chapter: "Kinematics", Status: model.InProgress, QuestionSolved: 5, YearCounts: map[int]int{2024: 10}},
		{Subject: "Physics", Class: "Class 11", Unit: "Heat", Chapter: "Thermo", Status: model.InProgress, QuestionSolved: 8, YearCounts: map[int]int{2024: 4, 2025: 4}},
		{Subject: "Physics", Class: "Class 12", Unit: "Optics", Chapter: "Ray Optics", Status: model.NotStarted, YearCounts: map[int]int{2024: 6, 2025: 7}, Weak: true},
		{Subject: "Chemistry", Class: "Class 11", Unit: "Physical Chemistry", Chapter: "Mole Concept", Status: model.Completed, QuestionSolved: 30, YearCounts: map[int]int{2024: 12, 2025: 10}},
		{Subject: "Chemistry", Class: "Class 12", Unit: "Organic Chemistry", Chapter: "Amines", Status: model.NotStarted, YearCounts: map[int]int{2025: 3}, Weak: true},
		{Subject: "Mathematics", Class: "Class 12", Unit: "Calculus", Chapter: "Definite Integration", Status: model.Completed, QuestionSolved: 40, YearCounts: map[int]int{2024: 15, 2025: 14}},
	}
}

func chapters(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Chapter
	}
	return out
}

func TestFilterIdentity(t *testing.T) {
	records := sampleRecords()
	got := Filter(records, model.DefaultFilterSpec())
	require.Len(t, got, len(records))
	require.ElementsMatch(t, chapters(records), chapters(got))
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	records := sampleRecords()
	before := chapters(records)
	spec := model.DefaultFilterSpec()
	spec.SortBy = model.SortProgress
	spec.Order = model.Desc
	_ = Filter(records, spec)
	require.Equal(t, before, chapters(records))
}

func TestFilterPredicatesHoldBothWays(t *testing.T) {
	records := sampleRecords()
	specs := []model.FilterSpec{
		{Subject: "Physics", Status: model.StatusAll},
		{Subject: model.AllSubjects, Classes: []string{"Class 12"}},
		{Subject: "Chemistry", Units: []string{"Organic Chemistry", "Physical Chemistry"}},
		{Subject: model.AllSubjects, Status: model.StatusNotStarted},
		{Subject: "", Status: model.StatusCompleted, Classes: []string{"Class 11"}},
		{Subject: model.AllSubjects, WeakOnly: true},
		{Subject: "Physics", WeakOnly: true, Classes: []string{"Class 11"}},
	}
	for _, spec := range specs {
		got := Filter(records, spec)
		kept := map[string]bool{}
		for _, r := range got {
			require.True(t, Matches(r, spec), "returned %q fails %+v", r.Chapter, spec)
			kept[r.Chapter] = true
		}
		for _, r := range records {
			if !Matches(r, spec) {
				require.False(t, kept[r.Chapter], "%q should be excluded by %+v", r.Chapter, spec)
			} else {
				require.True(t, kept[r.Chapter], "%q should be included by %+v", r.Chapter, spec)
			}
		}
	}
}

func TestFilterWherePredicate(t *testing.T) {
	spec := model.DefaultFilterSpec()
	spec.Where = func(r model.Record) bool { return r.QuestionSolved >= 30 }
	got := Filter(sampleRecords(), spec)
	require.Equal(t, []string{"Definite Integration", "Mole Concept"}, chapters(got))
}

func TestFilterEmptyInput(t *testing.T) {
	got := Filter(nil, model.DefaultFilterSpec())
	require.Empty(t, got)
	require.Equal(t, Stats{}, ComputeStats(got))
}

func TestFilterNoMatches(t *testing.T) {
	spec := model.DefaultFilterSpec()
	spec.Subject = "Biology"
	require.Empty(t, Filter(sampleRecords(), spec))
}
