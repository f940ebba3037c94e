// Package chapter filters, sorts and summarizes chapter records.
package chapter

import (
	"github.com/samber/lo"

	"github.com/verte-zerg/pyqtrack/internal/model"
)

// Filter returns the records that satisfy every active predicate of spec,
// ordered by the spec's sort key. The input slice is left untouched.
func Filter(records []model.Record, spec model.FilterSpec) []model.Record {
	out := lo.Filter(records, func(r model.Record, _ int) bool {
		return Matches(r, spec)
	})
	Sort(out, spec.SortBy, spec.Order)
	return out
}

// Matches reports whether a single record passes the filters of spec.
func Matches(r model.Record, spec model.FilterSpec) bool {
	if !spec.AnySubject() && r.Subject != spec.Subject {
		return false
	}
	if !inSelection(spec.Classes, r.Class) {
		return false
	}
	if !inSelection(spec.Units, r.Unit) {
		return false
	}
	if spec.Status != model.StatusAll && r.Status != spec.Status.Status() {
		return false
	}
	if spec.WeakOnly && !r.Weak {
		return false
	}
	if spec.Where != nil && !spec.Where(r) {
		return false
	}
	return true
}

// An empty selection places no restriction.
func inSelection(selected []string, value string) bool {
	return len(selected) == 0 || lo.Contains(selected, value)
}
