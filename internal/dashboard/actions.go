package dashboard

import (
	"github.com/samber/lo"

	"github.com/verte-zerg/pyqtrack/internal/model"
)

// Action is a user intent applied by Reduce.
type Action interface {
	apply(State) State
}

// SelectSubject switches the subject tab and clears the unit selection.
type SelectSubject struct{ Subject string }

// ToggleClass adds or removes a class from the selection.
type ToggleClass struct{ Class string }

// ToggleUnit adds or removes a unit from the selection.
type ToggleUnit struct{ Unit string }

// SetClasses replaces the class selection.
type SetClasses struct{ Classes []string }

// SetUnits replaces the unit selection.
type SetUnits struct{ Units []string }

// SetStatus sets the status filter.
type SetStatus struct{ Status model.StatusFilter }

// ToggleNotStarted switches the status filter between Not Started and All.
type ToggleNotStarted struct{}

// CycleStatus moves the status filter to the next value.
type CycleStatus struct{}

// ToggleWeakOnly flips the weak-chapters-only filter.
type ToggleWeakOnly struct{}

// ToggleSort switches a name sort to progress, otherwise flips the order.
type ToggleSort struct{}

// CycleSortKey moves to the next sort key, keeping the order.
type CycleSortKey struct{}

// SetSort sets both sort key and order.
type SetSort struct {
	Key   model.SortKey
	Order model.SortOrder
}

// ToggleSortOrder flips the sort order.
type ToggleSortOrder struct{}

// SetWhere installs an extra predicate. A nil predicate clears it.
type SetWhere struct {
	Expr      string
	Predicate model.Predicate
}

// Reset restores the default filters, keeping the subject tab.
type Reset struct{}

// UpdateProgress sets solved count and status on every record named Chapter.
type UpdateProgress struct {
	Chapter string
	Solved  int
	Status  model.Status
}

// ToggleWeak flips the weak flag of one record.
type ToggleWeak struct{ Key model.Key }

func (a SelectSubject) apply(s State) State {
	s.Spec.Subject = a.Subject
	s.Spec.Units = nil
	return s
}

func (a ToggleClass) apply(s State) State {
	s.Spec.Classes = toggle(s.Spec.Classes, a.Class)
	return s
}

func (a ToggleUnit) apply(s State) State {
	s.Spec.Units = toggle(s.Spec.Units, a.Unit)
	return s
}

func (a SetClasses) apply(s State) State {
	s.Spec.Classes = append([]string(nil), a.Classes...)
	return s
}

func (a SetUnits) apply(s State) State {
	s.Spec.Units = append([]string(nil), a.Units...)
	return s
}

func (a SetStatus) apply(s State) State {
	s.Spec.Status = a.Status
	return s
}

func (ToggleNotStarted) apply(s State) State {
	if s.Spec.Status == model.StatusNotStarted {
		s.Spec.Status = model.StatusAll
	} else {
		s.Spec.Status = model.StatusNotStarted
	}
	return s
}

func (CycleStatus) apply(s State) State {
	s.Spec.Status = (s.Spec.Status + 1) % (model.StatusCompleted + 1)
	return s
}

func (ToggleWeakOnly) apply(s State) State {
	s.Spec.WeakOnly = !s.Spec.WeakOnly
	return s
}

func (ToggleSort) apply(s State) State {
	if s.Spec.SortBy == model.SortChapter {
		s.Spec.SortBy = model.SortProgress
	} else {
		s.Spec.Order = s.Spec.Order.Flip()
	}
	return s
}

func (CycleSortKey) apply(s State) State {
	next := model.SortKeys[0]
	for i, k := range model.SortKeys {
		if k == s.Spec.SortBy {
			next = model.SortKeys[(i+1)%len(model.SortKeys)]
			break
		}
	}
	s.Spec.SortBy = next
	return s
}

func (a SetSort) apply(s State) State {
	s.Spec.SortBy = a.Key
	s.Spec.Order = a.Order
	return s
}

func (ToggleSortOrder) apply(s State) State {
	s.Spec.Order = s.Spec.Order.Flip()
	return s
}

func (a SetWhere) apply(s State) State {
	if a.Predicate == nil {
		s.Spec.WhereExpr = ""
		s.Spec.Where = nil
		return s
	}
	s.Spec.WhereExpr = a.Expr
	s.Spec.Where = a.Predicate
	return s
}

func (Reset) apply(s State) State {
	subject := s.Spec.Subject
	s.Spec = model.DefaultFilterSpec()
	s.Spec.Subject = subject
	return s
}

func (a UpdateProgress) apply(s State) State {
	s.Source = mapSource(s.Source, func(r model.Record) (model.Record, bool) {
		if r.Chapter != a.Chapter {
			return r, false
		}
		r.QuestionSolved = a.Solved
		r.Status = a.Status
		return r, true
	})
	return s
}

func (a ToggleWeak) apply(s State) State {
	s.Source = mapSource(s.Source, func(r model.Record) (model.Record, bool) {
		if r.Key() != a.Key {
			return r, false
		}
		r.Weak = !r.Weak
		return r, true
	})
	return s
}

// Reduce applies action to s and returns the recomputed state. s is not
// modified; the source slice is copied when an action changes it.
func Reduce(s State, action Action) State {
	if action == nil {
		return s
	}
	s.Spec.Classes = append([]string(nil), s.Spec.Classes...)
	s.Spec.Units = append([]string(nil), s.Spec.Units...)
	return recompute(action.apply(s))
}

// mapSource rewrites matching records into a fresh slice. The original slice
// is returned when nothing matched.
func mapSource(src []model.Record, fn func(model.Record) (model.Record, bool)) []model.Record {
	var out []model.Record
	for i, r := range src {
		updated, ok := fn(r)
		if !ok {
			continue
		}
		if out == nil {
			out = append([]model.Record(nil), src...)
		}
		out[i] = updated
	}
	if out == nil {
		return src
	}
	return out
}

func toggle(values []string, v string) []string {
	if lo.Contains(values, v) {
		return lo.Without(values, v)
	}
	return append(values, v)
}
