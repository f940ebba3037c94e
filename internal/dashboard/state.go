// Package dashboard holds the explicit application state and the reducer
// that applies user actions to it.
package dashboard

import (
	"github.com/samber/lo"

	"github.com/verte-zerg/pyqtrack/internal/chapter"
	"github.com/verte-zerg/pyqtrack/internal/model"
)

// State is the complete dashboard state. Source is the catalogue; Filtered
// and Stats are derived from Source and Spec.
type State struct {
	Source   []model.Record
	Spec     model.FilterSpec
	Filtered []model.Record
	Stats    chapter.Stats
}

// New builds a state and computes its derived view.
func New(records []model.Record, spec model.FilterSpec) State {
	return recompute(State{Source: records, Spec: spec})
}

func recompute(s State) State {
	s.Filtered = chapter.Filter(s.Source, s.Spec)
	s.Stats = chapter.ComputeStats(s.Filtered)
	return s
}

// Find returns the source record for key.
func (s State) Find(key model.Key) (model.Record, bool) {
	return lo.Find(s.Source, func(r model.Record) bool {
		return r.Key() == key
	})
}

// ChangedRecords returns the records of next whose progress fields differ
// from the record with the same key in prev.
func ChangedRecords(prev, next State) []model.Record {
	old := make(map[model.Key]model.Record, len(prev.Source))
	for _, r := range prev.Source {
		old[r.Key()] = r
	}
	var changed []model.Record
	for _, r := range next.Source {
		o, ok := old[r.Key()]
		if !ok || o.QuestionSolved != r.QuestionSolved || o.Status != r.Status || o.Weak != r.Weak {
			changed = append(changed, r)
		}
	}
	return changed
}
