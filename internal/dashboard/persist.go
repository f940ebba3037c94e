package dashboard

import (
	"context"

	"github.com/verte-zerg/pyqtrack/internal/model"
)

// Saver stores chapter progress.
type Saver interface {
	SaveProgress(ctx context.Context, records []model.Record) error
}

// Persist returns a listener that saves every record whose progress changed.
// Save errors are passed to onError; a nil onError drops them.
func Persist(ctx context.Context, saver Saver, onError func(error)) Listener {
	return func(prev, next State) {
		if saver == nil {
			return
		}
		changed := ChangedRecords(prev, next)
		if len(changed) == 0 {
			return
		}
		if err := saver.SaveProgress(ctx, changed); err != nil && onError != nil {
			onError(err)
		}
	}
}
