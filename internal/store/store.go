// Package store handles SQLite persistence of chapter progress.
package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/verte-zerg/pyqtrack/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for progress data.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chapter_progress (
			subject TEXT NOT NULL,
			chapter TEXT NOT NULL,
			question_solved INTEGER NOT NULL,
			status TEXT NOT NULL,
			is_weak INTEGER NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (subject, chapter)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chapter_progress_updated_at ON chapter_progress(updated_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveProgress upserts the progress fields of records in one transaction.
func (s *Store) SaveProgress(ctx context.Context, records []model.Record) (err error) {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareNamedContext(ctx,
		`INSERT INTO chapter_progress (subject, chapter, question_solved, status, is_weak, updated_at)
		 VALUES (:subject, :chapter, :question_solved, :status, :is_weak, :updated_at)
		 ON CONFLICT (subject, chapter) DO UPDATE SET
			question_solved = excluded.question_solved,
			status = excluded.status,
			is_weak = excluded.is_weak,
			updated_at = excluded.updated_at`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, r := range records {
		row := model.Progress{
			Subject:        r.Subject,
			Chapter:        r.Chapter,
			QuestionSolved: r.QuestionSolved,
			Status:         r.Status.String(),
			Weak:           r.Weak,
			UpdatedAt:      now,
		}
		if _, err = stmt.ExecContext(ctx, row); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadProgress returns every saved progress row, oldest update first.
func (s *Store) LoadProgress(ctx context.Context) ([]model.Progress, error) {
	var rows []model.Progress
	err := s.db.SelectContext(ctx, &rows,
		`SELECT subject, chapter, question_solved, status, is_weak, updated_at
		FROM chapter_progress
		ORDER BY updated_at ASC, subject ASC, chapter ASC`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ResetProgress deletes all saved progress and returns the number of rows
// removed.
func (s *Store) ResetProgress(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chapter_progress`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ApplyProgress overlays saved progress on records with a matching key and
// returns the updated copy. Rows for unknown chapters are ignored.
func ApplyProgress(records []model.Record, progress []model.Progress) []model.Record {
	byKey := make(map[model.Key]model.Progress, len(progress))
	for _, p := range progress {
		byKey[model.Key{Subject: p.Subject, Chapter: p.Chapter}] = p
	}
	out := make([]model.Record, len(records))
	for i, r := range records {
		if p, ok := byKey[r.Key()]; ok {
			r.QuestionSolved = p.QuestionSolved
			if status, err := model.ParseStatus(p.Status); err == nil {
				r.Status = status
			}
			r.Weak = p.Weak
		}
		out[i] = r
	}
	return out
}
