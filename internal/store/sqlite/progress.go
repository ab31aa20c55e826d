package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// UpsertReadingProgress creates or updates the user's position in a book.
// One row per (user, book); repeated saves update in place.
func (s *Store) UpsertReadingProgress(ctx context.Context, p *domain.ReadingProgress) error {
	if err := s.requireUser(ctx, p.UserID); err != nil {
		return err
	}
	if err := s.requireBook(ctx, p.BookID); err != nil {
		return err
	}

	if p.ID == "" {
		progID, err := id.Generate(id.PrefixProgress)
		if err != nil {
			return err
		}
		p.ID = progID
	}

	now := formatTime(time.Now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_progress (
			id, user_id, book_id, chapter_index, scroll_position, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, book_id)
		DO UPDATE SET
			chapter_index = excluded.chapter_index,
			scroll_position = excluded.scroll_position,
			updated_at = excluded.updated_at`,
		p.ID, p.UserID, p.BookID, p.ChapterIndex, p.ScrollPosition, now, now,
	)
	return err
}

// GetReadingProgress returns the user's saved position in a book.
// Returns store.ErrNotFound when no progress has been saved.
func (s *Store) GetReadingProgress(ctx context.Context, userID, bookID string) (*domain.ReadingProgress, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, book_id, chapter_index, scroll_position, created_at, updated_at
		FROM reading_progress WHERE user_id = ? AND book_id = ?`, userID, bookID)

	p, err := scanProgress(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListReadingProgress returns all of a user's saved positions.
func (s *Store) ListReadingProgress(ctx context.Context, userID string) ([]*domain.ReadingProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, book_id, chapter_index, scroll_position, created_at, updated_at
		FROM reading_progress WHERE user_id = ? ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []*domain.ReadingProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}

func scanProgress(scanner interface{ Scan(dest ...any) error }) (*domain.ReadingProgress, error) {
	var p domain.ReadingProgress
	var createdAt, updatedAt string

	err := scanner.Scan(&p.ID, &p.UserID, &p.BookID, &p.ChapterIndex, &p.ScrollPosition, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
