package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, title, author, genre,
	description, cover_image, status, published_at`

// scanBook scans a row into a domain.Book without chapters.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt   string
		updatedAt   string
		status      string
		publishedAt sql.NullString
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&b.Title,
		&b.Author,
		&b.Genre,
		&b.Description,
		&b.CoverImage,
		&status,
		&publishedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	b.PublishedAt, err = parseNullableTime(publishedAt)
	if err != nil {
		return nil, err
	}

	b.Status = domain.BookStatus(status)
	return &b, nil
}

// CreateBook inserts a book together with its chapters in one transaction.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO books (
			id, created_at, updated_at, title, author, genre,
			description, cover_image, status, published_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.Title,
		book.Author,
		book.Genre,
		book.Description,
		book.CoverImage,
		string(book.Status),
		nullTimeString(book.PublishedAt),
	)
	if err != nil {
		return err
	}

	if err := insertChapters(ctx, tx, book.ID, book.Chapters); err != nil {
		return err
	}

	return tx.Commit()
}

// GetBook retrieves a book with its chapters ordered by position.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	b.Chapters, err = s.listChapters(ctx, id)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks returns all books ordered newest first, without chapter content.
// When onlyPublished is set, draft books are excluded and ordering follows
// the publish date.
func (s *Store) ListBooks(ctx context.Context, onlyPublished bool) ([]*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC`
	if onlyPublished {
		query = `SELECT ` + bookColumns + ` FROM books
			WHERE status = 'published' ORDER BY published_at DESC`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// UpdateBook updates book fields and replaces the full chapter set in one
// transaction, returning the chapter count before replacement.
//
// The delete-all-and-reinsert strategy is deliberate: chapter identity is not
// stable across updates, only content and position matter.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) (previousChapters int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE books SET
			updated_at = ?, title = ?, author = ?, genre = ?,
			description = ?, cover_image = ?, status = ?, published_at = ?
		WHERE id = ?`,
		formatTime(book.UpdatedAt),
		book.Title,
		book.Author,
		book.Genre,
		book.Description,
		book.CoverImage,
		string(book.Status),
		nullTimeString(book.PublishedAt),
		book.ID,
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, store.ErrNotFound
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chapters WHERE book_id = ?`, book.ID,
	).Scan(&previousChapters); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM chapters WHERE book_id = ?`, book.ID); err != nil {
		return 0, err
	}

	if err := insertChapters(ctx, tx, book.ID, book.Chapters); err != nil {
		return 0, err
	}

	return previousChapters, tx.Commit()
}

// DeleteBook removes a book. Chapters, subscriptions, and reading progress
// rows cascade.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// CountChapters returns the number of chapters for a book.
func (s *Store) CountChapters(ctx context.Context, bookID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chapters WHERE book_id = ?`, bookID).Scan(&n)
	return n, err
}

// listChapters returns a book's chapters ordered by position.
func (s *Store) listChapters(ctx context.Context, bookID string) ([]domain.Chapter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, book_id, title, content, position
		FROM chapters WHERE book_id = ? ORDER BY position`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []domain.Chapter
	for rows.Next() {
		var c domain.Chapter
		if err := rows.Scan(&c.ID, &c.BookID, &c.Title, &c.Content, &c.Position); err != nil {
			return nil, err
		}
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}

// insertChapters inserts the chapter list within an open transaction.
func insertChapters(ctx context.Context, tx *sql.Tx, bookID string, chapters []domain.Chapter) error {
	for _, c := range chapters {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chapters (id, book_id, title, content, position)
			VALUES (?, ?, ?, ?, ?)`,
			c.ID, bookID, c.Title, c.Content, c.Position,
		); err != nil {
			return err
		}
	}
	return nil
}
