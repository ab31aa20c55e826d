package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// ToggleSubscription creates the (user, book) subscription row with
// notifications enabled, or flips the existing row's boolean.
//
// The whole operation is a single upsert statement, so concurrent toggles for
// the same pair serialize inside SQLite on the (user_id, book_id) uniqueness
// constraint and can never produce duplicate rows. Referenced user and book
// are checked first; a missing one yields store.ErrNotFound before any
// mutation.
func (s *Store) ToggleSubscription(ctx context.Context, userID, bookID string) (*store.ToggleResult, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return nil, err
	}

	subID, err := id.Generate(id.PrefixSubscription)
	if err != nil {
		return nil, err
	}

	var (
		returnedID string
		receiving  int
	)
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO subscriptions (id, user_id, book_id, receive_notifications, created_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(user_id, book_id)
		DO UPDATE SET receive_notifications = NOT receive_notifications
		RETURNING id, receive_notifications`,
		subID, userID, bookID, formatTime(time.Now()),
	).Scan(&returnedID, &receiving)
	if err != nil {
		return nil, err
	}

	// The row kept its original id when the upsert hit the conflict branch.
	return &store.ToggleResult{
		Created:              returnedID == subID,
		ReceiveNotifications: receiving != 0,
	}, nil
}

// ListActiveSubscribersForBook returns the delivery candidates for a book:
// rows with notifications enabled whose user is active and has a registered
// push endpoint. Ordering is unspecified.
func (s *Store) ListActiveSubscribersForBook(ctx context.Context, bookID string) ([]domain.SubscriberEndpoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sub.user_id, u.push_endpoint
		FROM subscriptions sub
		JOIN users u ON u.id = sub.user_id
		WHERE sub.book_id = ?
		  AND sub.receive_notifications = 1
		  AND u.active = 1
		  AND u.push_endpoint IS NOT NULL`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.SubscriberEndpoint
	for rows.Next() {
		var se domain.SubscriberEndpoint
		if err := rows.Scan(&se.UserID, &se.Endpoint); err != nil {
			return nil, err
		}
		subs = append(subs, se)
	}
	return subs, rows.Err()
}

// ListSubscribedBookIDs returns the book IDs a user has notifications enabled
// for, regardless of endpoint presence.
func (s *Store) ListSubscribedBookIDs(ctx context.Context, userID string) ([]string, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT book_id FROM subscriptions
		WHERE user_id = ? AND receive_notifications = 1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookIDs []string
	for rows.Next() {
		var bookID string
		if err := rows.Scan(&bookID); err != nil {
			return nil, err
		}
		bookIDs = append(bookIDs, bookID)
	}
	return bookIDs, rows.Err()
}

// CountSubscriptions returns the number of subscription rows for a
// (user, book) pair. Used by tests to assert the uniqueness invariant.
func (s *Store) CountSubscriptions(ctx context.Context, userID, bookID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE user_id = ? AND book_id = ?`,
		userID, bookID).Scan(&n)
	return n, err
}

// requireUser verifies the user exists and is active.
func (s *Store) requireUser(ctx context.Context, userID string) error {
	var active int
	err := s.db.QueryRowContext(ctx,
		`SELECT active FROM users WHERE id = ?`, userID).Scan(&active)
	if err == sql.ErrNoRows {
		return store.ErrNotFound.WithMessage("user not found")
	}
	if err != nil {
		return err
	}
	if active == 0 {
		return store.ErrNotFound.WithMessage("user not found")
	}
	return nil
}

// requireBook verifies the book exists.
func (s *Store) requireBook(ctx context.Context, bookID string) error {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM books WHERE id = ?`, bookID).Scan(&one)
	if err == sql.ErrNoRows {
		return store.ErrNotFound.WithMessage("book not found")
	}
	return err
}
