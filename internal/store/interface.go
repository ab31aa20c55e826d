// Package store defines the persistence interface for the Inkwell server.
package store

import (
	"context"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// ToggleResult reports the outcome of a subscription toggle.
type ToggleResult struct {
	Created              bool `json:"created"`
	ReceiveNotifications bool `json:"receive_notifications"`
}

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetPushEndpoint(ctx context.Context, userID string, endpoint *string) error
	DeleteUser(ctx context.Context, id string) error

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	ListBooks(ctx context.Context, onlyPublished bool) ([]*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) (previousChapters int, err error)
	DeleteBook(ctx context.Context, id string) error
	CountChapters(ctx context.Context, bookID string) (int, error)

	// Subscriptions
	ToggleSubscription(ctx context.Context, userID, bookID string) (*ToggleResult, error)
	ListActiveSubscribersForBook(ctx context.Context, bookID string) ([]domain.SubscriberEndpoint, error)
	ListSubscribedBookIDs(ctx context.Context, userID string) ([]string, error)

	// Reading progress
	UpsertReadingProgress(ctx context.Context, p *domain.ReadingProgress) error
	GetReadingProgress(ctx context.Context, userID, bookID string) (*domain.ReadingProgress, error)
	ListReadingProgress(ctx context.Context, userID string) ([]*domain.ReadingProgress, error)
}
