package service

import (
	"context"
	"fmt"
	"log/slog"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// SubscriptionService manages per-(user, book) notification opt-ins.
type SubscriptionService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(store store.Store, logger *slog.Logger) *SubscriptionService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SubscriptionService{store: store, logger: logger}
}

// Toggle flips the user's notification opt-in for a book, creating the
// subscription with notifications enabled on first toggle. Concurrent toggles
// for the same pair serialize in the store and never create duplicate rows.
func (s *SubscriptionService) Toggle(ctx context.Context, userID, bookID string) (*store.ToggleResult, error) {
	result, err := s.store.ToggleSubscription(ctx, userID, bookID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("toggle subscription: %w", err)
	}

	s.logger.Info("subscription toggled",
		"user_id", userID,
		"book_id", bookID,
		"created", result.Created,
		"receiving", result.ReceiveNotifications,
	)

	return result, nil
}

// ListSubscribedBookIDs returns the IDs of books the user currently has
// notifications enabled for, regardless of whether a push endpoint is
// registered.
func (s *SubscriptionService) ListSubscribedBookIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.store.ListSubscribedBookIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return ids, nil
}
