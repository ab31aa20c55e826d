package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/push"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// NotificationService manages push endpoint registration and fans new-chapter
// notifications out to a book's subscribers.
type NotificationService struct {
	store      store.Store
	dispatcher *push.Dispatcher
	keys       *push.VAPIDKeys
	publicURL  string
	logger     *slog.Logger
}

// NewNotificationService creates a new notification service. publicURL is the
// externally reachable base URL used for notification click-through links.
func NewNotificationService(
	store store.Store,
	dispatcher *push.Dispatcher,
	keys *push.VAPIDKeys,
	publicURL string,
	logger *slog.Logger,
) *NotificationService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NotificationService{
		store:      store,
		dispatcher: dispatcher,
		keys:       keys,
		publicURL:  strings.TrimRight(publicURL, "/"),
		logger:     logger,
	}
}

// PublicKey returns the VAPID public application server key clients need to
// create a push subscription.
func (s *NotificationService) PublicKey() string {
	return s.keys.PublicKey
}

// RegisterEndpoint stores a user's Web Push subscription. The raw blob must
// parse as a push subscription; registering again replaces the previous
// endpoint, so repeated registration is idempotent.
func (s *NotificationService) RegisterEndpoint(ctx context.Context, userID, raw string) error {
	if _, err := push.ParseEndpoint(raw); err != nil {
		return domainerrors.Validation("invalid push subscription")
	}

	if err := s.store.SetPushEndpoint(ctx, userID, &raw); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("store push endpoint: %w", err)
	}

	s.logger.Info("push endpoint registered", "user_id", userID)
	return nil
}

// UnregisterEndpoint clears a user's stored push endpoint. Clearing an
// already-empty endpoint is a no-op.
func (s *NotificationService) UnregisterEndpoint(ctx context.Context, userID string) error {
	if err := s.store.SetPushEndpoint(ctx, userID, nil); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("clear push endpoint: %w", err)
	}

	s.logger.Info("push endpoint unregistered", "user_id", userID)
	return nil
}

// NotifyNewChapters resolves the book's eligible subscribers and dispatches a
// new-chapter notification to each of them. Subscribers whose stored endpoint
// blob no longer parses are logged and dropped from the recipient set.
// Delivery is best effort: per-target failures are logged via the dispatcher
// and never returned. An empty recipient set is a silent no-op.
func (s *NotificationService) NotifyNewChapters(ctx context.Context, book *domain.Book) []push.Result {
	subscribers, err := s.store.ListActiveSubscribersForBook(ctx, book.ID)
	if err != nil {
		s.logger.Error("failed to resolve subscribers",
			"book_id", book.ID,
			"error", err,
		)
		return nil
	}
	if len(subscribers) == 0 {
		return nil
	}

	// Endpoint blobs are parsed here, not in the dispatcher, so malformed
	// rows drop out of the recipient set before any delivery is attempted.
	targets := make([]push.Target, 0, len(subscribers))
	for _, sub := range subscribers {
		ep, err := push.ParseEndpoint(sub.Endpoint)
		if err != nil {
			s.logger.Warn("skipping malformed push endpoint", "user_id", sub.UserID)
			continue
		}
		targets = append(targets, push.Target{UserID: sub.UserID, Endpoint: ep})
	}
	if len(targets) == 0 {
		return nil
	}

	payload := push.Payload{
		Title: fmt.Sprintf("New chapter available in %s", book.Title),
		Body:  "A book you follow has been updated.",
		Icon:  "/icon.png",
		URL:   s.publicURL + "/book/" + book.ID,
	}

	return s.dispatcher.Dispatch(ctx, targets, payload)
}
