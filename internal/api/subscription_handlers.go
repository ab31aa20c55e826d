package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSubscriptionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "toggleSubscription",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}/subscription",
		Summary:     "Toggle subscription",
		Description: "Creates the subscription with notifications enabled, or flips the existing opt-in",
		Tags:        []string{"Subscriptions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleSubscription)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSubscriptions",
		Method:      http.MethodGet,
		Path:        "/api/v1/subscriptions",
		Summary:     "List subscriptions",
		Description: "Returns the books the user has notifications enabled for",
		Tags:        []string{"Subscriptions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSubscriptions)
}

// === DTOs ===

// ToggleSubscriptionInput identifies the book to toggle.
type ToggleSubscriptionInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// ToggleSubscriptionResponse reports the toggle outcome.
type ToggleSubscriptionResponse struct {
	Created              bool `json:"created" doc:"Whether the subscription was created by this call"`
	ReceiveNotifications bool `json:"receive_notifications" doc:"Opt-in state after the toggle"`
}

// ToggleSubscriptionOutput wraps the toggle response for Huma.
type ToggleSubscriptionOutput struct {
	Body ToggleSubscriptionResponse
}

// SubscriptionResponse is one subscribed book.
type SubscriptionResponse struct {
	BookID string `json:"book_id" doc:"Subscribed book ID"`
}

// ListSubscriptionsResponse contains the user's active subscriptions.
type ListSubscriptionsResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions" doc:"Books with notifications enabled"`
}

// ListSubscriptionsOutput wraps the listing for Huma.
type ListSubscriptionsOutput struct {
	Body ListSubscriptionsResponse
}

// === Handlers ===

func (s *Server) handleToggleSubscription(ctx context.Context, input *ToggleSubscriptionInput) (*ToggleSubscriptionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Subscription.Toggle(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ToggleSubscriptionOutput{Body: ToggleSubscriptionResponse{
		Created:              result.Created,
		ReceiveNotifications: result.ReceiveNotifications,
	}}, nil
}

func (s *Server) handleListSubscriptions(ctx context.Context, _ *struct{}) (*ListSubscriptionsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	bookIDs, err := s.services.Subscription.ListSubscribedBookIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]SubscriptionResponse, len(bookIDs))
	for i, id := range bookIDs {
		resp[i] = SubscriptionResponse{BookID: id}
	}

	return &ListSubscriptionsOutput{Body: ListSubscriptionsResponse{Subscriptions: resp}}, nil
}
