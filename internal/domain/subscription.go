package domain

import "time"

// Subscription is the per-(user, book) notification opt-in relation.
//
// At most one row exists per (user, book) pair; toggling flips the boolean in
// place rather than appending. The pair uniqueness is enforced by the storage
// schema, not by application-level checks.
type Subscription struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"user_id"`
	BookID               string    `json:"book_id"`
	ReceiveNotifications bool      `json:"receive_notifications"`
	CreatedAt            time.Time `json:"created_at"`
}

// SubscriberEndpoint pairs a subscribed user with their stored push endpoint.
// Produced by the store for a book's active subscribers; the endpoint blob is
// still opaque at this layer and may fail to parse downstream.
type SubscriberEndpoint struct {
	UserID   string
	Endpoint string
}
