// Package sse implements Server-Sent Events for live catalog updates.
package sse

import (
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// EventType represents the type of SSE event.
type EventType string

const (
	// EventBookCreated represents a book creation event.
	EventBookCreated EventType = "book.created"
	// EventBookUpdated represents a book update event.
	EventBookUpdated EventType = "book.updated"
	// EventBookDeleted represents a book deletion event.
	EventBookDeleted EventType = "book.deleted"
	// EventBookPublished represents a draft going live.
	EventBookPublished EventType = "book.published"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// Filtering fields, never serialized to clients.
	// UserID targets a single user; empty means broadcast.
	// AdminOnly keeps draft-catalog events away from readers.
	UserID    string `json:"-"`
	AdminOnly bool   `json:"-"`
}

// BookEventData is the payload for book lifecycle events. The full book is
// embedded so clients can render without a follow-up fetch; chapter content
// is stripped to keep events small.
type BookEventData struct {
	Book *domain.Book `json:"book"`
}

// BookDeletedEventData is the payload for book delete events.
type BookDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	BookID    string    `json:"book_id"`
}

// HeartbeatEventData is the payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewBookEvent creates a book lifecycle event. Draft books produce admin-only
// events; readers see the book when it publishes.
func NewBookEvent(eventType EventType, book *domain.Book) Event {
	slim := *book
	slim.Chapters = nil
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      BookEventData{Book: &slim},
		AdminOnly: !book.IsPublished(),
	}
}

// NewBookDeletedEvent creates a book deletion event.
func NewBookDeletedEvent(bookID string) Event {
	return Event{
		Type:      EventBookDeleted,
		Timestamp: time.Now(),
		Data:      BookDeletedEventData{BookID: bookID, DeletedAt: time.Now()},
	}
}

// NewHeartbeatEvent creates a keepalive event.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Timestamp: now,
		Data:      HeartbeatEventData{ServerTime: now},
	}
}
