// Package domain contains the core business entities for the Inkwell reading platform.
package domain

import "time"

// BookStatus represents the publication state of a book.
type BookStatus string

const (
	// BookStatusDraft means the book is visible to admins only.
	BookStatusDraft BookStatus = "draft"
	// BookStatusPublished means the book is visible to every visitor.
	BookStatusPublished BookStatus = "published"
)

// Valid reports whether the status is one of the known values.
func (s BookStatus) Valid() bool {
	return s == BookStatusDraft || s == BookStatusPublished
}

// Book represents a book in the catalog, owning an ordered chapter sequence.
type Book struct {
	Entity
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Genre       string     `json:"genre"`
	Description string     `json:"description,omitempty"`
	CoverImage  string     `json:"cover_image,omitempty"`
	Status      BookStatus `json:"status"`

	// PublishedAt is stamped on the first draft->published transition and
	// never reset by later status flips.
	PublishedAt *time.Time `json:"published_at,omitempty"`

	Chapters []Chapter `json:"chapters,omitempty"`
}

// IsPublished returns true if the book is visible to readers.
func (b *Book) IsPublished() bool {
	return b.Status == BookStatusPublished
}

// Publish transitions the book to published, stamping PublishedAt only
// on the first transition.
func (b *Book) Publish(now time.Time) {
	b.Status = BookStatusPublished
	if b.PublishedAt == nil {
		b.PublishedAt = &now
	}
}

// Chapter is a single ordered chapter within a book.
//
// Chapter identity is not stable: every book update replaces the full chapter
// set, so only content and position carry meaning across updates. For a book
// with N chapters, positions are exactly 0..N-1.
type Chapter struct {
	ID       string `json:"id"`
	BookID   string `json:"book_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

// HasNewChapters decides whether a chapter replacement counts as new content
// worth notifying subscribers about. Only a strict increase in chapter count
// qualifies; edits and deletions never trigger a notification round.
func HasNewChapters(previousCount, newCount int) bool {
	return newCount > previousCount
}
