// Package search provides full-text search over the book catalog using Bleve,
// with fuzzy matching, genre filtering, and match highlighting.
package search

import (
	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// BookDocument is the indexed representation of a book. Chapter text is
// searchable but never stored; hits carry only catalog metadata.
type BookDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description,omitempty"`
	Chapters    string `json:"chapters,omitempty"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at"` // Unix millis
	PublishedAt int64  `json:"published_at,omitempty"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve indexes Go struct field names verbatim, and our mapping uses
// lowercase names, so the conversion is explicit.
func (d *BookDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"title":      d.Title,
		"author":     d.Author,
		"status":     d.Status,
		"created_at": d.CreatedAt,
	}
	if d.Genre != "" {
		m["genre"] = d.Genre
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Chapters != "" {
		m["chapters"] = d.Chapters
	}
	if d.PublishedAt > 0 {
		m["published_at"] = d.PublishedAt
	}
	return m
}

// FromBook converts a domain Book to its indexed form. Chapter contents are
// concatenated into one searchable blob.
func FromBook(book *domain.Book) *BookDocument {
	doc := &BookDocument{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		Genre:       book.Genre,
		Description: book.Description,
		Status:      string(book.Status),
		CreatedAt:   book.CreatedAt.UnixMilli(),
	}
	if book.PublishedAt != nil {
		doc.PublishedAt = book.PublishedAt.UnixMilli()
	}

	for i, ch := range book.Chapters {
		if i > 0 {
			doc.Chapters += "\n"
		}
		doc.Chapters += ch.Title + "\n" + ch.Content
	}

	return doc
}
