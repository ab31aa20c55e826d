package domain

// ReadingProgress tracks where a user left off in a book.
// One row per (user, book) pair, updated in place.
type ReadingProgress struct {
	Entity
	UserID         string `json:"user_id"`
	BookID         string `json:"book_id"`
	ChapterIndex   int    `json:"chapter_index"`
	ScrollPosition int    `json:"scroll_position"`
}
