package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/genre"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/sse"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// BookService orchestrates the book catalog: CRUD, publication lifecycle,
// search index upkeep, live events, and the new-chapter notification trigger.
type BookService struct {
	store    store.Store
	index    *search.Index
	events   *sse.Manager
	notifier *NotificationService
	logger   *slog.Logger
}

// NewBookService creates a new book service. index, events, and notifier are
// optional; a nil collaborator disables that side effect.
func NewBookService(
	store store.Store,
	index *search.Index,
	events *sse.Manager,
	notifier *NotificationService,
	logger *slog.Logger,
) *BookService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BookService{
		store:    store,
		index:    index,
		events:   events,
		notifier: notifier,
		logger:   logger,
	}
}

// ChapterInput is one chapter in a create or update request. Position is
// implied by slice order.
type ChapterInput struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// CreateBookRequest contains the data for a new book.
type CreateBookRequest struct {
	Title       string         `json:"title" validate:"required"`
	Author      string         `json:"author" validate:"required"`
	Genre       string         `json:"genre"`
	Description string         `json:"description"`
	CoverImage  string         `json:"cover_image"`
	Status      string         `json:"status" validate:"omitempty,oneof=draft published"`
	Chapters    []ChapterInput `json:"chapters" validate:"required,min=1,dive"`
}

// UpdateBookRequest contains the full replacement state for a book. The
// chapter list replaces the existing one wholesale.
type UpdateBookRequest struct {
	Title       string         `json:"title" validate:"required"`
	Author      string         `json:"author" validate:"required"`
	Genre       string         `json:"genre"`
	Description string         `json:"description"`
	CoverImage  string         `json:"cover_image"`
	Status      string         `json:"status" validate:"required,oneof=draft published"`
	Chapters    []ChapterInput `json:"chapters" validate:"required,min=1,dive"`
}

// ListBooks returns the catalog. Drafts are included only when includeDrafts
// is set (admin callers). Listings carry no chapter content.
func (s *BookService) ListBooks(ctx context.Context, includeDrafts bool) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx, !includeDrafts)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// GetBook retrieves a book with its full chapter list. Draft books resolve
// only for admin callers; everyone else gets not-found, so drafts stay
// indistinguishable from nonexistent books.
func (s *BookService) GetBook(ctx context.Context, bookID string, includeDrafts bool) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	if !book.IsPublished() && !includeDrafts {
		return nil, domainerrors.NotFound("book not found")
	}
	return book, nil
}

// CreateBook creates a book with its initial chapter sequence. Status
// defaults to draft; creating directly as published stamps PublishedAt.
func (s *BookService) CreateBook(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.Book{
		Entity:      domain.Entity{ID: bookID},
		Title:       req.Title,
		Author:      req.Author,
		Genre:       genre.Canonical(req.Genre),
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Status:      domain.BookStatusDraft,
	}
	book.InitTimestamps()
	if req.Status == string(domain.BookStatusPublished) {
		book.Publish(time.Now())
	}

	book.Chapters, err = buildChapters(bookID, req.Chapters)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created",
		"book_id", bookID,
		"title", book.Title,
		"status", book.Status,
		"chapters", len(book.Chapters),
	)

	s.syncIndex(book)
	s.emit(sse.NewBookEvent(sse.EventBookCreated, book))

	return book, nil
}

// UpdateBook replaces a book's metadata and entire chapter sequence. When the
// replacement strictly grows the chapter count, subscribers with notifications
// enabled are notified; delivery failures never fail the update. The first
// draft-to-published transition stamps PublishedAt; later flips never reset it.
func (s *BookService) UpdateBook(ctx context.Context, bookID string, req UpdateBookRequest) (*domain.Book, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	existing, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	book := &domain.Book{
		Entity:      existing.Entity,
		Title:       req.Title,
		Author:      req.Author,
		Genre:       genre.Canonical(req.Genre),
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Status:      domain.BookStatus(req.Status),
		PublishedAt: existing.PublishedAt,
	}
	book.Touch()

	wasPublished := existing.IsPublished()
	if book.Status == domain.BookStatusPublished {
		book.Publish(time.Now())
	}

	book.Chapters, err = buildChapters(bookID, req.Chapters)
	if err != nil {
		return nil, err
	}

	previousChapters, err := s.store.UpdateBook(ctx, book)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.logger.Info("book updated",
		"book_id", bookID,
		"previous_chapters", previousChapters,
		"chapters", len(book.Chapters),
	)

	s.syncIndex(book)
	s.emit(sse.NewBookEvent(sse.EventBookUpdated, book))
	if !wasPublished && book.IsPublished() {
		s.emit(sse.NewBookEvent(sse.EventBookPublished, book))
	}

	if s.notifier != nil && domain.HasNewChapters(previousChapters, len(book.Chapters)) {
		s.notifier.NotifyNewChapters(ctx, book)
	}

	return book, nil
}

// DeleteBook removes a book, its chapters, and (via cascade) its
// subscriptions and reading progress.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("book not found")
		}
		return fmt.Errorf("delete book: %w", err)
	}

	s.logger.Info("book deleted", "book_id", bookID)

	if s.index != nil {
		if err := s.index.DeleteBook(bookID); err != nil {
			s.logger.Warn("failed to remove book from search index",
				"book_id", bookID,
				"error", err,
			)
		}
	}
	s.emit(sse.NewBookDeletedEvent(bookID))

	return nil
}

func (s *BookService) syncIndex(book *domain.Book) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexBook(book); err != nil {
		s.logger.Warn("failed to index book",
			"book_id", book.ID,
			"error", err,
		)
	}
}

func (s *BookService) emit(event sse.Event) {
	if s.events != nil {
		s.events.Emit(event)
	}
}

// buildChapters assigns IDs and dense zero-based positions from slice order.
func buildChapters(bookID string, inputs []ChapterInput) ([]domain.Chapter, error) {
	chapters := make([]domain.Chapter, len(inputs))
	for i, in := range inputs {
		chapterID, err := id.Generate(id.PrefixChapter)
		if err != nil {
			return nil, fmt.Errorf("generate chapter ID: %w", err)
		}
		chapters[i] = domain.Chapter{
			ID:       chapterID,
			BookID:   bookID,
			Title:    in.Title,
			Content:  in.Content,
			Position: i,
		}
	}
	return chapters, nil
}
