package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// SearchService answers catalog search queries and keeps the index warm.
type SearchService struct {
	store  store.Store
	index  *search.Index
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(store store.Store, index *search.Index, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SearchService{store: store, index: index, logger: logger}
}

// Search runs a full-text query over the catalog. Non-admin callers only see
// published books regardless of what the request asked for.
func (s *SearchService) Search(ctx context.Context, params search.Params, includeDrafts bool) (*search.Result, error) {
	if !includeDrafts {
		params.PublishedOnly = true
	}

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return result, nil
}

// Reindex rebuilds the search index from the store. Run at startup so the
// index catches up with any writes it missed.
func (s *SearchService) Reindex(ctx context.Context) error {
	books, err := s.store.ListBooks(ctx, false)
	if err != nil {
		return fmt.Errorf("list books for reindex: %w", err)
	}

	// Listings carry no chapter content; fetch each book in full so chapter
	// text is searchable.
	full := make([]*domain.Book, 0, len(books))
	for _, book := range books {
		b, err := s.store.GetBook(ctx, book.ID)
		if err != nil {
			s.logger.Warn("skipping book during reindex", "book_id", book.ID, "error", err)
			continue
		}
		full = append(full, b)
	}

	if err := s.index.IndexBooks(full); err != nil {
		return fmt.Errorf("reindex books: %w", err)
	}

	s.logger.Info("search index rebuilt", "books", len(full))
	return nil
}
