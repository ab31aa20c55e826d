package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// ProgressService tracks per-(user, book) reading positions.
type ProgressService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewProgressService creates a new reading progress service.
func NewProgressService(store store.Store, logger *slog.Logger) *ProgressService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProgressService{
		store:     store,
		validator: validation.New(),
		logger:    logger,
	}
}

// SaveProgressRequest contains a reading position update.
type SaveProgressRequest struct {
	BookID         string `json:"book_id" validate:"required"`
	ChapterIndex   int    `json:"chapter_index" validate:"gte=0"`
	ScrollPosition int    `json:"scroll_position" validate:"gte=0"`
}

// Save upserts the user's reading position for a book. A second save for the
// same pair updates the existing row in place.
func (s *ProgressService) Save(ctx context.Context, userID string, req SaveProgressRequest) (*domain.ReadingProgress, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	progress := &domain.ReadingProgress{
		UserID:         userID,
		BookID:         req.BookID,
		ChapterIndex:   req.ChapterIndex,
		ScrollPosition: req.ScrollPosition,
	}
	if err := s.store.UpsertReadingProgress(ctx, progress); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("save reading progress: %w", err)
	}

	return progress, nil
}

// Get returns the user's reading position for a book.
func (s *ProgressService) Get(ctx context.Context, userID, bookID string) (*domain.ReadingProgress, error) {
	progress, err := s.store.GetReadingProgress(ctx, userID, bookID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("no reading progress for this book")
		}
		return nil, fmt.Errorf("get reading progress: %w", err)
	}
	return progress, nil
}

// List returns all of the user's reading positions, most recently updated
// first.
func (s *ProgressService) List(ctx context.Context, userID string) ([]*domain.ReadingProgress, error) {
	progress, err := s.store.ListReadingProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reading progress: %w", err)
	}
	return progress, nil
}
