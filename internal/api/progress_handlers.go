package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

func (s *Server) registerProgressRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "saveReadingProgress",
		Method:      http.MethodPut,
		Path:        "/api/v1/reading-progress",
		Summary:     "Save reading progress",
		Description: "Upserts the user's reading position for a book",
		Tags:        []string{"Reading Progress"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSaveProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReadingProgress",
		Method:      http.MethodGet,
		Path:        "/api/v1/reading-progress/{bookId}",
		Summary:     "Get reading progress",
		Description: "Returns the user's reading position for one book",
		Tags:        []string{"Reading Progress"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReadingProgress",
		Method:      http.MethodGet,
		Path:        "/api/v1/reading-progress",
		Summary:     "List reading progress",
		Description: "Returns all of the user's reading positions, most recent first",
		Tags:        []string{"Reading Progress"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListProgress)
}

// === DTOs ===

// SaveProgressRequest is the request body for a progress update.
type SaveProgressRequest struct {
	BookID         string `json:"book_id" doc:"Book ID"`
	ChapterIndex   int    `json:"chapter_index" doc:"Zero-based chapter index"`
	ScrollPosition int    `json:"scroll_position" doc:"Scroll offset within the chapter"`
}

// SaveProgressInput wraps the save request for Huma.
type SaveProgressInput struct {
	Body SaveProgressRequest
}

// GetProgressInput identifies the book whose progress to fetch.
type GetProgressInput struct {
	BookID string `path:"bookId" doc:"Book ID"`
}

// ProgressResponse contains one reading position.
type ProgressResponse struct {
	BookID         string    `json:"book_id" doc:"Book ID"`
	ChapterIndex   int       `json:"chapter_index" doc:"Zero-based chapter index"`
	ScrollPosition int       `json:"scroll_position" doc:"Scroll offset within the chapter"`
	UpdatedAt      time.Time `json:"updated_at" doc:"Last update time"`
}

// ProgressOutput wraps one reading position for Huma.
type ProgressOutput struct {
	Body ProgressResponse
}

// ListProgressResponse contains all of a user's reading positions.
type ListProgressResponse struct {
	Progress []ProgressResponse `json:"progress" doc:"Reading positions, most recent first"`
}

// ListProgressOutput wraps the listing for Huma.
type ListProgressOutput struct {
	Body ListProgressResponse
}

func mapProgressResponse(p *domain.ReadingProgress) ProgressResponse {
	return ProgressResponse{
		BookID:         p.BookID,
		ChapterIndex:   p.ChapterIndex,
		ScrollPosition: p.ScrollPosition,
		UpdatedAt:      p.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleSaveProgress(ctx context.Context, input *SaveProgressInput) (*ProgressOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	progress, err := s.services.Progress.Save(ctx, userID, service.SaveProgressRequest{
		BookID:         input.Body.BookID,
		ChapterIndex:   input.Body.ChapterIndex,
		ScrollPosition: input.Body.ScrollPosition,
	})
	if err != nil {
		return nil, err
	}

	return &ProgressOutput{Body: mapProgressResponse(progress)}, nil
}

func (s *Server) handleGetProgress(ctx context.Context, input *GetProgressInput) (*ProgressOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	progress, err := s.services.Progress.Get(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}

	return &ProgressOutput{Body: mapProgressResponse(progress)}, nil
}

func (s *Server) handleListProgress(ctx context.Context, _ *struct{}) (*ListProgressOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.services.Progress.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]ProgressResponse, len(all))
	for i, p := range all {
		resp[i] = mapProgressResponse(p)
	}

	return &ListProgressOutput{Body: ListProgressResponse{Progress: resp}}, nil
}
