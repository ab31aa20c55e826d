package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the catalog. Admins also see drafts.",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book with its full chapter list. Drafts resolve only for admins.",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Create book",
		Description: "Creates a book with its initial chapters (admin only)",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Replaces a book's metadata and chapter list (admin only). Growing the chapter count notifies subscribers.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Deletes a book and everything attached to it (admin only)",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)
}

// === DTOs ===

// ChapterInput is one chapter in a create or update request.
type ChapterInput struct {
	Title   string `json:"title" doc:"Chapter title"`
	Content string `json:"content" doc:"Chapter text"`
}

// BookRequest is the request body for creating or replacing a book.
type BookRequest struct {
	Title       string         `json:"title" doc:"Book title"`
	Author      string         `json:"author" doc:"Author name"`
	Genre       string         `json:"genre,omitempty" doc:"Genre"`
	Description string         `json:"description,omitempty" doc:"Description"`
	CoverImage  string         `json:"cover_image,omitempty" doc:"Cover image URL"`
	Status      string         `json:"status,omitempty" doc:"draft or published"`
	Chapters    []ChapterInput `json:"chapters" doc:"Ordered chapter list"`
}

// CreateBookInput wraps a book creation request for Huma.
type CreateBookInput struct {
	Body BookRequest
}

// UpdateBookInput wraps a book replacement request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body BookRequest
}

// GetBookInput identifies a single book.
type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// ChapterResponse is one chapter in a book response.
type ChapterResponse struct {
	ID       string `json:"id" doc:"Chapter ID"`
	Title    string `json:"title" doc:"Chapter title"`
	Content  string `json:"content,omitempty" doc:"Chapter text"`
	Position int    `json:"position" doc:"Zero-based position"`
}

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID          string            `json:"id" doc:"Book ID"`
	Title       string            `json:"title" doc:"Book title"`
	Author      string            `json:"author" doc:"Author name"`
	Genre       string            `json:"genre,omitempty" doc:"Genre"`
	Description string            `json:"description,omitempty" doc:"Description"`
	CoverImage  string            `json:"cover_image,omitempty" doc:"Cover image URL"`
	Status      string            `json:"status" doc:"draft or published"`
	PublishedAt *time.Time        `json:"published_at,omitempty" doc:"First publication time"`
	CreatedAt   time.Time         `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time         `json:"updated_at" doc:"Last update time"`
	Chapters    []ChapterResponse `json:"chapters,omitempty" doc:"Ordered chapters (detail view only)"`
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body BookResponse
}

// ListBooksResponse contains the book listing.
type ListBooksResponse struct {
	Books []BookResponse `json:"books" doc:"Books without chapter content"`
}

// ListBooksOutput wraps the listing for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

func mapBookResponse(book *domain.Book) BookResponse {
	resp := BookResponse{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		Genre:       book.Genre,
		Description: book.Description,
		CoverImage:  book.CoverImage,
		Status:      string(book.Status),
		PublishedAt: book.PublishedAt,
		CreatedAt:   book.CreatedAt,
		UpdatedAt:   book.UpdatedAt,
	}
	for _, ch := range book.Chapters {
		resp.Chapters = append(resp.Chapters, ChapterResponse{
			ID:       ch.ID,
			Title:    ch.Title,
			Content:  ch.Content,
			Position: ch.Position,
		})
	}
	return resp
}

func mapChapterInputs(chapters []ChapterInput) []service.ChapterInput {
	out := make([]service.ChapterInput, len(chapters))
	for i, ch := range chapters {
		out[i] = service.ChapterInput{Title: ch.Title, Content: ch.Content}
	}
	return out
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, _ *struct{}) (*ListBooksOutput, error) {
	books, err := s.services.Book.ListBooks(ctx, s.isAdmin(ctx))
	if err != nil {
		return nil, err
	}

	resp := make([]BookResponse, len(books))
	for i, b := range books {
		resp[i] = mapBookResponse(b)
	}

	return &ListBooksOutput{Body: ListBooksResponse{Books: resp}}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	book, err := s.services.Book.GetBook(ctx, input.ID, s.isAdmin(ctx))
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	book, err := s.services.Book.CreateBook(ctx, service.CreateBookRequest{
		Title:       input.Body.Title,
		Author:      input.Body.Author,
		Genre:       input.Body.Genre,
		Description: input.Body.Description,
		CoverImage:  input.Body.CoverImage,
		Status:      input.Body.Status,
		Chapters:    mapChapterInputs(input.Body.Chapters),
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	book, err := s.services.Book.UpdateBook(ctx, input.ID, service.UpdateBookRequest{
		Title:       input.Body.Title,
		Author:      input.Body.Author,
		Genre:       input.Body.Genre,
		Description: input.Body.Description,
		CoverImage:  input.Body.CoverImage,
		Status:      input.Body.Status,
		Chapters:    mapChapterInputs(input.Body.Chapters),
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

// DeleteBookOutput is the (empty) response for a deletion.
type DeleteBookOutput struct {
	Status int
}

func (s *Server) handleDeleteBook(ctx context.Context, input *GetBookInput) (*DeleteBookOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Book.DeleteBook(ctx, input.ID); err != nil {
		return nil, err
	}

	return &DeleteBookOutput{Status: http.StatusNoContent}, nil
}
