package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/inkwellapp/inkwell-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search books",
		Description: "Full-text search over the catalog. Drafts only surface for admins.",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// SearchInput carries the search query parameters.
type SearchInput struct {
	Query  string `query:"q" doc:"Search query"`
	Genre  string `query:"genre" doc:"Filter by exact genre"`
	Limit  int    `query:"limit" doc:"Page size (default 20, max 100)"`
	Offset int    `query:"offset" doc:"Page offset"`
	Sort   string `query:"sort" doc:"relevance, title, or recent"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body search.Result
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.DefaultParams()
	params.Query = input.Query
	params.Genre = input.Genre
	if input.Limit > 0 && input.Limit <= 100 {
		params.Limit = input.Limit
	}
	if input.Offset > 0 {
		params.Offset = input.Offset
	}
	if input.Sort != "" {
		params.SortBy = input.Sort
	}

	result, err := s.services.Search.Search(ctx, params, s.isAdmin(ctx))
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: *result}, nil
}
