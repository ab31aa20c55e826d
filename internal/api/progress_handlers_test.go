package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveReadingProgress(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")
	reader := ts.registerUser(t, "reader@example.com")
	book := ts.createBook(t, admin, "In Progress", "published", "One", "Two")

	resp := ts.api.Put("/api/v1/reading-progress", "Authorization: Bearer "+reader, map[string]any{
		"book_id":         book.ID,
		"chapter_index":   1,
		"scroll_position": 250,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ProgressResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, book.ID, envelope.Data.BookID)
	assert.Equal(t, 1, envelope.Data.ChapterIndex)
	assert.Equal(t, 250, envelope.Data.ScrollPosition)
	assert.False(t, envelope.Data.UpdatedAt.IsZero())
}

func TestSaveReadingProgressUpserts(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")
	reader := ts.registerUser(t, "reader@example.com")
	book := ts.createBook(t, admin, "In Progress", "published", "One", "Two")

	for _, pos := range []int{100, 400} {
		resp := ts.api.Put("/api/v1/reading-progress", "Authorization: Bearer "+reader, map[string]any{
			"book_id":         book.ID,
			"chapter_index":   0,
			"scroll_position": pos,
		})
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/reading-progress/"+book.ID, "Authorization: Bearer "+reader)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ProgressResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 400, envelope.Data.ScrollPosition)
}

func TestSaveReadingProgressUnknownBook(t *testing.T) {
	ts := setupTestServer(t)
	reader := ts.registerUser(t, "reader@example.com")

	resp := ts.api.Put("/api/v1/reading-progress", "Authorization: Bearer "+reader, map[string]any{
		"book_id":         "bk_missing",
		"chapter_index":   0,
		"scroll_position": 0,
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetReadingProgressNotFound(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")
	reader := ts.registerUser(t, "reader@example.com")
	book := ts.createBook(t, admin, "Unread", "published", "One")

	resp := ts.api.Get("/api/v1/reading-progress/"+book.ID, "Authorization: Bearer "+reader)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListReadingProgress(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")
	reader := ts.registerUser(t, "reader@example.com")
	first := ts.createBook(t, admin, "First", "published", "One")
	second := ts.createBook(t, admin, "Second", "published", "One")

	for _, id := range []string{first.ID, second.ID} {
		resp := ts.api.Put("/api/v1/reading-progress", "Authorization: Bearer "+reader, map[string]any{
			"book_id":         id,
			"chapter_index":   0,
			"scroll_position": 10,
		})
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/reading-progress", "Authorization: Bearer "+reader)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListProgressResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Progress, 2)
}

func TestReadingProgressRequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/reading-progress")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
