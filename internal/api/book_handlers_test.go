package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBook(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")

	book := ts.createBook(t, admin, "The Martian", "draft", "Chapter One", "Chapter Two")

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "The Martian", book.Title)
	assert.Equal(t, "draft", book.Status)
	assert.Nil(t, book.PublishedAt)
	require.Len(t, book.Chapters, 2)
	assert.Equal(t, 0, book.Chapters[0].Position)
	assert.Equal(t, 1, book.Chapters[1].Position)
}

func TestCreateBookPublished(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")

	book := ts.createBook(t, admin, "Project Hail Mary", "published", "Chapter One")

	assert.Equal(t, "published", book.Status)
	require.NotNil(t, book.PublishedAt)
}

func TestCreateBookRequiresAdmin(t *testing.T) {
	ts := setupTestServer(t)
	reader := ts.registerUser(t, "reader@example.com")

	body := map[string]any{
		"title":    "Forbidden",
		"author":   "Nobody",
		"chapters": chapterBodies([]string{"One"}),
	}

	resp := ts.api.Post("/api/v1/books", body)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/books", "Authorization: Bearer "+reader, body)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestCreateBookValidation(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")

	resp := ts.api.Post("/api/v1/books", "Authorization: Bearer "+admin, map[string]any{
		"title":    "No Chapters",
		"author":   "Someone",
		"chapters": []map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Post("/api/v1/books", "Authorization: Bearer "+admin, map[string]any{
		"title":    "Bad Status",
		"author":   "Someone",
		"status":   "archived",
		"chapters": chapterBodies([]string{"One"}),
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetBook(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")
	created := ts.createBook(t, admin, "Dune", "published", "Chapter One")

	resp := ts.api.Get("/api/v1/books/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "Dune", envelope.Data.Title)
	require.Len(t, envelope.Data.Chapters, 1)
	assert.Equal(t, "Chapter One content", envelope.Data.Chapters[0].Content)
}

func TestGetBookDraftHiddenFromReaders(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")
	reader := ts.registerUser(t, "reader@example.com")
	draft := ts.createBook(t, admin, "Unfinished", "draft", "Chapter One")

	// Anonymous and reader requests cannot tell a draft from a missing book.
	resp := ts.api.Get("/api/v1/books/" + draft.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/books/"+draft.ID, "Authorization: Bearer "+reader)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/books/"+draft.ID, "Authorization: Bearer "+admin)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestListBooks(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")
	ts.createBook(t, admin, "Published One", "published", "Chapter")
	ts.createBook(t, admin, "Draft One", "draft", "Chapter")

	resp := ts.api.Get("/api/v1/books")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListBooksResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Books, 1)
	assert.Equal(t, "Published One", envelope.Data.Books[0].Title)

	resp = ts.api.Get("/api/v1/books", "Authorization: Bearer "+admin)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Books, 2)
}

func TestUpdateBook(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")
	created := ts.createBook(t, admin, "Serial Novel", "published", "Chapter One")

	resp := ts.api.Put("/api/v1/books/"+created.ID, "Authorization: Bearer "+admin, map[string]any{
		"title":    "Serial Novel",
		"author":   "Test Author",
		"status":   "published",
		"chapters": chapterBodies([]string{"Chapter One", "Chapter Two"}),
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Chapters, 2)
	require.NotNil(t, envelope.Data.PublishedAt)
	assert.Equal(t, created.PublishedAt.Unix(), envelope.Data.PublishedAt.Unix())
}

func TestUpdateBookNotFound(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")

	resp := ts.api.Put("/api/v1/books/bk_missing", "Authorization: Bearer "+admin, map[string]any{
		"title":    "Ghost",
		"author":   "Nobody",
		"status":   "draft",
		"chapters": chapterBodies([]string{"One"}),
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteBook(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")
	created := ts.createBook(t, admin, "Ephemeral", "published", "Chapter One")

	resp := ts.api.Delete("/api/v1/books/"+created.ID, "Authorization: Bearer "+admin)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/books/"+created.ID, "Authorization: Bearer "+admin)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/books/"+created.ID, "Authorization: Bearer "+admin)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteBookRequiresAdmin(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")
	reader := ts.registerUser(t, "reader@example.com")
	created := ts.createBook(t, admin, "Protected", "published", "Chapter One")

	resp := ts.api.Delete("/api/v1/books/" + created.ID)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Delete("/api/v1/books/"+created.ID, "Authorization: Bearer "+reader)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}
