package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchBooks(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")
	published := ts.createBook(t, admin, "The Silent Ocean", "published", "Chapter One")
	ts.createBook(t, admin, "Unrelated Story", "published", "Chapter One")

	resp := ts.api.Get("/api/v1/search?q=silent+ocean")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[search.Result]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Hits)
	assert.Equal(t, published.ID, envelope.Data.Hits[0].ID)
	assert.Equal(t, "The Silent Ocean", envelope.Data.Hits[0].Title)
}

func TestSearchHidesDraftsFromReaders(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")
	draft := ts.createBook(t, admin, "Secret Manuscript", "draft", "Chapter One")

	resp := ts.api.Get("/api/v1/search?q=secret+manuscript")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[search.Result]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data.Hits)

	resp = ts.api.Get("/api/v1/search?q=secret+manuscript", "Authorization: Bearer "+admin)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Hits)
	assert.Equal(t, draft.ID, envelope.Data.Hits[0].ID)
}

func TestSearchPagination(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")
	for _, title := range []string{"Ocean Alpha", "Ocean Beta", "Ocean Gamma"} {
		ts.createBook(t, admin, title, "published", "Chapter One")
	}

	resp := ts.api.Get("/api/v1/search?q=ocean&limit=2")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[search.Result]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, uint64(3), envelope.Data.Total)
	assert.Len(t, envelope.Data.Hits, 2)
}
