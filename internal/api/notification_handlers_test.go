package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVapidKey(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/notifications/vapid-key")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[VapidKeyResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "test-public-key", envelope.Data.PublicKey)
}

func TestRegisterPushEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	reader := ts.registerUser(t, "reader@example.com")

	resp := ts.api.Put("/api/v1/notifications/endpoint", "Authorization: Bearer "+reader,
		pushSubscription("https://push.example.com/sub/abc"))
	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestRegisterPushEndpointInvalid(t *testing.T) {
	ts := setupTestServer(t)
	reader := ts.registerUser(t, "reader@example.com")

	// Missing keys fail schema validation before the handler runs.
	resp := ts.api.Put("/api/v1/notifications/endpoint", "Authorization: Bearer "+reader,
		map[string]any{"endpoint": "https://push.example.com/sub/abc"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	// Empty keys pass the schema but are unusable for encrypted delivery.
	resp = ts.api.Put("/api/v1/notifications/endpoint", "Authorization: Bearer "+reader,
		map[string]any{
			"endpoint": "https://push.example.com/sub/abc",
			"keys":     map[string]any{"p256dh": "", "auth": ""},
		})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRegisterPushEndpointRequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Put("/api/v1/notifications/endpoint",
		pushSubscription("https://push.example.com/sub/abc"))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUnregisterPushEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	reader := ts.registerUser(t, "reader@example.com")

	resp := ts.api.Put("/api/v1/notifications/endpoint", "Authorization: Bearer "+reader,
		pushSubscription("https://push.example.com/sub/abc"))
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Delete("/api/v1/notifications/endpoint", "Authorization: Bearer "+reader)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	// Unregistering again is a no-op, not an error.
	resp = ts.api.Delete("/api/v1/notifications/endpoint", "Authorization: Bearer "+reader)
	assert.Equal(t, http.StatusNoContent, resp.Code)
}

// TestChapterUpdateFanOut walks the whole pipeline over HTTP: a reader follows
// a book and registers a push endpoint, an admin adds a chapter, and the
// reader's endpoint receives exactly one notification.
func TestChapterUpdateFanOut(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminToken(t, "admin@example.com")
	follower := ts.registerUser(t, "follower@example.com")
	bystander := ts.registerUser(t, "bystander@example.com")

	book := ts.createBook(t, admin, "Serial Novel", "published", "Chapter One")

	resp := ts.api.Put("/api/v1/books/"+book.ID+"/subscription", "Authorization: Bearer "+follower)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = ts.api.Put("/api/v1/notifications/endpoint", "Authorization: Bearer "+follower,
		pushSubscription("https://push.example.com/sub/follower"))
	require.Equal(t, http.StatusNoContent, resp.Code)

	// The bystander has an endpoint but never followed the book.
	resp = ts.api.Put("/api/v1/notifications/endpoint", "Authorization: Bearer "+bystander,
		pushSubscription("https://push.example.com/sub/bystander"))
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Put("/api/v1/books/"+book.ID, "Authorization: Bearer "+admin, map[string]any{
		"title":    "Serial Novel",
		"author":   "Test Author",
		"status":   "published",
		"chapters": chapterBodies([]string{"Chapter One", "Chapter Two"}),
	})
	require.Equal(t, http.StatusOK, resp.Code)

	require.Equal(t, 1, ts.sender.count())
	assert.Equal(t, "https://push.example.com/sub/follower", ts.sender.urls[0])
	assert.Equal(t, "New chapter available in Serial Novel", ts.sender.sent[0].Title)
	assert.Equal(t, "https://inkwell.test/book/"+book.ID, ts.sender.sent[0].URL)

	// An update that does not grow the chapter list stays silent.
	resp = ts.api.Put("/api/v1/books/"+book.ID, "Authorization: Bearer "+admin, map[string]any{
		"title":    "Serial Novel (revised)",
		"author":   "Test Author",
		"status":   "published",
		"chapters": chapterBodies([]string{"Chapter One", "Chapter Two"}),
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, ts.sender.count())
}
