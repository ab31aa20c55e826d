package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":      "reader@example.com",
		"password":   "TestPassword123",
		"first_name": "Ada",
		"last_name":  "Lovelace",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Version)
	assert.True(t, envelope.Success)
	assert.Equal(t, "reader@example.com", envelope.Data.User.Email)
	assert.Equal(t, "Ada Lovelace", envelope.Data.User.DisplayName)
	assert.Equal(t, "reader", envelope.Data.User.Role)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Positive(t, envelope.Data.ExpiresIn)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":      "reader@example.com",
		"password":   "AnotherPassword1",
		"first_name": "Second",
		"last_name":  "Reader",
	})
	require.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[any]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.Error)
}

func TestRegisterValidation(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{
			name:       "missing email",
			body:       map[string]any{"password": "TestPassword123", "first_name": "A", "last_name": "B"},
			wantStatus: http.StatusUnprocessableEntity, // Huma returns 422 for missing required fields
		},
		{
			name:       "invalid email",
			body:       map[string]any{"email": "not-an-email", "password": "TestPassword123", "first_name": "A", "last_name": "B"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short password",
			body:       map[string]any{"email": "a@example.com", "password": "short", "first_name": "A", "last_name": "B"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/auth/register", tt.body)
			assert.Equal(t, tt.wantStatus, resp.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "reader@example.com",
		"password": "TestPassword123",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "reader@example.com")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "reader@example.com", "WrongPassword123"},
		{"unknown email", "nobody@example.com", "TestPassword123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/auth/login", map[string]any{
				"email":    tt.email,
				"password": tt.password,
			})
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
}

func TestGetCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "reader@example.com")

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "reader@example.com", envelope.Data.Email)
	assert.Equal(t, "reader", envelope.Data.Role)
}

func TestGetCurrentUserUnauthenticated(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/users/me", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
