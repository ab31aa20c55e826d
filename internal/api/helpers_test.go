package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/push"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/sse"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/stretchr/testify/require"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// recordingSender captures push deliveries instead of hitting a push service.
type recordingSender struct {
	mu   sync.Mutex
	sent []push.Payload
	urls []string
}

func (r *recordingSender) Send(_ context.Context, endpoint *push.Endpoint, payload push.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, payload)
	r.urls = append(r.urls, endpoint.URL)
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

// testServer wraps the API server with test plumbing.
type testServer struct {
	*Server
	api    humatest.TestAPI
	st     *sqlite.Store
	sender *recordingSender
	tokens *auth.TokenService
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(authKey, 15*time.Minute)
	require.NoError(t, err)

	index, err := search.NewIndex(search.Options{DataPath: tmpDir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	sseManager := sse.NewManager(logger)

	sender := &recordingSender{}
	dispatcher := push.NewDispatcher(sender, logger)
	keys := &push.VAPIDKeys{PublicKey: "test-public-key", PrivateKey: "test-private-key"}

	notificationService := service.NewNotificationService(st, dispatcher, keys, "https://inkwell.test", logger)
	services := &Services{
		Auth:         service.NewAuthService(st, tokenService, nil, logger),
		Book:         service.NewBookService(st, index, sseManager, notificationService, logger),
		Subscription: service.NewSubscriptionService(st, logger),
		Notification: notificationService,
		Progress:     service.NewProgressService(st, logger),
		Search:       service.NewSearchService(st, index, logger),
	}

	s := NewServer(st, services, sseManager, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		st:     st,
		sender: sender,
		tokens: tokenService,
	}
}

// registerUser registers a reader account and returns its access token.
func (ts *testServer) registerUser(t *testing.T, email string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":      email,
		"password":   "TestPassword123",
		"first_name": "Test",
		"last_name":  "Reader",
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)
	return envelope.Data.AccessToken
}

// adminToken creates an admin account directly in the store and mints an
// access token for it. There is no admin registration endpoint.
func (ts *testServer) adminToken(t *testing.T, email string) string {
	t.Helper()

	userID, err := id.Generate(id.PrefixUser)
	require.NoError(t, err)

	user := &domain.User{
		Entity:       domain.Entity{ID: userID},
		Email:        email,
		PasswordHash: "unused",
		DisplayName:  "Test Admin",
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	user.InitTimestamps()
	require.NoError(t, ts.st.CreateUser(context.Background(), user))

	token, err := ts.tokens.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

// createBook creates a book via the API as the given admin.
func (ts *testServer) createBook(t *testing.T, token, title, status string, chapters ...string) BookResponse {
	t.Helper()

	body := map[string]any{
		"title":    title,
		"author":   "Test Author",
		"genre":    "fiction",
		"status":   status,
		"chapters": chapterBodies(chapters),
	}
	resp := ts.api.Post("/api/v1/books", "Authorization: Bearer "+token, body)
	require.Equal(t, http.StatusOK, resp.Code, "create book failed: %s", resp.Body.String())

	var envelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func chapterBodies(titles []string) []map[string]any {
	out := make([]map[string]any, len(titles))
	for i, title := range titles {
		out[i] = map[string]any{"title": title, "content": title + " content"}
	}
	return out
}

// pushSubscription is a well-formed Web Push subscription body for tests.
func pushSubscription(url string) map[string]any {
	return map[string]any{
		"endpoint": url,
		"keys": map[string]any{
			"p256dh": "BNcRdreALRFXTkOOUHK1EtK2wtaz5Ry4YfYCA_0QTpQtUbVlUls0VJXg7A8u-Ts1XbjhazAkj7I99e8QcYP7DkM",
			"auth":   "tBHItJI5svbpez7KI4CCXg",
		},
	}
}
