package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/push"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a fresh sqlite store in a temp directory.
func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// newTestTokenService builds a token service with a throwaway key.
func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()

	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)

	ts, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)
	return ts
}

// createTestUser inserts an active user directly into the store.
func createTestUser(t *testing.T, s *sqlite.Store, email string, role domain.Role) *domain.User {
	t.Helper()

	userID, err := id.Generate(id.PrefixUser)
	require.NoError(t, err)

	user := &domain.User{
		Entity:       domain.Entity{ID: userID},
		Email:        email,
		PasswordHash: "unused",
		DisplayName:  "Test User",
		Role:         role,
		Active:       true,
	}
	user.InitTimestamps()
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

// fakeSender records payload deliveries per endpoint URL instead of talking
// to a push service.
type fakeSender struct {
	mu   sync.Mutex
	sent []fakeDelivery
	fail map[string]error // endpoint URL -> error to return
}

type fakeDelivery struct {
	URL     string
	Payload push.Payload
}

func (f *fakeSender) Send(_ context.Context, endpoint *push.Endpoint, payload push.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[endpoint.URL]; ok {
		return err
	}
	f.sent = append(f.sent, fakeDelivery{URL: endpoint.URL, Payload: payload})
	return nil
}

func (f *fakeSender) deliveries() []fakeDelivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fakeDelivery(nil), f.sent...)
}

// subscriptionJSON builds a well-formed push subscription blob for tests.
func subscriptionJSON(url string) string {
	return `{"endpoint":"` + url + `","keys":{"p256dh":"BNcRdreALRFXTkOOUHK1EtK2wtaz5Ry4YfYCA_0QTpQtUbVlUls0VJXg7A8u-Ts1XbjhazAkj7I99e8QcYP7DkM","auth":"tBHItJI5svbpez7KI4CCXg"}}`
}
