package service

import (
	"context"
	"testing"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthTest(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(newTestStore(t), newTestTokenService(t), nil, nil)
}

func TestAuthService_Register(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Email:     "ada@example.com",
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleReader, resp.User.Role)
	assert.True(t, resp.User.Active)
	assert.Equal(t, "Ada Lovelace", resp.User.DisplayName)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Positive(t, resp.ExpiresIn)

	// The issued token resolves back to the same account.
	user, claims, err := svc.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)
	assert.False(t, claims.IsAdmin())
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	req := RegisterRequest{
		Email:     "ada@example.com",
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing email", RegisterRequest{Password: "correct-horse", FirstName: "A", LastName: "B"}},
		{"bad email", RegisterRequest{Email: "nope", Password: "correct-horse", FirstName: "A", LastName: "B"}},
		{"short password", RegisterRequest{Email: "a@example.com", Password: "short", FirstName: "A", LastName: "B"}},
		{"missing name", RegisterRequest{Email: "a@example.com", Password: "correct-horse"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Email:     "ada@example.com",
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.False(t, resp.User.LastLoginAt.IsZero())
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Email:     "ada@example.com",
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)

	// Wrong password and unknown email produce the same error.
	_, err = svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_RateLimited(t *testing.T) {
	limiter := ratelimit.New(0.001, 2)
	defer limiter.Stop()

	svc := NewAuthService(newTestStore(t), newTestTokenService(t), limiter, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Email:     "ada@example.com",
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)

	req := LoginRequest{Email: "ada@example.com", Password: "correct-horse", ClientIP: "10.0.0.1"}
	for range 2 {
		_, err := svc.Login(ctx, req)
		require.NoError(t, err)
	}

	_, err = svc.Login(ctx, req)
	assert.ErrorIs(t, err, domainerrors.ErrRateLimited)

	// Other clients are unaffected.
	other := req
	other.ClientIP = "10.0.0.2"
	_, err = svc.Login(ctx, other)
	assert.NoError(t, err)
}

func TestAuthService_Authenticate_BadToken(t *testing.T) {
	svc := setupAuthTest(t)

	_, _, err := svc.Authenticate(context.Background(), "v4.local.garbage")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
