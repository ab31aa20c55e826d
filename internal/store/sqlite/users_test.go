package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &domain.User{
		Email:        "Reader@Example.com",
		PasswordHash: "argon2id$hash",
		DisplayName:  "Reader One",
		FirstName:    "Reader",
		LastName:     "One",
		Role:         domain.RoleReader,
		Active:       true,
	}
	u.ID = "user-1"
	u.InitTimestamps()
	u.LastLoginAt = time.Now()

	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "Reader@Example.com" {
		t.Errorf("email: got %q, want original casing preserved", got.Email)
	}
	if got.Role != domain.RoleReader {
		t.Errorf("role: got %q, want reader", got.Role)
	}
	if !got.Active {
		t.Error("expected user to be active")
	}
	if got.PushEndpoint != nil {
		t.Errorf("push endpoint: got %q, want nil", *got.PushEndpoint)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "user-missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetUserByEmailCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "Mixed.Case@Example.com")

	got, err := s.GetUserByEmail(ctx, "mixed.case@example.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("id: got %q, want user-1", got.ID)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	insertTestUser(t, s, "user-1", "taken@example.com")

	u := &domain.User{
		Email:        "TAKEN@example.com",
		PasswordHash: "x",
		Role:         domain.RoleReader,
		Active:       true,
	}
	u.ID = "user-2"
	u.InitTimestamps()
	u.LastLoginAt = time.Now()

	err := s.CreateUser(context.Background(), u)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestSetPushEndpoint(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "push@example.com")

	endpoint := `{"endpoint":"https://push.example/send/abc","keys":{"p256dh":"pk","auth":"ak"}}`
	if err := s.SetPushEndpoint(ctx, "user-1", &endpoint); err != nil {
		t.Fatalf("SetPushEndpoint: %v", err)
	}

	u, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.PushEndpoint == nil || *u.PushEndpoint != endpoint {
		t.Errorf("push endpoint not stored: got %v", u.PushEndpoint)
	}

	// Re-registering replaces the previous endpoint.
	replacement := `{"endpoint":"https://push.example/send/def","keys":{"p256dh":"pk2","auth":"ak2"}}`
	if err := s.SetPushEndpoint(ctx, "user-1", &replacement); err != nil {
		t.Fatalf("SetPushEndpoint replace: %v", err)
	}
	u, err = s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.PushEndpoint == nil || *u.PushEndpoint != replacement {
		t.Errorf("push endpoint not replaced: got %v", u.PushEndpoint)
	}

	// Nil clears it.
	if err := s.SetPushEndpoint(ctx, "user-1", nil); err != nil {
		t.Fatalf("SetPushEndpoint clear: %v", err)
	}
	u, err = s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.PushEndpoint != nil {
		t.Errorf("push endpoint not cleared: got %q", *u.PushEndpoint)
	}
}

func TestSetPushEndpointMissingUser(t *testing.T) {
	s := newTestStore(t)

	endpoint := `{"endpoint":"https://push.example/send/abc"}`
	err := s.SetPushEndpoint(context.Background(), "user-missing", &endpoint)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateLastLogin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "login@example.com")

	at := time.Now().Add(time.Hour)
	if err := s.UpdateLastLogin(ctx, "user-1", at); err != nil {
		t.Fatalf("UpdateLastLogin: %v", err)
	}

	u, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	// Times round-trip through RFC3339Nano; compare at nanosecond precision.
	if u.LastLoginAt.UnixNano() != at.UnixNano() {
		t.Errorf("last login: got %v, want %v", u.LastLoginAt, at)
	}
}

func TestDeleteUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "gone@example.com")

	if err := s.DeleteUser(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := s.GetUser(ctx, "user-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteUser(ctx, "user-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
