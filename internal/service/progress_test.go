package service

import (
	"context"
	"testing"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressService_SaveAndGet(t *testing.T) {
	s := newTestStore(t)
	books := NewBookService(s, nil, nil, nil, nil)
	svc := NewProgressService(s, nil)
	ctx := context.Background()

	user := createTestUser(t, s, "ada@example.com", domain.RoleReader)
	book, err := books.CreateBook(ctx, draftRequest("The Lighthouse", "One", "Two"))
	require.NoError(t, err)

	saved, err := svc.Save(ctx, user.ID, SaveProgressRequest{
		BookID:         book.ID,
		ChapterIndex:   1,
		ScrollPosition: 250,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	got, err := svc.Get(ctx, user.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ChapterIndex)
	assert.Equal(t, 250, got.ScrollPosition)
}

func TestProgressService_SaveUpserts(t *testing.T) {
	s := newTestStore(t)
	books := NewBookService(s, nil, nil, nil, nil)
	svc := NewProgressService(s, nil)
	ctx := context.Background()

	user := createTestUser(t, s, "ada@example.com", domain.RoleReader)
	book, err := books.CreateBook(ctx, draftRequest("The Lighthouse", "One", "Two"))
	require.NoError(t, err)

	_, err = svc.Save(ctx, user.ID, SaveProgressRequest{BookID: book.ID, ChapterIndex: 0, ScrollPosition: 10})
	require.NoError(t, err)
	_, err = svc.Save(ctx, user.ID, SaveProgressRequest{BookID: book.ID, ChapterIndex: 1, ScrollPosition: 99})
	require.NoError(t, err)

	// Second save updated the single row rather than duplicating it.
	all, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 1, all[0].ChapterIndex)
	assert.Equal(t, 99, all[0].ScrollPosition)
}

func TestProgressService_Save_Validation(t *testing.T) {
	s := newTestStore(t)
	svc := NewProgressService(s, nil)
	user := createTestUser(t, s, "ada@example.com", domain.RoleReader)

	_, err := svc.Save(context.Background(), user.ID, SaveProgressRequest{ChapterIndex: 0})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.Save(context.Background(), user.ID, SaveProgressRequest{BookID: "book-x", ChapterIndex: -1})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestProgressService_Save_UnknownBook(t *testing.T) {
	s := newTestStore(t)
	svc := NewProgressService(s, nil)
	user := createTestUser(t, s, "ada@example.com", domain.RoleReader)

	_, err := svc.Save(context.Background(), user.ID, SaveProgressRequest{BookID: "book-missing"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestProgressService_Get_NotFound(t *testing.T) {
	s := newTestStore(t)
	svc := NewProgressService(s, nil)
	user := createTestUser(t, s, "ada@example.com", domain.RoleReader)

	_, err := svc.Get(context.Background(), user.ID, "book-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
