package mongo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/bookverse/bookcart/pkg/errors"

	"github.com/bookverse/bookcart/internal/domain"
)

func setupWishlistRepo(t *testing.T) *WishlistRepository {
	t.Helper()
	repo := NewWishlistRepository(setupTestDB(t))
	require.NoError(t, repo.EnsureIndexes(context.Background()))
	return repo
}

func TestWishlistFindByUser_NotFound(t *testing.T) {
	repo := setupWishlistRepo(t)

	list, err := repo.FindByUser(context.Background(), 12345)

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Nil(t, list)
}

func TestWishlistUpsert_InsertAndReplace(t *testing.T) {
	repo := setupWishlistRepo(t)
	ctx := context.Background()

	list := domain.NewWishlist(1)
	list.Lines = []domain.WishlistLine{{BookID: 10}}
	require.NoError(t, repo.Upsert(ctx, list))
	assert.NotEmpty(t, list.ID)

	list.Lines = append(list.Lines, domain.WishlistLine{BookID: 20})
	require.NoError(t, repo.Upsert(ctx, list))

	found, err := repo.FindByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, list.ID, found.ID)
	require.Len(t, found.Lines, 2)
	assert.Equal(t, int64(10), found.Lines[0].BookID)
	assert.Equal(t, int64(20), found.Lines[1].BookID)
}

func TestWishlistUpsert_EmptyDocumentPersists(t *testing.T) {
	repo := setupWishlistRepo(t)
	ctx := context.Background()

	list := domain.NewWishlist(1)
	list.Lines = []domain.WishlistLine{{BookID: 10}}
	require.NoError(t, repo.Upsert(ctx, list))

	list.Lines = []domain.WishlistLine{}
	require.NoError(t, repo.Upsert(ctx, list))

	found, err := repo.FindByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, found.Lines)
}

func TestWishlistDeleteByID_NotFound(t *testing.T) {
	repo := setupWishlistRepo(t)

	err := repo.DeleteByID(context.Background(), "66f0c4a1b2c3d4e5f6a7b8ca")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
