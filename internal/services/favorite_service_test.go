package services

import (
	"context"
	"testing"

	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteService_Add(t *testing.T) {
	var added [2]int64
	repo := &MockFavoriteRepository{
		AddFunc: func(ctx context.Context, userID, songID int64) error {
			added = [2]int64{userID, songID}
			return nil
		},
	}
	svc := NewFavoriteService(repo, songsWith(5), discardLogger())

	require.NoError(t, svc.Add(context.Background(), 2, 5))
	assert.Equal(t, [2]int64{2, 5}, added)
}

func TestFavoriteService_Add_Errors(t *testing.T) {
	ctx := context.Background()

	svc := NewFavoriteService(&MockFavoriteRepository{}, songsWith(), discardLogger())
	assert.ErrorIs(t, svc.Add(ctx, 2, 5), ErrSongNotFound)

	dup := &MockFavoriteRepository{
		AddFunc: func(ctx context.Context, userID, songID int64) error {
			return models.ErrConflict
		},
	}
	svc = NewFavoriteService(dup, songsWith(5), discardLogger())
	err := svc.Add(ctx, 2, 5)
	assert.ErrorIs(t, err, ErrAlreadyFavorite)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestFavoriteService_Remove(t *testing.T) {
	svc := NewFavoriteService(&MockFavoriteRepository{}, songsWith(), discardLogger())
	assert.NoError(t, svc.Remove(context.Background(), 2, 5))

	missing := &MockFavoriteRepository{
		RemoveFunc: func(ctx context.Context, userID, songID int64) error {
			return models.ErrNotFound
		},
	}
	svc = NewFavoriteService(missing, songsWith(), discardLogger())
	assert.ErrorIs(t, svc.Remove(context.Background(), 2, 5), ErrNotFavorite)
}

func TestFavoriteService_List(t *testing.T) {
	repo := &MockFavoriteRepository{
		ListFunc: func(ctx context.Context, userID int64) ([]*models.Favorite, error) {
			return []*models.Favorite{{Song: *NewTestSong(1, "a", "b")}}, nil
		},
	}
	svc := NewFavoriteService(repo, songsWith(), discardLogger())

	favs, err := svc.List(context.Background(), 2)

	require.NoError(t, err)
	assert.Len(t, favs, 1)
}
