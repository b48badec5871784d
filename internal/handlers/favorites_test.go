package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/tunevault/internal/handlers"
	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/BradenHooton/tunevault/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteList(t *testing.T) {
	added := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := &handlers.MockFavoriteService{
		ListFunc: func(ctx context.Context, userID int64) ([]*models.Favorite, error) {
			return []*models.Favorite{
				{Song: *uploadedSong(), AddedAt: added},
				{Song: *bundledSong(), AddedAt: added.Add(-time.Hour)},
			}, nil
		},
	}
	handler := handlers.NewFavoriteHandler(svc, testURLs)

	w := httptest.NewRecorder()
	handler.List(w, handlers.WithSessionUser(httptest.NewRequest("GET", "/api/favorites", nil), 2, models.RoleUser))

	var data struct {
		Favorites []handlers.FavoriteResponse `json:"favorites"`
		Count     int                         `json:"count"`
	}
	handlers.AssertSuccessResponse(t, w, http.StatusOK, &data)
	assert.Equal(t, 2, data.Count)
	require.Len(t, data.Favorites, 2)
	assert.Equal(t, "http://localhost:8080/uploads/songs/blue_1700.mp3", data.Favorites[0].AudioURL)
	assert.Equal(t, "http://localhost:8080/assets/img/help.jpg", data.Favorites[1].CoverURL)
	assert.True(t, added.Equal(data.Favorites[0].AddedAt))
}

func TestFavoriteAdd(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"added", nil, http.StatusCreated},
		{"duplicate", services.ErrAlreadyFavorite, http.StatusConflict},
		{"unknown song", services.ErrSongNotFound, http.StatusNotFound},
		{"store", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &handlers.MockFavoriteService{
				AddFunc: func(ctx context.Context, userID, songID int64) error {
					return tt.err
				},
			}
			handler := handlers.NewFavoriteHandler(svc, testURLs)

			req := handlers.NewTestRequest(t, "POST", "/api/favorites", handlers.FavoriteRequest{SongID: 4})
			w := httptest.NewRecorder()
			handler.Add(w, handlers.WithSessionUser(req, 2, models.RoleUser))

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestFavoriteRemove_NotPresent(t *testing.T) {
	svc := &handlers.MockFavoriteService{
		RemoveFunc: func(ctx context.Context, userID, songID int64) error {
			return services.ErrNotFavorite
		},
	}
	handler := handlers.NewFavoriteHandler(svc, testURLs)

	req := handlers.WithURLParams(httptest.NewRequest("DELETE", "/api/favorites/4", nil), "songID", "4")
	w := httptest.NewRecorder()
	handler.Remove(w, req)

	msg := handlers.AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
	assert.Equal(t, "Song not found in favorites", msg)
}
