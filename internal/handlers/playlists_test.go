package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/tunevault/internal/handlers"
	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/BradenHooton/tunevault/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaylistCreate(t *testing.T) {
	svc := &handlers.MockPlaylistService{
		CreateFunc: func(ctx context.Context, userID int64, name, description string, isPublic bool) (*models.Playlist, error) {
			return &models.Playlist{ID: 3, UserID: userID, Name: name, IsPublic: isPublic}, nil
		},
	}
	handler := handlers.NewPlaylistHandler(svc, testURLs)

	req := handlers.NewTestRequest(t, "POST", "/api/playlists", handlers.CreatePlaylistRequest{Name: "Mix", IsPublic: true})
	w := httptest.NewRecorder()
	handler.Create(w, handlers.WithSessionUser(req, 8, models.RoleUser))

	var p handlers.PlaylistResponse
	handlers.AssertSuccessResponse(t, w, http.StatusCreated, &p)
	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, int64(8), p.UserID)
	assert.True(t, p.IsPublic)
}

func TestPlaylistCreate_NameRequired(t *testing.T) {
	svc := &handlers.MockPlaylistService{
		CreateFunc: func(ctx context.Context, userID int64, name, description string, isPublic bool) (*models.Playlist, error) {
			return nil, &wrapped{models.ErrValidation, "validation failed: playlist name is required"}
		},
	}
	handler := handlers.NewPlaylistHandler(svc, testURLs)

	w := httptest.NewRecorder()
	handler.Create(w, handlers.NewTestRequest(t, "POST", "/api/playlists", handlers.CreatePlaylistRequest{}))

	msg := handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "validation_error")
	assert.Equal(t, "Playlist name is required", msg)
}

func TestPlaylistGet(t *testing.T) {
	svc := &handlers.MockPlaylistService{
		GetFunc: func(ctx context.Context, userID, id int64) (*services.PlaylistDetail, error) {
			return &services.PlaylistDetail{
				Playlist: &models.Playlist{ID: id, UserID: userID, Name: "Mix", SongCount: 1},
				Songs:    []*models.PlaylistEntry{{Song: *bundledSong(), Position: 0}},
				IsOwner:  true,
			}, nil
		},
	}
	handler := handlers.NewPlaylistHandler(svc, testURLs)

	req := handlers.WithURLParams(handlers.WithSessionUser(httptest.NewRequest("GET", "/api/playlists/3", nil), 8, models.RoleUser), "id", "3")
	w := httptest.NewRecorder()
	handler.Get(w, req)

	var data struct {
		Playlist handlers.PlaylistResponse      `json:"playlist"`
		Songs    []handlers.PlaylistSongResponse `json:"songs"`
		IsOwner  bool                            `json:"is_owner"`
	}
	handlers.AssertSuccessResponse(t, w, http.StatusOK, &data)
	assert.Equal(t, 1, data.Playlist.SongCount)
	require.Len(t, data.Songs, 1)
	assert.Equal(t, "Yesterday", data.Songs[0].Title)
	assert.Equal(t, "2:05", data.Songs[0].DurationFormatted)
	assert.True(t, data.IsOwner)
}

func TestPlaylist_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"not owner", services.ErrNotPlaylistOwner, http.StatusForbidden, "permission_denied", "You do not have permission to modify this playlist"},
		{"missing playlist", services.ErrPlaylistNotFound, http.StatusNotFound, "not_found", "Playlist not found"},
		{"missing song", services.ErrSongNotFound, http.StatusNotFound, "not_found", "Song not found"},
		{"duplicate", services.ErrSongInPlaylist, http.StatusConflict, "conflict", "Song already in playlist"},
		{"store", models.ErrStore, http.StatusInternalServerError, "store_failure", "An error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &handlers.MockPlaylistService{
				AddSongFunc: func(ctx context.Context, userID, playlistID, songID int64) (int, error) {
					return 0, tt.err
				},
			}
			handler := handlers.NewPlaylistHandler(svc, testURLs)

			req := handlers.NewTestRequest(t, "POST", "/api/playlists/3/songs", handlers.AddSongRequest{SongID: 5})
			req = handlers.WithURLParams(handlers.WithSessionUser(req, 8, models.RoleUser), "id", "3")
			w := httptest.NewRecorder()
			handler.AddSong(w, req)

			msg := handlers.AssertErrorResponse(t, w, tt.status, tt.code)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestPlaylistAddSong(t *testing.T) {
	svc := &handlers.MockPlaylistService{
		AddSongFunc: func(ctx context.Context, userID, playlistID, songID int64) (int, error) {
			assert.Equal(t, int64(8), userID)
			assert.Equal(t, int64(3), playlistID)
			assert.Equal(t, int64(5), songID)
			return 2, nil
		},
	}
	handler := handlers.NewPlaylistHandler(svc, testURLs)

	req := handlers.NewTestRequest(t, "POST", "/api/playlists/3/songs", handlers.AddSongRequest{SongID: 5})
	req = handlers.WithURLParams(handlers.WithSessionUser(req, 8, models.RoleUser), "id", "3")
	w := httptest.NewRecorder()
	handler.AddSong(w, req)

	var data map[string]any
	handlers.AssertSuccessResponse(t, w, http.StatusCreated, &data)
	assert.Equal(t, float64(2), data["position"])
}

func TestPlaylistAddSong_InvalidSongID(t *testing.T) {
	handler := handlers.NewPlaylistHandler(&handlers.MockPlaylistService{}, testURLs)

	req := handlers.NewTestRequest(t, "POST", "/api/playlists/3/songs", map[string]int{"song_id": 0})
	req = handlers.WithURLParams(req, "id", "3")
	w := httptest.NewRecorder()
	handler.AddSong(w, req)

	msg := handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "validation_error")
	assert.Equal(t, "Invalid playlist or song ID", msg)
}

func TestPlaylistRemoveSong(t *testing.T) {
	svc := &handlers.MockPlaylistService{
		RemoveSongFunc: func(ctx context.Context, userID, playlistID, songID int64) error {
			return services.ErrSongNotInPlaylist
		},
	}
	handler := handlers.NewPlaylistHandler(svc, testURLs)

	req := httptest.NewRequest("DELETE", "/api/playlists/3/songs/5", nil)
	req = handlers.WithURLParams(handlers.WithSessionUser(req, 8, models.RoleUser), "id", "3", "songID", "5")
	w := httptest.NewRecorder()
	handler.RemoveSong(w, req)

	msg := handlers.AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
	assert.Equal(t, "Song not found in playlist", msg)
}

func TestPlaylistDelete_Forbidden(t *testing.T) {
	svc := &handlers.MockPlaylistService{
		DeleteFunc: func(ctx context.Context, userID, id int64) error {
			return services.ErrNotPlaylistOwner
		},
	}
	handler := handlers.NewPlaylistHandler(svc, testURLs)

	req := handlers.WithURLParams(httptest.NewRequest("DELETE", "/api/playlists/3", nil), "id", "3")
	w := httptest.NewRecorder()
	handler.Delete(w, req)

	msg := handlers.AssertErrorResponse(t, w, http.StatusForbidden, "permission_denied")
	assert.Equal(t, "You do not have permission to delete this playlist", msg)
}

func TestPlaylistUpdate_PassesPresentFields(t *testing.T) {
	svc := &handlers.MockPlaylistService{
		UpdateFunc: func(ctx context.Context, userID, id int64, upd services.PlaylistUpdate) (*models.Playlist, error) {
			require.NotNil(t, upd.Name)
			assert.Nil(t, upd.Description)
			assert.Nil(t, upd.IsPublic)
			return &models.Playlist{ID: id, Name: *upd.Name}, nil
		},
	}
	handler := handlers.NewPlaylistHandler(svc, testURLs)

	req := handlers.NewTestRequest(t, "PUT", "/api/playlists/3", map[string]string{"name": "Renamed"})
	w := httptest.NewRecorder()
	handler.Update(w, handlers.WithURLParams(req, "id", "3"))

	var p handlers.PlaylistResponse
	handlers.AssertSuccessResponse(t, w, http.StatusOK, &p)
	assert.Equal(t, "Renamed", p.Name)
}
