package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/BradenHooton/tunevault/internal/auth"
	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/BradenHooton/tunevault/internal/services"
	"github.com/BradenHooton/tunevault/internal/storage"
	pkghttp "github.com/BradenHooton/tunevault/pkg/http"
)

// PlaylistServiceInterface defines the playlist operations
type PlaylistServiceInterface interface {
	List(ctx context.Context, userID int64) ([]*models.Playlist, error)
	Create(ctx context.Context, userID int64, name, description string, isPublic bool) (*models.Playlist, error)
	Get(ctx context.Context, userID, id int64) (*services.PlaylistDetail, error)
	Update(ctx context.Context, userID, id int64, upd services.PlaylistUpdate) (*models.Playlist, error)
	Delete(ctx context.Context, userID, id int64) error
	AddSong(ctx context.Context, userID, playlistID, songID int64) (int, error)
	RemoveSong(ctx context.Context, userID, playlistID, songID int64) error
}

// PlaylistHandler handles playlist requests for the calling user
type PlaylistHandler struct {
	service   PlaylistServiceInterface
	presenter songPresenter
}

func NewPlaylistHandler(service PlaylistServiceInterface, urls *storage.URLBuilder) *PlaylistHandler {
	return &PlaylistHandler{
		service:   service,
		presenter: songPresenter{urls: urls},
	}
}

// CreatePlaylistRequest represents the request body for creating a playlist
type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// UpdatePlaylistRequest changes only the fields that are present
type UpdatePlaylistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

// AddSongRequest names the song to append
type AddSongRequest struct {
	SongID int64 `json:"song_id" validate:"required,gt=0"`
}

func (AddSongRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"SongID.required": "Invalid playlist or song ID",
		"SongID.gt":       "Invalid playlist or song ID",
	}
}

// List handles GET /playlists
func (h *PlaylistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.OutcomeFromContext(r.Context()).UserID()

	playlists, err := h.service.List(r.Context(), userID)
	if err != nil {
		pkghttp.WriteInternalError(w, "An error occurred")
		return
	}

	out := make([]PlaylistResponse, 0, len(playlists))
	for _, p := range playlists {
		out = append(out, playlistModelToResponse(p))
	}
	pkghttp.WriteSuccess(w, http.StatusOK, "Playlists retrieved successfully", map[string]any{
		"playlists": out,
	})
}

// Create handles POST /playlists
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	userID := auth.OutcomeFromContext(r.Context()).UserID()
	p, err := h.service.Create(r.Context(), userID, req.Name, req.Description, req.IsPublic)
	if err != nil {
		writePlaylistError(w, err, "create")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusCreated, "Playlist created successfully", playlistModelToResponse(p))
}

// Get handles GET /playlists/{id}
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid playlist ID")
		return
	}

	userID := auth.OutcomeFromContext(r.Context()).UserID()
	d, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		writePlaylistError(w, err, "view")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Playlist retrieved successfully", map[string]any{
		"playlist": playlistModelToResponse(d.Playlist),
		"songs":    h.presenter.playlistSongs(d.Songs),
		"is_owner": d.IsOwner,
	})
}

// Update handles PUT /playlists/{id}
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid playlist ID")
		return
	}

	var req UpdatePlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	userID := auth.OutcomeFromContext(r.Context()).UserID()
	p, err := h.service.Update(r.Context(), userID, id, services.PlaylistUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writePlaylistError(w, err, "edit")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Playlist updated successfully", playlistModelToResponse(p))
}

// Delete handles DELETE /playlists/{id}
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid playlist ID")
		return
	}

	userID := auth.OutcomeFromContext(r.Context()).UserID()
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		writePlaylistError(w, err, "delete")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Playlist deleted successfully", nil)
}

// AddSong handles POST /playlists/{id}/songs
func (h *PlaylistHandler) AddSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid playlist or song ID")
		return
	}

	var req AddSongRequest
	if err := decodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	userID := auth.OutcomeFromContext(r.Context()).UserID()
	position, err := h.service.AddSong(r.Context(), userID, id, req.SongID)
	if err != nil {
		writePlaylistError(w, err, "modify")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusCreated, "Song added to playlist successfully", map[string]any{
		"playlist_id": id,
		"song_id":     req.SongID,
		"position":    position,
	})
}

// RemoveSong handles DELETE /playlists/{id}/songs/{songID}
func (h *PlaylistHandler) RemoveSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	songID, songOK := pathID(r, "songID")
	if !ok || !songOK {
		pkghttp.WriteBadRequest(w, "Invalid playlist or song ID")
		return
	}

	userID := auth.OutcomeFromContext(r.Context()).UserID()
	if err := h.service.RemoveSong(r.Context(), userID, id, songID); err != nil {
		writePlaylistError(w, err, "modify")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Song removed from playlist successfully", nil)
}

// writePlaylistError maps service errors; action completes the 403 message
func writePlaylistError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, services.ErrPlaylistNotFound):
		pkghttp.WriteNotFound(w, "Playlist not found")
	case errors.Is(err, services.ErrSongNotFound):
		pkghttp.WriteNotFound(w, "Song not found")
	case errors.Is(err, services.ErrSongNotInPlaylist):
		pkghttp.WriteNotFound(w, "Song not found in playlist")
	case errors.Is(err, services.ErrSongInPlaylist):
		pkghttp.WriteConflict(w, "Song already in playlist")
	case errors.Is(err, models.ErrPermissionDenied):
		pkghttp.WriteForbidden(w, "You do not have permission to "+action+" this playlist")
	case errors.Is(err, models.ErrValidation):
		pkghttp.WriteBadRequest(w, validationMessage(err))
	default:
		pkghttp.WriteInternalError(w, "An error occurred")
	}
}
