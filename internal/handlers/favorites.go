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

type FavoriteServiceInterface interface {
	List(ctx context.Context, userID int64) ([]*models.Favorite, error)
	Add(ctx context.Context, userID, songID int64) error
	Remove(ctx context.Context, userID, songID int64) error
}

type FavoriteHandler struct {
	service   FavoriteServiceInterface
	presenter songPresenter
}

func NewFavoriteHandler(service FavoriteServiceInterface, urls *storage.URLBuilder) *FavoriteHandler {
	return &FavoriteHandler{
		service:   service,
		presenter: songPresenter{urls: urls},
	}
}

type FavoriteRequest struct {
	SongID int64 `json:"song_id" validate:"required,gt=0"`
}

func (FavoriteRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"SongID.required": "Invalid song ID",
		"SongID.gt":       "Invalid song ID",
	}
}

// List handles GET /favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.OutcomeFromContext(r.Context()).UserID()

	favs, err := h.service.List(r.Context(), userID)
	if err != nil {
		pkghttp.WriteInternalError(w, "An error occurred")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Favorites retrieved successfully", map[string]any{
		"favorites": h.presenter.favorites(favs),
		"count":     len(favs),
	})
}

// Add handles POST /favorites
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req FavoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	userID := auth.OutcomeFromContext(r.Context()).UserID()
	if err := h.service.Add(r.Context(), userID, req.SongID); err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyFavorite):
			pkghttp.WriteConflict(w, "Song already in favorites")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Song not found")
		default:
			pkghttp.WriteInternalError(w, "Failed to add to favorites")
		}
		return
	}

	pkghttp.WriteSuccess(w, http.StatusCreated, "Song added to favorites", map[string]int64{"song_id": req.SongID})
}

// Remove handles DELETE /favorites/{songID}
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	songID, ok := pathID(r, "songID")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid song ID")
		return
	}

	userID := auth.OutcomeFromContext(r.Context()).UserID()
	if err := h.service.Remove(r.Context(), userID, songID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Song not found in favorites")
			return
		}
		pkghttp.WriteInternalError(w, "An error occurred")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Song removed from favorites", nil)
}
