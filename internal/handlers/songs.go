package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/BradenHooton/tunevault/internal/auth"
	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/BradenHooton/tunevault/internal/search"
	"github.com/BradenHooton/tunevault/internal/services"
	"github.com/BradenHooton/tunevault/internal/storage"
	pkghttp "github.com/BradenHooton/tunevault/pkg/http"
)

// SongServiceInterface defines the song catalogue operations
type SongServiceInterface interface {
	List(ctx context.Context, genre string, page, limit int) (*services.SongPage, error)
	Search(ctx context.Context, raw string, page, limit int) (*services.SearchResult, error)
	Get(ctx context.Context, id int64) (*models.Song, error)
	RecordPlay(ctx context.Context, userID, songID int64, durationPlayed *int) error
	Create(ctx context.Context, actorID int64, in services.SongInput) (*models.Song, error)
	Update(ctx context.Context, actorID, id int64, in services.SongInput) (*models.Song, error)
	Delete(ctx context.Context, actorID, id int64) error
}

// SongHandler handles song catalogue requests
type SongHandler struct {
	service   SongServiceInterface
	presenter songPresenter
}

func NewSongHandler(service SongServiceInterface, urls *storage.URLBuilder) *SongHandler {
	return &SongHandler{
		service:   service,
		presenter: songPresenter{urls: urls},
	}
}

// CreateSongRequest registers a song whose media is already in the file store
type CreateSongRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Artist      string `json:"artist" validate:"required,max=255"`
	Album       string `json:"album" validate:"max=255"`
	Duration    int    `json:"duration" validate:"gte=0"`
	FilePath    string `json:"file_path" validate:"required,max=255"`
	CoverImage  string `json:"cover_image" validate:"max=255"`
	Genre       string `json:"genre" validate:"max=50"`
	ReleaseYear *int   `json:"release_year" validate:"omitempty,gte=1000,lte=9999"`
}

func (CreateSongRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"Title.required":    "Title and artist are required",
		"Artist.required":   "Title and artist are required",
		"FilePath.required": "File path is required",
	}
}

// UpdateSongRequest holds the editable song metadata
type UpdateSongRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Artist      string `json:"artist" validate:"required,max=255"`
	Album       string `json:"album" validate:"max=255"`
	Genre       string `json:"genre" validate:"max=50"`
	ReleaseYear *int   `json:"release_year" validate:"omitempty,gte=1000,lte=9999"`
}

func (UpdateSongRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"Title.required":  "Title and artist are required",
		"Artist.required": "Title and artist are required",
	}
}

// PlayRequest is the optional body of a play report
type PlayRequest struct {
	DurationPlayed *int `json:"duration_played" validate:"omitempty,gte=0"`
}

// List handles GET /songs
func (h *SongHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := pkghttp.QueryInt(r, "page")
	limit, _ := pkghttp.QueryInt(r, "limit")

	res, err := h.service.List(r.Context(), r.URL.Query().Get("genre"), page, limit)
	if err != nil {
		pkghttp.WriteInternalError(w, "An error occurred")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Songs retrieved successfully", map[string]any{
		"songs":      h.presenter.songs(res.Songs),
		"pagination": res.Pagination,
	})
}

// Search handles GET /songs/search?q=
func (h *SongHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, _ := pkghttp.QueryInt(r, "page")
	limit, _ := pkghttp.QueryInt(r, "limit")

	res, err := h.service.Search(r.Context(), r.URL.Query().Get("q"), page, limit)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			pkghttp.WriteBadRequest(w, "Search query is required")
			return
		}
		pkghttp.WriteInternalError(w, "An error occurred")
		return
	}

	songs := h.presenter.songs(res.Songs)
	if res.Mode == search.ModeFulltext {
		songs = h.presenter.ranked(res.Songs)
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Search completed", map[string]any{
		"query":       res.Query,
		"songs":       songs,
		"pagination":  res.Pagination,
		"search_mode": res.Mode,
	})
}

// Get handles GET /songs/{id}
func (h *SongHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid song ID")
		return
	}

	song, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeSongError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Song retrieved successfully", h.presenter.song(song))
}

// Play handles POST /songs/{id}/play
func (h *SongHandler) Play(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid song ID")
		return
	}

	var req PlayRequest
	if err := decodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	userID := auth.OutcomeFromContext(r.Context()).UserID()
	if err := h.service.RecordPlay(r.Context(), userID, id, req.DurationPlayed); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Song not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to log play")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Play logged successfully", map[string]any{
		"song_id":         id,
		"duration_played": req.DurationPlayed,
	})
}

// Create handles POST /songs (admin)
func (h *SongHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSongRequest
	if err := decodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	actor := auth.OutcomeFromContext(r.Context()).UserID()
	song, err := h.service.Create(r.Context(), actor, services.SongInput{
		Title:       req.Title,
		Artist:      req.Artist,
		Album:       req.Album,
		Duration:    req.Duration,
		FilePath:    req.FilePath,
		CoverImage:  req.CoverImage,
		Genre:       req.Genre,
		ReleaseYear: req.ReleaseYear,
	})
	if err != nil {
		h.writeSongError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, http.StatusCreated, "Song created successfully", h.presenter.song(song))
}

// Update handles PUT /songs/{id} (admin)
func (h *SongHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid song ID")
		return
	}

	var req UpdateSongRequest
	if err := decodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	actor := auth.OutcomeFromContext(r.Context()).UserID()
	song, err := h.service.Update(r.Context(), actor, id, services.SongInput{
		Title:       req.Title,
		Artist:      req.Artist,
		Album:       req.Album,
		Genre:       req.Genre,
		ReleaseYear: req.ReleaseYear,
	})
	if err != nil {
		h.writeSongError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Song updated successfully", h.presenter.song(song))
}

// Delete handles DELETE /songs/{id} (admin)
func (h *SongHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pkghttp.WriteBadRequest(w, "Invalid song ID")
		return
	}

	actor := auth.OutcomeFromContext(r.Context()).UserID()
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		h.writeSongError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Song deleted successfully", map[string]int64{"song_id": id})
}

func (h *SongHandler) writeSongError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Song not found")
	case errors.Is(err, models.ErrValidation):
		pkghttp.WriteBadRequest(w, validationMessage(err))
	default:
		pkghttp.WriteInternalError(w, "An error occurred")
	}
}
