package handlers

import (
	"fmt"
	"time"

	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/BradenHooton/tunevault/internal/storage"
)

// SongResponse represents a song in the HTTP response
type SongResponse struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Artist            string    `json:"artist"`
	Album             string    `json:"album"`
	Duration          int       `json:"duration"`
	DurationFormatted string    `json:"duration_formatted"`
	FilePath          string    `json:"file_path"`
	CoverImage        string    `json:"cover_image"`
	Genre             string    `json:"genre"`
	ReleaseYear       *int      `json:"release_year"`
	PlayCount         int64     `json:"play_count"`
	CoverURL          string    `json:"cover_url"`
	AudioURL          string    `json:"audio_url"`
	Relevance         *float64  `json:"relevance,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PlaylistSongResponse is a song placed in a playlist
type PlaylistSongResponse struct {
	SongResponse
	Position int       `json:"position"`
	AddedAt  time.Time `json:"added_at"`
}

// FavoriteResponse is a favorited song
type FavoriteResponse struct {
	SongResponse
	AddedAt time.Time `json:"added_at"`
}

// PlaylistResponse represents a playlist in the HTTP response
type PlaylistResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	CoverImage  string    `json:"cover_image"`
	SongCount   int       `json:"song_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserResponse represents a user profile in the HTTP response
type UserResponse struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profile_picture"`
}

// FormatDuration renders seconds as m:ss
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// songPresenter renders songs with their public media URLs
type songPresenter struct {
	urls *storage.URLBuilder
}

func (p songPresenter) song(s *models.Song) SongResponse {
	return SongResponse{
		ID:                s.ID,
		Title:             s.Title,
		Artist:            s.Artist,
		Album:             s.Album,
		Duration:          s.Duration,
		DurationFormatted: FormatDuration(s.Duration),
		FilePath:          s.FilePath,
		CoverImage:        s.CoverImage,
		Genre:             s.Genre,
		ReleaseYear:       s.ReleaseYear,
		PlayCount:         s.PlayCount,
		CoverURL:          p.urls.Cover(s.CoverImage),
		AudioURL:          p.urls.Audio(s.CoverImage, s.FilePath),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func (p songPresenter) songs(songs []*models.Song) []SongResponse {
	out := make([]SongResponse, 0, len(songs))
	for _, s := range songs {
		out = append(out, p.song(s))
	}
	return out
}

// ranked is songs plus the full-text relevance score
func (p songPresenter) ranked(songs []*models.Song) []SongResponse {
	out := make([]SongResponse, 0, len(songs))
	for _, s := range songs {
		resp := p.song(s)
		rel := s.Relevance
		resp.Relevance = &rel
		out = append(out, resp)
	}
	return out
}

func (p songPresenter) playlistSongs(entries []*models.PlaylistEntry) []PlaylistSongResponse {
	out := make([]PlaylistSongResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, PlaylistSongResponse{
			SongResponse: p.song(&e.Song),
			Position:     e.Position,
			AddedAt:      e.AddedAt,
		})
	}
	return out
}

func (p songPresenter) favorites(favs []*models.Favorite) []FavoriteResponse {
	out := make([]FavoriteResponse, 0, len(favs))
	for _, f := range favs {
		out = append(out, FavoriteResponse{
			SongResponse: p.song(&f.Song),
			AddedAt:      f.AddedAt,
		})
	}
	return out
}

func playlistModelToResponse(p *models.Playlist) PlaylistResponse {
	return PlaylistResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		IsPublic:    p.IsPublic,
		CoverImage:  p.CoverImage,
		SongCount:   p.SongCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func userModelToResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Role:           string(u.Role),
		ProfilePicture: u.ProfilePicture,
	}
}
