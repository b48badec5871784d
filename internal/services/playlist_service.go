package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/BradenHooton/tunevault/internal/models"
)

// MaxPlaylistNameLength is the longest playlist name accepted, in characters
const MaxPlaylistNameLength = 255

type PlaylistRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]*models.Playlist, error)
	GetByID(ctx context.Context, id int64) (*models.Playlist, error)
	Create(ctx context.Context, p *models.Playlist) (*models.Playlist, error)
	Update(ctx context.Context, p *models.Playlist) error
	Delete(ctx context.Context, id int64) error
	Songs(ctx context.Context, playlistID int64) ([]*models.PlaylistEntry, error)
	AddSong(ctx context.Context, playlistID, songID int64) (int, error)
	HasSong(ctx context.Context, playlistID, songID int64) (bool, error)
	RemoveSong(ctx context.Context, playlistID, songID int64) error
}

// SongLookup resolves song ids
type SongLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Song, error)
}

// PlaylistUpdate holds the fields to change. Nil fields are left as they are.
type PlaylistUpdate struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

// PlaylistDetail is a playlist with its songs in position order
type PlaylistDetail struct {
	Playlist *models.Playlist
	Songs    []*models.PlaylistEntry
	IsOwner  bool
}

type PlaylistService struct {
	repo   PlaylistRepository
	songs  SongLookup
	logger *slog.Logger
}

func NewPlaylistService(repo PlaylistRepository, songs SongLookup, logger *slog.Logger) *PlaylistService {
	return &PlaylistService{
		repo:   repo,
		songs:  songs,
		logger: logger,
	}
}

func (s *PlaylistService) List(ctx context.Context, userID int64) ([]*models.Playlist, error) {
	playlists, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list playlists", slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, err
	}
	return playlists, nil
}

func (s *PlaylistService) Create(ctx context.Context, userID int64, name, description string, isPublic bool) (*models.Playlist, error) {
	name, err := validatePlaylistName(name)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, &models.Playlist{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(description),
		IsPublic:    isPublic,
	})
	if err != nil {
		s.logger.Error("failed to create playlist", slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("playlist created", slog.Int64("user_id", userID), slog.Int64("playlist_id", p.ID))
	return p, nil
}

// Get returns the playlist when userID owns it or it is public.
// userID may be zero for anonymous callers.
func (s *PlaylistService) Get(ctx context.Context, userID, id int64) (*PlaylistDetail, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	owner := userID != 0 && p.UserID == userID
	if !owner && !p.IsPublic {
		return nil, ErrNotPlaylistOwner
	}

	entries, err := s.repo.Songs(ctx, id)
	if err != nil {
		s.logger.Error("failed to load playlist songs", slog.Int64("playlist_id", id), slog.Any("error", err))
		return nil, err
	}

	return &PlaylistDetail{Playlist: p, Songs: entries, IsOwner: owner}, nil
}

func (s *PlaylistService) Update(ctx context.Context, userID, id int64, upd PlaylistUpdate) (*models.Playlist, error) {
	p, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name, err := validatePlaylistName(*upd.Name)
		if err != nil {
			return nil, err
		}
		p.Name = name
	}
	if upd.Description != nil {
		p.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.IsPublic != nil {
		p.IsPublic = *upd.IsPublic
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrPlaylistNotFound
		}
		s.logger.Error("failed to update playlist", slog.Int64("playlist_id", id), slog.Any("error", err))
		return nil, err
	}
	return p, nil
}

func (s *PlaylistService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrPlaylistNotFound
		}
		s.logger.Error("failed to delete playlist", slog.Int64("playlist_id", id), slog.Any("error", err))
		return err
	}

	s.logger.Info("playlist deleted", slog.Int64("user_id", userID), slog.Int64("playlist_id", id))
	return nil
}

// AddSong appends songID to the end of the playlist and returns its position
func (s *PlaylistService) AddSong(ctx context.Context, userID, playlistID, songID int64) (int, error) {
	if _, err := s.owned(ctx, userID, playlistID); err != nil {
		return 0, err
	}

	if _, err := s.songs.GetByID(ctx, songID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return 0, ErrSongNotFound
		}
		return 0, err
	}

	present, err := s.repo.HasSong(ctx, playlistID, songID)
	if err != nil {
		return 0, err
	}
	if present {
		return 0, ErrSongInPlaylist
	}

	position, err := s.repo.AddSong(ctx, playlistID, songID)
	switch {
	case errors.Is(err, models.ErrConflict):
		return 0, ErrSongInPlaylist
	case errors.Is(err, models.ErrNotFound):
		return 0, ErrPlaylistNotFound
	case err != nil:
		s.logger.Error("failed to add song to playlist",
			slog.Int64("playlist_id", playlistID),
			slog.Int64("song_id", songID),
			slog.Any("error", err))
		return 0, err
	}
	return position, nil
}

func (s *PlaylistService) RemoveSong(ctx context.Context, userID, playlistID, songID int64) error {
	if _, err := s.owned(ctx, userID, playlistID); err != nil {
		return err
	}

	err := s.repo.RemoveSong(ctx, playlistID, songID)
	if errors.Is(err, models.ErrNotFound) {
		return ErrSongNotInPlaylist
	}
	return err
}

func (s *PlaylistService) load(ctx context.Context, id int64) (*models.Playlist, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		s.logger.Error("failed to load playlist", slog.Int64("playlist_id", id), slog.Any("error", err))
		return nil, err
	}
	return p, nil
}

// owned loads the playlist and checks that userID owns it
func (s *PlaylistService) owned(ctx context.Context, userID, id int64) (*models.Playlist, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		s.logger.Warn("playlist access denied",
			slog.Int64("user_id", userID),
			slog.Int64("playlist_id", id))
		return nil, ErrNotPlaylistOwner
	}
	return p, nil
}

func validatePlaylistName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: playlist name is required", models.ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxPlaylistNameLength {
		return "", fmt.Errorf("%w: playlist name is too long", models.ErrValidation)
	}
	return name, nil
}
