package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/tunevault/internal/models"
)

type FavoriteRepository interface {
	List(ctx context.Context, userID int64) ([]*models.Favorite, error)
	Add(ctx context.Context, userID, songID int64) error
	Remove(ctx context.Context, userID, songID int64) error
}

type FavoriteService struct {
	repo   FavoriteRepository
	songs  SongLookup
	logger *slog.Logger
}

func NewFavoriteService(repo FavoriteRepository, songs SongLookup, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{repo: repo, songs: songs, logger: logger}
}

// List returns the user's favorites, newest first
func (s *FavoriteService) List(ctx context.Context, userID int64) ([]*models.Favorite, error) {
	favs, err := s.repo.List(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list favorites", slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, err
	}
	return favs, nil
}

func (s *FavoriteService) Add(ctx context.Context, userID, songID int64) error {
	if _, err := s.songs.GetByID(ctx, songID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrSongNotFound
		}
		return err
	}

	err := s.repo.Add(ctx, userID, songID)
	switch {
	case errors.Is(err, models.ErrConflict):
		return ErrAlreadyFavorite
	case errors.Is(err, models.ErrNotFound):
		// song deleted between the lookup and the insert
		return ErrSongNotFound
	case err != nil:
		s.logger.Error("failed to add favorite", slog.Int64("user_id", userID), slog.Int64("song_id", songID), slog.Any("error", err))
		return err
	}
	return nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, songID int64) error {
	err := s.repo.Remove(ctx, userID, songID)
	if errors.Is(err, models.ErrNotFound) {
		return ErrNotFavorite
	}
	if err != nil {
		s.logger.Error("failed to remove favorite", slog.Int64("user_id", userID), slog.Int64("song_id", songID), slog.Any("error", err))
	}
	return err
}
