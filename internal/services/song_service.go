package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/BradenHooton/tunevault/internal/metrics"
	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/BradenHooton/tunevault/internal/search"
	"github.com/BradenHooton/tunevault/internal/storage"
	pkglogger "github.com/BradenHooton/tunevault/pkg/logger"
)

const defaultSongCover = "default-cover.jpg"

type SongRepository interface {
	List(ctx context.Context, filter models.SongFilter) ([]*models.Song, error)
	Count(ctx context.Context, genre string) (int64, error)
	Search(ctx context.Context, p *search.Predicate) ([]*models.Song, error)
	CountSearch(ctx context.Context, p *search.Predicate) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Song, error)
	Create(ctx context.Context, s *models.Song) (*models.Song, error)
	Update(ctx context.Context, s *models.Song) (*models.Song, error)
	Delete(ctx context.Context, id int64) (*models.Song, error)
	RecordPlay(ctx context.Context, rec models.PlayRecord) error
}

// MediaStore holds uploaded audio and cover files
type MediaStore interface {
	Exists(ctx context.Context, kind storage.Kind, name string) (bool, error)
	DeleteSongMedia(ctx context.Context, filePath, coverImage string)
}

// SongPage is one page of a song listing
type SongPage struct {
	Songs      []*models.Song
	Pagination search.Pagination
}

// SearchResult is one page of search hits plus the strategy that produced them
type SearchResult struct {
	Query      string
	Mode       search.Mode
	Songs      []*models.Song
	Pagination search.Pagination
}

// SongInput carries the editable song fields. Duration, FilePath and
// CoverImage are only read on create.
type SongInput struct {
	Title       string
	Artist      string
	Album       string
	Duration    int
	FilePath    string
	CoverImage  string
	Genre       string
	ReleaseYear *int
}

type SongService struct {
	repo        SongRepository
	builder     *search.Builder
	media       MediaStore
	metrics     *metrics.Metrics
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewSongService(
	repo SongRepository,
	builder *search.Builder,
	media MediaStore,
	m *metrics.Metrics,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *SongService {
	return &SongService{
		repo:        repo,
		builder:     builder,
		media:       media,
		metrics:     m,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// List pages through the library ordered by title
func (s *SongService) List(ctx context.Context, genre string, page, limit int) (*SongPage, error) {
	genre = strings.TrimSpace(genre)
	limit = s.builder.Limit(limit)
	if page < 1 {
		page = 1
	}

	total, err := s.repo.Count(ctx, genre)
	if err != nil {
		s.logger.Error("failed to count songs", slog.Any("error", err))
		return nil, err
	}

	songs, err := s.repo.List(ctx, models.SongFilter{
		Genre:  genre,
		Limit:  limit,
		Offset: search.Offset(page, limit),
	})
	if err != nil {
		s.logger.Error("failed to list songs", slog.Any("error", err))
		return nil, err
	}

	return &SongPage{Songs: songs, Pagination: search.Paginate(total, limit, page)}, nil
}

// Search matches raw against title, artist and album
func (s *SongService) Search(ctx context.Context, raw string, page, limit int) (*SearchResult, error) {
	p, err := s.builder.Build(raw, page, limit)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveSearch(string(p.Mode))

	total, err := s.repo.CountSearch(ctx, p)
	if err != nil {
		s.logger.Error("failed to count search results", slog.String("mode", string(p.Mode)), slog.Any("error", err))
		return nil, err
	}

	songs, err := s.repo.Search(ctx, p)
	if err != nil {
		s.logger.Error("failed to search songs", slog.String("mode", string(p.Mode)), slog.Any("error", err))
		return nil, err
	}

	return &SearchResult{
		Query:      p.Term,
		Mode:       p.Mode,
		Songs:      songs,
		Pagination: search.Paginate(total, p.Limit, p.Page),
	}, nil
}

func (s *SongService) Get(ctx context.Context, id int64) (*models.Song, error) {
	song, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrSongNotFound
	}
	return song, err
}

// RecordPlay bumps the play counter and writes the listening history entry
func (s *SongService) RecordPlay(ctx context.Context, userID, songID int64, durationPlayed *int) error {
	err := s.repo.RecordPlay(ctx, models.PlayRecord{
		UserID:         userID,
		SongID:         songID,
		DurationPlayed: durationPlayed,
	})
	if errors.Is(err, models.ErrNotFound) {
		return ErrSongNotFound
	}
	if err != nil {
		s.logger.Error("failed to record play", slog.Int64("song_id", songID), slog.Any("error", err))
		return err
	}

	s.metrics.ObservePlay()
	return nil
}

// Create registers a song whose media is already in place. Uploaded media
// must exist in the file store; bundled assets are not checked.
func (s *SongService) Create(ctx context.Context, actorID int64, in SongInput) (*models.Song, error) {
	in = trimSongInput(in)
	if in.Title == "" || in.Artist == "" {
		return nil, fmt.Errorf("%w: title and artist are required", models.ErrValidation)
	}
	if in.FilePath == "" {
		return nil, fmt.Errorf("%w: file path is required", models.ErrValidation)
	}
	if in.Duration < 0 {
		return nil, fmt.Errorf("%w: duration cannot be negative", models.ErrValidation)
	}
	if in.CoverImage == "" {
		in.CoverImage = defaultSongCover
	}

	if storage.IsUploaded(in.CoverImage) {
		if err := s.requireMedia(ctx, storage.KindAudio, in.FilePath); err != nil {
			return nil, err
		}
		if err := s.requireMedia(ctx, storage.KindCover, in.CoverImage); err != nil {
			return nil, err
		}
	}

	song, err := s.repo.Create(ctx, &models.Song{
		Title:       in.Title,
		Artist:      in.Artist,
		Album:       in.Album,
		Duration:    in.Duration,
		FilePath:    in.FilePath,
		CoverImage:  in.CoverImage,
		Genre:       in.Genre,
		ReleaseYear: in.ReleaseYear,
	})
	if err != nil {
		s.logger.Error("failed to create song", slog.Any("error", err))
		return nil, err
	}

	s.auditLogger.LogAdminAction("song_created", actorID, "song", song.ID, map[string]string{
		"title": song.Title,
	})
	return song, nil
}

func (s *SongService) requireMedia(ctx context.Context, kind storage.Kind, name string) error {
	ok, err := s.media.Exists(ctx, kind, name)
	if errors.Is(err, storage.ErrInvalidName) {
		return fmt.Errorf("%w: invalid media file name", models.ErrValidation)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStore, err)
	}
	if !ok {
		return ErrMediaNotFound
	}
	return nil
}

// Update rewrites title, artist, album, genre and release year
func (s *SongService) Update(ctx context.Context, actorID, id int64, in SongInput) (*models.Song, error) {
	in = trimSongInput(in)
	if in.Title == "" || in.Artist == "" {
		return nil, fmt.Errorf("%w: title and artist are required", models.ErrValidation)
	}

	song, err := s.repo.Update(ctx, &models.Song{
		ID:          id,
		Title:       in.Title,
		Artist:      in.Artist,
		Album:       in.Album,
		Genre:       in.Genre,
		ReleaseYear: in.ReleaseYear,
	})
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrSongNotFound
	}
	if err != nil {
		s.logger.Error("failed to update song", slog.Int64("song_id", id), slog.Any("error", err))
		return nil, err
	}

	s.auditLogger.LogAdminAction("song_updated", actorID, "song", id, map[string]string{
		"title": song.Title,
	})
	return song, nil
}

// Delete removes the song, its playlist and favorite entries, and any
// uploaded media
func (s *SongService) Delete(ctx context.Context, actorID, id int64) error {
	song, err := s.repo.Delete(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return ErrSongNotFound
	}
	if err != nil {
		s.logger.Error("failed to delete song", slog.Int64("song_id", id), slog.Any("error", err))
		return err
	}

	s.media.DeleteSongMedia(ctx, song.FilePath, song.CoverImage)

	s.auditLogger.LogAdminAction("song_deleted", actorID, "song", id, map[string]string{
		"title":    song.Title,
		"uploaded": strconv.FormatBool(storage.IsUploaded(song.CoverImage)),
	})
	return nil
}

func trimSongInput(in SongInput) SongInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Artist = strings.TrimSpace(in.Artist)
	in.Album = strings.TrimSpace(in.Album)
	in.FilePath = strings.TrimSpace(in.FilePath)
	in.CoverImage = strings.TrimSpace(in.CoverImage)
	in.Genre = strings.TrimSpace(in.Genre)
	return in
}
