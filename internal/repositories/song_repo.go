package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/tunevault/internal/database"
	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/BradenHooton/tunevault/internal/search"
	"github.com/jackc/pgx/v5"
)

type SongRepository struct {
	db *database.DB
}

func NewSongRepository(db *database.DB) *SongRepository {
	return &SongRepository{db: db}
}

const songColumns = `id, title, artist, album, duration, file_path, cover_image, genre, release_year, play_count, created_at, updated_at`

// songColumnsAliased is songColumns qualified for joins against "songs s"
const songColumnsAliased = `s.id, s.title, s.artist, s.album, s.duration, s.file_path, s.cover_image, s.genre, s.release_year, s.play_count, s.created_at, s.updated_at`

func scanSongRow(scanner rowScanner) (*models.Song, error) {
	var s models.Song
	err := scanner.Scan(
		&s.ID, &s.Title, &s.Artist, &s.Album, &s.Duration,
		&s.FilePath, &s.CoverImage, &s.Genre, &s.ReleaseYear, &s.PlayCount,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &s, nil
}

func scanRankedSongRow(scanner rowScanner) (*models.Song, error) {
	var s models.Song
	err := scanner.Scan(
		&s.ID, &s.Title, &s.Artist, &s.Album, &s.Duration,
		&s.FilePath, &s.CoverImage, &s.Genre, &s.ReleaseYear, &s.PlayCount,
		&s.CreatedAt, &s.UpdatedAt, &s.Relevance,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &s, nil
}

// List returns songs ordered by title, optionally restricted to one genre
func (r *SongRepository) List(ctx context.Context, filter models.SongFilter) ([]*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs`
	args := []any{}

	if filter.Genre != "" {
		query += ` WHERE genre = $1`
		args = append(args, filter.Genre)
	}
	query += fmt.Sprintf(` ORDER BY title ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return collect(rows, scanSongRow)
}

func (r *SongRepository) Count(ctx context.Context, genre string) (int64, error) {
	query := `SELECT COUNT(*) FROM songs`
	args := []any{}
	if genre != "" {
		query += ` WHERE genre = $1`
		args = append(args, genre)
	}

	var n int64
	if err := r.db.Pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return n, nil
}

// Search runs a predicate built by the search package
func (r *SongRepository) Search(ctx context.Context, p *search.Predicate) ([]*models.Song, error) {
	n := len(p.Args)
	query := fmt.Sprintf(
		`SELECT %s, (%s)::float8 AS relevance FROM songs WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		songColumns, p.Relevance, p.Where, p.OrderBy, n+1, n+2,
	)

	args := append(append([]any{}, p.Args...), p.Limit, p.Offset)
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return collect(rows, scanRankedSongRow)
}

// CountSearch counts all rows matching the predicate, ignoring paging
func (r *SongRepository) CountSearch(ctx context.Context, p *search.Predicate) (int64, error) {
	var n int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM songs WHERE `+p.Where, p.Args...).Scan(&n)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return n, nil
}

func (r *SongRepository) GetByID(ctx context.Context, id int64) (*models.Song, error) {
	return scanSongRow(r.db.Pool.QueryRow(ctx, `SELECT `+songColumns+` FROM songs WHERE id = $1`, id))
}

func (r *SongRepository) Create(ctx context.Context, s *models.Song) (*models.Song, error) {
	query := `
		INSERT INTO songs (title, artist, album, duration, file_path, cover_image, genre, release_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + songColumns

	return scanSongRow(r.db.Pool.QueryRow(ctx, query,
		s.Title, s.Artist, s.Album, s.Duration, s.FilePath, s.CoverImage, s.Genre, s.ReleaseYear,
	))
}

// Update rewrites the editable metadata of a song
func (r *SongRepository) Update(ctx context.Context, s *models.Song) (*models.Song, error) {
	query := `
		UPDATE songs
		SET title = $1, artist = $2, album = $3, genre = $4, release_year = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING ` + songColumns

	return scanSongRow(r.db.Pool.QueryRow(ctx, query,
		s.Title, s.Artist, s.Album, s.Genre, s.ReleaseYear, s.ID,
	))
}

// Delete removes the song and returns the deleted row so its media can be cleaned up
func (r *SongRepository) Delete(ctx context.Context, id int64) (*models.Song, error) {
	return scanSongRow(r.db.Pool.QueryRow(ctx, `DELETE FROM songs WHERE id = $1 RETURNING `+songColumns, id))
}

// RecordPlay bumps the play counter and appends to the history atomically
func (r *SongRepository) RecordPlay(ctx context.Context, rec models.PlayRecord) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE songs SET play_count = play_count + 1 WHERE id = $1`, rec.SongID)
		if err != nil {
			return database.MapPostgresError(err)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO play_history (user_id, song_id, duration_played) VALUES ($1, $2, $3)`,
			rec.UserID, rec.SongID, rec.DurationPlayed,
		)
		return database.MapPostgresError(err)
	})
}
