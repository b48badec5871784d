package repositories

import (
	"context"

	"github.com/BradenHooton/tunevault/internal/database"
	"github.com/BradenHooton/tunevault/internal/models"
)

type FavoriteRepository struct {
	db *database.DB
}

func NewFavoriteRepository(db *database.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// List returns the user's favorites, newest first
func (r *FavoriteRepository) List(ctx context.Context, userID int64) ([]*models.Favorite, error) {
	query := `
		SELECT ` + songColumnsAliased + `, f.added_at
		FROM favorites f
		JOIN songs s ON s.id = f.song_id
		WHERE f.user_id = $1
		ORDER BY f.added_at DESC, f.id DESC`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return collect(rows, func(scanner rowScanner) (*models.Favorite, error) {
		var f models.Favorite
		s := &f.Song
		err := scanner.Scan(
			&s.ID, &s.Title, &s.Artist, &s.Album, &s.Duration,
			&s.FilePath, &s.CoverImage, &s.Genre, &s.ReleaseYear, &s.PlayCount,
			&s.CreatedAt, &s.UpdatedAt, &f.AddedAt,
		)
		if err != nil {
			return nil, database.MapPostgresError(err)
		}
		return &f, nil
	})
}

// Add marks songID as a favorite. Duplicates yield models.ErrConflict and an
// unknown song yields models.ErrNotFound.
func (r *FavoriteRepository) Add(ctx context.Context, userID, songID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO favorites (user_id, song_id) VALUES ($1, $2)`,
		userID, songID,
	)
	return database.MapPostgresError(err)
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, songID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND song_id = $2`,
		userID, songID,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
