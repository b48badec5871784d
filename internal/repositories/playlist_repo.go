package repositories

import (
	"context"

	"github.com/BradenHooton/tunevault/internal/database"
	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/jackc/pgx/v5"
)

type PlaylistRepository struct {
	db *database.DB
}

func NewPlaylistRepository(db *database.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

const playlistSelect = `
	SELECT p.id, p.user_id, p.name, p.description, p.is_public, p.cover_image,
	       COUNT(ps.song_id) AS song_count, p.created_at, p.updated_at
	FROM playlists p
	LEFT JOIN playlist_songs ps ON ps.playlist_id = p.id`

func scanPlaylistRow(scanner rowScanner) (*models.Playlist, error) {
	var p models.Playlist
	err := scanner.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Description, &p.IsPublic, &p.CoverImage,
		&p.SongCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &p, nil
}

func (r *PlaylistRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Playlist, error) {
	query := playlistSelect + `
		WHERE p.user_id = $1
		GROUP BY p.id
		ORDER BY p.created_at DESC, p.id DESC`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return collect(rows, scanPlaylistRow)
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id int64) (*models.Playlist, error) {
	query := playlistSelect + `
		WHERE p.id = $1
		GROUP BY p.id`

	return scanPlaylistRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *PlaylistRepository) Create(ctx context.Context, p *models.Playlist) (*models.Playlist, error) {
	query := `
		INSERT INTO playlists (user_id, name, description, is_public)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, description, is_public, cover_image, 0, created_at, updated_at`

	return scanPlaylistRow(r.db.Pool.QueryRow(ctx, query, p.UserID, p.Name, p.Description, p.IsPublic))
}

func (r *PlaylistRepository) Update(ctx context.Context, p *models.Playlist) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE playlists SET name = $1, description = $2, is_public = $3, updated_at = NOW() WHERE id = $4`,
		p.Name, p.Description, p.IsPublic, p.ID,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PlaylistRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Songs returns the playlist's songs in position order
func (r *PlaylistRepository) Songs(ctx context.Context, playlistID int64) ([]*models.PlaylistEntry, error) {
	query := `
		SELECT ` + songColumnsAliased + `, ps.position, ps.added_at
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = $1
		ORDER BY ps.position ASC`

	rows, err := r.db.Pool.Query(ctx, query, playlistID)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return collect(rows, func(scanner rowScanner) (*models.PlaylistEntry, error) {
		var e models.PlaylistEntry
		s := &e.Song
		err := scanner.Scan(
			&s.ID, &s.Title, &s.Artist, &s.Album, &s.Duration,
			&s.FilePath, &s.CoverImage, &s.Genre, &s.ReleaseYear, &s.PlayCount,
			&s.CreatedAt, &s.UpdatedAt, &e.Position, &e.AddedAt,
		)
		if err != nil {
			return nil, database.MapPostgresError(err)
		}
		return &e, nil
	})
}

// AddSong appends songID at the next free position. The playlist row is
// locked so concurrent appends get distinct positions.
func (r *PlaylistRepository) AddSong(ctx context.Context, playlistID, songID int64) (int, error) {
	var position int
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM playlists WHERE id = $1 FOR UPDATE`, playlistID).Scan(&locked)
		if err != nil {
			return database.MapPostgresError(err)
		}

		err = tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(position), -1) + 1 FROM playlist_songs WHERE playlist_id = $1`,
			playlistID,
		).Scan(&position)
		if err != nil {
			return database.MapPostgresError(err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO playlist_songs (playlist_id, song_id, position) VALUES ($1, $2, $3)`,
			playlistID, songID, position,
		)
		if err != nil {
			return database.MapPostgresError(err)
		}

		_, err = tx.Exec(ctx, `UPDATE playlists SET updated_at = NOW() WHERE id = $1`, playlistID)
		return database.MapPostgresError(err)
	})
	return position, err
}

func (r *PlaylistRepository) HasSong(ctx context.Context, playlistID, songID int64) (bool, error) {
	var found bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2)`,
		playlistID, songID,
	).Scan(&found)
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	return found, nil
}

func (r *PlaylistRepository) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2`,
		playlistID, songID,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
