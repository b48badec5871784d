// Package dbtest starts a throwaway PostgreSQL container with the goose
// migrations applied. It is imported only by integration tests.
package dbtest

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/BradenHooton/tunevault/internal/database"
	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/BradenHooton/tunevault/pkg/auth"
)

// TestDB manages a PostgreSQL testcontainer and its pool
type TestDB struct {
	Container  testcontainers.Container
	ConnString string
	Pool       *pgxpool.Pool
	DB         *database.DB
}

// Setup creates a PostgreSQL testcontainer, runs migrations and returns TestDB
func Setup(ctx context.Context) (*TestDB, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("tunevault"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestDB{
		Container:  container,
		ConnString: connStr,
		Pool:       pool,
		DB:         database.New(pool, nil),
	}, nil
}

func migrationsDir() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("unable to locate dbtest source file")
	}
	return filepath.Abs(filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations"))
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	dir, err := migrationsDir()
	if err != nil {
		return err
	}

	goose.SetLogger(log.New(nil, "", 0))
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	// goose needs a database/sql handle
	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Teardown stops the container and closes the connection pool
func (db *TestDB) Teardown(ctx context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}

// Truncate empties every table for test isolation
func (db *TestDB) Truncate(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx,
		`TRUNCATE TABLE play_history, favorites, playlist_songs, playlists, songs, users RESTART IDENTITY CASCADE`)
	return err
}

// SeedUser inserts a user with a bcrypt hash of password
func (db *TestDB) SeedUser(ctx context.Context, username, email, password string, role models.Role) (*models.User, error) {
	hash, err := auth.NewPasswordHasher(bcryptTestCost).Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash, Role: role}
	err = db.Pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		username, email, hash, role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// SeedSong inserts a song and returns its id
func (db *TestDB) SeedSong(ctx context.Context, title, artist, album, genre string, playCount int64) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO songs (title, artist, album, duration, file_path, cover_image, genre, play_count)
		 VALUES ($1, $2, $3, 200, $4, 'cover.jpg', $5, $6)
		 RETURNING id`,
		title, artist, album, title+".mp3", genre, playCount,
	).Scan(&id)
	return id, err
}

const bcryptTestCost = 4
