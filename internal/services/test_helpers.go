package services

import (
	"context"
	"time"

	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/BradenHooton/tunevault/internal/search"
	"github.com/BradenHooton/tunevault/internal/storage"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc        func(ctx context.Context, id int64) (*models.User, error)
	FindByLoginFunc    func(ctx context.Context, login string) (*models.User, error)
	UsernameExistsFunc func(ctx context.Context, username string) (bool, error)
	EmailExistsFunc    func(ctx context.Context, email string) (bool, error)
	CreateFunc         func(ctx context.Context, user *models.User) (*models.User, error)
	TouchLastLoginFunc func(ctx context.Context, id int64) error
	CountByRoleFunc    func(ctx context.Context, role models.Role) (int, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	if m.FindByLoginFunc != nil {
		return m.FindByLoginFunc(ctx, login)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	if m.UsernameExistsFunc != nil {
		return m.UsernameExistsFunc(ctx, username)
	}
	return false, nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.EmailExistsFunc != nil {
		return m.EmailExistsFunc(ctx, email)
	}
	return false, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrStore
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	if m.TouchLastLoginFunc != nil {
		return m.TouchLastLoginFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role models.Role) (int, error) {
	if m.CountByRoleFunc != nil {
		return m.CountByRoleFunc(ctx, role)
	}
	return 0, nil
}

// MockSongRepository implements SongRepository for testing
type MockSongRepository struct {
	ListFunc        func(ctx context.Context, filter models.SongFilter) ([]*models.Song, error)
	CountFunc       func(ctx context.Context, genre string) (int64, error)
	SearchFunc      func(ctx context.Context, p *search.Predicate) ([]*models.Song, error)
	CountSearchFunc func(ctx context.Context, p *search.Predicate) (int64, error)
	GetByIDFunc     func(ctx context.Context, id int64) (*models.Song, error)
	CreateFunc      func(ctx context.Context, s *models.Song) (*models.Song, error)
	UpdateFunc      func(ctx context.Context, s *models.Song) (*models.Song, error)
	DeleteFunc      func(ctx context.Context, id int64) (*models.Song, error)
	RecordPlayFunc  func(ctx context.Context, rec models.PlayRecord) error
}

func (m *MockSongRepository) List(ctx context.Context, filter models.SongFilter) ([]*models.Song, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Song{}, nil
}

func (m *MockSongRepository) Count(ctx context.Context, genre string) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, genre)
	}
	return 0, nil
}

func (m *MockSongRepository) Search(ctx context.Context, p *search.Predicate) ([]*models.Song, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, p)
	}
	return []*models.Song{}, nil
}

func (m *MockSongRepository) CountSearch(ctx context.Context, p *search.Predicate) (int64, error) {
	if m.CountSearchFunc != nil {
		return m.CountSearchFunc(ctx, p)
	}
	return 0, nil
}

func (m *MockSongRepository) GetByID(ctx context.Context, id int64) (*models.Song, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockSongRepository) Create(ctx context.Context, s *models.Song) (*models.Song, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return nil, models.ErrStore
}

func (m *MockSongRepository) Update(ctx context.Context, s *models.Song) (*models.Song, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, s)
	}
	return nil, models.ErrNotFound
}

func (m *MockSongRepository) Delete(ctx context.Context, id int64) (*models.Song, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockSongRepository) RecordPlay(ctx context.Context, rec models.PlayRecord) error {
	if m.RecordPlayFunc != nil {
		return m.RecordPlayFunc(ctx, rec)
	}
	return nil
}

// MockPlaylistRepository implements PlaylistRepository for testing
type MockPlaylistRepository struct {
	ListByUserFunc func(ctx context.Context, userID int64) ([]*models.Playlist, error)
	GetByIDFunc    func(ctx context.Context, id int64) (*models.Playlist, error)
	CreateFunc     func(ctx context.Context, p *models.Playlist) (*models.Playlist, error)
	UpdateFunc     func(ctx context.Context, p *models.Playlist) error
	DeleteFunc     func(ctx context.Context, id int64) error
	SongsFunc      func(ctx context.Context, playlistID int64) ([]*models.PlaylistEntry, error)
	AddSongFunc    func(ctx context.Context, playlistID, songID int64) (int, error)
	HasSongFunc    func(ctx context.Context, playlistID, songID int64) (bool, error)
	RemoveSongFunc func(ctx context.Context, playlistID, songID int64) error
}

func (m *MockPlaylistRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Playlist, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*models.Playlist{}, nil
}

func (m *MockPlaylistRepository) GetByID(ctx context.Context, id int64) (*models.Playlist, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockPlaylistRepository) Create(ctx context.Context, p *models.Playlist) (*models.Playlist, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil, models.ErrStore
}

func (m *MockPlaylistRepository) Update(ctx context.Context, p *models.Playlist) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

func (m *MockPlaylistRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockPlaylistRepository) Songs(ctx context.Context, playlistID int64) ([]*models.PlaylistEntry, error) {
	if m.SongsFunc != nil {
		return m.SongsFunc(ctx, playlistID)
	}
	return []*models.PlaylistEntry{}, nil
}

func (m *MockPlaylistRepository) AddSong(ctx context.Context, playlistID, songID int64) (int, error) {
	if m.AddSongFunc != nil {
		return m.AddSongFunc(ctx, playlistID, songID)
	}
	return 0, nil
}

func (m *MockPlaylistRepository) HasSong(ctx context.Context, playlistID, songID int64) (bool, error) {
	if m.HasSongFunc != nil {
		return m.HasSongFunc(ctx, playlistID, songID)
	}
	return false, nil
}

func (m *MockPlaylistRepository) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	if m.RemoveSongFunc != nil {
		return m.RemoveSongFunc(ctx, playlistID, songID)
	}
	return nil
}

// MockFavoriteRepository implements FavoriteRepository for testing
type MockFavoriteRepository struct {
	ListFunc   func(ctx context.Context, userID int64) ([]*models.Favorite, error)
	AddFunc    func(ctx context.Context, userID, songID int64) error
	RemoveFunc func(ctx context.Context, userID, songID int64) error
}

func (m *MockFavoriteRepository) List(ctx context.Context, userID int64) ([]*models.Favorite, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return []*models.Favorite{}, nil
}

func (m *MockFavoriteRepository) Add(ctx context.Context, userID, songID int64) error {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, userID, songID)
	}
	return nil
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, songID int64) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, songID)
	}
	return nil
}

// MockMediaStore implements MediaStore for testing
type MockMediaStore struct {
	ExistsFunc func(ctx context.Context, kind storage.Kind, name string) (bool, error)

	Deleted [][2]string
}

func (m *MockMediaStore) Exists(ctx context.Context, kind storage.Kind, name string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, kind, name)
	}
	return true, nil
}

func (m *MockMediaStore) DeleteSongMedia(_ context.Context, filePath, coverImage string) {
	m.Deleted = append(m.Deleted, [2]string{filePath, coverImage})
}

// NewTestUser creates a user for testing
func NewTestUser(id int64, username, email string, role models.Role) *models.User {
	now := time.Now()
	return &models.User{
		ID:             id,
		Username:       username,
		Email:          email,
		Role:           role,
		ProfilePicture: "default-avatar.png",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NewTestSong creates a song for testing
func NewTestSong(id int64, title, artist string) *models.Song {
	now := time.Now()
	return &models.Song{
		ID:         id,
		Title:      title,
		Artist:     artist,
		Duration:   215,
		FilePath:   "track.mp3",
		CoverImage: "cover.jpg",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
