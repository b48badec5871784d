package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/tunevault/internal/auth"
	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/BradenHooton/tunevault/internal/services"
	pkghttp "github.com/BradenHooton/tunevault/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithSessionUser marks the request as authenticated through a session
func WithSessionUser(req *http.Request, userID int64, role models.Role) *http.Request {
	out := auth.Outcome{
		Source:  auth.ViaSession,
		Session: &models.Session{UserID: userID, Username: "tester", Role: role},
	}
	return req.WithContext(auth.WithOutcome(req.Context(), out))
}

// WithURLParams attaches chi route parameters, given as key/value pairs
func WithURLParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertSuccessResponse checks the status and decodes the envelope's data into target
func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to decode response JSON")
	assert.True(t, env.Success)
	if target != nil {
		assert.NoError(t, json.Unmarshal(env.Data, target), "Failed to decode response data")
	}
}

// AssertErrorResponse checks that response is a valid error response and returns its message
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) string {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.False(t, resp.Success)
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
	return resp.Message
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc     func(ctx context.Context, username, email, password string, client services.ClientInfo) (*models.User, error)
	AuthenticateFunc func(ctx context.Context, login, password string, client services.ClientInfo) (*models.User, error)
	GetUserFunc      func(ctx context.Context, id int64) (*models.User, error)

	LoggedOut []int64
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password string, client services.ClientInfo) (*models.User, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrStore
	}
	return m.RegisterFunc(ctx, username, email, password, client)
}

func (m *MockAuthService) Authenticate(ctx context.Context, login, password string, client services.ClientInfo) (*models.User, error) {
	if m.AuthenticateFunc == nil {
		return nil, models.ErrInvalidCredentials
	}
	return m.AuthenticateFunc(ctx, login, password, client)
}

func (m *MockAuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if m.GetUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetUserFunc(ctx, id)
}

func (m *MockAuthService) LogLogout(userID int64, _ services.ClientInfo) {
	m.LoggedOut = append(m.LoggedOut, userID)
}

// MockSessionManager implements SessionManager for testing
type MockSessionManager struct {
	LoginFunc           func(ctx context.Context, w http.ResponseWriter, r *http.Request, user *models.User) (*auth.LoginResult, error)
	LogoutFunc          func(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	EnsureCSRFTokenFunc func(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, error)
}

func (m *MockSessionManager) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, user *models.User) (*auth.LoginResult, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrStore
	}
	return m.LoginFunc(ctx, w, r, user)
}

func (m *MockSessionManager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx, w, r)
}

func (m *MockSessionManager) EnsureCSRFToken(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, error) {
	if m.EnsureCSRFTokenFunc == nil {
		return "", models.ErrStore
	}
	return m.EnsureCSRFTokenFunc(ctx, w, r)
}

// MockSongService implements SongServiceInterface for testing
type MockSongService struct {
	ListFunc       func(ctx context.Context, genre string, page, limit int) (*services.SongPage, error)
	SearchFunc     func(ctx context.Context, raw string, page, limit int) (*services.SearchResult, error)
	GetFunc        func(ctx context.Context, id int64) (*models.Song, error)
	RecordPlayFunc func(ctx context.Context, userID, songID int64, durationPlayed *int) error
	CreateFunc     func(ctx context.Context, actorID int64, in services.SongInput) (*models.Song, error)
	UpdateFunc     func(ctx context.Context, actorID, id int64, in services.SongInput) (*models.Song, error)
	DeleteFunc     func(ctx context.Context, actorID, id int64) error
}

func (m *MockSongService) List(ctx context.Context, genre string, page, limit int) (*services.SongPage, error) {
	if m.ListFunc == nil {
		return &services.SongPage{}, nil
	}
	return m.ListFunc(ctx, genre, page, limit)
}

func (m *MockSongService) Search(ctx context.Context, raw string, page, limit int) (*services.SearchResult, error) {
	if m.SearchFunc == nil {
		return &services.SearchResult{}, nil
	}
	return m.SearchFunc(ctx, raw, page, limit)
}

func (m *MockSongService) Get(ctx context.Context, id int64) (*models.Song, error) {
	if m.GetFunc == nil {
		return nil, services.ErrSongNotFound
	}
	return m.GetFunc(ctx, id)
}

func (m *MockSongService) RecordPlay(ctx context.Context, userID, songID int64, durationPlayed *int) error {
	if m.RecordPlayFunc == nil {
		return nil
	}
	return m.RecordPlayFunc(ctx, userID, songID, durationPlayed)
}

func (m *MockSongService) Create(ctx context.Context, actorID int64, in services.SongInput) (*models.Song, error) {
	if m.CreateFunc == nil {
		return nil, models.ErrStore
	}
	return m.CreateFunc(ctx, actorID, in)
}

func (m *MockSongService) Update(ctx context.Context, actorID, id int64, in services.SongInput) (*models.Song, error) {
	if m.UpdateFunc == nil {
		return nil, services.ErrSongNotFound
	}
	return m.UpdateFunc(ctx, actorID, id, in)
}

func (m *MockSongService) Delete(ctx context.Context, actorID, id int64) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, actorID, id)
}

// MockPlaylistService implements PlaylistServiceInterface for testing
type MockPlaylistService struct {
	ListFunc       func(ctx context.Context, userID int64) ([]*models.Playlist, error)
	CreateFunc     func(ctx context.Context, userID int64, name, description string, isPublic bool) (*models.Playlist, error)
	GetFunc        func(ctx context.Context, userID, id int64) (*services.PlaylistDetail, error)
	UpdateFunc     func(ctx context.Context, userID, id int64, upd services.PlaylistUpdate) (*models.Playlist, error)
	DeleteFunc     func(ctx context.Context, userID, id int64) error
	AddSongFunc    func(ctx context.Context, userID, playlistID, songID int64) (int, error)
	RemoveSongFunc func(ctx context.Context, userID, playlistID, songID int64) error
}

func (m *MockPlaylistService) List(ctx context.Context, userID int64) ([]*models.Playlist, error) {
	if m.ListFunc == nil {
		return []*models.Playlist{}, nil
	}
	return m.ListFunc(ctx, userID)
}

func (m *MockPlaylistService) Create(ctx context.Context, userID int64, name, description string, isPublic bool) (*models.Playlist, error) {
	if m.CreateFunc == nil {
		return nil, models.ErrStore
	}
	return m.CreateFunc(ctx, userID, name, description, isPublic)
}

func (m *MockPlaylistService) Get(ctx context.Context, userID, id int64) (*services.PlaylistDetail, error) {
	if m.GetFunc == nil {
		return nil, services.ErrPlaylistNotFound
	}
	return m.GetFunc(ctx, userID, id)
}

func (m *MockPlaylistService) Update(ctx context.Context, userID, id int64, upd services.PlaylistUpdate) (*models.Playlist, error) {
	if m.UpdateFunc == nil {
		return nil, services.ErrPlaylistNotFound
	}
	return m.UpdateFunc(ctx, userID, id, upd)
}

func (m *MockPlaylistService) Delete(ctx context.Context, userID, id int64) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, userID, id)
}

func (m *MockPlaylistService) AddSong(ctx context.Context, userID, playlistID, songID int64) (int, error) {
	if m.AddSongFunc == nil {
		return 0, nil
	}
	return m.AddSongFunc(ctx, userID, playlistID, songID)
}

func (m *MockPlaylistService) RemoveSong(ctx context.Context, userID, playlistID, songID int64) error {
	if m.RemoveSongFunc == nil {
		return nil
	}
	return m.RemoveSongFunc(ctx, userID, playlistID, songID)
}

// MockFavoriteService implements FavoriteServiceInterface for testing
type MockFavoriteService struct {
	ListFunc   func(ctx context.Context, userID int64) ([]*models.Favorite, error)
	AddFunc    func(ctx context.Context, userID, songID int64) error
	RemoveFunc func(ctx context.Context, userID, songID int64) error
}

func (m *MockFavoriteService) List(ctx context.Context, userID int64) ([]*models.Favorite, error) {
	if m.ListFunc == nil {
		return []*models.Favorite{}, nil
	}
	return m.ListFunc(ctx, userID)
}

func (m *MockFavoriteService) Add(ctx context.Context, userID, songID int64) error {
	if m.AddFunc == nil {
		return nil
	}
	return m.AddFunc(ctx, userID, songID)
}

func (m *MockFavoriteService) Remove(ctx context.Context, userID, songID int64) error {
	if m.RemoveFunc == nil {
		return nil
	}
	return m.RemoveFunc(ctx, userID, songID)
}
