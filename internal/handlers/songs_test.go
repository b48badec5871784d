package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/tunevault/internal/handlers"
	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/BradenHooton/tunevault/internal/search"
	"github.com/BradenHooton/tunevault/internal/services"
	"github.com/BradenHooton/tunevault/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testURLs = storage.NewURLBuilder("http://localhost:8080/")

func bundledSong() *models.Song {
	return &models.Song{ID: 1, Title: "Yesterday", Artist: "The Beatles", Duration: 125, FilePath: "yesterday.mp3", CoverImage: "help.jpg"}
}

func uploadedSong() *models.Song {
	return &models.Song{ID: 2, Title: "Blue", Artist: "Joni", Duration: 0, FilePath: "blue_1700.mp3", CoverImage: "blue_1700.jpg"}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", handlers.FormatDuration(0))
	assert.Equal(t, "0:07", handlers.FormatDuration(7))
	assert.Equal(t, "2:05", handlers.FormatDuration(125))
	assert.Equal(t, "61:01", handlers.FormatDuration(3661))
}

func TestSongList_MediaURLs(t *testing.T) {
	svc := &handlers.MockSongService{
		ListFunc: func(ctx context.Context, genre string, page, limit int) (*services.SongPage, error) {
			assert.Equal(t, "Pop", genre)
			assert.Equal(t, 2, page)
			assert.Equal(t, 0, limit)
			return &services.SongPage{
				Songs:      []*models.Song{bundledSong(), uploadedSong()},
				Pagination: search.Paginate(2, 20, 2),
			}, nil
		},
	}
	handler := handlers.NewSongHandler(svc, testURLs)

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest("GET", "/api/songs?genre=Pop&page=2", nil))

	var data struct {
		Songs      []handlers.SongResponse `json:"songs"`
		Pagination search.Pagination       `json:"pagination"`
	}
	handlers.AssertSuccessResponse(t, w, http.StatusOK, &data)
	require.Len(t, data.Songs, 2)

	assert.Equal(t, "2:05", data.Songs[0].DurationFormatted)
	assert.Equal(t, "http://localhost:8080/assets/img/help.jpg", data.Songs[0].CoverURL)
	assert.Equal(t, "http://localhost:8080/assets/audio/yesterday.mp3", data.Songs[0].AudioURL)
	assert.Nil(t, data.Songs[0].Relevance)

	assert.Equal(t, "0:00", data.Songs[1].DurationFormatted)
	assert.Equal(t, "http://localhost:8080/uploads/covers/blue_1700.jpg", data.Songs[1].CoverURL)
	assert.Equal(t, "http://localhost:8080/uploads/songs/blue_1700.mp3", data.Songs[1].AudioURL)

	assert.Equal(t, 1, data.Pagination.CurrentPage)
}

func TestSongSearch(t *testing.T) {
	svc := &handlers.MockSongService{
		SearchFunc: func(ctx context.Context, raw string, page, limit int) (*services.SearchResult, error) {
			s := bundledSong()
			s.Relevance = 0.5
			return &services.SearchResult{
				Query:      raw,
				Mode:       search.ModeFulltext,
				Songs:      []*models.Song{s},
				Pagination: search.Paginate(1, 20, 1),
			}, nil
		},
	}
	handler := handlers.NewSongHandler(svc, testURLs)

	w := httptest.NewRecorder()
	handler.Search(w, httptest.NewRequest("GET", "/api/songs/search?q=yesterday", nil))

	var data struct {
		Query      string                  `json:"query"`
		SearchMode string                  `json:"search_mode"`
		Songs      []handlers.SongResponse `json:"songs"`
	}
	handlers.AssertSuccessResponse(t, w, http.StatusOK, &data)
	assert.Equal(t, "yesterday", data.Query)
	assert.Equal(t, "fulltext", data.SearchMode)
	require.Len(t, data.Songs, 1)
	require.NotNil(t, data.Songs[0].Relevance)
	assert.Equal(t, 0.5, *data.Songs[0].Relevance)
}

func TestSongSearch_EmptyQuery(t *testing.T) {
	svc := &handlers.MockSongService{
		SearchFunc: func(ctx context.Context, raw string, page, limit int) (*services.SearchResult, error) {
			return nil, search.ErrEmptyQuery
		},
	}
	handler := handlers.NewSongHandler(svc, testURLs)

	w := httptest.NewRecorder()
	handler.Search(w, httptest.NewRequest("GET", "/api/songs/search?q=+", nil))

	msg := handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "validation_error")
	assert.Equal(t, "Search query is required", msg)
}

func TestSongGet(t *testing.T) {
	svc := &handlers.MockSongService{
		GetFunc: func(ctx context.Context, id int64) (*models.Song, error) {
			if id == 1 {
				return bundledSong(), nil
			}
			return nil, services.ErrSongNotFound
		},
	}
	handler := handlers.NewSongHandler(svc, testURLs)

	w := httptest.NewRecorder()
	handler.Get(w, handlers.WithURLParams(httptest.NewRequest("GET", "/api/songs/1", nil), "id", "1"))
	var song handlers.SongResponse
	handlers.AssertSuccessResponse(t, w, http.StatusOK, &song)
	assert.Equal(t, "Yesterday", song.Title)

	w = httptest.NewRecorder()
	handler.Get(w, handlers.WithURLParams(httptest.NewRequest("GET", "/api/songs/9", nil), "id", "9"))
	handlers.AssertErrorResponse(t, w, http.StatusNotFound, "not_found")

	w = httptest.NewRecorder()
	handler.Get(w, handlers.WithURLParams(httptest.NewRequest("GET", "/api/songs/x", nil), "id", "x"))
	msg := handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "validation_error")
	assert.Equal(t, "Invalid song ID", msg)
}

func TestSongPlay(t *testing.T) {
	var gotUser, gotSong int64
	var gotDuration *int
	svc := &handlers.MockSongService{
		RecordPlayFunc: func(ctx context.Context, userID, songID int64, durationPlayed *int) error {
			gotUser, gotSong, gotDuration = userID, songID, durationPlayed
			return nil
		},
	}
	handler := handlers.NewSongHandler(svc, testURLs)

	req := handlers.NewTestRequest(t, "POST", "/api/songs/3/play", map[string]int{"duration_played": 90})
	req = handlers.WithURLParams(handlers.WithSessionUser(req, 5, models.RoleUser), "id", "3")
	w := httptest.NewRecorder()
	handler.Play(w, req)

	var data map[string]any
	handlers.AssertSuccessResponse(t, w, http.StatusOK, &data)
	assert.Equal(t, int64(5), gotUser)
	assert.Equal(t, int64(3), gotSong)
	require.NotNil(t, gotDuration)
	assert.Equal(t, 90, *gotDuration)
	assert.Equal(t, float64(90), data["duration_played"])
}

func TestSongPlay_EmptyBody(t *testing.T) {
	handler := handlers.NewSongHandler(&handlers.MockSongService{}, testURLs)

	req := httptest.NewRequest("POST", "/api/songs/3/play", nil)
	req = handlers.WithURLParams(handlers.WithSessionUser(req, 5, models.RoleUser), "id", "3")
	w := httptest.NewRecorder()
	handler.Play(w, req)

	handlers.AssertSuccessResponse(t, w, http.StatusOK, nil)
}

func TestSongCreate(t *testing.T) {
	svc := &handlers.MockSongService{
		CreateFunc: func(ctx context.Context, actorID int64, in services.SongInput) (*models.Song, error) {
			assert.Equal(t, int64(1), actorID)
			s := uploadedSong()
			s.Title = in.Title
			return s, nil
		},
	}
	handler := handlers.NewSongHandler(svc, testURLs)

	req := handlers.NewTestRequest(t, "POST", "/api/songs", handlers.CreateSongRequest{
		Title: "Blue", Artist: "Joni", FilePath: "blue_1700.mp3", CoverImage: "blue_1700.jpg",
	})
	w := httptest.NewRecorder()
	handler.Create(w, handlers.WithSessionUser(req, 1, models.RoleAdmin))

	var song handlers.SongResponse
	handlers.AssertSuccessResponse(t, w, http.StatusCreated, &song)
	assert.Equal(t, "Blue", song.Title)
}

func TestSongCreate_Errors(t *testing.T) {
	handler := handlers.NewSongHandler(&handlers.MockSongService{}, testURLs)

	w := httptest.NewRecorder()
	handler.Create(w, handlers.NewTestRequest(t, "POST", "/api/songs", handlers.CreateSongRequest{Artist: "x", FilePath: "a.mp3"}))
	msg := handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "validation_error")
	assert.Equal(t, "Title and artist are required", msg)

	svc := &handlers.MockSongService{
		CreateFunc: func(ctx context.Context, actorID int64, in services.SongInput) (*models.Song, error) {
			return nil, services.ErrMediaNotFound
		},
	}
	handler = handlers.NewSongHandler(svc, testURLs)
	w = httptest.NewRecorder()
	handler.Create(w, handlers.NewTestRequest(t, "POST", "/api/songs", handlers.CreateSongRequest{
		Title: "a", Artist: "b", FilePath: "a_1.mp3", CoverImage: "a_1.jpg",
	}))
	msg = handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "validation_error")
	assert.Equal(t, "Media file is not in the file store", msg)
}

func TestSongUpdateAndDelete(t *testing.T) {
	svc := &handlers.MockSongService{
		UpdateFunc: func(ctx context.Context, actorID, id int64, in services.SongInput) (*models.Song, error) {
			s := bundledSong()
			s.ID = id
			s.Title = in.Title
			return s, nil
		},
		DeleteFunc: func(ctx context.Context, actorID, id int64) error {
			return services.ErrSongNotFound
		},
	}
	handler := handlers.NewSongHandler(svc, testURLs)

	req := handlers.NewTestRequest(t, "PUT", "/api/songs/4", handlers.UpdateSongRequest{Title: "Help!", Artist: "The Beatles"})
	w := httptest.NewRecorder()
	handler.Update(w, handlers.WithURLParams(req, "id", "4"))
	var song handlers.SongResponse
	handlers.AssertSuccessResponse(t, w, http.StatusOK, &song)
	assert.Equal(t, int64(4), song.ID)
	assert.Equal(t, "Help!", song.Title)

	w = httptest.NewRecorder()
	handler.Delete(w, handlers.WithURLParams(httptest.NewRequest("DELETE", "/api/songs/4", nil), "id", "4"))
	msg := handlers.AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
	assert.Equal(t, "Song not found", msg)
}
