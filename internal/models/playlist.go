package models

import "time"

type Playlist struct {
	ID          int64
	UserID      int64
	Name        string
	Description string
	IsPublic    bool
	CoverImage  string
	SongCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlaylistEntry is a song placed in a playlist
type PlaylistEntry struct {
	Song     Song
	Position int
	AddedAt  time.Time
}

// Favorite is a song a user marked as favorite
type Favorite struct {
	Song    Song
	AddedAt time.Time
}
