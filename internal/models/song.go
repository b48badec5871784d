package models

import "time"

type Song struct {
	ID          int64
	Title       string
	Artist      string
	Album       string
	Duration    int // seconds
	FilePath    string
	CoverImage  string
	Genre       string
	ReleaseYear *int
	PlayCount   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relevance is only set for full-text search results
	Relevance float64
}

// SongFilter narrows a song listing
type SongFilter struct {
	Genre  string
	Limit  int
	Offset int
}

// PlayRecord is one entry of a user's listening history
type PlayRecord struct {
	UserID         int64
	SongID         int64
	DurationPlayed *int
	PlayedAt       time.Time
}
