package services

import (
	"fmt"

	"github.com/BradenHooton/tunevault/internal/models"
)

// Domain errors. Each wraps a models sentinel so handlers can map the
// status with errors.Is and still pick a specific message.
var (
	ErrUsernameTaken = fmt.Errorf("%w: username already taken", models.ErrConflict)
	ErrEmailTaken    = fmt.Errorf("%w: email already registered", models.ErrConflict)

	ErrSongNotFound     = fmt.Errorf("%w: song", models.ErrNotFound)
	ErrPlaylistNotFound = fmt.Errorf("%w: playlist", models.ErrNotFound)
	ErrMediaNotFound    = fmt.Errorf("%w: media file is not in the file store", models.ErrValidation)

	ErrSongInPlaylist    = fmt.Errorf("%w: song already in playlist", models.ErrConflict)
	ErrSongNotInPlaylist = fmt.Errorf("%w: song is not in playlist", models.ErrNotFound)
	ErrNotPlaylistOwner  = fmt.Errorf("%w: not the playlist owner", models.ErrPermissionDenied)

	ErrAlreadyFavorite = fmt.Errorf("%w: song already in favorites", models.ErrConflict)
	ErrNotFavorite     = fmt.Errorf("%w: song is not in favorites", models.ErrNotFound)
)
