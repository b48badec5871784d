package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Kind selects the media sub-directory
type Kind string

const (
	KindAudio Kind = "songs"
	KindCover Kind = "covers"
)

var ErrInvalidName = errors.New("invalid media file name")

// LocalStore manages uploaded media on the local filesystem
type LocalStore struct {
	root   string
	logger *slog.Logger
}

func NewLocalStore(root string, logger *slog.Logger) *LocalStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalStore{root: root, logger: logger}
}

// path resolves name inside the kind directory, refusing anything that
// would escape it
func (s *LocalStore) path(kind Kind, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.root, string(kind), name), nil
}

// Exists reports whether the file is present
func (s *LocalStore) Exists(_ context.Context, kind Kind, name string) (bool, error) {
	p, err := s.path(kind, name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Delete removes the file. A missing file is not an error.
func (s *LocalStore) Delete(_ context.Context, kind Kind, name string) error {
	p, err := s.path(kind, name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", p, err)
	}
	return nil
}

// DeleteSongMedia removes the audio and cover of an uploaded song. Bundled
// media is left in place. Failures are logged rather than returned since the
// song row is already gone when this runs.
func (s *LocalStore) DeleteSongMedia(ctx context.Context, filePath, coverImage string) {
	if !IsUploaded(coverImage) {
		return
	}
	for kind, name := range map[Kind]string{KindAudio: filePath, KindCover: coverImage} {
		if err := s.Delete(ctx, kind, name); err != nil {
			s.logger.Warn("failed to delete song media",
				slog.String("kind", string(kind)),
				slog.String("name", name),
				slog.String("error", err.Error()),
			)
		}
	}
}
