package artifacts

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/aviv90/audiokit/pkg/errorsx"
	"github.com/google/uuid"
)

// Store writes tool audio outputs under a single directory with uuid names.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("artifacts dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonArtifactWrite)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Put writes data and returns the artifact path. The extension should not
// include the dot.
func (s *Store) Put(ext string, data []byte) (string, error) {
	if ext == "" {
		ext = "bin"
	}
	path := filepath.Join(s.dir, uuid.NewString()+"."+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonArtifactWrite)
	}
	return path, nil
}

// Purge removes artifacts older than maxAge. Returns deleted count.
func (s *Store) Purge(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}
	var removed int
	var errs error
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		removed++
	}
	return removed, errs
}
