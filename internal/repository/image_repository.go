package repository

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// safeFilename is the allow-list for filenames served back to clients. It is
// checked before any filesystem access, so traversal sequences never reach
// the disk layer.
var safeFilename = regexp.MustCompile(`^[A-Za-z0-9_\-\.]+$`)

// ImageStore persists generated images on disk under a single directory.
// Writes during generation are append-only; the Sweep method prunes aged
// files out-of-band.
type ImageStore struct {
	dir string
}

// NewImageStore ensures the image directory exists and returns a store over it.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (s *ImageStore) Dir() string { return s.dir }

// ValidFilename reports whether a client-supplied filename is safe to look up.
func ValidFilename(name string) bool {
	return safeFilename.MatchString(name)
}

// Save writes data under the given filename and returns its absolute path.
func (s *ImageStore) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0640); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return path, nil
}

// Path resolves a validated filename to its on-disk location, or reports
// that the file does not exist.
func (s *ImageStore) Path(filename string) (string, bool) {
	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// MimeForFilename infers the MIME type from the filename extension.
func MimeForFilename(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}

// Sweep deletes files older than maxAge. Deletion errors are swallowed: the
// sweep is best-effort housekeeping and must never surface into a request.
func (s *ImageStore) Sweep(maxAge time.Duration) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		slog.Warn("Image sweep could not read directory", "dir", s.dir, "error", err)
		return
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	if removed > 0 {
		slog.Info("Image sweep removed aged files", "count", removed)
	}
}
