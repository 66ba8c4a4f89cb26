package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Images stores product cover images on disk. Paths returned to callers are
// relative to the image root so the database stays portable across hosts.
type Images struct {
	dir string
}

// NewImages creates an image store rooted at dir.
func NewImages(dir string) *Images {
	return &Images{dir: dir}
}

// SaveProductImage writes the image bytes for a product and returns the
// relative path to store on the product row.
func (s *Images) SaveProductImage(slug string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	name := slug + ".jpg"
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image %s: %w", name, err)
	}
	return name, nil
}

// LoadImage reads an image previously stored with SaveProductImage.
func (s *Images) LoadImage(path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, filepath.Base(path)))
}
