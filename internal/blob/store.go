// Package blob is the local content store. Bytes are addressed by opaque
// locators generated fresh per write, so concurrent uploads never contend on
// a name. Derivative renditions live next to the original under a
// deterministic suffix.
package blob

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("content not found")

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// NewLocator returns a fresh collision-free locator.
func (s *Store) NewLocator() string {
	return uuid.New().String()
}

func (s *Store) Write(locator string, data []byte) error {
	if err := os.WriteFile(s.path(locator), data, 0o644); err != nil {
		return fmt.Errorf("failed to write content %s: %w", locator, err)
	}
	return nil
}

func (s *Store) Read(locator string) ([]byte, error) {
	data, err := os.ReadFile(s.path(locator))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read content %s: %w", locator, err)
	}
	return data, nil
}

// Remove deletes the blob at locator. Removing an absent blob succeeds;
// callers use this to roll back a content write after a metadata failure.
func (s *Store) Remove(locator string) error {
	err := os.Remove(s.path(locator))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove content %s: %w", locator, err)
	}
	return nil
}

// DerivativeLocator names the rendition of locator at the given width.
// Rewriting the same (locator, width) pair always lands on the same blob.
func DerivativeLocator(locator string, width int) string {
	return fmt.Sprintf("%s_%d", locator, width)
}

func (s *Store) path(locator string) string {
	// Locators are generated internally, but never let one escape the root.
	return filepath.Join(s.dir, filepath.Base(locator))
}
