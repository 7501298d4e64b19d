package fileblob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// Store is a local filesystem implementation of driven.BlobStore.
// Each ref maps to a file under the blob directory.
type Store struct {
	dir string
}

// NewStore creates a file-backed blob store rooted at blobDir.
// If blobDir is empty, defaults to ~/.engage/blobs.
func NewStore(blobDir string) (*Store, error) {
	if blobDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		blobDir = filepath.Join(home, ".engage", "blobs")
	}

	if err := os.MkdirAll(blobDir, 0700); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}

	return &Store{dir: blobDir}, nil
}

// Put stores data under ref, overwriting any previous value.
func (s *Store) Put(_ context.Context, ref string, data []byte) error {
	path, err := s.refPath(ref)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating blob subdirectory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing blob %s: %w", ref, err)
	}
	return nil
}

// Get retrieves the bytes stored under ref.
func (s *Store) Get(_ context.Context, ref string) ([]byte, error) {
	path, err := s.refPath(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading blob %s: %w", ref, err)
	}
	return data, nil
}

// Delete removes the bytes stored under ref.
func (s *Store) Delete(_ context.Context, ref string) error {
	path, err := s.refPath(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting blob %s: %w", ref, err)
	}
	return nil
}

// Dir returns the blob directory path.
func (s *Store) Dir() string {
	return s.dir
}

// refPath resolves a ref to a path inside the blob directory. Refs
// must stay inside it, so absolute paths and parent traversal are
// rejected.
func (s *Store) refPath(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty blob ref", domain.ErrInvalidInput)
	}
	clean := filepath.Clean(filepath.FromSlash(ref))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: blob ref %q escapes the blob directory", domain.ErrInvalidInput, ref)
	}
	return filepath.Join(s.dir, clean), nil
}
