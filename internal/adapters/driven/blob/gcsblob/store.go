// Package gcsblob provides a blob store backed by Google Cloud Storage.
package gcsblob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// Store stores blobs as objects in a GCS bucket.
type Store struct {
	client *storage.Client
	bucket string
	prefix string
}

// Config holds configuration for the GCS blob store.
type Config struct {
	// Bucket is the GCS bucket name (required).
	Bucket string

	// Prefix is prepended to every object name, e.g. "blobs".
	Prefix string

	// CredentialsFile is a path to a service account JSON key. When
	// empty, application default credentials apply unless AccessToken
	// is set.
	CredentialsFile string

	// AccessToken authenticates with a static OAuth2 token instead of
	// a credentials file.
	AccessToken string
}

// NewStore creates a GCS-backed blob store.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: GCS bucket name is required", domain.ErrInvalidInput)
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.AccessToken != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
		opts = append(opts, option.WithTokenSource(ts))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	return &Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// Put stores data under ref, overwriting any previous value.
func (s *Store) Put(ctx context.Context, ref string, data []byte) error {
	name, err := s.objectName(ref)
	if err != nil {
		return err
	}
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("writing blob %s: %w", ref, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing blob %s: %w", ref, err)
	}
	return nil
}

// Get retrieves the bytes stored under ref.
func (s *Store) Get(ctx context.Context, ref string) ([]byte, error) {
	name, err := s.objectName(ref)
	if err != nil {
		return nil, err
	}
	r, err := s.client.Bucket(s.bucket).Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("opening blob %s: %w", ref, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", ref, err)
	}
	return data, nil
}

// Delete removes the bytes stored under ref.
func (s *Store) Delete(ctx context.Context, ref string) error {
	name, err := s.objectName(ref)
	if err != nil {
		return err
	}
	err = s.client.Bucket(s.bucket).Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("deleting blob %s: %w", ref, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) objectName(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty blob ref", domain.ErrInvalidInput)
	}
	if s.prefix == "" {
		return ref, nil
	}
	return s.prefix + "/" + ref, nil
}
