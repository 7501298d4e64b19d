package driven

import "context"

// BlobStore stores raw document bytes under opaque refs. Refs are
// assigned by the caller and recorded on domain.Document.BlobRef.
//
// Implementations include the local filesystem and Google Cloud
// Storage.
type BlobStore interface {
	// Put stores data under ref, overwriting any previous value.
	Put(ctx context.Context, ref string, data []byte) error

	// Get retrieves the bytes stored under ref.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, ref string) ([]byte, error)

	// Delete removes the bytes stored under ref. Deleting an absent
	// ref is a no-op.
	Delete(ctx context.Context, ref string) error
}
