// Package storage holds payment receipt files in object storage.
// The backend is pluggable: MinIO for self-hosted deployments, Google
// Cloud Storage otherwise.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// Receipts stores payment receipts under deterministic per-payment
// prefixes with random object names.
type Receipts struct {
	backend ObjectStorage
}

// NewReceipts constructs a receipt store for the provided backend.
func NewReceipts(backend ObjectStorage) *Receipts {
	return &Receipts{backend: backend}
}

// EnsureBucket ensures the configured bucket exists.
func (s *Receipts) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// Put uploads a receipt for the given payment and returns its key.
func (s *Receipts) Put(ctx context.Context, paymentID int, r io.Reader, size int64, contentType string) (string, error) {
	key := fmt.Sprintf("payments/%d/%s", paymentID, uuid.NewString())
	if err := s.backend.Put(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// Get opens a reader for a previously stored receipt.
func (s *Receipts) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}

// Delete removes a stored receipt.
func (s *Receipts) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}
