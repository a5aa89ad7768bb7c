// Package storage holds the object store for archived report files.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("blob not found")

// BlobStore stores opaque files under a key
type BlobStore interface {
	// Put stores r under key and returns the store's id for the object
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Open(ctx context.Context, id string) (io.ReadCloser, error)
	// Delete removes the object; a missing object is not an error
	Delete(ctx context.Context, id string) error
}
