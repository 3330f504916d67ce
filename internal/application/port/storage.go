package port

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by BlobStore.Get when nothing is stored under the key
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is a small key/value store holding the serialized local backup
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, content []byte) error
	Delete(ctx context.Context, key string) error
}
