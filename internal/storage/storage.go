// Package storage keeps uploaded file bytes out of the relational rows.
// Records store a FileMeta with the key returned by Put.
package storage

import (
	"context"
	"errors"
)

var ErrBlobNotFound = errors.New("blob not found")

type BlobStore interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
