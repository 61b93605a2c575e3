package storage

import (
	"context"
	"io"
)

type PutInput struct {
	// Key fixes the object key when set. Empty means the driver picks a
	// random one based on Filename's extension.
	Key         string
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}
