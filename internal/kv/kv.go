package kv

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Entry is one stored key/value pair as returned by Scan.
type Entry struct {
	Key   string
	Value []byte
}

// Store is the durable key-value contract the services are written against.
// Values are opaque JSON blobs; the key namespace convention lives in the
// repositories, not here.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete reports ErrKeyNotFound when nothing was removed.
	Delete(ctx context.Context, key string) error
	// Scan returns every entry whose key starts with prefix.
	Scan(ctx context.Context, prefix string) ([]Entry, error)
}
