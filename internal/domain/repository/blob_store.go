package repository

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by Get when no object exists at the key.
var ErrObjectNotFound = errors.New("object not found")

// BlobStore abstracts the external object store as a flat namespace of
// byte objects addressed by string keys. "Folders" are purely a key
// prefix convention. Put always overwrites; the store's own per-object
// atomicity is inherited, no additional locking is layered on top.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	// ListPrefix returns the full keys of all objects under the prefix.
	ListPrefix(ctx context.Context, prefix string) ([]string, error)
	// PublicURL returns the stable, publicly resolvable URL for a key.
	PublicURL(key string) string
}
