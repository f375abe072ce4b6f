// Package snapshot provides the local key-value snapshot that backs the
// cart, wishlist, and auth stores. Values are opaque JSON blobs restored
// wholesale at startup; there is no payload versioning or migration.
package snapshot

import (
	"context"
	"errors"
)

// Fixed namespace keys. Each store owns exactly one key.
const (
	KeyCart     = "cart-storage"
	KeyWishlist = "wishlist-storage"
	KeyAuth     = "auth-storage"
)

// ErrNotFound is returned by Load when a key has never been saved.
var ErrNotFound = errors.New("snapshot: key not found")

// Store is the persistence surface the state containers depend on.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}
