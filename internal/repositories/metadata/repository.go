// Package metadata is the key/value table of the embedded store. It holds
// the key derivation salt and verifier.
package metadata

import "context"

type Repository interface {
	// Get returns nil, nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
