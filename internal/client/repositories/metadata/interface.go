// Package metadata implements the client's durable key-value store. A single
// table holds opaque blobs by key; absence of a key is a normal state, not
// an error.
package metadata

import "context"

// Repository is the key-value persistence boundary used for rehydration
// state. Get returns (nil, nil) when the key does not exist. Delete is
// idempotent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
