package interfaces

import "context"

// KeyValueStore is the persisted string key/value layer backing the session.
// Get returns storage.ErrNotFound for absent keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
