package ports

import "context"

// PayloadCache stores serialized partial payloads.
type PayloadCache interface {
	// Get returns the payload stored under key.
	// Returns domain.ErrCacheMiss if there is none.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores payload under key, replacing any previous entry.
	Set(ctx context.Context, key string, payload []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
