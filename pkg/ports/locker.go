package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates cache fills across instances (replicas), so a
// cached partial is materialized once while concurrent renders wait for it.
type DistributedLocker interface {
	// Lock blocks until the lock for key is acquired or ctx is canceled.
	// ttl bounds how long an abandoned lock is held.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
