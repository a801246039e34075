package domain

import "errors"

// ErrVersionMismatch is returned when the client asset version differs from the server's.
var ErrVersionMismatch = errors.New("asset version mismatch")

// ErrCacheMiss is returned by payload caches when a key has no entry.
var ErrCacheMiss = errors.New("cache miss")
