package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/aretw0/inertia/internal/logging"
	"github.com/aretw0/inertia/pkg/domain"
	"github.com/aretw0/inertia/pkg/ports"
	"github.com/aretw0/inertia/pkg/props"
)

// KeyFunc derives the cache key of one partial invocation.
// Returning false skips the cache for that invocation.
type KeyFunc func(name string, locals any) (string, bool)

// DefaultKey keys an invocation by partial name and a hash of its locals
// encoded as JSON. Locals that cannot be encoded are not cached.
func DefaultKey(name string, locals any) (string, bool) {
	data, err := json.Marshal(locals)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s:%016x", name, xxhash.Sum64(data)), true
}

// CacheObserver is told about every cache lookup.
type CacheObserver func(name string, hit bool)

type cachingConfig struct {
	key      KeyFunc
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	logger   *slog.Logger
	observer CacheObserver
}

// CachingOption configures NewCachingMiddleware.
type CachingOption func(*cachingConfig)

// WithKeyFunc replaces DefaultKey.
func WithKeyFunc(fn KeyFunc) CachingOption {
	return func(c *cachingConfig) {
		c.key = fn
	}
}

// WithLocker makes concurrent misses on the same key wait for a single fill.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) CachingOption {
	return func(c *cachingConfig) {
		c.locker = locker
		c.lockTTL = ttl
	}
}

// WithLogger sets the logger used for cache failures.
func WithLogger(logger *slog.Logger) CachingOption {
	return func(c *cachingConfig) {
		c.logger = logger
	}
}

// WithObserver reports hits and misses.
func WithObserver(fn CacheObserver) CachingOption {
	return func(c *cachingConfig) {
		c.observer = fn
	}
}

type cachingMiddleware struct {
	next  props.Resolver
	cache ports.PayloadCache
	cfg   cachingConfig
}

// NewCachingMiddleware creates a middleware that materializes partials once and
// replays them from cache.
//
// Inside a container the whole partial output is cached under one key, with
// each key's annotation. On the root scope the partial still runs on every
// build so annotations and laziness hold, and each top-level key is cached on
// its own the first time it is evaluated. Failures of the cache or the locker
// are logged and the partial is rendered directly.
func NewCachingMiddleware(cache ports.PayloadCache, opts ...CachingOption) Middleware {
	cfg := cachingConfig{
		key:     DefaultKey,
		lockTTL: 10 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return func(next props.Resolver) props.Resolver {
		return &cachingMiddleware{next: next, cache: cache, cfg: cfg}
	}
}

func (m *cachingMiddleware) Lookup(name string) (props.Partial, error) {
	p, err := m.next.Lookup(name)
	if err != nil {
		return nil, err
	}

	return func(s props.Scope, locals any) error {
		key, ok := m.cfg.key(name, locals)
		if !ok {
			return p(s, locals)
		}
		if s.IsRoot() {
			return m.perKey(s, name, key, p, locals)
		}

		var snap snapshot
		err := m.fill(s.Context(), name, key,
			func(data []byte) error {
				snap = snapshot{}
				return json.Unmarshal(data, &snap)
			},
			func() ([]byte, error) {
				out, err := materialize(s, p, locals)
				if err != nil {
					return nil, err
				}
				return json.Marshal(out)
			},
		)
		if err != nil {
			return err
		}
		return snap.apply(s)
	}, nil
}

// perKey records p on the root scope and replays every top-level key behind
// a thunk that goes through the cache when the key is evaluated.
func (m *cachingMiddleware) perKey(s props.Scope, name, key string, p props.Partial, locals any) error {
	obj, err := s.Record(func(r props.Scope) error {
		return p(r, locals)
	})
	if err != nil {
		return err
	}
	if obj == nil {
		s.Nil()
		return nil
	}

	for _, n := range obj.Nodes() {
		src := n.Value
		entry := key + "/" + n.Key
		cached := *n
		cached.Value = props.PendingValue(func(ctx context.Context) (props.Value, error) {
			var raw json.RawMessage
			err := m.fill(ctx, name, entry,
				func(data []byte) error {
					if !json.Valid(data) {
						return errors.New("invalid JSON")
					}
					raw = data
					return nil
				},
				func() ([]byte, error) {
					return resolveJSON(ctx, src)
				},
			)
			if err != nil {
				return props.Value{}, err
			}
			return props.ScalarValue(raw), nil
		})
		if err := s.Replay(&cached); err != nil {
			return err
		}
	}
	return nil
}

// fill loads the entry stored under key, or produces and stores it on a miss.
// decode accepts an entry; one it rejects is treated as a miss.
func (m *cachingMiddleware) fill(ctx context.Context, name, key string, decode func([]byte) error, produce func() ([]byte, error)) error {
	if m.load(ctx, key, decode) {
		m.observe(name, true)
		return nil
	}

	if m.cfg.locker != nil {
		unlock, err := m.cfg.locker.Lock(ctx, key, m.cfg.lockTTL)
		switch {
		case err == nil:
			defer func() {
				if err := unlock(ctx); err != nil {
					m.cfg.logger.Warn("Failed to release partial cache lock", "key", key, "error", err)
				}
			}()

			// Another instance may have filled it while we waited.
			if m.load(ctx, key, decode) {
				m.observe(name, true)
				return nil
			}
		case ctx.Err() != nil:
			return fmt.Errorf("lock %s: %w", key, ctx.Err())
		default:
			m.cfg.logger.Warn("Partial cache lock failed, rendering without it", "key", key, "error", err)
		}
	}

	m.observe(name, false)
	data, err := produce()
	if err != nil {
		return err
	}
	if err := decode(data); err != nil {
		return err
	}
	m.store(ctx, key, data)
	return nil
}

func (m *cachingMiddleware) load(ctx context.Context, key string, decode func([]byte) error) bool {
	data, err := m.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			m.cfg.logger.Warn("Partial cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := decode(data); err != nil {
		m.cfg.logger.Warn("Discarding corrupt partial cache entry", "key", key, "error", err)
		return false
	}
	return true
}

func (m *cachingMiddleware) store(ctx context.Context, key string, data []byte) {
	if err := m.cache.Set(ctx, key, data); err != nil {
		m.cfg.logger.Warn("Partial cache write failed", "key", key, "error", err)
	}
}

func (m *cachingMiddleware) observe(name string, hit bool) {
	if m.cfg.observer != nil {
		m.cfg.observer(name, hit)
	}
}
