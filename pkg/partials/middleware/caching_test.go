package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/inertia/pkg/adapters/memory"
	"github.com/aretw0/inertia/pkg/domain"
	"github.com/aretw0/inertia/pkg/partials/middleware"
	"github.com/aretw0/inertia/pkg/ports"
	"github.com/aretw0/inertia/pkg/props"
)

type account struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// countingRegistry registers an "accounts/card" partial that counts its runs.
func countingRegistry(calls *int, mu *sync.Mutex) *memory.Registry {
	return memory.NewRegistry(map[string]props.Partial{
		"accounts/card": func(s props.Scope, locals any) error {
			mu.Lock()
			*calls++
			mu.Unlock()

			a := locals.(account)
			s.Set("id", a.ID)
			s.Set("name", a.Name)
			if err := s.Block("secret", func(s props.Scope) error {
				s.Set("password", a.Password)
				return nil
			}); err != nil {
				return err
			}
			return s.SetFunc("tags", func(context.Context) (any, error) {
				return []string{"a", "b"}, nil
			})
		},
		"accounts/none": func(s props.Scope, _ any) error {
			s.Nil()
			return nil
		},
		"accounts/broken": func(s props.Scope, _ any) error {
			return errors.New("boom")
		},
	})
}

func renderWith(t *testing.T, r props.Resolver, name string, locals any) (string, error) {
	t.Helper()
	ctx := context.Background()

	root, err := props.NewBuilder(r).Build(ctx, func(s props.Scope) error {
		return s.Block("card", func(s props.Scope) error {
			return s.Partial(name, locals)
		})
	})
	if err != nil {
		return "", err
	}
	res, err := props.Evaluate(ctx, root, domain.FullReload())
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(res.Props)
	require.NoError(t, err)
	return string(out), nil
}

func TestCaching_ReplaysIdenticalPayload(t *testing.T) {
	var calls int
	var mu sync.Mutex
	cache := memory.NewCache()

	var hits, misses int
	resolver := middleware.Chain(countingRegistry(&calls, &mu),
		middleware.NewCachingMiddleware(cache, middleware.WithObserver(func(name string, hit bool) {
			assert.Equal(t, "accounts/card", name)
			if hit {
				hits++
			} else {
				misses++
			}
		})),
	)

	ada := account{ID: 1, Name: "Ada", Password: "pw"}

	direct, err := renderWith(t, countingRegistry(new(int), &mu), "accounts/card", ada)
	require.NoError(t, err)

	first, err := renderWith(t, resolver, "accounts/card", ada)
	require.NoError(t, err)
	second, err := renderWith(t, resolver, "accounts/card", ada)
	require.NoError(t, err)

	assert.Equal(t, direct, first)
	assert.Equal(t, first, second)
	assert.Equal(t, `{"card":{"id":1,"name":"Ada","secret":{"password":"pw"},"tags":["a","b"]}}`, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, cache.Len())
}

func TestCaching_DifferentLocalsDifferentKeys(t *testing.T) {
	var calls int
	var mu sync.Mutex
	cache := memory.NewCache()
	resolver := middleware.NewCachingMiddleware(cache)(countingRegistry(&calls, &mu))

	_, err := renderWith(t, resolver, "accounts/card", account{ID: 1})
	require.NoError(t, err)
	_, err = renderWith(t, resolver, "accounts/card", account{ID: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, cache.Len())
}

func TestCaching_NullPartial(t *testing.T) {
	var mu sync.Mutex
	resolver := middleware.NewCachingMiddleware(memory.NewCache())(countingRegistry(new(int), &mu))

	for i := 0; i < 2; i++ {
		got, err := renderWith(t, resolver, "accounts/none", nil)
		require.NoError(t, err)
		assert.Equal(t, `{"card":null}`, got)
	}
}

func TestCaching_ErrorsAreNotCached(t *testing.T) {
	var mu sync.Mutex
	cache := memory.NewCache()
	resolver := middleware.NewCachingMiddleware(cache)(countingRegistry(new(int), &mu))

	_, err := renderWith(t, resolver, "accounts/broken", nil)
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestCaching_UnknownPartial(t *testing.T) {
	var mu sync.Mutex
	resolver := middleware.NewCachingMiddleware(memory.NewCache())(countingRegistry(new(int), &mu))

	_, err := resolver.Lookup("missing")
	assert.ErrorIs(t, err, props.ErrPartialNotFound)
}

func TestCaching_KeyFuncCanSkip(t *testing.T) {
	var calls int
	var mu sync.Mutex
	cache := memory.NewCache()
	resolver := middleware.NewCachingMiddleware(cache,
		middleware.WithKeyFunc(func(string, any) (string, bool) { return "", false }),
	)(countingRegistry(&calls, &mu))

	for i := 0; i < 3; i++ {
		_, err := renderWith(t, resolver, "accounts/card", account{ID: 1})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, cache.Len())
}

func TestCaching_CorruptEntryIsRecomputed(t *testing.T) {
	var calls int
	var mu sync.Mutex
	cache := memory.NewCache()
	resolver := middleware.NewCachingMiddleware(cache)(countingRegistry(&calls, &mu))

	key, ok := middleware.DefaultKey("accounts/card", account{ID: 1})
	require.True(t, ok)
	require.NoError(t, cache.Set(context.Background(), key, []byte("not json")))

	got, err := renderWith(t, resolver, "accounts/card", account{ID: 1})
	require.NoError(t, err)
	assert.Contains(t, got, `"id":1`)
	assert.Equal(t, 1, calls)
}

func TestCaching_LockerSerializesFills(t *testing.T) {
	var calls int
	var mu sync.Mutex
	resolver := middleware.NewCachingMiddleware(memory.NewCache(),
		middleware.WithLocker(memory.NewLocker(), time.Second),
	)(countingRegistry(&calls, &mu))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := renderWith(t, resolver, "accounts/card", account{ID: 9})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
}

// statsRegistry registers a "dashboard/stats" partial meant for the root scope.
// Its deferred and optional keys count their evaluations.
func statsRegistry(expensive, secret *int) *memory.Registry {
	return memory.NewRegistry(map[string]props.Partial{
		"dashboard/stats": func(s props.Scope, _ any) error {
			s.Set("id", 1)
			if err := s.Optional(func(s props.Scope) error {
				return s.SetFunc("token", func(context.Context) (any, error) {
					*secret++
					return "t0k3n", nil
				})
			}); err != nil {
				return err
			}
			return s.Defer("g1", func(s props.Scope) error {
				return s.SetFunc("expensive", func(context.Context) (any, error) {
					*expensive++
					return "E", nil
				})
			})
		},
	})
}

func renderRoot(t *testing.T, r props.Resolver, mode domain.ReloadMode) (string, string) {
	t.Helper()
	ctx := context.Background()

	root, err := props.NewBuilder(r).Build(ctx, func(s props.Scope) error {
		return s.Partial("dashboard/stats", nil)
	})
	require.NoError(t, err)
	res, err := props.Evaluate(ctx, root, mode)
	require.NoError(t, err)

	out, err := json.Marshal(res.Props)
	require.NoError(t, err)
	deferred, err := json.Marshal(res.DeferredProps)
	require.NoError(t, err)
	return string(out), string(deferred)
}

func TestCaching_RootPartialKeepsAnnotations(t *testing.T) {
	var expensive, secret int
	cache := memory.NewCache()
	resolver := middleware.NewCachingMiddleware(cache)(statsRegistry(&expensive, &secret))

	for i := 0; i < 2; i++ {
		got, deferred := renderRoot(t, resolver, domain.FullReload())
		assert.Equal(t, `{"id":1}`, got)
		assert.Equal(t, `{"g1":["expensive"]}`, deferred)
	}
	assert.Equal(t, 0, expensive)
	assert.Equal(t, 0, secret)
	assert.Equal(t, 1, cache.Len())

	for i := 0; i < 2; i++ {
		got, deferred := renderRoot(t, resolver, domain.PartialReload("Dashboard", "expensive"))
		assert.Equal(t, `{"expensive":"E"}`, got)
		assert.Equal(t, `null`, deferred)
	}
	assert.Equal(t, 1, expensive, "evaluated once, then replayed")
	assert.Equal(t, 0, secret)
	assert.Equal(t, 2, cache.Len())
}

// failingLocker never grants a lock.
type failingLocker struct {
	err error
}

func (l failingLocker) Lock(context.Context, string, time.Duration) (ports.UnlockFunc, error) {
	return nil, l.err
}

func TestCaching_LockFailureFallsBackToRendering(t *testing.T) {
	var calls int
	var mu sync.Mutex
	cache := memory.NewCache()
	resolver := middleware.NewCachingMiddleware(cache,
		middleware.WithLocker(failingLocker{err: errors.New("dial tcp: connection refused")}, time.Second),
	)(countingRegistry(&calls, &mu))

	got, err := renderWith(t, resolver, "accounts/card", account{ID: 3, Name: "Linus"})
	require.NoError(t, err)
	assert.Contains(t, got, `"name":"Linus"`)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Len())
}

func TestCaching_LockAbortsOnCanceledContext(t *testing.T) {
	var mu sync.Mutex
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := middleware.NewCachingMiddleware(memory.NewCache(),
		middleware.WithLocker(failingLocker{err: context.Canceled}, time.Second),
	)(countingRegistry(new(int), &mu))

	root, err := props.NewBuilder(resolver).Build(ctx, func(s props.Scope) error {
		return s.Block("card", func(s props.Scope) error {
			return s.Partial("accounts/card", account{ID: 1})
		})
	})
	require.NoError(t, err)

	_, err = props.Evaluate(ctx, root, domain.FullReload())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultKey(t *testing.T) {
	a, ok := middleware.DefaultKey("p", map[string]any{"id": 1})
	require.True(t, ok)
	b, _ := middleware.DefaultKey("p", map[string]any{"id": 1})
	c, _ := middleware.DefaultKey("q", map[string]any{"id": 1})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	_, ok = middleware.DefaultKey("p", make(chan int))
	assert.False(t, ok)
}
