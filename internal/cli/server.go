package cli

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/inertia"
	inertiahttp "github.com/aretw0/inertia/pkg/adapters/http"
	"github.com/aretw0/inertia/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/inertia/pkg/adapters/redis"
	"github.com/aretw0/inertia/pkg/config"
	"github.com/aretw0/inertia/pkg/domain"
	"github.com/aretw0/inertia/pkg/observability"
	"github.com/aretw0/inertia/pkg/partials/middleware"
	persistence "github.com/aretw0/inertia/pkg/persistence/middleware"
	"github.com/aretw0/inertia/pkg/ports"
)

// lockTTL bounds how long one replica may hold a partial cache fill.
const lockTTL = 10 * time.Second

// Server bundles the engine and HTTP handler built from a configuration.
type Server struct {
	Engine  *inertia.Engine
	Handler http.Handler
	Metrics *observability.Metrics

	closers []func() error
}

// NewServer wires the engine, the partial cache, metrics and the page routes
// described by cfg.
func NewServer(ctx context.Context, cfg config.Config, pages []*PageFile, logger *slog.Logger) (*Server, error) {
	srv := &Server{}

	hooks := []domain.LifecycleHooks{observability.Logging(logger)}
	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		srv.Metrics = observability.NewMetrics(registry)
		hooks = append(hooks, srv.Metrics.Hooks())
	}

	mws, err := srv.partialMiddlewares(ctx, cfg, logger)
	if err != nil {
		srv.Close()
		return nil, err
	}

	opts := append(cfg.EngineOptions(),
		inertia.WithLogger(logger),
		inertia.WithLifecycleHooks(observability.Combine(hooks...)),
		inertia.WithPartialMiddleware(mws...),
	)
	srv.Engine, err = inertia.New(opts...)
	if err != nil {
		srv.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}

	respOpts := []inertiahttp.ResponderOption{
		inertiahttp.WithRootID(cfg.RootID),
		inertiahttp.WithLogger(logger),
	}
	if cfg.Layout != "" {
		layout, err := template.ParseFiles(cfg.Layout)
		if err != nil {
			srv.Close()
			return nil, fmt.Errorf("failed to parse layout: %w", err)
		}
		respOpts = append(respOpts, inertiahttp.WithLayout(layout))
	}

	routes, err := Routes(pages)
	if err != nil {
		srv.Close()
		return nil, err
	}
	router := inertiahttp.NewRouter(inertiahttp.NewResponder(srv.Engine, respOpts...), routes)
	if registry != nil {
		router.Method(http.MethodGet, cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	srv.Handler = router

	return srv, nil
}

// partialMiddlewares builds the cache and redaction decorators. Redaction runs
// inside the cache so masked values are what gets stored.
func (srv *Server) partialMiddlewares(ctx context.Context, cfg config.Config, logger *slog.Logger) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware

	cache, locker, err := srv.openCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if cfg.Cache.EncryptionKey != "" {
			enc, err := persistence.NewEncryptionMiddleware(encryptionConfig(cfg.Cache))
			if err != nil {
				return nil, err
			}
			cache = enc(cache)
		}

		cacheOpts := []middleware.CachingOption{
			middleware.WithLogger(logger),
			middleware.WithLocker(locker, lockTTL),
		}
		if srv.Metrics != nil {
			cacheOpts = append(cacheOpts, middleware.WithObserver(srv.Metrics.ObserveCache))
		}
		mws = append(mws, middleware.NewCachingMiddleware(cache, cacheOpts...))
	}

	if len(cfg.Redact) > 0 {
		redact, err := middleware.NewRedactionMiddleware(cfg.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, redact)
	}
	return mws, nil
}

func (srv *Server) openCache(ctx context.Context, cfg config.Config) (ports.PayloadCache, ports.DistributedLocker, error) {
	switch cfg.Cache.Driver {
	case "memory":
		return memory.NewCache(memory.WithTTL(cfg.Cache.TTL)), memory.NewLocker(), nil
	case "redis":
		cache := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithTTL(cfg.Cache.TTL),
			redisAdapter.WithPrefix(cfg.Redis.Prefix),
		)
		srv.closers = append(srv.closers, cache.Close)
		if err := cache.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		return cache, redisAdapter.NewLocker(cache.Client(), cfg.Redis.Prefix+"lock:"), nil
	default:
		return nil, nil, nil
	}
}

func encryptionConfig(c config.CacheConfig) persistence.EncryptionConfig {
	ec := persistence.EncryptionConfig{ActiveKey: []byte(c.EncryptionKey)}
	for _, k := range c.FallbackKeys {
		ec.FallbackKeys = append(ec.FallbackKeys, []byte(k))
	}
	return ec
}

// Close releases the cache connections.
func (srv *Server) Close() error {
	var errs []error
	for _, c := range srv.closers {
		errs = append(errs, c())
	}
	srv.closers = nil
	return errors.Join(errs...)
}
