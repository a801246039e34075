package inertia

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/inertia/internal/logging"
	"github.com/aretw0/inertia/internal/runtime"
	loamAdapter "github.com/aretw0/inertia/pkg/adapters/loam"
	"github.com/aretw0/inertia/pkg/domain"
	"github.com/aretw0/inertia/pkg/partials/middleware"
	"github.com/aretw0/inertia/pkg/ports"
	"github.com/aretw0/inertia/pkg/props"
)

// Scope is the builder handle passed to page and partial builders.
type Scope = props.Scope

// BuildFunc populates a scope.
type BuildFunc = props.BuildFunc

// Engine is the high-level entry point for the library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	resolver    props.Resolver
	base        props.Resolver
	partialsDir string
	middlewares []middleware.Middleware
	runtimeOpts []runtime.EngineOption
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithResolver injects the partial resolver, bypassing the Loam partials directory.
func WithResolver(r props.Resolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithPartialsDir loads named partials from a Loam repository at dir.
func WithPartialsDir(dir string) Option {
	return func(e *Engine) {
		e.partialsDir = dir
	}
}

// WithPartialMiddleware wraps the resolver. The first middleware is the outermost one.
func WithPartialMiddleware(mws ...middleware.Middleware) Option {
	return func(e *Engine) {
		e.middlewares = append(e.middlewares, mws...)
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithVersion sets the default asset version.
func WithVersion(version string) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithVersion(version))
	}
}

// WithErrorBag always sends validation errors under the "errors" prop.
func WithErrorBag(enabled bool) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithErrorBag(enabled))
	}
}

// WithEncryptHistory sets the default encryptHistory flag.
func WithEncryptHistory(enabled bool) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithEncryptHistory(enabled))
	}
}

// WithClearHistory sets the default clearHistory flag.
func WithClearHistory(enabled bool) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithClearHistory(enabled))
	}
}

// New initializes a new Engine.
// Without a resolver or partials directory, pages can still be rendered but
// any Partial call fails with props.ErrNoResolver.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.resolver == nil && eng.partialsDir != "" {
		absPath, err := filepath.Abs(eng.partialsDir)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)

		r, err := loamAdapter.Open(absPath)
		if err != nil {
			return nil, err
		}
		eng.resolver = r
	}
	eng.base = eng.resolver
	if eng.resolver != nil && len(eng.middlewares) > 0 {
		eng.resolver = middleware.Chain(eng.resolver, eng.middlewares...)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("partials", eng.Name)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	}
	if eng.resolver != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithResolver(eng.resolver))
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	eng.runtime = runtime.NewEngine(runtimeOpts...)
	return eng, nil
}

// Render builds, filters and assembles a page envelope.
func (e *Engine) Render(ctx context.Context, meta domain.PageMeta, mode domain.ReloadMode, build BuildFunc) (*domain.Page, error) {
	return e.runtime.Render(ctx, meta, mode, build)
}

// Version returns the default asset version.
func (e *Engine) Version() string {
	return e.runtime.Version()
}

// Resolver returns the partial resolver in use, including middlewares.
func (e *Engine) Resolver() props.Resolver {
	return e.resolver
}

// Partials lists the partials the underlying resolver can serve.
// Returns error if the resolver cannot enumerate its partials.
func (e *Engine) Partials() ([]string, error) {
	if c, ok := e.base.(ports.PartialCatalog); ok {
		return c.Names()
	}
	return nil, fmt.Errorf("current resolver does not list its partials")
}
