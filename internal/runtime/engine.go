package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/inertia/internal/logging"
	"github.com/aretw0/inertia/pkg/domain"
	"github.com/aretw0/inertia/pkg/props"
)

// Engine runs the build, filter and assemble passes of a page render.
// It holds no per-request state and may be shared between goroutines.
type Engine struct {
	resolver       props.Resolver
	hooks          domain.LifecycleHooks
	logger         *slog.Logger
	errorBag       bool
	version        string
	encryptHistory bool
	clearHistory   bool
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithResolver sets the resolver used for named partials.
func WithResolver(r props.Resolver) EngineOption {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithErrorBag inserts an always-sent "errors" prop ahead of the page props.
func WithErrorBag(enabled bool) EngineOption {
	return func(e *Engine) {
		e.errorBag = enabled
	}
}

// WithVersion sets the asset version used when a page does not carry its own.
func WithVersion(version string) EngineOption {
	return func(e *Engine) {
		e.version = version
	}
}

// WithEncryptHistory turns history encryption on for every page.
func WithEncryptHistory(enabled bool) EngineOption {
	return func(e *Engine) {
		e.encryptHistory = enabled
	}
}

// WithClearHistory turns history clearing on for every page.
func WithClearHistory(enabled bool) EngineOption {
	return func(e *Engine) {
		e.clearHistory = enabled
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Version returns the configured asset version.
func (e *Engine) Version() string {
	return e.version
}

// Render builds the props of one page, filters them for mode and assembles
// the envelope. No envelope is returned if any step fails.
func (e *Engine) Render(ctx context.Context, meta domain.PageMeta, mode domain.ReloadMode, build props.BuildFunc) (*domain.Page, error) {
	start := time.Now()
	meta = e.withDefaults(meta)
	mode = mode.For(meta.Component)

	root, err := props.NewBuilder(e.resolver).Build(ctx, e.prelude(meta, build))
	if err != nil {
		e.finish(ctx, start, meta, mode, nil, err)
		return nil, fmt.Errorf("build props for %q: %w", meta.Component, err)
	}

	res, err := props.Evaluate(ctx, root, mode, props.WithHooks(e.hooks))
	if err != nil {
		e.finish(ctx, start, meta, mode, nil, err)
		return nil, fmt.Errorf("render %q: %w", meta.Component, err)
	}

	page := Assemble(meta, res)
	e.finish(ctx, start, meta, mode, res, nil)
	return page, nil
}

func (e *Engine) withDefaults(meta domain.PageMeta) domain.PageMeta {
	if meta.Version == "" {
		meta.Version = e.version
	}
	meta.EncryptHistory = meta.EncryptHistory || e.encryptHistory
	meta.ClearHistory = meta.ClearHistory || e.clearHistory
	return meta
}

// prelude wraps build so the error bag, when enabled, is the first root key.
func (e *Engine) prelude(meta domain.PageMeta, build props.BuildFunc) props.BuildFunc {
	return func(s props.Scope) error {
		if e.errorBag {
			bag := meta.Errors
			if bag == nil {
				bag = map[string]any{}
			}
			if err := s.Always(func(s props.Scope) error {
				s.Set(domain.KeyErrors, bag)
				return nil
			}); err != nil {
				return err
			}
		}
		if build == nil {
			return nil
		}
		return build(s)
	}
}

func (e *Engine) finish(ctx context.Context, start time.Time, meta domain.PageMeta, mode domain.ReloadMode, res *props.Result, err error) {
	duration := time.Since(start)

	event := &domain.RenderEvent{
		EventBase: domain.EventBase{
			Timestamp: start,
			Type:      domain.EventRender,
		},
		Component: meta.Component,
		Mode:      mode.String(),
		Duration:  duration,
		IsError:   err != nil,
	}
	if res != nil {
		event.Props = res.Props.Len()
		event.Deferred = res.DeferredCount()
	}

	if err != nil {
		e.logger.Error("Page render failed", "component", meta.Component, "mode", event.Mode, "error", err)
	} else {
		e.logger.Debug("Page rendered",
			"component", meta.Component,
			"mode", event.Mode,
			"props", event.Props,
			"deferred", event.Deferred,
			"duration", duration,
		)
	}

	if e.hooks.OnRender != nil {
		e.hooks.OnRender(ctx, event)
	}
}
