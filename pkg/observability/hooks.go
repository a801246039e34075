package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/inertia/pkg/domain"
)

// Logging returns hooks that log every render at Info and every prop
// evaluation at Debug.
func Logging(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRender: func(ctx context.Context, e *domain.RenderEvent) {
			level := slog.LevelInfo
			if e.IsError {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "render",
				"component", e.Component,
				"mode", e.Mode,
				"props", e.Props,
				"deferred", e.Deferred,
				"duration", e.Duration,
			)
		},
		OnPropEvaluated: func(ctx context.Context, e *domain.PropEvent) {
			logger.DebugContext(ctx, "prop_evaluated",
				"key", e.Key,
				"annotation", e.Annotation.String(),
				"duration", e.Duration,
				"is_error", e.IsError,
			)
		},
	}
}

// Combine fans every event out to all hook sets, in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRender: func(ctx context.Context, e *domain.RenderEvent) {
			for _, h := range hooks {
				if h.OnRender != nil {
					h.OnRender(ctx, e)
				}
			}
		},
		OnPropEvaluated: func(ctx context.Context, e *domain.PropEvent) {
			for _, h := range hooks {
				if h.OnPropEvaluated != nil {
					h.OnPropEvaluated(ctx, e)
				}
			}
		},
	}
}
