package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/gforms/pkg/domain"
)

// LogHooks returns hooks that log every lifecycle event to logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPageEnter: func(ctx context.Context, e *domain.PageEvent) {
			logger.DebugContext(ctx, "page_enter", "page", e.PageIndex)
		},
		OnElementFilled: func(ctx context.Context, e *domain.ElementEvent) {
			logger.DebugContext(ctx, "element_filled",
				"page", e.PageIndex,
				"element_id", e.ElementID,
				"kind", e.Kind,
				"synthesized", e.Synthesized,
			)
		},
		OnSubmitStep: func(ctx context.Context, e *domain.SubmitEvent) {
			logger.DebugContext(ctx, "submit_step",
				"page", e.PageIndex,
				"history", e.History,
				"status", e.Status,
				"duration", e.Duration,
			)
		},
		OnSubmitted: func(ctx context.Context, e *domain.SubmitEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "submission failed", "history", e.History, "err", e.Err)
				return
			}
			logger.InfoContext(ctx, "submitted", "history", e.History, "duration", e.Duration)
		},
	}
}
