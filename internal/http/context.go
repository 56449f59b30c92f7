package http

import (
	"context"
	"log/slog"

	"github.com/example/activity-portal/internal/logging"
)

type contextKey string

const activityIDContextKey contextKey = "activity_id"

// ContextWithActivityID injects the activity identifier resolved from the
// request path.
func ContextWithActivityID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, activityIDContextKey, id)
}

// ActivityIDFromContext extracts an activity identifier previously
// associated with the context.
func ActivityIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(activityIDContextKey).(string)
	return id, ok
}

// ContextWithLogger attaches a request-scoped logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request-scoped logger, or nil.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
