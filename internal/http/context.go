package http

import (
	"context"
	"log/slog"

	"github.com/example/oncall-roster/internal/logging"
)

type contextKey string

const (
	rotationIDContextKey contextKey = "rotation_id"
	overrideIDContextKey contextKey = "override_id"
)

// ContextWithRotationID injects the rotation identifier resolved from the request path.
func ContextWithRotationID(ctx context.Context, rotationID string) context.Context {
	return context.WithValue(ctx, rotationIDContextKey, rotationID)
}

// RotationIDFromContext extracts a rotation identifier previously associated with the context.
func RotationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(rotationIDContextKey).(string)
	return id, ok
}

// ContextWithOverrideID injects the override identifier resolved from the request path.
func ContextWithOverrideID(ctx context.Context, overrideID string) context.Context {
	return context.WithValue(ctx, overrideIDContextKey, overrideID)
}

// OverrideIDFromContext extracts an override identifier previously associated with the context.
func OverrideIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(overrideIDContextKey).(string)
	return id, ok
}

// ContextWithLogger returns a derived context carrying a request-scoped logger.
// The same carrier is read by the application layer, so request attributes
// follow the call all the way into service logs.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request-scoped logger if one is present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
