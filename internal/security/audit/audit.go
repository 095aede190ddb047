package audit

import (
	"context"
	"log/slog"
)

type requestIDKey struct{}

// WithRequestID stores the request id used to correlate audit lines
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or ""
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// Logger writes the audit trail as structured log lines
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger.With(slog.String("component", "audit"))}
}

// LogAction records one action on a resource
func (al *Logger) LogAction(ctx context.Context, userID, action, resource, resourceID, status string) {
	if al == nil {
		return
	}
	al.logger.InfoContext(ctx, "audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("user_id", userID),
		slog.String("status", status),
		slog.String("request_id", RequestID(ctx)),
	)
}

func (al *Logger) LogCreate(ctx context.Context, userID, resource, resourceID string) {
	al.LogAction(ctx, userID, "create", resource, resourceID, "ok")
}

func (al *Logger) LogUpdate(ctx context.Context, userID, resource, resourceID string) {
	al.LogAction(ctx, userID, "update", resource, resourceID, "ok")
}

// LogDenied records an access attempt on a record owned by someone else
func (al *Logger) LogDenied(ctx context.Context, userID, resource, resourceID string) {
	al.LogAction(ctx, userID, "access_denied", resource, resourceID, "denied")
}
