// Package logger builds structured log/slog loggers and carries trace IDs
// through context.Context so every log line of one request can be joined.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

type ctxKey string

const traceIDKey ctxKey = "trace_id"

// New returns a JSON logger writing to w with the service name embedded.
// It does not touch the slog default.
func New(w io.Writer, service string, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler).With(
		slog.String("service", service),
	)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return New(io.Discard, "", slog.LevelError+1)
}

// WithTraceID returns a copy of ctx carrying traceID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceID returns the context's trace ID, or "".
func TraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// GenerateTraceID builds "{prefix}-{unixNano}".
func GenerateTraceID(prefix string, ts time.Time) string {
	return fmt.Sprintf("%s-%d", prefix, ts.UnixNano())
}

// LogWithTrace prepends the context's trace ID, if any, to the given slog
// key/value arguments.
//
//	log.Debug("msg", logger.LogWithTrace(ctx, slog.Int("rows", n))...)
func LogWithTrace(ctx context.Context, args ...any) []any {
	tid := TraceID(ctx)
	if tid == "" {
		return args
	}
	return append([]any{slog.String("trace_id", tid)}, args...)
}
