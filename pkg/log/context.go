package log

import (
	"context"
)

type logCtxKey struct{}

// Context returns a copy of ctx carrying l. The package level functions log
// through the logger found in the context.
func Context(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, logCtxKey{}, l)
}

// FromContext returns the logger carried by ctx, or DefaultLogger.
func FromContext(ctx context.Context) Logger {
	return getLogger(ctx)
}

// Named adds a segment to the name of the context logger.
func Named(ctx context.Context, s string) context.Context {
	return Context(ctx, getLogger(ctx).Named(s))
}

// With adds fields to the context logger.
func With(ctx context.Context, fields ...Field) context.Context {
	return Context(ctx, getLogger(ctx).With(fields...))
}

// Debug logs at DebugLevel with the context logger.
func Debug(ctx context.Context, msg string, fields ...Field) {
	getLogger(ctx).Debug(msg, fields...)
}

// Info logs at InfoLevel with the context logger.
func Info(ctx context.Context, msg string, fields ...Field) {
	getLogger(ctx).Info(msg, fields...)
}

// Warn logs at WarnLevel with the context logger.
func Warn(ctx context.Context, msg string, fields ...Field) {
	getLogger(ctx).Warn(msg, fields...)
}

// Error logs at ErrorLevel with the context logger.
func Error(ctx context.Context, msg string, fields ...Field) {
	getLogger(ctx).Error(msg, fields...)
}

func getLogger(ctx context.Context) Logger {
	if ctx == nil {
		return DefaultLogger
	}
	if l, ok := ctx.Value(logCtxKey{}).(Logger); ok {
		return l
	}
	return DefaultLogger
}
