package telemetry

import (
	"context"
	"time"
)

// Gauge records the value of a metric at a point in time.
func Gauge(ctx context.Context, name string, value float64, tags []string) {
	FromContext(ctx).Gauge(name, value, tags)
}

// Count adds value to a counter.
func Count(ctx context.Context, name string, value int64, tags []string) {
	FromContext(ctx).Count(name, value, tags)
}

// Incr is Count of 1.
func Incr(ctx context.Context, name string, tags []string) {
	FromContext(ctx).Incr(name, tags)
}

// Histogram records value into a distribution computed per host.
func Histogram(ctx context.Context, name string, value float64, tags []string) {
	FromContext(ctx).Histogram(name, value, tags)
}

// Timing records a duration.
func Timing(ctx context.Context, name string, value time.Duration, tags []string) {
	FromContext(ctx).Timing(name, value, tags)
}
