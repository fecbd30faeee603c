package telemetry

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

type telemetryClientCtxKey struct{}

// contextWithTransaction stores both the New Relic transaction, under the
// agent's own key, and the Client that started it.
func contextWithTransaction(ctx context.Context, tx *newrelic.Transaction, c Client) context.Context {
	return Context(newrelic.NewContext(ctx, tx), c)
}

// Context returns a copy of ctx carrying c. The package level functions
// record through the client found in the context.
func Context(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, telemetryClientCtxKey{}, c)
}

// FromContext returns the Client carried by ctx, or DefaultTracer.
func FromContext(ctx context.Context) Client {
	c, _ := ctx.Value(telemetryClientCtxKey{}).(Client)
	if c == nil {
		return DefaultTracer
	}
	return c
}
