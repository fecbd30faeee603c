// Package tracing carries request classification values on a context so that
// transports and telemetry can tag outgoing requests consistently.
package tracing

import (
	"context"
)

type targetIDCtxKey struct{}

// WithTargetID returns a copy of ctx carrying targetID. Target ids should have
// low cardinality, e.g. "/api/users/{id}".
func WithTargetID(ctx context.Context, targetID string) context.Context {
	return context.WithValue(ctx, targetIDCtxKey{}, targetID)
}

// TargetID returns the target id carried by ctx, or "".
func TargetID(ctx context.Context) string {
	value, _ := ctx.Value(targetIDCtxKey{}).(string)
	return value
}

type endpointTemplateKey struct{}

// WithEndpointTemplate returns a copy of ctx carrying the URL template the
// request was built from.
func WithEndpointTemplate(ctx context.Context, endpointTemplate string) context.Context {
	return context.WithValue(ctx, endpointTemplateKey{}, endpointTemplate)
}

// EndpointTemplate returns the template carried by ctx, or "".
func EndpointTemplate(ctx context.Context) string {
	value, _ := ctx.Value(endpointTemplateKey{}).(string)
	return value
}
