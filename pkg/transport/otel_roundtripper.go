package transport

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// OpenTelemetryDecorator returns a decorator creating an HTTP client span per
// round trip and injecting the propagation headers. Spans are named
// "fetch <METHOD>".
func OpenTelemetryDecorator() RoundTripDecorator {
	return func(base http.RoundTripper) http.RoundTripper {
		return otelhttp.NewTransport(base,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return "fetch " + r.Method
			}),
		)
	}
}
