package transport

import (
	"net/http"

	"github.com/gofrs/uuid"
)

// RequestIDHeader carries a per request identifier.
const RequestIDHeader = "X-Request-Id"

// RequestIDDecorator returns a decorator that tags each request with a random
// UUIDv4 in RequestIDHeader, unless the caller already set one.
func RequestIDDecorator() RoundTripDecorator {
	return func(base http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) != "" {
				return base.RoundTrip(req)
			}

			id, err := uuid.NewV4()
			if err != nil {
				// The id is best effort, never fail the request for it.
				return base.RoundTrip(req)
			}

			req = req.Clone(req.Context())
			req.Header.Set(RequestIDHeader, id.String())
			return base.RoundTrip(req)
		})
	}
}
