package requests

import (
	"context"
	"net/http"
)

// FetchRequest is a single fetch call: the target URL, the resolved option
// set and the coerced body.
type FetchRequest struct {
	URL     string
	Options Options
	// Body is nil for GET requests and never nil otherwise.
	Body *string
}

// FetchResponse is what a Fetcher got back.
type FetchResponse struct {
	// StatusCode is the response status code.
	StatusCode int
	// Header is the response header map.
	Header http.Header
	// Body is the complete response body.
	Body []byte
}

// Fetcher performs one round trip. Implementations must be safe for
// concurrent use and return a non-nil response when err is nil; a Client
// turns a missing response into ErrNoResponse.
type Fetcher interface {
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResponse, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req *FetchRequest) (*FetchResponse, error)

// Fetch calls f(ctx, req).
func (f FetcherFunc) Fetch(ctx context.Context, req *FetchRequest) (*FetchResponse, error) {
	return f(ctx, req)
}
