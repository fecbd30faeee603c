package requests

import (
	"context"
	"sync"
)

var (
	_defaultClient     *Client
	_defaultClientOnce sync.Once
)

// DefaultClient returns the Client behind the package level functions: an
// HTTPFetcher over httpclient.New() with the built-in fetch defaults.
func DefaultClient() *Client {
	_defaultClientOnce.Do(func() {
		// Without options NewHTTPFetcher cannot fail.
		fetcher, _ := NewHTTPFetcher()
		_defaultClient = New(fetcher)
	})
	return _defaultClient
}

// Get issues a GET request with DefaultClient.
func Get(ctx context.Context, url string, opts ...RequestOption) (any, error) {
	return DefaultClient().Get(ctx, url, opts...)
}

// Post issues a POST request with DefaultClient.
func Post(ctx context.Context, url string, body any, opts ...RequestOption) (any, error) {
	return DefaultClient().Post(ctx, url, body, opts...)
}

// Put issues a PUT request with DefaultClient.
func Put(ctx context.Context, url string, body any, opts ...RequestOption) (any, error) {
	return DefaultClient().Put(ctx, url, body, opts...)
}

// Delete issues a DELETE request with DefaultClient.
func Delete(ctx context.Context, url string, body any, opts ...RequestOption) (any, error) {
	return DefaultClient().Delete(ctx, url, body, opts...)
}

// Request issues a request with DefaultClient.
func Request(ctx context.Context, url string, opts ...RequestOption) (any, error) {
	return DefaultClient().Request(ctx, url, opts...)
}
