package requests

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/luizaranda/go-browserkit/pkg/log"
	"github.com/luizaranda/go-browserkit/pkg/telemetry/tracing"
)

// Client issues fetch-style requests through a Fetcher and unwraps the
// response payload. It is immutable after New and safe for concurrent use.
type Client struct {
	fetcher     Fetcher
	defaults    fetchOptions
	errorPolicy ErrorPolicyFunc
}

// New creates a Client. opts override the built-in fetch defaults and are in
// turn overridden by the options of each request. A nil fetcher is allowed:
// every request then fails with ErrTransportUnavailable.
func New(fetcher Fetcher, opts ...ClientOption) *Client {
	options := defaultClientOptions()
	for _, option := range opts {
		option.applyClient(&options)
	}

	if options.ErrorPolicyFn == nil {
		options.ErrorPolicyFn = IgnoreStatusPolicy
	}

	return &Client{
		fetcher:     fetcher,
		defaults:    options.fetchOptions,
		errorPolicy: options.ErrorPolicyFn,
	}
}

// Get issues a GET request. It never sends a body.
func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (any, error) {
	return c.do(ctx, http.MethodGet, url, opts)
}

// Post issues a POST request with body.
func (c *Client) Post(ctx context.Context, url string, body any, opts ...RequestOption) (any, error) {
	return c.do(ctx, http.MethodPost, url, withBody(opts, body))
}

// Put issues a PUT request with body.
func (c *Client) Put(ctx context.Context, url string, body any, opts ...RequestOption) (any, error) {
	return c.do(ctx, http.MethodPut, url, withBody(opts, body))
}

// Delete issues a DELETE request with body.
func (c *Client) Delete(ctx context.Context, url string, body any, opts ...RequestOption) (any, error) {
	return c.do(ctx, http.MethodDelete, url, withBody(opts, body))
}

// withBody appends the body option without touching the caller's slice.
func withBody(opts []RequestOption, body any) []RequestOption {
	return append(opts[:len(opts):len(opts)], WithBody(body))
}

// Request issues a request with the method set through WithMethod, GET when
// none is.
func (c *Client) Request(ctx context.Context, url string, opts ...RequestOption) (any, error) {
	return c.do(ctx, "", url, opts)
}

func (c *Client) do(ctx context.Context, method, rawURL string, opts []RequestOption) (any, error) {
	if c.fetcher == nil {
		log.Warn(ctx, "fetch is not available, request skipped",
			log.String("url", rawURL),
		)
		return nil, ErrTransportUnavailable
	}

	options := requestOptions{fetchOptions: c.defaults}
	for _, opt := range opts {
		opt.applyRequest(&options)
	}

	req, err := c.newFetchRequest(method, rawURL, &options)
	if err != nil {
		return nil, err
	}

	if options.TargetID != "" {
		ctx = tracing.WithTargetID(ctx, options.TargetID)
	}
	if isTemplate(rawURL) {
		ctx = tracing.WithEndpointTemplate(ctx, urlTemplatePath(rawURL))
	}

	if _, cacheTrue := resolveCache(options.Cache); cacheTrue {
		log.Debug(ctx, "cache: true has no response cache, using the default cache mode")
	}

	log.Debug(ctx, "fetch",
		log.String("method", req.Options.Method),
		log.String("url", req.URL),
		log.String("cache", req.Options.Cache),
		log.String("mode", req.Options.Mode),
		log.String("credentials", req.Options.Credentials),
		log.String("redirect", req.Options.Redirect),
		log.String("referrer", req.Options.Referrer),
	)

	ctx, span := newSpan(ctx, req)
	defer span.End()

	start := time.Now()
	res, err := c.fetcher.Fetch(ctx, req)
	if err == nil && res == nil {
		err = ErrNoResponse
	}
	recordResponseAttributes(span, res, err)
	recordMetrics(ctx, req.Options.Method, start, res, err)

	if err != nil {
		return nil, &NetworkError{Method: req.Options.Method, URL: req.URL, Err: err}
	}

	if err := c.errorPolicy(res); err != nil {
		return nil, err
	}

	payload, err := parseBody(res.Header.Get("Content-Type"), res.Body)
	if err != nil {
		return nil, err
	}

	return unwrap(payload), nil
}

func (c *Client) newFetchRequest(method, rawURL string, options *requestOptions) (*FetchRequest, error) {
	resolved := options.resolve(method)
	if err := resolved.validate(); err != nil {
		return nil, err
	}

	target, err := expandURL(rawURL, options.Params, options.Query)
	if err != nil {
		return nil, err
	}

	req := &FetchRequest{URL: target, Options: resolved}

	if !strings.EqualFold(resolved.Method, http.MethodGet) {
		body, err := coerceBody(options.Body)
		if err != nil {
			return nil, err
		}
		req.Body = &body
	}

	return req, nil
}
