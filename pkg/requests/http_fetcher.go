package requests

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/luizaranda/go-browserkit/pkg/transport"
	"github.com/luizaranda/go-browserkit/pkg/transport/httpclient"
)

var (
	// ErrCrossOriginBlocked is returned for a cross-origin URL in same-origin mode.
	ErrCrossOriginBlocked = errors.New("requests: cross-origin request blocked by same-origin mode")

	// ErrMethodNotAllowed is returned for a method other than GET, HEAD or
	// POST in no-cors mode.
	ErrMethodNotAllowed = errors.New("requests: method not allowed in no-cors mode")

	// ErrNotHTTP is returned for URLs that are not absolute http(s) URLs.
	ErrNotHTTP = errors.New("requests: only absolute http and https URLs can be fetched")
)

// Requester is responsible for making HTTP requests. It is usually a client
// built by httpclient.New, a plain http.Client or a test double.
type Requester interface {
	// Do makes an HTTP request and returns an HTTP response.
	Do(*http.Request) (*http.Response, error)
}

// HTTPFetcher fetches over HTTP on behalf of a page served from an origin.
// It gives the fetch options the meaning a browser would:
//
//   - mode: same-origin rejects cross-origin URLs, no-cors only allows GET,
//     HEAD and POST, cors sends Origin on cross-origin requests.
//   - credentials: omit strips Authorization and Cookie, same-origin strips
//     them on cross-origin requests, include keeps them.
//   - referrer: no-referrer or empty sends none, client sends the origin,
//     a URL is sent as is.
//   - redirect and cache are handed to the httpclient through the request
//     context.
//
// Without an origin every URL is same-origin.
type HTTPFetcher struct {
	requester Requester
	origin    *url.URL
}

// HTTPFetcherOption configures an HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher) error

// WithRequester sets the Requester used to send requests. Default is
// httpclient.New().
func WithRequester(r Requester) HTTPFetcherOption {
	return func(f *HTTPFetcher) error {
		f.requester = r
		return nil
	}
}

// WithOrigin sets the origin of the page the requests are made from, e.g.
// "https://app.example.com".
func WithOrigin(origin string) HTTPFetcherOption {
	return func(f *HTTPFetcher) error {
		if origin == "" {
			f.origin = nil
			return nil
		}

		u, err := url.Parse(origin)
		if err != nil {
			return fmt.Errorf("requests: origin: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("requests: origin %q is not absolute", origin)
		}
		f.origin = &url.URL{Scheme: u.Scheme, Host: u.Host}
		return nil
	}
}

// NewHTTPFetcher creates an HTTPFetcher.
func NewHTTPFetcher(opts ...HTTPFetcherOption) (*HTTPFetcher, error) {
	f := &HTTPFetcher{}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	if f.requester == nil {
		f.requester = httpclient.New()
	}
	return f, nil
}

// Fetch performs req over HTTP.
func (f *HTTPFetcher) Fetch(ctx context.Context, req *FetchRequest) (*FetchResponse, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrNotHTTP, req.URL)
	}

	opts := req.Options
	crossOrigin := f.origin != nil && !sameOrigin(f.origin, u)

	switch opts.Mode {
	case "same-origin":
		if crossOrigin {
			return nil, ErrCrossOriginBlocked
		}
	case "no-cors":
		switch opts.Method {
		case http.MethodGet, http.MethodHead, http.MethodPost:
		default:
			return nil, fmt.Errorf("%w: %s", ErrMethodNotAllowed, opts.Method)
		}
	}

	ctx = transport.WithCacheMode(ctx, transport.CacheMode(opts.Cache))
	ctx = httpclient.WithRedirectMode(ctx, httpclient.RedirectMode(opts.Redirect))

	var body any
	if req.Body != nil {
		body = *req.Body
	}

	httpReq, err := httpclient.NewRequest(ctx, opts.Method, u.String(), body)
	if err != nil {
		return nil, err
	}

	for k, v := range opts.Headers {
		httpReq.Header.Set(k, v)
	}

	if req.Body != nil && *req.Body != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "text/plain;charset=UTF-8")
	}

	if opts.Credentials == "omit" || (opts.Credentials == "same-origin" && crossOrigin) {
		httpReq.Header.Del("Authorization")
		httpReq.Header.Del("Cookie")
	}

	if opts.Mode == "cors" && crossOrigin {
		httpReq.Header.Set("Origin", f.origin.String())
	}

	if referer := f.referer(opts.Referrer); referer != "" {
		httpReq.Header.Set("Referer", referer)
	} else {
		httpReq.Header.Del("Referer")
	}

	res, err := f.requester.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	return &FetchResponse{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       b,
	}, nil
}

func (f *HTTPFetcher) referer(referrer string) string {
	switch referrer {
	case "", "no-referrer":
		return ""
	case "client", "about:client":
		if f.origin == nil {
			return ""
		}
		return f.origin.String() + "/"
	}

	u, err := url.Parse(referrer)
	if err != nil {
		return ""
	}
	if !u.IsAbs() {
		if f.origin == nil {
			return ""
		}
		u = f.origin.ResolveReference(u)
	}
	return u.String()
}

func sameOrigin(a, b *url.URL) bool {
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(hostPort(a), hostPort(b))
}

// hostPort returns the host with its port, defaulting the port from the scheme.
func hostPort(u *url.URL) string {
	if u.Port() != "" {
		return u.Host
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		return u.Hostname() + ":443"
	default:
		return u.Hostname() + ":80"
	}
}
