package httpclient

import (
	"net/http"
	"time"

	"github.com/luizaranda/go-browserkit/pkg/transport"
)

var (
	_defaultTransport = transport.NewPooled("browserkit-default")
)

// DefaultTransport returns the default transport used by New if none is given.
//
// It may be used freely outside this package.
func DefaultTransport() *transport.PooledTransport {
	return _defaultTransport
}

// Requester exposes the http.Client.Do method, which is the minimum
// required method for executing HTTP requests.
type Requester interface {
	Do(*http.Request) (*http.Response, error)
}

type clientOptions struct {
	Timeout       time.Duration
	CheckRedirect CheckRedirectFunc
	Transport     *transport.PooledTransport
	UserAgent     string
	ReqHooks      []transport.RequestHook
	ResHooks      []transport.ResponseHook
	Cache         transport.Cache
}

// Option configures a client built by New.
type Option interface {
	applyClient(opts *clientOptions)
}

type optFunc func(opts *clientOptions)

func (f optFunc) applyClient(o *clientOptions) { f(o) }

// WithTransport controls the base HTTP transport to use for executing the HTTP
// requests.
//
// We force the usage of a PooledTransport so that application can track
// connection pools. You can easily transform an *http.Transport into a
// *transport.PooledTransport by using transport.NewPooledFromTransport.
func WithTransport(t *transport.PooledTransport) Option {
	return optFunc(func(options *clientOptions) {
		options.Transport = t
	})
}

// DisableTimeout disables the timeout for outgoing requests.
func DisableTimeout() Option { return WithTimeout(0) }

// WithTimeout controls the timeout for each request, redirects included.
// A timeout of 0 disables request timeouts, negative values are ignored.
func WithTimeout(t time.Duration) Option {
	return optFunc(func(options *clientOptions) {
		if t >= 0 {
			options.Timeout = t
		}
	})
}

// WithCheckRedirect replaces the context driven redirect policy.
func WithCheckRedirect(fn CheckRedirectFunc) Option {
	return optFunc(func(options *clientOptions) {
		options.CheckRedirect = fn
	})
}

// WithUserAgent sets the User-Agent sent when the request has none.
func WithUserAgent(ua string) Option {
	return optFunc(func(options *clientOptions) {
		options.UserAgent = ua
	})
}

// WithRequestHook allows the user to add additional request hooks to be
// executed during an HTTP request.
func WithRequestHook(hooks ...transport.RequestHook) Option {
	return optFunc(func(options *clientOptions) {
		options.ReqHooks = append(options.ReqHooks, hooks...)
	})
}

// WithResponseHook allows the user to add additional response hooks to be
// executed during an HTTP response.
func WithResponseHook(hooks ...transport.ResponseHook) Option {
	return optFunc(func(options *clientOptions) {
		options.ResHooks = append(options.ResHooks, hooks...)
	})
}

// EnableCache stores responses in DefaultCache so that the fetch cache modes
// are served from memory.
//
// If EnableCache is called after WithCache then it doesn't overwrite the
// storage.
func EnableCache() Option {
	return optFunc(func(options *clientOptions) {
		if options.Cache == nil {
			options.Cache = DefaultCache()
		}
	})
}

// WithCache sets the storage used for caching HTTP responses. A nil cache
// keeps the cache modes as request headers only.
func WithCache(cache transport.Cache) Option {
	return optFunc(func(options *clientOptions) {
		options.Cache = cache
	})
}

var (
	// DefaultTimeout is the timeout used by default when building a Client.
	DefaultTimeout = 10 * time.Second

	// DefaultCheckRedirect follows the redirect mode set with WithRedirectMode.
	DefaultCheckRedirect = CheckRedirectFunc(CheckRedirect)
)

// New builds a *http.Client which keeps TCP connections to destination servers
// and records telemetry on all executed requests.
//
// Returned client can be customized by passing options to New.
func New(opts ...Option) *http.Client {
	config := clientOptions{
		Timeout:       DefaultTimeout,
		CheckRedirect: DefaultCheckRedirect,
		Transport:     DefaultTransport(),
	}

	for _, opt := range opts {
		opt.applyClient(&config)
	}

	return &http.Client{
		Timeout:       config.Timeout,
		CheckRedirect: config.CheckRedirect,
		Transport:     roundTripper(&config),
	}
}

func roundTripper(config *clientOptions) http.RoundTripper {
	chain := transport.RoundTripChain{
		transport.UserAgentDecorator(config.UserAgent),
		transport.RequestIDDecorator(),
		// The cache decorator runs even without a store: it turns the cache
		// mode into request headers.
		transport.CacheDecorator(config.Cache),
	}

	if len(config.ReqHooks) > 0 || len(config.ResHooks) > 0 {
		chain = append(chain, transport.HookDecorator(config.ReqHooks, config.ResHooks))
	}

	chain = append(chain, transport.TraceDecorator())

	// OpenTelemetryDecorator must be last to avoid conflict with the TraceDecorator
	chain = append(chain, transport.OpenTelemetryDecorator())

	return chain.Apply(config.Transport)
}
