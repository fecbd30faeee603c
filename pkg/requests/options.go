package requests

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidOptions is returned when a resolved option set names an unknown
// mode, credentials or redirect value.
var ErrInvalidOptions = errors.New("requests: invalid options")

// Fetch option defaults, applied before any caller override.
const (
	DefaultMode        = "cors"
	DefaultCache       = "default"
	DefaultCredentials = "same-origin"
	DefaultRedirect    = "follow"
	DefaultReferrer    = "no-referrer"
)

// Options is a resolved fetch option set, as handed to the Fetcher.
type Options struct {
	Method      string            `json:"method"`
	Cache       string            `json:"cache"`
	Mode        string            `json:"mode" validate:"oneof=cors no-cors same-origin navigate"`
	Credentials string            `json:"credentials" validate:"oneof=omit same-origin include"`
	Redirect    string            `json:"redirect" validate:"oneof=follow manual error"`
	Referrer    string            `json:"referrer"`
	Headers     map[string]string `json:"headers"`

	// Extra holds caller keys this package does not recognize. They reach
	// the Fetcher untouched.
	Extra map[string]any `json:"-"`
}

var _validate = validator.New()

func (o Options) validate() error {
	if err := _validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s %q", ErrInvalidOptions, strings.ToLower(verrs[0].Field()), verrs[0].Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// fetchOptions is the unresolved option set: cache keeps whatever the caller
// gave until resolve maps it.
type fetchOptions struct {
	Method      string
	Cache       any
	Mode        string
	Credentials string
	Redirect    string
	Referrer    string
	Headers     map[string]string
	Body        any
	Extra       map[string]any
	TargetID    string
}

type requestOptions struct {
	fetchOptions
	Params map[string]string
	Query  url.Values
}

type clientOptions struct {
	fetchOptions
	ErrorPolicyFn ErrorPolicyFunc
}

// Option interface is implemented by option functions that are available both
// at client creation and request invocations. Request options override client
// options key by key.
type Option interface {
	ClientOption
	RequestOption
	apply(opt *fetchOptions)
}

// ClientOption interface is implemented by option functions that are only
// available when creating a client.
type ClientOption interface {
	applyClient(opt *clientOptions)
}

// RequestOption interface is implemented by option functions that are only
// available for request invocations.
type RequestOption interface {
	applyRequest(opt *requestOptions)
}

type allOptionFunc func(opt *fetchOptions)

func (f allOptionFunc) apply(o *fetchOptions)          { f(o) }
func (f allOptionFunc) applyRequest(o *requestOptions) { f(&o.fetchOptions) }
func (f allOptionFunc) applyClient(o *clientOptions)   { f(&o.fetchOptions) }

type clientOptionFunc func(opt *clientOptions)

func (f clientOptionFunc) applyClient(o *clientOptions) { f(o) }

type requestOptionFunc func(opt *requestOptions)

func (f requestOptionFunc) applyRequest(o *requestOptions) { f(o) }

// WithMethod sets the request method. The verb entry points (Get, Post, Put,
// Delete) ignore it.
func WithMethod(method string) RequestOption {
	return requestOptionFunc(func(options *requestOptions) {
		options.Method = method
	})
}

// WithCache sets the fetch cache mode. false means "no-cache", a string is
// used verbatim and any other value means "default".
func WithCache(cache any) Option {
	return allOptionFunc(func(options *fetchOptions) {
		options.Cache = cache
	})
}

// WithMode sets the fetch mode: cors, no-cors, same-origin or navigate.
func WithMode(mode string) Option {
	return allOptionFunc(func(options *fetchOptions) {
		options.Mode = mode
	})
}

// WithCredentials sets the fetch credentials mode: omit, same-origin or include.
func WithCredentials(credentials string) Option {
	return allOptionFunc(func(options *fetchOptions) {
		options.Credentials = credentials
	})
}

// WithRedirect sets the fetch redirect mode: follow, manual or error.
func WithRedirect(redirect string) Option {
	return allOptionFunc(func(options *fetchOptions) {
		options.Redirect = redirect
	})
}

// WithReferrer sets the fetch referrer.
func WithReferrer(referrer string) Option {
	return allOptionFunc(func(options *fetchOptions) {
		options.Referrer = referrer
	})
}

// WithHeaders replaces the whole header map.
func WithHeaders(headers map[string]string) Option {
	return allOptionFunc(func(options *fetchOptions) {
		options.Headers = maps.Clone(headers)
	})
}

// WithHeader sets a single header on top of the current header map.
// The value type can be string, bool, time.Time, the integer types or
// Stringer, any other type will panic.
func WithHeader(name string, value any) Option {
	return allOptionFunc(func(options *fetchOptions) {
		headers := maps.Clone(options.Headers)
		if headers == nil {
			headers = make(map[string]string)
		}
		headers[name] = toString(value)
		options.Headers = headers
	})
}

// WithBody sets the request body. Strings and byte slices are sent verbatim,
// anything else is serialized to JSON. GET requests never send a body.
func WithBody(body any) RequestOption {
	return requestOptionFunc(func(options *requestOptions) {
		options.Body = body
	})
}

// WithExtra passes an option this package does not interpret through to the
// Fetcher.
func WithExtra(key string, value any) Option {
	return allOptionFunc(func(options *fetchOptions) {
		extra := maps.Clone(options.Extra)
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[key] = value
		options.Extra = extra
	})
}

// WithInit applies a fetch RequestInit style dictionary. Recognized keys are
// method, cache, mode, credentials, redirect, referrer, headers and body;
// every other key is kept in Options.Extra.
func WithInit(init map[string]any) RequestOption {
	return requestOptionFunc(func(options *requestOptions) {
		for key, value := range init {
			switch key {
			case "method":
				options.Method = fmt.Sprint(value)
			case "cache":
				options.Cache = value
			case "mode":
				options.Mode = fmt.Sprint(value)
			case "credentials":
				options.Credentials = fmt.Sprint(value)
			case "redirect":
				options.Redirect = fmt.Sprint(value)
			case "referrer":
				options.Referrer = fmt.Sprint(value)
			case "headers":
				options.Headers = headersFrom(value)
			case "body":
				options.Body = value
			default:
				WithExtra(key, value).apply(&options.fetchOptions)
			}
		}
	})
}

func headersFrom(value any) map[string]string {
	headers := make(map[string]string)
	switch t := value.(type) {
	case map[string]string:
		maps.Copy(headers, t)
	case map[string]any:
		for k, v := range t {
			headers[k] = fmt.Sprint(v)
		}
	}
	return headers
}

// WithParam will set value into the name placeholder either in the path
// and/or the query string of the request URL.
// The value type can be string, bool, time.Time, the integer types or
// Stringer, any other type will panic.
func WithParam(name string, value any) RequestOption {
	return requestOptionFunc(func(options *requestOptions) {
		if options.Params == nil {
			options.Params = make(map[string]string)
		}
		options.Params[name] = toString(value)
	})
}

// WithQuery adds query values on top of the ones in the request URL.
func WithQuery(v url.Values) RequestOption {
	return requestOptionFunc(func(options *requestOptions) {
		options.Query = v
	})
}

// WithTargetID sets the telemetry target id attribute to use in the requests.
// It should have the lowest cardinality possible, e.g. /api/v1/users/{user_id}.
func WithTargetID(targetID string) Option {
	return allOptionFunc(func(options *fetchOptions) {
		options.TargetID = targetID
	})
}

// WithErrorPolicy controls whether a response should be treated as an error.
// Default is IgnoreStatusPolicy: like fetch, any HTTP status resolves.
func WithErrorPolicy(fn ErrorPolicyFunc) ClientOption {
	return clientOptionFunc(func(options *clientOptions) {
		options.ErrorPolicyFn = fn
	})
}

func toString(value any) string {
	switch t := value.(type) {
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%v", value)
	default:
		panic(fmt.Sprintf("type %T is unsupported", value))
	}
}

func defaultFetchOptions() fetchOptions {
	return fetchOptions{
		Mode:        DefaultMode,
		Cache:       DefaultCache,
		Credentials: DefaultCredentials,
		Redirect:    DefaultRedirect,
		Referrer:    DefaultReferrer,
		Headers:     map[string]string{},
	}
}

func defaultClientOptions() clientOptions {
	return clientOptions{
		fetchOptions:  defaultFetchOptions(),
		ErrorPolicyFn: IgnoreStatusPolicy,
	}
}

// resolveCache maps a caller cache value to a fetch cache mode.
func resolveCache(cache any) (mode string, cacheTrue bool) {
	switch t := cache.(type) {
	case bool:
		if !t {
			return "no-cache", false
		}
		return DefaultCache, true
	case string:
		return t, false
	default:
		return DefaultCache, false
	}
}

// resolve turns the merged options into the set sent to the Fetcher.
func (o fetchOptions) resolve(method string) Options {
	if method == "" {
		method = o.Method
	}
	method = strings.ToUpper(method)
	if method == "" {
		method = "GET"
	}

	cache, _ := resolveCache(o.Cache)

	headers := maps.Clone(o.Headers)
	if headers == nil {
		headers = map[string]string{}
	}

	return Options{
		Method:      method,
		Cache:       cache,
		Mode:        orDefault(o.Mode, DefaultMode),
		Credentials: orDefault(o.Credentials, DefaultCredentials),
		Redirect:    orDefault(o.Redirect, DefaultRedirect),
		Referrer:    o.Referrer,
		Headers:     headers,
		Extra:       maps.Clone(o.Extra),
	}
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

// ResolveOptions returns the option set a request with the given forced
// method (empty means the one from the options, then GET) would send, after
// merging opts over the defaults.
func ResolveOptions(method string, opts ...RequestOption) (Options, error) {
	options := requestOptions{fetchOptions: defaultFetchOptions()}
	for _, opt := range opts {
		opt.applyRequest(&options)
	}

	resolved := options.resolve(method)
	return resolved, resolved.validate()
}
