package httpclient

import (
	"context"
	"errors"
	"net/http"
)

// RedirectMode is a fetch() RequestInit redirect mode.
type RedirectMode string

const (
	RedirectFollow RedirectMode = "follow"
	RedirectManual RedirectMode = "manual"
	RedirectError  RedirectMode = "error"
)

// MaxRedirects is the number of hops followed in RedirectFollow mode.
const MaxRedirects = 10

var (
	// ErrRedirectNotAllowed is returned for a redirect in RedirectError mode.
	ErrRedirectNotAllowed = errors.New("httpclient: redirect not allowed")

	// ErrTooManyRedirects is returned after MaxRedirects hops.
	ErrTooManyRedirects = errors.New("httpclient: too many redirects")
)

type redirectModeCtxKey struct{}

// WithRedirectMode returns a copy of ctx asking the client to apply mode to
// redirects.
func WithRedirectMode(ctx context.Context, mode RedirectMode) context.Context {
	return context.WithValue(ctx, redirectModeCtxKey{}, mode)
}

// RedirectModeFrom returns the redirect mode carried by ctx, RedirectFollow
// when none or an unknown one is set.
func RedirectModeFrom(ctx context.Context) RedirectMode {
	mode, _ := ctx.Value(redirectModeCtxKey{}).(RedirectMode)
	switch mode {
	case RedirectManual, RedirectError:
		return mode
	default:
		return RedirectFollow
	}
}

// CheckRedirectFunc has the signature of http.Client.CheckRedirect.
type CheckRedirectFunc func(req *http.Request, via []*http.Request) error

// CheckRedirect applies the redirect mode of the original request context.
// In RedirectManual mode the 3xx response is returned to the caller as is.
func CheckRedirect(req *http.Request, via []*http.Request) error {
	switch RedirectModeFrom(req.Context()) {
	case RedirectManual:
		return http.ErrUseLastResponse
	case RedirectError:
		return ErrRedirectNotAllowed
	}

	if len(via) >= MaxRedirects {
		return ErrTooManyRedirects
	}
	return nil
}
