package transport

import (
	"net/http"
)

// RequestHook runs before a request is sent. Hooks may mutate the request
// headers and context only. A returned error aborts the round trip.
type RequestHook func(*http.Request) error

// ResponseHook runs after every round trip, successful or not. Reading or
// closing the response body from a hook affects the caller.
type ResponseHook func(*http.Request, *http.Response, error)

// HookDecorator returns a decorator running the given hooks around each
// round trip, in order.
func HookDecorator(req []RequestHook, res []ResponseHook) RoundTripDecorator {
	return func(base http.RoundTripper) http.RoundTripper {
		return &HookRoundTripper{
			Transport:    base,
			RequestHook:  req,
			ResponseHook: res,
		}
	}
}

// HookRoundTripper runs RequestHook before and ResponseHook after each round
// trip of Transport.
type HookRoundTripper struct {
	Transport    http.RoundTripper
	RequestHook  []RequestHook
	ResponseHook []ResponseHook
}

func (t *HookRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.RequestHook) > 0 {
		// Hooks edit headers; keep the caller's request untouched.
		req = req.Clone(req.Context())
	}

	for _, hook := range t.RequestHook {
		if err := hook(req); err != nil {
			return nil, err
		}
	}

	res, err := t.Transport.RoundTrip(req)

	for _, hook := range t.ResponseHook {
		hook(req, res, err)
	}

	return res, err
}
