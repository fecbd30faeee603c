package transport

import (
	"net/http"
)

// RoundTripDecorator wraps a RoundTripper with additional behaviour.
type RoundTripDecorator func(http.RoundTripper) http.RoundTripper

// RoundTripChain is an ordered list of decorators. The first decorator is the
// outermost one: it sees the request first and the response last.
type RoundTripChain []RoundTripDecorator

// Apply wraps base with every decorator in the chain.
func (c RoundTripChain) Apply(base http.RoundTripper) http.RoundTripper {
	for x := len(c) - 1; x >= 0; x-- {
		base = c[x](base)
	}
	return base
}

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f(req).
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
