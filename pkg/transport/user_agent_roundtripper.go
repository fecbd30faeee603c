package transport

import (
	"net/http"

	"github.com/luizaranda/go-browserkit/pkg/internal"
)

// UserAgentDecorator returns a decorator setting User-Agent to userAgent when
// the request has none. An empty userAgent means "browserkit/<version>".
func UserAgentDecorator(userAgent string) RoundTripDecorator {
	if userAgent == "" {
		userAgent = internal.UserAgent()
	}
	return func(base http.RoundTripper) http.RoundTripper {
		return &UserAgentRoundTripper{Transport: base, UserAgent: userAgent}
	}
}

// UserAgentRoundTripper sets a default User-Agent header.
type UserAgentRoundTripper struct {
	Transport http.RoundTripper
	UserAgent string
}

func (ua *UserAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.UserAgent() == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", ua.UserAgent)
	}

	return ua.Transport.RoundTrip(req)
}
