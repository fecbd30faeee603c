package requests

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrTransportUnavailable is returned by a Client built without a Fetcher.
	ErrTransportUnavailable = errors.New("requests: no fetch-capable transport available")

	// ErrNetworkFailure matches every error returned by the Fetcher.
	ErrNetworkFailure = errors.New("requests: network failure")

	// ErrMalformedResponse matches response bodies that claim to be JSON but
	// do not parse.
	ErrMalformedResponse = errors.New("requests: malformed response")

	// ErrNoResponse is returned when a Fetcher reports neither a response
	// nor an error.
	ErrNoResponse = errors.New("requests: fetcher returned no response")

	// ErrUnsupportedBody is returned when a request body cannot be serialized.
	ErrUnsupportedBody = errors.New("requests: unsupported body")

	// ErrEmptyURLParam empty param value for replacing in a URL template.
	ErrEmptyURLParam = errors.New("requests: empty param value for a URL template")

	// ErrMissingURLParam missing param for replacing in a URL template.
	ErrMissingURLParam = errors.New("requests: missing param value for a URL template")
)

// NetworkError is returned when the Fetcher fails. It matches
// ErrNetworkFailure and unwraps to the Fetcher error.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("requests: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetworkFailure }

// _bodyPrefixLen bounds the body kept in a MalformedResponseError.
const _bodyPrefixLen = 128

// MalformedResponseError is returned when a JSON body fails to decode. It
// matches ErrMalformedResponse and unwraps to the decoder error.
type MalformedResponseError struct {
	ContentType string
	// Body is a prefix of the offending body.
	Body string
	Err  error
}

func newMalformedResponseError(contentType string, body []byte, err error) *MalformedResponseError {
	if len(body) > _bodyPrefixLen {
		body = body[:_bodyPrefixLen]
	}
	return &MalformedResponseError{ContentType: contentType, Body: string(body), Err: err}
}

func (e *MalformedResponseError) Error() string {
	ct := e.ContentType
	if ct == "" {
		ct = "no content type"
	}
	return fmt.Sprintf("requests: malformed response (%s): %v", ct, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// StatusError represents an application error from the server. It is
// returned by the StatusErrorPolicy policy.
type StatusError struct {
	// Response is the server response that caused this error. It is always non-nil.
	*FetchResponse
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	code := strings.ReplaceAll(strings.ToLower(http.StatusText(e.StatusCode)), " ", "_")
	return fmt.Sprintf("%d %s: %s", e.StatusCode, code, string(e.Body))
}

// ErrorPolicyFunc decides whether a completed round trip is an error. It is
// not called when the Fetcher itself fails.
type ErrorPolicyFunc func(*FetchResponse) error

// IgnoreStatusPolicy resolves every response, whatever its status, like fetch.
var IgnoreStatusPolicy ErrorPolicyFunc = func(*FetchResponse) error { return nil }

// StatusErrorPolicy returns a *StatusError when the status code is greater than 399.
var StatusErrorPolicy ErrorPolicyFunc = func(r *FetchResponse) error {
	if r.StatusCode < 400 {
		return nil
	}

	return &StatusError{r}
}
