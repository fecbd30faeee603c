package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ReaderFunc returns a fresh reader over the same body on every call.
type ReaderFunc func() (io.Reader, error)

// GetBody adapts r to http.Request.GetBody.
func (r ReaderFunc) GetBody() (io.ReadCloser, error) {
	tmp, err := r()
	if err != nil {
		return nil, err
	}
	return io.NopCloser(tmp), nil
}

// lenReader is an interface implemented by many in-memory io.Reader's. Used
// for automatically sending the right Content-Length header when possible.
type lenReader interface{ Len() int }

// NewRequest creates an http.Request whose body can be re-read, which the
// client needs to replay bodies on 307/308 redirects.
//
// rawBody may be nil, a string, a []byte, a *bytes.Buffer, a *bytes.Reader,
// a *strings.Reader, a ReaderFunc or any io.Reader (read fully).
func NewRequest(ctx context.Context, method, url string, rawBody any) (*http.Request, error) {
	if rawBody == nil {
		return http.NewRequestWithContext(ctx, method, url, nil)
	}

	readerFunc, contentLength, err := bodyReader(rawBody)
	if err != nil {
		return nil, err
	}

	body, err := readerFunc()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.GetBody = readerFunc.GetBody

	switch {
	case contentLength > 0:
		req.ContentLength = contentLength
	case contentLength == 0:
		req.Body = http.NoBody
		req.GetBody = func() (io.ReadCloser, error) { return http.NoBody, nil }
	}

	return req, nil
}

// bodyReader returns a length of -1 when it cannot be known up front.
func bodyReader(rawBody any) (ReaderFunc, int64, error) {
	switch body := rawBody.(type) {
	case ReaderFunc:
		tmp, err := body()
		if err != nil {
			return nil, 0, err
		}
		n := int64(-1)
		if lr, ok := tmp.(lenReader); ok {
			n = int64(lr.Len())
		}
		if c, ok := tmp.(io.Closer); ok {
			_ = c.Close()
		}
		return body, n, nil

	case string:
		return func() (io.Reader, error) { return strings.NewReader(body), nil }, int64(len(body)), nil

	case []byte:
		return func() (io.Reader, error) { return bytes.NewReader(body), nil }, int64(len(body)), nil

	case *bytes.Buffer:
		buf := body.Bytes()
		return func() (io.Reader, error) { return bytes.NewReader(buf), nil }, int64(len(buf)), nil

	// Readers are copied by value so every call starts from the current
	// offset of the original.
	case *bytes.Reader:
		snapshot := *body
		return func() (io.Reader, error) { r := snapshot; return &r, nil }, int64(body.Len()), nil

	case *strings.Reader:
		snapshot := *body
		return func() (io.Reader, error) { r := snapshot; return &r, nil }, int64(body.Len()), nil

	case io.Reader:
		buf, err := io.ReadAll(body)
		if err != nil {
			return nil, 0, err
		}
		return func() (io.Reader, error) { return bytes.NewReader(buf), nil }, int64(len(buf)), nil

	default:
		return nil, 0, fmt.Errorf("httpclient: cannot handle body type %T", rawBody)
	}
}
