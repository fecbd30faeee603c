package browser

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/chromedp/chromedp"
	"github.com/luizaranda/go-browserkit/pkg/requests"
)

var _ requests.Fetcher = (*Session)(nil)

const _fetchJS = `(async function (url, init) {
	const res = await fetch(url, init);
	const headers = {};
	res.headers.forEach(function (value, key) { headers[key] = value; });
	return { status: res.status, headers: headers, body: await res.text() };
})(%s, %s)`

type fetchResult struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// fetchInit builds the RequestInit dictionary for window.fetch. Extra options
// are copied first so the resolved ones win.
func fetchInit(req *requests.FetchRequest) map[string]any {
	opts := req.Options

	init := make(map[string]any, len(opts.Extra)+8)
	for k, v := range opts.Extra {
		init[k] = v
	}

	headers := opts.Headers
	if headers == nil {
		headers = map[string]string{}
	}

	init["method"] = opts.Method
	init["mode"] = opts.Mode
	// RequestInit rejects "navigate"; a page fetch of its own origin is the
	// closest it allows.
	if opts.Mode == "navigate" {
		init["mode"] = "same-origin"
	}
	init["cache"] = opts.Cache
	init["credentials"] = opts.Credentials
	init["redirect"] = opts.Redirect
	init["headers"] = headers

	// fetch takes a URL here; the empty string is how it spells no referrer.
	switch opts.Referrer {
	case "no-referrer":
		init["referrer"] = ""
	default:
		init["referrer"] = opts.Referrer
	}

	if req.Body != nil {
		init["body"] = *req.Body
	}
	return init
}

func fetchExpression(req *requests.FetchRequest) (string, error) {
	url, err := sonic.Marshal(req.URL)
	if err != nil {
		return "", err
	}
	init, err := sonic.Marshal(fetchInit(req))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(_fetchJS, url, init), nil
}

// Fetch runs window.fetch in the page, so the fetch options are honored by
// the browser itself. Relative URLs resolve against the current page.
func (s *Session) Fetch(ctx context.Context, req *requests.FetchRequest) (*requests.FetchResponse, error) {
	expr, err := fetchExpression(req)
	if err != nil {
		return nil, err
	}

	var res fetchResult
	if err := s.run(ctx, chromedp.Evaluate(expr, &res, awaitPromise)); err != nil {
		return nil, fmt.Errorf("browser: fetch %s: %w", req.URL, err)
	}

	header := make(http.Header, len(res.Headers))
	for k, v := range res.Headers {
		header.Set(k, v)
	}

	return &requests.FetchResponse{
		StatusCode: res.Status,
		Header:     header,
		Body:       []byte(res.Body),
	}, nil
}
