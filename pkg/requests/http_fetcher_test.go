package requests

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/luizaranda/go-browserkit/pkg/transport"
	"github.com/luizaranda/go-browserkit/pkg/transport/httpclient"
)

type seenRequest struct {
	Method string
	Header http.Header
	Body   string
}

func echoServer(t *testing.T) (*httptest.Server, <-chan seenRequest) {
	t.Helper()
	seen := make(chan seenRequest, 8)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen <- seenRequest{Method: r.Method, Header: r.Header.Clone(), Body: string(b)}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"ok":true}}`)
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, seen
}

func newTestFetcher(t *testing.T, origin string) *HTTPFetcher {
	t.Helper()
	f, err := NewHTTPFetcher(
		WithRequester(httpclient.New(httpclient.WithTransport(transport.NewPooled("requests-test")))),
		WithOrigin(origin),
	)
	if err != nil {
		t.Fatalf("NewHTTPFetcher: %v", err)
	}
	return f
}

func TestHTTPFetcher_EndToEnd(t *testing.T) {
	srv, seen := echoServer(t)
	client := New(newTestFetcher(t, ""))

	got, err := client.Post(context.Background(), srv.URL, map[string]any{"name": "ann"},
		WithHeader("Authorization", "Bearer t"),
	)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if ok, _ := got.(map[string]any)["ok"].(bool); !ok {
		t.Fatalf("payload = %#v", got)
	}

	req := <-seen
	if req.Method != http.MethodPost || req.Body != `{"name":"ann"}` {
		t.Fatalf("request = %+v", req)
	}
	if req.Header.Get("Content-Type") != "text/plain;charset=UTF-8" {
		t.Fatalf("Content-Type = %q", req.Header.Get("Content-Type"))
	}
	// Same origin without a configured origin: credentials are kept and no
	// referrer is sent.
	if req.Header.Get("Authorization") != "Bearer t" || req.Header.Get("Referer") != "" || req.Header.Get("Origin") != "" {
		t.Fatalf("headers = %v", req.Header)
	}
}

func TestHTTPFetcher_CrossOrigin(t *testing.T) {
	srv, seen := echoServer(t)
	const origin = "https://app.example.com"
	client := New(newTestFetcher(t, origin), WithHeader("Authorization", "Bearer t"))
	ctx := context.Background()

	tests := []struct {
		name        string
		opts        []RequestOption
		wantAuth    string
		wantOrigin  string
		wantReferer string
	}{
		{"cors defaults", nil, "", origin, ""},
		{"include credentials", []RequestOption{WithCredentials("include")}, "Bearer t", origin, ""},
		{"no-cors", []RequestOption{WithMode("no-cors")}, "", "", ""},
		{"client referrer", []RequestOption{WithReferrer("client")}, "", origin, origin + "/"},
		{"relative referrer", []RequestOption{WithReferrer("/page?x=1")}, "", origin, origin + "/page?x=1"},
		{"absolute referrer", []RequestOption{WithReferrer("https://other.test/a")}, "", origin, "https://other.test/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := client.Get(ctx, srv.URL, tt.opts...); err != nil {
				t.Fatalf("Get: %v", err)
			}

			req := <-seen
			if got := req.Header.Get("Authorization"); got != tt.wantAuth {
				t.Errorf("Authorization = %q, want %q", got, tt.wantAuth)
			}
			if got := req.Header.Get("Origin"); got != tt.wantOrigin {
				t.Errorf("Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := req.Header.Get("Referer"); got != tt.wantReferer {
				t.Errorf("Referer = %q, want %q", got, tt.wantReferer)
			}
		})
	}
}

func TestHTTPFetcher_Blocked(t *testing.T) {
	srv, _ := echoServer(t)
	client := New(newTestFetcher(t, "https://app.example.com"))
	ctx := context.Background()

	tests := []struct {
		name string
		call func() (any, error)
		want error
	}{
		{"same-origin mode", func() (any, error) { return client.Get(ctx, srv.URL, WithMode("same-origin")) }, ErrCrossOriginBlocked},
		{"no-cors put", func() (any, error) { return client.Put(ctx, srv.URL, nil, WithMode("no-cors")) }, ErrMethodNotAllowed},
		{"redirect error", func() (any, error) { return client.Get(ctx, srv.URL+"/moved", WithRedirect("error")) }, httpclient.ErrRedirectNotAllowed},
		{"only-if-cached", func() (any, error) { return client.Get(ctx, srv.URL, WithCache("only-if-cached")) }, transport.ErrNotCached},
		{"relative url", func() (any, error) { return client.Get(ctx, "/relative") }, ErrNotHTTP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call()
			if !errors.Is(err, tt.want) || !errors.Is(err, ErrNetworkFailure) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHTTPFetcher_RedirectManual(t *testing.T) {
	srv, _ := echoServer(t)
	fetcher := newTestFetcher(t, "")

	opts, err := ResolveOptions("GET", WithRedirect("manual"))
	if err != nil {
		t.Fatalf("ResolveOptions: %v", err)
	}

	res, err := fetcher.Fetch(context.Background(), &FetchRequest{URL: srv.URL + "/moved", Options: opts})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.StatusCode != http.StatusFound {
		t.Fatalf("status = %d", res.StatusCode)
	}
}

func TestHTTPFetcher_CacheHeaders(t *testing.T) {
	srv, seen := echoServer(t)
	client := New(newTestFetcher(t, ""))

	if _, err := client.Get(context.Background(), srv.URL, WithCache(false)); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := (<-seen).Header.Get("Cache-Control"); got != "max-age=0" {
		t.Fatalf("Cache-Control = %q", got)
	}
}

func TestWithOrigin_Invalid(t *testing.T) {
	if _, err := NewHTTPFetcher(WithOrigin("not-a-url")); err == nil {
		t.Fatal("expected an error for a relative origin")
	}
}
