package requests

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"
)

type recordingFetcher struct {
	mu       sync.Mutex
	requests []*FetchRequest
	response *FetchResponse
	err      error
}

func (f *recordingFetcher) Fetch(_ context.Context, req *FetchRequest) (*FetchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *recordingFetcher) last(t *testing.T) *FetchRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no request was fetched")
	}
	return f.requests[len(f.requests)-1]
}

func jsonResponse(body string) *FetchResponse {
	return &FetchResponse{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       []byte(body),
	}
}

func TestClient_VerbsForceMethodAndCoerceBody(t *testing.T) {
	fetcher := &recordingFetcher{response: jsonResponse(`{}`)}
	client := New(fetcher)
	ctx := context.Background()

	tests := []struct {
		name     string
		call     func() (any, error)
		method   string
		wantBody *string
	}{
		{
			name:   "get ignores body",
			call:   func() (any, error) { return client.Get(ctx, "http://x", WithMethod("POST"), WithBody("ignored")) },
			method: "GET",
		},
		{
			name:     "post object",
			call:     func() (any, error) { return client.Post(ctx, "http://x", map[string]any{"id": 1}) },
			method:   "POST",
			wantBody: ptr(`{"id":1}`),
		},
		{
			name:     "put without body",
			call:     func() (any, error) { return client.Put(ctx, "http://x", nil, WithMethod("GET")) },
			method:   "PUT",
			wantBody: ptr(""),
		},
		{
			name:     "delete string",
			call:     func() (any, error) { return client.Delete(ctx, "http://x", "id=1") },
			method:   "DELETE",
			wantBody: ptr("id=1"),
		},
		{
			name:     "request with method",
			call:     func() (any, error) { return client.Request(ctx, "http://x", WithMethod("patch")) },
			method:   "PATCH",
			wantBody: ptr(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.call(); err != nil {
				t.Fatalf("call: %v", err)
			}

			req := fetcher.last(t)
			if req.Options.Method != tt.method {
				t.Fatalf("method = %q, want %q", req.Options.Method, tt.method)
			}
			if !reflect.DeepEqual(req.Body, tt.wantBody) {
				t.Fatalf("body = %v, want %v", deref(req.Body), deref(tt.wantBody))
			}
		})
	}
}

func TestClient_UnwrapsPayload(t *testing.T) {
	tests := []struct {
		name string
		res  *FetchResponse
		want any
	}{
		{"envelope", jsonResponse(`{"data":{"id":1}}`), map[string]any{"id": float64(1)}},
		{"no envelope", jsonResponse(`{"id":1}`), map[string]any{"id": float64(1)}},
		{"empty", jsonResponse(``), nil},
		{"text", &FetchResponse{StatusCode: 200, Header: http.Header{"Content-Type": {"text/plain"}}, Body: []byte("ok")}, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(&recordingFetcher{response: tt.res})

			got, err := client.Get(context.Background(), "http://x")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestClient_Errors(t *testing.T) {
	t.Run("no transport", func(t *testing.T) {
		got, err := New(nil).Get(context.Background(), "http://x")
		if !errors.Is(err, ErrTransportUnavailable) || got != nil {
			t.Fatalf("got %v, %v", got, err)
		}
	})

	t.Run("network failure", func(t *testing.T) {
		cause := errors.New("connection refused")
		_, err := New(&recordingFetcher{err: cause}).Post(context.Background(), "http://x", nil)

		if !errors.Is(err, ErrNetworkFailure) || !errors.Is(err, cause) {
			t.Fatalf("err = %v", err)
		}
		var nerr *NetworkError
		if !errors.As(err, &nerr) || nerr.Method != "POST" || nerr.URL != "http://x" {
			t.Fatalf("err = %#v", err)
		}
	})

	t.Run("malformed response", func(t *testing.T) {
		_, err := New(&recordingFetcher{response: jsonResponse(`{`)}).Get(context.Background(), "http://x")
		if !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("unsupported body", func(t *testing.T) {
		fetcher := &recordingFetcher{response: jsonResponse(`{}`)}
		_, err := New(fetcher).Post(context.Background(), "http://x", func() {})
		if !errors.Is(err, ErrUnsupportedBody) {
			t.Fatalf("err = %v", err)
		}
		if len(fetcher.requests) != 0 {
			t.Fatal("request was sent")
		}
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := New(&recordingFetcher{response: jsonResponse(`{}`)}).Get(context.Background(), "http://x", WithMode("x"))
		if !errors.Is(err, ErrInvalidOptions) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestClient_ErrorPolicy(t *testing.T) {
	res := jsonResponse(`{"data":"nope"}`)
	res.StatusCode = http.StatusNotFound

	got, err := New(&recordingFetcher{response: res}).Get(context.Background(), "http://x")
	if err != nil || got != "nope" {
		t.Fatalf("default policy: got %v, %v", got, err)
	}

	_, err = New(&recordingFetcher{response: res}, WithErrorPolicy(StatusErrorPolicy)).Get(context.Background(), "http://x")
	var serr *StatusError
	if !errors.As(err, &serr) || serr.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v", err)
	}
	if serr.Error() != `404 not_found: {"data":"nope"}` {
		t.Fatalf("Error() = %q", serr.Error())
	}
}

func TestClient_DefaultsLayering(t *testing.T) {
	fetcher := &recordingFetcher{response: jsonResponse(`{}`)}
	client := New(fetcher,
		WithHeader("Accept", "application/json"),
		WithCredentials("include"),
		WithCache("reload"),
	)

	if _, err := client.Get(context.Background(), "http://x", WithCache(false), WithHeader("X-Trace", "1")); err != nil {
		t.Fatalf("Get: %v", err)
	}

	got := fetcher.last(t).Options
	if got.Cache != "no-cache" || got.Credentials != "include" || got.Mode != "cors" {
		t.Fatalf("options = %+v", got)
	}
	if want := map[string]string{"Accept": "application/json", "X-Trace": "1"}; !reflect.DeepEqual(got.Headers, want) {
		t.Fatalf("headers = %v", got.Headers)
	}

	// The request option must not leak into the client defaults.
	if _, err := client.Get(context.Background(), "http://x"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := fetcher.last(t).Options; len(got.Headers) != 1 || got.Cache != "reload" {
		t.Fatalf("defaults changed: %+v", got)
	}
}

func TestClient_URLTemplates(t *testing.T) {
	fetcher := &recordingFetcher{response: jsonResponse(`{}`)}
	client := New(fetcher)
	ctx := context.Background()

	_, err := client.Get(ctx, "http://api.test/users/{id}/posts?sort={sort}",
		WithParam("id", "a b"),
		WithParam("sort", "new&old"),
		WithQuery(url.Values{"page": {"2"}}),
	)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got, want := fetcher.last(t).URL, "http://api.test/users/a%20b/posts?sort=new%26old&page=2"; got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}

	if _, err := client.Get(ctx, "http://api.test/users/{id}"); !errors.Is(err, ErrMissingURLParam) {
		t.Fatalf("err = %v, want ErrMissingURLParam", err)
	}
	if _, err := client.Get(ctx, "http://api.test/users/{id}", WithParam("id", "")); !errors.Is(err, ErrEmptyURLParam) {
		t.Fatalf("err = %v, want ErrEmptyURLParam", err)
	}

	if _, err := client.Get(ctx, "http://api.test/plain?x=1"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := fetcher.last(t).URL; got != "http://api.test/plain?x=1" {
		t.Fatalf("plain url rewritten: %q", got)
	}
}

func ptr(s string) *string { return &s }

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func TestClient_ConcurrentUse(t *testing.T) {
	fetcher := &recordingFetcher{response: jsonResponse(`{"data":"ok"}`)}
	client := New(fetcher,
		WithHeaders(map[string]string{"A": "client"}),
		WithExtra("shared", true),
	)

	const workers = 50
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := client.Post(context.Background(), "http://api.test/items/{id}", map[string]any{"i": i},
				WithParam("id", i),
				WithHeader("B", i),
				WithExtra("x", i),
			)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Post: %v", err)
		}
	}

	fetcher.mu.Lock()
	recorded := append([]*FetchRequest(nil), fetcher.requests...)
	fetcher.mu.Unlock()
	if len(recorded) != workers {
		t.Fatalf("fetched %d requests, want %d", len(recorded), workers)
	}

	seen := make(map[string]bool, workers)
	for _, req := range recorded {
		id := strings.TrimPrefix(req.URL, "http://api.test/items/")
		i, err := strconv.Atoi(id)
		if err != nil {
			t.Fatalf("unexpected URL %q", req.URL)
		}
		seen[id] = true

		if got := req.Options.Headers["B"]; got != id {
			t.Errorf("request %d: header B = %q", i, got)
		}
		if got := req.Options.Headers["A"]; got != "client" {
			t.Errorf("request %d: header A = %q", i, got)
		}
		if got := req.Options.Extra["x"]; got != i {
			t.Errorf("request %d: extra x = %#v", i, got)
		}
		if got := req.Options.Extra["shared"]; got != true {
			t.Errorf("request %d: extra shared = %#v", i, got)
		}
		if want := `{"i":` + id + `}`; deref(req.Body) != want {
			t.Errorf("request %d: body = %v, want %s", i, deref(req.Body), want)
		}
	}
	if len(seen) != workers {
		t.Fatalf("got %d distinct URLs, want %d", len(seen), workers)
	}

	if _, err := client.Get(context.Background(), "http://api.test/items"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	last := fetcher.last(t).Options
	if _, ok := last.Headers["B"]; ok {
		t.Errorf("client defaults picked up a request header: %v", last.Headers)
	}
	if _, ok := last.Extra["x"]; ok {
		t.Errorf("client defaults picked up a request extra: %v", last.Extra)
	}
}

func TestClient_FetcherWithoutResponse(t *testing.T) {
	client := New(FetcherFunc(func(context.Context, *FetchRequest) (*FetchResponse, error) {
		return nil, nil
	}))

	_, err := client.Get(context.Background(), "http://api.test/")
	if !errors.Is(err, ErrNoResponse) || !errors.Is(err, ErrNetworkFailure) {
		t.Fatalf("err = %v, want ErrNoResponse wrapped as a network failure", err)
	}
}
