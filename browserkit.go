package browserkit

import (
	"context"
	"sort"

	"github.com/luizaranda/go-browserkit/pkg/display"
	"github.com/luizaranda/go-browserkit/pkg/querystring"
	"github.com/luizaranda/go-browserkit/pkg/requests"
)

// Get issues a GET request and returns the unwrapped payload.
func Get(ctx context.Context, url string, opts ...requests.RequestOption) (any, error) {
	return requests.Get(ctx, url, opts...)
}

// Post issues a POST request with body and returns the unwrapped payload.
func Post(ctx context.Context, url string, body any, opts ...requests.RequestOption) (any, error) {
	return requests.Post(ctx, url, body, opts...)
}

// Put issues a PUT request with body and returns the unwrapped payload.
func Put(ctx context.Context, url string, body any, opts ...requests.RequestOption) (any, error) {
	return requests.Put(ctx, url, body, opts...)
}

// Delete issues a DELETE request with body and returns the unwrapped payload.
func Delete(ctx context.Context, url string, body any, opts ...requests.RequestOption) (any, error) {
	return requests.Delete(ctx, url, body, opts...)
}

// ScriptLoader loads a script into a page. *browser.Session implements it.
type ScriptLoader interface {
	LoadScript(ctx context.Context, src, before string, attrs map[string]string) error
}

// LoadScript loads src into the page of loader, inserted before the element
// matching the CSS selector before (the end of the body when empty), and
// waits for it to load.
func LoadScript(ctx context.Context, loader ScriptLoader, src, before string, attrs map[string]string) error {
	return loader.LoadScript(ctx, src, before, attrs)
}

// IsRetina reports whether the page behind m renders at a device pixel ratio
// of 2 or more. A nil m reports false.
func IsRetina(ctx context.Context, m display.MediaMatcher) bool {
	return display.IsRetina(ctx, m)
}

// ToQueryString encodes params as "?k=v&...", keys sorted.
func ToQueryString(params map[string]any) string {
	return querystring.ToQueryString(params)
}

// FromQueryString decodes a query string into a map.
func FromQueryString(qs string) map[string]string {
	return querystring.FromQueryString(qs)
}

// ReplaceQueryParam sets key to value in qs.
func ReplaceQueryParam(qs, key, value string) string {
	return querystring.ReplaceQueryParam(qs, key, value)
}

var _catalog = map[string][]string{
	"requests": {"Get", "Post", "Put", "Delete", "LoadScript"},
	"ui":       {"IsRetina"},
	"urls":     {"ToQueryString", "FromQueryString", "ReplaceQueryParam"},
}

// Catalog returns the helper names by category, each list sorted.
func Catalog() map[string][]string {
	out := make(map[string][]string, len(_catalog))
	for category, names := range _catalog {
		sorted := append([]string(nil), names...)
		sort.Strings(sorted)
		out[category] = sorted
	}
	return out
}
