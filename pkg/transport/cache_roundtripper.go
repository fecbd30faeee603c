package transport

import (
	"bufio"
	"bytes"
	"errors"
	"net/http"
	"net/http/httputil"
	"strconv"
	"strings"
	"time"
)

// XFromCache is set to "1" on responses served from the cache.
const XFromCache = "X-From-Cache"

// ErrNotCached is returned for only-if-cached requests with no stored response.
var ErrNotCached = errors.New("transport: response not in cache")

// A Cache stores serialized responses.
type Cache interface {
	// Get returns the stored bytes for key, whether they are still fresh, and
	// whether anything was found at all. Stale entries stay retrievable until
	// the store evicts them.
	Get(key string) (responseBytes []byte, fresh bool, ok bool)
	// Set stores responseBytes, fresh for ttl. A zero ttl stores a stale entry.
	Set(key string, responseBytes []byte, ttl time.Duration)
	Delete(key string)
}

// CacheDecorator returns a decorator that applies the fetch cache mode carried
// by the request context (see WithCacheMode). When cache is nil the mode is
// only translated into request headers.
func CacheDecorator(cache Cache) RoundTripDecorator {
	return func(base http.RoundTripper) http.RoundTripper {
		return &CacheRoundTripper{Transport: base, Cache: cache}
	}
}

// CacheRoundTripper implements fetch cache modes for GET requests:
//
//	default         fresh entry, else network and store
//	no-store        network, nothing stored
//	reload          network with cache busting headers, store
//	no-cache        network revalidation, store
//	force-cache     any entry (fresh or stale), else network and store
//	only-if-cached  any entry, else ErrNotCached
//
// Other methods go to the network and evict the stored entry for the URL.
type CacheRoundTripper struct {
	Transport http.RoundTripper
	Cache     Cache
}

func (t *CacheRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	mode := CacheModeFrom(req.Context())

	if req.Method != http.MethodGet {
		if t.Cache != nil {
			t.Cache.Delete(cacheKey(req))
		}
		return t.Transport.RoundTrip(withCacheHeaders(req, mode))
	}

	if t.Cache == nil {
		if mode == CacheOnlyIfCached {
			return nil, ErrNotCached
		}
		return t.Transport.RoundTrip(withCacheHeaders(req, mode))
	}

	key := cacheKey(req)

	switch mode {
	case CacheDefault, CacheForceCache, CacheOnlyIfCached:
		if b, fresh, ok := t.Cache.Get(key); ok && (fresh || mode != CacheDefault) {
			if res, err := readCachedResponse(b, req); err == nil {
				return res, nil
			}
			t.Cache.Delete(key)
		}
		if mode == CacheOnlyIfCached {
			return nil, ErrNotCached
		}
	case CacheNoStore:
		return t.Transport.RoundTrip(withCacheHeaders(req, mode))
	}

	res, err := t.Transport.RoundTrip(withCacheHeaders(req, mode))
	if err != nil {
		return nil, err
	}

	if ttl, ok := storable(res); ok {
		if b, err := httputil.DumpResponse(res, true); err == nil {
			t.Cache.Set(key, b, ttl)
		}
	}

	return res, nil
}

func cacheKey(req *http.Request) string {
	return http.MethodGet + " " + req.URL.String()
}

// withCacheHeaders mirrors what browsers send for the bypassing modes, unless
// the caller already chose a Cache-Control.
func withCacheHeaders(req *http.Request, mode CacheMode) *http.Request {
	if req.Header.Get("Cache-Control") != "" {
		return req
	}

	switch mode {
	case CacheNoStore, CacheReload:
		req = req.Clone(req.Context())
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Pragma", "no-cache")
	case CacheNoCache:
		req = req.Clone(req.Context())
		req.Header.Set("Cache-Control", "max-age=0")
	}
	return req
}

func readCachedResponse(b []byte, req *http.Request) (*http.Response, error) {
	res, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(b)), req)
	if err != nil {
		return nil, err
	}
	res.Header.Set(XFromCache, "1")
	return res, nil
}

// storable reports whether res may be stored and for how long it is fresh.
func storable(res *http.Response) (time.Duration, bool) {
	if res.StatusCode != http.StatusOK {
		return 0, false
	}

	var ttl time.Duration
	for _, directive := range strings.Split(res.Header.Get("Cache-Control"), ",") {
		directive = strings.ToLower(strings.TrimSpace(directive))
		switch {
		case directive == "no-store", directive == "private":
			return 0, false
		case directive == "no-cache":
			return 0, true
		case strings.HasPrefix(directive, "max-age="):
			if secs, err := strconv.Atoi(strings.TrimPrefix(directive, "max-age=")); err == nil && secs > 0 {
				ttl = time.Duration(secs) * time.Second
			}
		}
	}
	return ttl, true
}
