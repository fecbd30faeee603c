package transport

import (
	"context"
)

// CacheMode is a fetch() RequestInit cache mode.
type CacheMode string

const (
	CacheDefault      CacheMode = "default"
	CacheNoStore      CacheMode = "no-store"
	CacheReload       CacheMode = "reload"
	CacheNoCache      CacheMode = "no-cache"
	CacheForceCache   CacheMode = "force-cache"
	CacheOnlyIfCached CacheMode = "only-if-cached"
)

type cacheModeCtxKey struct{}

// WithCacheMode returns a copy of ctx asking the transport to apply mode.
func WithCacheMode(ctx context.Context, mode CacheMode) context.Context {
	return context.WithValue(ctx, cacheModeCtxKey{}, mode)
}

// CacheModeFrom returns the cache mode carried by ctx. Unknown or missing
// modes are CacheDefault.
func CacheModeFrom(ctx context.Context) CacheMode {
	mode, _ := ctx.Value(cacheModeCtxKey{}).(CacheMode)
	switch mode {
	case CacheNoStore, CacheReload, CacheNoCache, CacheForceCache, CacheOnlyIfCached:
		return mode
	default:
		return CacheDefault
	}
}
