// Package display answers questions about the screen a page is rendered on.
package display

import (
	"context"

	"github.com/luizaranda/go-browserkit/pkg/log"
)

// RetinaQuery matches screens with a device pixel ratio of at least 2.
const RetinaQuery = "(-webkit-min-device-pixel-ratio: 2), (min-device-pixel-ratio: 2), (min-resolution: 192dpi)"

// MediaMatcher evaluates CSS media queries, like window.matchMedia.
// browser.Session implements it.
type MediaMatcher interface {
	MatchMedia(ctx context.Context, query string) (bool, error)
}

// MediaMatcherFunc adapts a function to MediaMatcher.
type MediaMatcherFunc func(ctx context.Context, query string) (bool, error)

// MatchMedia calls f(ctx, query).
func (f MediaMatcherFunc) MatchMedia(ctx context.Context, query string) (bool, error) {
	return f(ctx, query)
}

// IsRetina reports whether m renders on a high density screen. A nil m stands
// for an environment without a screen and reports false, as does a failing
// matcher.
func IsRetina(ctx context.Context, m MediaMatcher) bool {
	if m == nil {
		return false
	}

	matches, err := m.MatchMedia(ctx, RetinaQuery)
	if err != nil {
		log.Warn(ctx, "retina media query failed", log.Err(err))
		return false
	}
	return matches
}
