// Package browser drives a headless Chrome tab through the DevTools protocol
// and exposes the few page level operations browserkit needs: loading
// scripts, evaluating media queries and running fetch from the page.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/luizaranda/go-browserkit/pkg/log"
)

// ErrClosed is returned by operations on a closed or nil Session.
var ErrClosed = errors.New("browser: session closed")

type sessionOptions struct {
	RemoteURL   string
	StartURL    string
	ExecPath    string
	Headless    bool
	Width       int
	Height      int
	ScaleFactor float64
}

// Option configures a Session.
type Option func(*sessionOptions)

// WithRemoteURL attaches to a running Chrome through its DevTools websocket
// URL (e.g. ws://127.0.0.1:9222) instead of starting one.
func WithRemoteURL(url string) Option {
	return func(o *sessionOptions) { o.RemoteURL = url }
}

// WithStartURL sets the page the tab opens. Default is about:blank.
func WithStartURL(url string) Option {
	return func(o *sessionOptions) { o.StartURL = url }
}

// WithExecPath sets the Chrome binary to start.
func WithExecPath(path string) Option {
	return func(o *sessionOptions) { o.ExecPath = path }
}

// WithHeadless controls whether a started Chrome shows a window. Default true.
func WithHeadless(headless bool) Option {
	return func(o *sessionOptions) { o.Headless = headless }
}

// WithWindowSize sets the viewport size in CSS pixels. Default 1280x800.
func WithWindowSize(width, height int) Option {
	return func(o *sessionOptions) {
		o.Width = width
		o.Height = height
	}
}

// WithDeviceScaleFactor emulates a device pixel ratio, e.g. 2 for a retina
// screen. Zero keeps the browser's own.
func WithDeviceScaleFactor(f float64) Option {
	return func(o *sessionOptions) { o.ScaleFactor = f }
}

// Session is a browser tab. Its methods are safe for concurrent use; the
// DevTools protocol serializes them.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
}

// NewSession starts (or attaches to) Chrome, opens a tab and navigates it to
// the start URL. ctx bounds the whole browser lifetime; use Close to release
// it earlier.
func NewSession(ctx context.Context, opts ...Option) (*Session, error) {
	options := sessionOptions{
		StartURL: "about:blank",
		Headless: true,
		Width:    1280,
		Height:   800,
	}
	for _, opt := range opts {
		opt(&options)
	}

	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if options.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, options.RemoteURL)
	} else {
		allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", options.Headless),
			chromedp.WindowSize(options.Width, options.Height),
		)
		if options.ExecPath != "" {
			allocOpts = append(allocOpts, chromedp.ExecPath(options.ExecPath))
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, allocOpts...)
	}

	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			log.Debug(ctx, fmt.Sprintf(format, args...))
		}),
	)

	s := &Session{
		ctx: tabCtx,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
	}

	var actions []chromedp.Action
	if options.ScaleFactor > 0 {
		actions = append(actions, emulation.SetDeviceMetricsOverride(int64(options.Width), int64(options.Height), options.ScaleFactor, false))
	}
	actions = append(actions, chromedp.Navigate(options.StartURL))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		s.Close()
		return nil, fmt.Errorf("browser: start session: %w", err)
	}

	log.Debug(ctx, "browser session started",
		log.String("start_url", options.StartURL),
		log.Bool("remote", options.RemoteURL != ""),
	)

	return s, nil
}

// Close closes the tab and, when the session started it, Chrome.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(s.cancel)
}

// Navigate loads url in the tab.
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

// MatchMedia reports whether the page matches the CSS media query.
func (s *Session) MatchMedia(ctx context.Context, query string) (bool, error) {
	expr, err := matchMediaExpression(query)
	if err != nil {
		return false, err
	}

	var matches bool
	if err := s.run(ctx, chromedp.Evaluate(expr, &matches)); err != nil {
		return false, fmt.Errorf("browser: matchMedia: %w", err)
	}
	return matches, nil
}

// run executes actions in the tab, bounded by both ctx and the session.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if s == nil || s.ctx.Err() != nil {
		return ErrClosed
	}

	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// awaitPromise makes Evaluate wait for the promise the expression returns.
func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}
