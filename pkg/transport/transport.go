// Package transport builds the http.RoundTripper stack used by browserkit
// HTTP clients: a pooled *http.Transport wrapped by decorators that add
// browser-like request headers, fetch cache modes, hooks and telemetry.
package transport

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

var (
	// DefaultDialTimeout bounds the TCP handshake. Requests leave for the
	// public internet, so it is far more generous than a datacenter value.
	DefaultDialTimeout = 5 * time.Second

	// DefaultKeepAliveProbeInterval is the TCP keep-alive probe interval.
	DefaultKeepAliveProbeInterval = 15 * time.Second
)

// An Option configures a http.Transport or its net.Dialer.
type Option interface {
	applyTransport(*http.Transport)
	applyDialer(*net.Dialer)
}

type transportOptFunc func(*http.Transport)

func (f transportOptFunc) applyTransport(t *http.Transport) { f(t) }
func (f transportOptFunc) applyDialer(*net.Dialer)          {}

type dialerOptFunc func(*net.Dialer)

func (f dialerOptFunc) applyTransport(*http.Transport) {}
func (f dialerOptFunc) applyDialer(d *net.Dialer)      { f(d) }

// OptionDialTimeout sets the dialer timeout.
func OptionDialTimeout(timeout time.Duration) Option {
	return dialerOptFunc(func(d *net.Dialer) {
		d.Timeout = timeout
	})
}

// OptionResponseHeaderTimeout sets the transport ResponseHeaderTimeout.
func OptionResponseHeaderTimeout(timeout time.Duration) Option {
	return transportOptFunc(func(t *http.Transport) {
		t.ResponseHeaderTimeout = timeout
	})
}

// OptionIdleConnTimeout sets the transport IdleConnTimeout.
func OptionIdleConnTimeout(timeout time.Duration) Option {
	return transportOptFunc(func(t *http.Transport) {
		t.IdleConnTimeout = timeout
	})
}

// OptionTLSClientConfig sets the transport TLS configuration.
func OptionTLSClientConfig(config *tls.Config) Option {
	return transportOptFunc(func(t *http.Transport) {
		t.TLSClientConfig = config
	})
}

// NewTransport returns an *http.Transport tuned for talking to a handful of
// remote origins, honoring HTTP(S)_PROXY from the environment.
func NewTransport(opts ...Option) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   DefaultDialTimeout,
		KeepAlive: DefaultKeepAliveProbeInterval,
	}

	t := &http.Transport{
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConnsPerHost:   32,
		Proxy:                 http.ProxyFromEnvironment,
		ExpectContinueTimeout: 1 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
	}

	for _, opt := range opts {
		opt.applyDialer(dialer)
		opt.applyTransport(t)
	}
	t.DialContext = dialer.DialContext

	return t
}
