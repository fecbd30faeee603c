package telemetry

import (
	"context"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/newrelic/go-agent/v3/newrelic"
)

var (
	_defaultBufferLen = 500
	_defaultTimeout   = 200 * time.Millisecond
	_defaultRate      = 1.0
	_shutdownTimeout  = 5 * time.Second
)

// Client records metrics and spans. It is safe for concurrent use.
type Client interface {
	Close() error
	StartSpan(ctx context.Context, name string) (context.Context, Span)
	Gauge(name string, value float64, tags []string)
	Count(name string, value int64, tags []string)
	Incr(name string, tags []string)
	Histogram(name string, value float64, tags []string)
	Timing(name string, value time.Duration, tags []string)
}

// DefaultTracer is used when a context carries no Client. It discards
// everything until replaced.
var DefaultTracer = NewNoOpClient()

type client struct {
	nrApp  *newrelic.Application
	statsd statsd.ClientInterface
}

var _ Client = (*client)(nil)

// Config holds what NewClient needs to reach the providers.
type Config struct {
	// ApplicationName is the application name reported to New Relic.
	ApplicationName string

	// NewRelicLicense enables New Relic when non empty.
	NewRelicLicense string

	// StatsdAddress is the address of the DogStatsD agent, e.g. "datadog:8125".
	// Metrics are discarded when empty.
	StatsdAddress string
}

// NewClient returns a Client connected to the configured providers. Providers
// left unconfigured are replaced by no-op implementations.
func NewClient(cfg Config) (Client, error) {
	nrApp, err := newrelic.NewApplication(
		newrelic.ConfigEnabled(cfg.NewRelicLicense != ""),
		newrelic.ConfigLicense(cfg.NewRelicLicense),
		newrelic.ConfigAppName(cfg.ApplicationName),
		newrelic.ConfigDistributedTracerEnabled(false),
	)
	if err != nil {
		return nil, err
	}

	var s statsd.ClientInterface = &statsd.NoOpClient{}
	if cfg.StatsdAddress != "" {
		s, err = statsd.New(cfg.StatsdAddress,
			statsd.WithMaxMessagesPerPayload(_defaultBufferLen),
			statsd.WithWriteTimeout(_defaultTimeout),
		)
		if err != nil {
			return nil, err
		}
	}

	return &client{nrApp: nrApp, statsd: s}, nil
}

// NewNoOpClient returns a Client that records nothing.
func NewNoOpClient() Client {
	nrApp, _ := newrelic.NewApplication(newrelic.ConfigEnabled(false))
	return &client{nrApp: nrApp, statsd: &statsd.NoOpClient{}}
}

func (c *client) Close() error {
	if c.nrApp != nil {
		c.nrApp.Shutdown(_shutdownTimeout)
	}
	return c.statsd.Close()
}

// StartSpan starts a New Relic transaction named name, or a segment when ctx
// already carries a transaction. The returned Span is never nil.
func (c *client) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	if tx := newrelic.FromContext(ctx); tx != nil {
		return ctx, &nrSegmentSpan{Transaction: tx, Segment: tx.StartSegment(name)}
	}

	tx := c.nrApp.StartTransaction(name)
	return contextWithTransaction(ctx, tx, c), &nrTransactionSpan{Transaction: tx}
}

func (c *client) Gauge(name string, value float64, tags []string) {
	_ = c.statsd.Gauge(name, value, tags, _defaultRate)
}

func (c *client) Count(name string, value int64, tags []string) {
	_ = c.statsd.Count(name, value, tags, _defaultRate)
}

func (c *client) Incr(name string, tags []string) {
	_ = c.statsd.Incr(name, tags, _defaultRate)
}

func (c *client) Histogram(name string, value float64, tags []string) {
	_ = c.statsd.Histogram(name, value, tags, _defaultRate)
}

func (c *client) Timing(name string, value time.Duration, tags []string) {
	_ = c.statsd.Timing(name, value, tags, _defaultRate)
}
