// Package otel bootstraps the global OpenTelemetry tracer and meter providers
// used by the request client spans and the otelhttp transport decorator.
package otel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

const (
	_defaultAgentHost = "otel-agent"
	_defaultAgentPort = "4317"

	_otelAgentHostEnv     = "OTEL_HOST"
	_otelAgentPortEnv     = "OTEL_PORT"
	_otelAgentEnabledEnv  = "OTEL_AGENT_ENABLED"
	_otelAgentDisabledEnv = "OTEL_AGENT_DISABLED"

	_collectTimeout  = 35 * time.Second
	_collectPeriod   = 30 * time.Second
	_minimumInterval = time.Minute
)

// Request durations are recorded in milliseconds.
var _histogramBuckets = []float64{5, 10, 25, 50, 75, 100, 250, 500, 750, 1000, 2500, 5000, 7500, 10000, 25000, 50000, 100000}

// ShutdownFunc flushes and stops the providers started by Start.
type ShutdownFunc func() error

// Enabled reports whether the environment asks for the OTel agent:
// OTEL_AGENT_ENABLED=true and OTEL_AGENT_DISABLED not true.
func Enabled() bool {
	return strings.EqualFold(os.Getenv(_otelAgentEnabledEnv), "true") &&
		!strings.EqualFold(os.Getenv(_otelAgentDisabledEnv), "true")
}

// Endpoint returns the OTLP gRPC endpoint built from OTEL_HOST and OTEL_PORT.
func Endpoint() string {
	host := os.Getenv(_otelAgentHostEnv)
	if host == "" {
		host = _defaultAgentHost
	}
	port := os.Getenv(_otelAgentPortEnv)
	if port == "" {
		port = _defaultAgentPort
	}
	return fmt.Sprintf("%s:%s", host, port)
}

// Start installs global trace and metric providers exporting to Endpoint.
// When Enabled is false it installs nothing and returns a no-op ShutdownFunc.
func Start(ctx context.Context) (ShutdownFunc, error) {
	if !Enabled() {
		return func() error { return nil }, nil
	}

	traceExp, err := otlptrace.New(ctx, otlptracegrpc.NewClient(
		otlptracegrpc.WithEndpoint(Endpoint()),
		otlptracegrpc.WithInsecure(),
	))
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(traceExp),
		trace.WithSampler(trace.ParentBased(trace.NeverSample())),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
		b3.New(b3.WithInjectEncoding(b3.B3MultipleHeader)),
	))

	metricExp, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(Endpoint()),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, errors.Join(err, tp.Shutdown(ctx))
	}

	mp := newMeterProvider(metricExp)
	otel.SetMeterProvider(mp)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(_minimumInterval)); err != nil {
		return nil, errors.Join(err, tp.Shutdown(ctx), mp.Shutdown(ctx))
	}

	return func() error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}

func newMeterProvider(exp metric.Exporter) *metric.MeterProvider {
	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exp,
			metric.WithTimeout(_collectTimeout),
			metric.WithInterval(_collectPeriod),
		)),
		metric.WithView(metric.NewView(
			metric.Instrument{Name: "*", Kind: metric.InstrumentKindHistogram},
			metric.Stream{Aggregation: metric.AggregationExplicitBucketHistogram{Boundaries: _histogramBuckets}},
		)),
	)
}
