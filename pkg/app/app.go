// Package app wires the process wide components a browserkit program needs:
// the logger, the telemetry client and the OpenTelemetry providers.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/luizaranda/go-browserkit/pkg/log"
	"github.com/luizaranda/go-browserkit/pkg/otel"
	"github.com/luizaranda/go-browserkit/pkg/telemetry"
)

// Application is a container struct that contains the base components shared
// by every command.
type Application struct {
	Logger log.Logger
	Level  *log.AtomicLevel
	Tracer telemetry.Client

	cancel   context.CancelFunc
	pollDone chan struct{}

	otelShutdownFunc otel.ShutdownFunc
	shutdownOnce     sync.Once
	shutdownErr      error
}

// New instantiates an Application using the given configuration.
// Sane defaults are provided.
func New(opts ...AppOptFunc) (*Application, error) {
	config := Config{
		LogLevel:            log.InfoLevel,
		PoolMetricsInterval: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&config)
	}

	// We must start OTel before any other dependency since
	// there are components that require the global provider to be set.
	otelShutdownFunc, err := otel.Start(context.Background())
	if err != nil {
		return nil, err
	}

	tracer, err := newTracer(config.Telemetry)
	if err != nil {
		return nil, errors.Join(err, otelShutdownFunc())
	}

	logger, level := newLogger(config)

	ctx, cancel := context.WithCancel(context.Background())
	a := &Application{
		Logger:           logger,
		Level:            level,
		Tracer:           tracer,
		cancel:           cancel,
		pollDone:         make(chan struct{}),
		otelShutdownFunc: otelShutdownFunc,
	}

	go func() {
		defer close(a.pollDone)
		if config.PoolMetricsInterval > 0 {
			exportedVarPolling(ctx, tracer, config.PoolMetricsInterval)
		}
	}()

	return a, nil
}

// Context returns a copy of ctx carrying the application logger and tracer,
// which is what the package level log and telemetry functions read.
func (a *Application) Context(ctx context.Context) context.Context {
	ctx = log.Context(ctx, a.Logger)
	return telemetry.Context(ctx, a.Tracer)
}

// Shutdown stops the background work and flushes telemetry. It is safe to
// call more than once.
func (a *Application) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.cancel()
		<-a.pollDone

		a.shutdownErr = errors.Join(
			a.Tracer.Close(),
			a.otelShutdownFunc(),
		)
		// Syncing stderr fails on some platforms; nothing to do about it.
		_ = a.Logger.Sync()
	})
	return a.shutdownErr
}

func newLogger(cfg Config) (log.Logger, *log.AtomicLevel) {
	l := log.NewAtomicLevelAt(cfg.LogLevel)
	return log.NewProductionLogger(&l, cfg.LogOptions...), &l
}

func newTracer(cfg telemetry.Config) (telemetry.Client, error) {
	if cfg.StatsdAddress == "" && cfg.NewRelicLicense == "" {
		return telemetry.NewNoOpClient(), nil
	}
	return telemetry.NewClient(cfg)
}
