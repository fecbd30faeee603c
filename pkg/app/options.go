package app

import (
	"time"

	"github.com/luizaranda/go-browserkit/pkg/log"
	"github.com/luizaranda/go-browserkit/pkg/telemetry"
)

type Config struct {
	LogLevel   log.Level
	LogOptions []log.Option
	Telemetry  telemetry.Config

	// PoolMetricsInterval is how often connection pool sizes are reported.
	// Zero disables the report.
	PoolMetricsInterval time.Duration
}

// AppOptFunc allows defining custom functions for configuring an Application.
type AppOptFunc func(*Config)

// WithLogLevel sets the level at which the application logger will log.
// Default is Info.
func WithLogLevel(level log.Level) AppOptFunc {
	return func(config *Config) {
		config.LogLevel = level
	}
}

// WithLogOptions sets the options to the application logger.
func WithLogOptions(opts ...log.Option) AppOptFunc {
	return func(config *Config) {
		config.LogOptions = opts
	}
}

// WithTelemetry sets where metrics and spans are sent. Without a statsd
// address or a New Relic license telemetry is discarded.
func WithTelemetry(cfg telemetry.Config) AppOptFunc {
	return func(config *Config) {
		config.Telemetry = cfg
	}
}

// WithPoolMetricsInterval sets how often HTTP connection pool sizes are
// reported as gauges. Zero disables them.
func WithPoolMetricsInterval(d time.Duration) AppOptFunc {
	return func(config *Config) {
		config.PoolMetricsInterval = d
	}
}
