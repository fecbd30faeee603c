package log

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogger is used whenever a context carries no logger. It discards
// everything until replaced, which the CLI does at start up.
var DefaultLogger Logger = &logger{Logger: zap.NewNop()}

// NewProductionLogger builds a logger that writes entries at lvl and above.
// The level may be changed at runtime through lvl.
//
// Defaults: JSON encoding to standard error, caller annotation and
// stacktraces on ErrorLevel and above.
func NewProductionLogger(lvl *AtomicLevel, opts ...Option) Logger {
	cfg := logConfig{
		levelKey:   "level",
		caller:     true,
		callerSkip: 1,
		stacktrace: true,
		writer:     _stderr,
		encoder:    zapcore.NewJSONEncoder,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var zapOptions []zap.Option
	if cfg.caller {
		zapOptions = append(zapOptions, zap.AddCaller(), zap.AddCallerSkip(cfg.callerSkip))
	}
	if cfg.stacktrace {
		zapOptions = append(zapOptions, zap.AddStacktrace(zap.ErrorLevel))
	}
	zapOptions = append(zapOptions, wrapCoreWithLevel(lvl))

	return &logger{Logger: zap.New(newCore(cfg), zapOptions...)}
}

type logger struct {
	*zap.Logger
}

var _ Logger = (*logger)(nil)

func (l *logger) WithLevel(level Level) Logger {
	lvl := zap.NewAtomicLevelAt(level)
	return &logger{Logger: l.Logger.WithOptions(wrapCoreWithLevel(&lvl))}
}

func (l *logger) With(fields ...Field) Logger {
	return &logger{Logger: l.Logger.With(fields...)}
}

func (l *logger) Named(s string) Logger {
	return &logger{Logger: l.Logger.Named(s)}
}

func (l *logger) Level() Level {
	return zapcore.LevelOf(l.Core())
}

// WriteSyncer is an io.Writer that can flush buffered data.
type WriteSyncer interface {
	io.Writer
	Sync() error
}

type logConfig struct {
	levelKey   string
	caller     bool
	callerSkip int
	stacktrace bool
	writer     WriteSyncer
	encoder    func(zapcore.EncoderConfig) zapcore.Encoder
}

// Option configures a Logger built by NewProductionLogger.
type Option func(*logConfig)

// WithLevelKey sets the key used for the entry level. Default "level".
func WithLevelKey(key string) Option {
	return func(c *logConfig) { c.levelKey = key }
}

// WithCaller toggles the "caller" key. Default true.
func WithCaller(b bool) Option {
	return func(c *logConfig) { c.caller = b }
}

// WithCallerSkip sets how many frames are skipped when annotating the caller.
// Default 1, which skips the package level helpers in context.go.
func WithCallerSkip(skip int) Option {
	return func(c *logConfig) { c.callerSkip = skip }
}

// WithStacktraceOnError toggles stacktraces on ErrorLevel entries. Default true.
func WithStacktraceOnError(b bool) Option {
	return func(c *logConfig) { c.stacktrace = b }
}

// WithJSONEncoding encodes entries as JSON objects. This is the default.
func WithJSONEncoding() Option {
	return func(c *logConfig) { c.encoder = zapcore.NewJSONEncoder }
}

// WithConsoleEncoding encodes entries for humans reading a terminal.
func WithConsoleEncoding() Option {
	return func(c *logConfig) { c.encoder = zapcore.NewConsoleEncoder }
}

// WithWriter sets the destination of the log entries. Default stderr.
func WithWriter(w WriteSyncer) Option {
	return func(c *logConfig) { c.writer = w }
}

// Writes to stderr are shared by every logger instance.
var _stderr = zapcore.Lock(zapcore.AddSync(os.Stderr))

func newCore(cfg logConfig) zapcore.Core {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       cfg.levelKey,
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     rfc3339MicroTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	// The core logs everything; coreWithLevel does the filtering.
	return zapcore.NewCore(cfg.encoder(encoderConfig), cfg.writer, zapcore.DebugLevel)
}

func rfc3339MicroTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	const rfc3339Micro = "2006-01-02T15:04:05.000000Z07:00"
	enc.AppendString(t.UTC().Format(rfc3339Micro))
}
