package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CheckedEntry is an entry that the logger already agreed to write.
type CheckedEntry = zapcore.CheckedEntry

// SugaredLogger is the loosely typed, printf friendly flavour of Logger.
type SugaredLogger = zap.SugaredLogger

// Logger is a leveled, structured logger. Implementations are safe for
// concurrent use.
type Logger interface {
	Check(lvl Level, msg string) *CheckedEntry
	Named(s string) Logger
	Sugar() *SugaredLogger
	With(fields ...Field) Logger

	// WithLevel returns a child logger restricted to lvl and above. A child
	// can only be more restrictive than its parent.
	WithLevel(lvl Level) Logger

	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	DPanic(msg string, fields ...Field)
	Panic(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Level() Level
	Sync() error
}
