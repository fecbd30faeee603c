package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a logging priority.
type Level = zapcore.Level

const (
	DebugLevel  = zapcore.DebugLevel
	InfoLevel   = zapcore.InfoLevel
	WarnLevel   = zapcore.WarnLevel
	ErrorLevel  = zapcore.ErrorLevel
	DPanicLevel = zapcore.DPanicLevel
	PanicLevel  = zapcore.PanicLevel
	FatalLevel  = zapcore.FatalLevel
)

// AtomicLevel is a level that can be changed at runtime for a whole tree of
// loggers. It must be built with NewAtomicLevel or NewAtomicLevelAt.
type AtomicLevel = zap.AtomicLevel

// NewAtomicLevelAt returns an AtomicLevel set to l.
func NewAtomicLevelAt(l Level) AtomicLevel {
	return zap.NewAtomicLevelAt(l)
}

// ParseLevel parses a level name such as "debug" or "WARN". An empty string
// is InfoLevel.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return InfoLevel, nil
	}
	return zapcore.ParseLevel(s)
}
