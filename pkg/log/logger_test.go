package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func newBufferedLogger(t *testing.T, lvl Level) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	level := NewAtomicLevelAt(lvl)
	return NewProductionLogger(&level, WithWriter(zapcore.AddSync(&buf)), WithCaller(false)), &buf
}

func TestProductionLogger_FiltersByLevel(t *testing.T) {
	l, buf := newBufferedLogger(t, InfoLevel)

	l.Debug("hidden")
	l.Info("shown", String("method", "GET"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry written at info level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"method":"GET"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestWithLevel_OnlyRestricts(t *testing.T) {
	l, buf := newBufferedLogger(t, InfoLevel)

	child := l.WithLevel(WarnLevel)
	child.Info("child info")
	child.Warn("child warn")

	out := buf.String()
	if strings.Contains(out, "child info") {
		t.Fatalf("child logged below its level: %s", out)
	}
	if !strings.Contains(out, "child warn") {
		t.Fatalf("child warn missing: %s", out)
	}
	if got := child.Level(); got != WarnLevel {
		t.Fatalf("Level() = %v, want warn", got)
	}
}

func TestContextLogger(t *testing.T) {
	l, buf := newBufferedLogger(t, DebugLevel)

	ctx := Context(context.Background(), l)
	ctx = With(ctx, String("component", "requests"))
	Debug(ctx, "resolved options")

	if !strings.Contains(buf.String(), `"component":"requests"`) {
		t.Fatalf("context fields missing: %s", buf.String())
	}
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	if FromContext(context.Background()) != DefaultLogger {
		t.Fatal("expected DefaultLogger for bare context")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		err  bool
	}{
		{"", InfoLevel, false},
		{"debug", DebugLevel, false},
		{"WARN", WarnLevel, false},
		{"loud", InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.err {
			t.Fatalf("ParseLevel(%q) err = %v", tt.in, err)
		}
		if err == nil && got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
