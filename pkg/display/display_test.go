package display

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/luizaranda/go-browserkit/pkg/log"
	"go.uber.org/zap/zapcore"
)

func TestIsRetina(t *testing.T) {
	var gotQuery string
	matcher := func(matches bool, err error) MediaMatcher {
		return MediaMatcherFunc(func(_ context.Context, query string) (bool, error) {
			gotQuery = query
			return matches, err
		})
	}

	tests := []struct {
		name string
		m    MediaMatcher
		want bool
	}{
		{"no screen", nil, false},
		{"retina", matcher(true, nil), true},
		{"standard", matcher(false, nil), false},
		{"failing matcher", matcher(true, errors.New("tab crashed")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetina(context.Background(), tt.m); got != tt.want {
				t.Fatalf("IsRetina = %v, want %v", got, tt.want)
			}
		})
	}

	if gotQuery != RetinaQuery {
		t.Fatalf("query = %q", gotQuery)
	}
}

func TestIsRetina_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	lvl := log.NewAtomicLevelAt(log.DebugLevel)
	logger := log.NewProductionLogger(&lvl, log.WithWriter(zapcore.AddSync(&buf)))
	ctx := log.Context(context.Background(), logger)

	failing := MediaMatcherFunc(func(context.Context, string) (bool, error) {
		return false, errors.New("tab crashed")
	})
	IsRetina(ctx, failing)

	if !strings.Contains(buf.String(), "tab crashed") {
		t.Fatalf("log output = %q", buf.String())
	}
}
