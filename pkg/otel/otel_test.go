package otel

import (
	"context"
	"testing"
)

func TestEndpoint(t *testing.T) {
	t.Setenv("OTEL_HOST", "")
	t.Setenv("OTEL_PORT", "")
	if got := Endpoint(); got != "otel-agent:4317" {
		t.Fatalf("Endpoint() = %q", got)
	}

	t.Setenv("OTEL_HOST", "collector")
	t.Setenv("OTEL_PORT", "55680")
	if got := Endpoint(); got != "collector:55680" {
		t.Fatalf("Endpoint() = %q", got)
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		enabled, disabled string
		want              bool
	}{
		{"", "", false},
		{"true", "", true},
		{"TRUE", "false", true},
		{"true", "true", false},
	}
	for _, tt := range tests {
		t.Setenv("OTEL_AGENT_ENABLED", tt.enabled)
		t.Setenv("OTEL_AGENT_DISABLED", tt.disabled)
		if got := Enabled(); got != tt.want {
			t.Errorf("Enabled() with %q/%q = %v, want %v", tt.enabled, tt.disabled, got, tt.want)
		}
	}
}

func TestStart_DisabledIsNoop(t *testing.T) {
	t.Setenv("OTEL_AGENT_ENABLED", "")
	shutdown, err := Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
