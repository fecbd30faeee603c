package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/luizaranda/go-browserkit/pkg/log"
	"github.com/luizaranda/go-browserkit/pkg/telemetry"
	"github.com/luizaranda/go-browserkit/pkg/transport"
)

type gaugeRecorder struct {
	telemetry.Client

	mu     sync.Mutex
	gauges map[string]float64
}

func (r *gaugeRecorder) Gauge(name string, value float64, tags []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := name
	for _, tag := range tags {
		key += "|" + tag
	}
	r.gauges[key] = value
}

func TestExportedVarPoolHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	t.Cleanup(srv.Close)

	pooled := transport.NewPooled("app-test")
	t.Cleanup(pooled.CloseIdleConnections)

	res, err := (&http.Client{Transport: pooled}).Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	_ = res.Body.Close()

	rec := &gaugeRecorder{Client: telemetry.NewNoOpClient(), gauges: map[string]float64{}}
	exportedVarPoolHTTP(rec)

	key := _connPoolsMetric + "|pool:app-test|network:tcp:" + srv.Listener.Addr().String()
	if got, ok := rec.gauges[key]; !ok || got != 1 {
		t.Fatalf("gauges = %v", rec.gauges)
	}
}

func TestApplication_Lifecycle(t *testing.T) {
	a, err := New(WithLogLevel(log.DebugLevel), WithPoolMetricsInterval(time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := a.Context(context.Background())
	if log.FromContext(ctx) != a.Logger {
		t.Fatal("context does not carry the application logger")
	}
	if telemetry.FromContext(ctx) != a.Tracer {
		t.Fatal("context does not carry the application tracer")
	}
	if a.Level.Level() != log.DebugLevel {
		t.Fatalf("level = %v", a.Level.Level())
	}

	if err := a.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := a.Shutdown(); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}
