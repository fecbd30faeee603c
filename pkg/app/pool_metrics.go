package app

import (
	"context"
	"expvar"
	"time"

	"github.com/bytedance/sonic"
	"github.com/luizaranda/go-browserkit/pkg/telemetry"
)

const (
	_connPoolsVar    = "browserkit.http.client.conn_pools"
	_connPoolsMetric = "browserkit.http.client.conn_pool"
)

func exportedVarPolling(ctx context.Context, tracer telemetry.Client, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			exportedVarPoolHTTP(tracer)
		case <-ctx.Done():
			return
		}
	}
}

// pooledTransportPoolInfo is pool name -> "network:address" -> open conns.
type pooledTransportPoolInfo map[string]map[string]int64

func exportedVarPoolHTTP(tracer telemetry.Client) {
	v := expvar.Get(_connPoolsVar)
	if v == nil {
		return
	}

	var info pooledTransportPoolInfo
	if err := sonic.UnmarshalString(v.String(), &info); err != nil {
		return
	}

	for pool, v := range info {
		for network, conns := range v {
			tracer.Gauge(_connPoolsMetric, float64(conns), telemetry.Tags("pool", pool, "network", network))
		}
	}
}
