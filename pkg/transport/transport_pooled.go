package transport

import (
	"expvar"
	"net/http"
	"sync/atomic"

	"github.com/luizaranda/go-browserkit/pkg/telemetry/dialtrace"
	csmap "github.com/mhmtszr/concurrent-swiss-map"
)

var _expvar = expvar.NewMap("browserkit.http.client.conn_pools")

// NewPooled returns a PooledTransport around NewTransport(opts...).
func NewPooled(name string, opts ...Option) *PooledTransport {
	return NewPooledFromTransport(name, NewTransport(opts...))
}

// NewPooledFromTransport decorates the dialer of transport so that open
// connections are counted per network address. The counts are published on
// expvar under name.
func NewPooledFromTransport(name string, transport *http.Transport) *PooledTransport {
	t := &PooledTransport{
		Transport: transport,
		Name:      name,
		stats:     csmap.Create[string, *int64](),
	}

	dial := transport.DialContext
	if dial == nil {
		dial = NewTransport().DialContext
	}

	t.DialContext = dialtrace.NewTracedDialer(dial, dialtrace.DialerTrace{
		GotConn:   t.traceConn(1),
		CloseConn: t.traceConn(-1),
	})

	_expvar.Set(t.Name, expvar.Func(func() any { return t.Stats() }))

	return t
}

// PooledTransport is an *http.Transport that knows how many connections it
// holds per "network:address".
type PooledTransport struct {
	*http.Transport

	Name  string
	stats *csmap.CsMap[string, *int64]
}

func (t *PooledTransport) traceConn(delta int64) func(network, address string) {
	return func(network, address string) {
		key := network + ":" + address
		t.stats.SetIfAbsent(key, new(int64))
		if counter, ok := t.stats.Load(key); ok {
			atomic.AddInt64(counter, delta)
		}
	}
}

// Stats returns the open connection count per address.
func (t *PooledTransport) Stats() map[string]int64 {
	stats := make(map[string]int64)
	t.stats.Range(func(key string, value *int64) (stop bool) {
		stats[key] = atomic.LoadInt64(value)
		return false
	})
	return stats
}
