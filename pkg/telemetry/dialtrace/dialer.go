// Package dialtrace decorates dial functions with connection lifecycle hooks.
package dialtrace

import (
	"context"
	"net"
)

// DialContextFunc has the signature of net.Dialer.DialContext.
type DialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

// DialerTrace is a set of hooks called around a dial. Any hook may be nil and
// hooks may run concurrently.
type DialerTrace struct {
	GotConn   func(network, address string)
	ConnError func(network, address string, err error)
	CloseConn func(network, address string)
}

// NewTracedDialer wraps dial so that every connection reports to trace.
func NewTracedDialer(dial DialContextFunc, trace DialerTrace) DialContextFunc {
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		conn, err := dial(ctx, network, address)
		if err != nil {
			if trace.ConnError != nil {
				trace.ConnError(network, address, err)
			}
			return nil, err
		}

		if trace.GotConn != nil {
			trace.GotConn(network, address)
		}

		return &tracedConn{
			Conn: conn,
			onClose: func() {
				if trace.CloseConn != nil {
					trace.CloseConn(network, address)
				}
			},
		}, nil
	}
}

type tracedConn struct {
	net.Conn

	closed  bool
	onClose func()
}

// Close closes the connection and reports it once, even if Close is called
// again by the pool.
func (c *tracedConn) Close() error {
	err := c.Conn.Close()
	if !c.closed {
		c.closed = true
		c.onClose()
	}
	return err
}
