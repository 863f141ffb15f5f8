/*
Package netutil provides the connect/listen glue the relay engine depends on: resolving and
dialing a remote host:port in client mode, and accepting exactly one peer in listen mode. It is
deliberately thin — generalized down from the teacher's dial.go/server.go, which dial/listen for
an arbitrary chosen transport and support many concurrent routed connections; this relay only ever
speaks TCP to at most one peer (spec.md 1, Non-goals).
*/
package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Connect dials host:port over TCP, honoring an optional connect deadline (timeout == 0 disables
// the deadline). net.Dialer.DialContext already resolves host to all of
// its addresses and tries them in order, family-agnostically, satisfying spec.md 4.3's "resolve
// host/port, on multiple resolved addresses, try each in order" contract without a separate
// resolution step.
func Connect(ctx context.Context, host, port string, timeout time.Duration) (net.Conn, error) {
	dialer := &net.Dialer{}

	dialCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	addr := net.JoinHostPort(host, port)
	conn, err := dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		if errors.Is(dialCtx.Err(), context.DeadlineExceeded) {
			return nil, ErrConnectTimeout
		}
		return nil, fmt.Errorf("netutil: connect to %s: %w", addr, err)
	}
	return conn, nil
}
