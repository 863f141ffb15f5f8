package netutil

import (
	"context"
	"fmt"
	"net"
)

// AcceptOne binds the wildcard address on port, accepts exactly one peer, and closes the
// listening socket immediately after. The listen backlog is the Go runtime's default (the system
// maximum), not 1, since net.ListenConfig does not expose it. Unlike the teacher's server.go (a long-lived multi-route accept loop), this relay is
// explicitly at-most-one-peer (Non-goal: multi-client server behavior).
func AcceptOne(ctx context.Context, port string) (net.Conn, error) {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", net.JoinHostPort("", port))
	if err != nil {
		return nil, fmt.Errorf("netutil: listen on port %s: %w", port, err)
	}

	type acceptResult struct {
		conn net.Conn
		err  error
	}
	resultCh := make(chan acceptResult, 1)
	go func() {
		conn, err := ln.Accept()
		resultCh <- acceptResult{conn, err}
	}()

	select {
	case <-ctx.Done():
		_ = ln.Close()
		<-resultCh // drain the goroutine so it never leaks
		return nil, ctx.Err()
	case res := <-resultCh:
		_ = ln.Close()
		if res.err != nil {
			return nil, fmt.Errorf("netutil: accept on port %s: %w", port, res.err)
		}
		return res.conn, nil
	}
}
