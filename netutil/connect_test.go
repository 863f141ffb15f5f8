package netutil

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectSuccess(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		c, err := ln.Accept()
		if err == nil {
			_ = c.Close()
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	conn, err := Connect(context.Background(), host, port, time.Second)
	require.NoError(t, err)
	defer conn.Close()
}

func TestConnectTimeout(t *testing.T) {
	// 192.0.2.0/24 is TEST-NET-1 (RFC 5737): guaranteed non-routable, so the dial will hang until
	// the deadline rather than fail fast with connection refused.
	_, err := Connect(context.Background(), "192.0.2.1", "81", 50*time.Millisecond)
	require.Error(t, err)
}
