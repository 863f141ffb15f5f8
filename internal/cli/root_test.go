package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunRequiresKey(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := Run(context.Background(), func() {},
		WithArgs([]string{"127.0.0.1", "1"}),
		WithOut(&out),
		WithErr(&errBuf),
	)
	require.Equal(t, 1, code)
	require.Contains(t, errBuf.String(), "required")
}

func TestRunRequiresTwoPositionalArgsWhenConnecting(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := Run(context.Background(), func() {},
		WithArgs([]string{"-k", "secret password"}),
		WithOut(&out),
		WithErr(&errBuf),
	)
	require.Equal(t, 1, code)
	require.Contains(t, errBuf.String(), "arg(s)")
}

func TestRunAcceptsHostAndPortAsPositionalArgsInConnectMode(t *testing.T) {
	// host/port are positional in connect mode (spec.md 6), not via -p. Port 1 on loopback
	// refuses instantly, so this exercises argument parsing/dispatch without hanging on I/O.
	var out, errBuf bytes.Buffer
	code := Run(context.Background(), func() {},
		WithArgs([]string{"-k", "secret password", "127.0.0.1", "1"}),
		WithOut(&out),
		WithErr(&errBuf),
	)
	require.Equal(t, 1, code)
	require.Contains(t, errBuf.String(), "connect")
}

func TestRunListenModeRejectsPositionalArgs(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := Run(context.Background(), func() {},
		WithArgs([]string{"-k", "secret password", "-l", "-p", "9000", "extra-positional-arg"}),
		WithOut(&out),
		WithErr(&errBuf),
	)
	require.Equal(t, 1, code)
	require.Contains(t, errBuf.String(), "unknown command")
}

func TestRunListenModeRequiresPortFlag(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := Run(context.Background(), func() {},
		WithArgs([]string{"-k", "secret password", "-l"}),
		WithOut(&out),
		WithErr(&errBuf),
	)
	require.Equal(t, 1, code)
	require.Contains(t, errBuf.String(), "-p <port> is required in listen mode")
}

func TestRunHelpIncludesProtocolFormat(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := Run(context.Background(), func() {},
		WithArgs([]string{"--help"}),
		WithOut(&out),
		WithErr(&errBuf),
	)
	require.Equal(t, 0, code)
	require.True(t, strings.Contains(out.String(), "Wire Frame Format"))
}

func TestRunRejectsUnreachableExecProgram(t *testing.T) {
	var out, errBuf bytes.Buffer
	code := Run(context.Background(), func() {},
		WithArgs([]string{"-k", "secret password", "-l", "-p", "9000", "-e", "/no/such/program"}),
		WithOut(&out),
		WithErr(&errBuf),
	)
	require.Equal(t, 1, code)
	require.Contains(t, errBuf.String(), "not reachable")
}
