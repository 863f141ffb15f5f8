// Package cli wires the clawcat command line: flag parsing, logging setup, and dispatch into the
// netutil/frame/relay packages that do the actual work.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/clawcat/clawcat/frame"
	"github.com/clawcat/clawcat/netutil"
	"github.com/clawcat/clawcat/relay"
)

// cfg mirrors the teacher's own Option-pattern cfg/Option split (cli/internal/root.go), letting
// tests redirect args/stdio without touching process globals.
type cfg struct {
	args []string
	in   io.Reader
	out  io.Writer
	err  io.Writer
}

type Option func(*cfg)

func WithArgs(args []string) Option { return func(c *cfg) { c.args = args } }
func WithIn(r io.Reader) Option     { return func(c *cfg) { c.in = r } }
func WithOut(w io.Writer) Option    { return func(c *cfg) { c.out = w } }
func WithErr(w io.Writer) Option    { return func(c *cfg) { c.err = w } }

type flags struct {
	key     string
	listen  bool
	port    string
	chat    bool
	timeout int
	verbose int
	exec    string
}

// Run builds and executes the clawcat root command, returning a process exit code.
func Run(ctx context.Context, cancel context.CancelFunc, opts ...Option) (exitCode int) {
	c := cfg{
		args: os.Args[1:],
		in:   os.Stdin,
		out:  os.Stdout,
		err:  os.Stderr,
	}
	for _, o := range opts {
		o(&c)
	}

	var f flags

	cmd := &cobra.Command{
		Use:           "clawcat -k <password> [-c] [-v] [-w sec] host port",
		Short:         "Encrypted netcat-like point-to-point relay",
		Long:          "clawcat relays one TCP session through an AES-256-GCM encrypted frame codec, either to the local terminal or to a subprocess.",
		Version:       "dev",
		// Connect mode takes two positional args (host, port), per spec.md 6's documented
		// invocation; listen mode takes none and gets its port from -p instead.
		Args: func(cmd *cobra.Command, args []string) error {
			if f.listen {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			slog.SetDefault(slog.New(slog.NewTextHandler(c.err, &slog.HandlerOptions{Level: verbosityLevel(f.verbose)})))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var host, port string
			if f.listen {
				port = f.port
			} else {
				host, port = args[0], args[1]
			}
			return runSession(cmd.Context(), cancel, c, f, host, port)
		},
	}

	cmd.SetArgs(c.args)
	cmd.SetIn(c.in)
	cmd.SetOut(c.out)
	cmd.SetErr(c.err)

	defaultHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		defaultHelp(cmd, args)
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), protocolFormat)
	})

	cmd.Flags().StringVarP(&f.key, "key", "k", "", "pre-shared password (required)")
	cmd.Flags().BoolVarP(&f.listen, "listen", "l", false, "listen for a single inbound connection")
	cmd.Flags().StringVarP(&f.port, "port", "p", "", "local port in listen mode (required when -l is set)")
	cmd.Flags().BoolVarP(&f.chat, "chat", "c", false, "decorate the session with timestamped chat lines")
	cmd.Flags().IntVarP(&f.timeout, "timeout", "w", 0, "connect timeout in seconds (connect mode only; 0 disables)")
	cmd.Flags().StringVarP(&f.exec, "exec", "e", "", "pipe the session through this subprocess's stdio")
	cmd.Flags().CountVarP(&f.verbose, "verbose", "v", "increase verbosity; repeatable")

	_ = cmd.MarkFlagRequired("key")

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(c.err, "ERROR:", err)
		return 1
	}
	return 0
}

// verbosityLevel maps a repeated -v count to an slog level: quiet by default (Warn), -v for the
// Info-level session announcements spec.md 4.3 calls for, -vv and beyond for Debug.
func verbosityLevel(count int) slog.Level {
	switch {
	case count <= 0:
		return slog.LevelWarn
	case count == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func runSession(ctx context.Context, cancel context.CancelFunc, c cfg, f flags, host, port string) error {
	if f.listen && port == "" {
		return errors.New("-p <port> is required in listen mode")
	}

	if f.exec != "" {
		info, err := os.Stat(f.exec)
		if err != nil {
			return fmt.Errorf("exec program %q is not reachable: %w", f.exec, err)
		}
		if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
			return fmt.Errorf("exec program %q is not executable", f.exec)
		}
	}

	session := frame.NewSession()
	weak, err := session.InitFromPassword(f.key)
	if err != nil {
		return fmt.Errorf("initialize cipher: %w", err)
	}
	if weak {
		slog.Warn("password is shorter than recommended", "min_length", 8)
	}
	defer session.Teardown()

	var conn net.Conn
	if f.listen {
		slog.Info("listening", "port", port)
		conn, err = netutil.AcceptOne(ctx, port)
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		slog.Info("connect from", "remote", conn.RemoteAddr())
	} else {
		slog.Info("connecting", "host", host, "port", port)
		conn, err = netutil.Connect(ctx, host, port, time.Duration(f.timeout)*time.Second)
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		slog.Info("connected to", "remote", conn.RemoteAddr())
	}
	defer conn.Close()

	var local relay.Endpoint
	if f.exec != "" {
		ep, err := relay.NewSubprocessEndpoint(f.exec)
		if err != nil {
			return fmt.Errorf("start subprocess: %w", err)
		}
		local = ep
		defer local.Close()
	} else {
		local = relay.NewStdioEndpoint(c.in, c.out)
	}

	chat := f.chat && relay.BothTTY()

	engine := relay.New(relay.Config{
		Socket:   conn,
		Local:    local,
		Session:  session,
		Chat:     chat,
		ChatOut:  c.out,
		Listener: f.listen,
		Logger:   slog.Default(),
	})

	runErr := engine.Run(ctx)
	stats := engine.Stats()
	slog.Info("session ended", "bytes_sent", stats.BytesSent, "bytes_received", stats.BytesReceived)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("relay: %w", runErr)
	}
	return nil
}
