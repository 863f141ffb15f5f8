// Command clawcat is an encrypted netcat-like point-to-point relay: a pre-shared password derives
// an AES-256-GCM session key via PBKDF2, and one TCP connection is relayed frame-by-frame to the
// local terminal, a chat-mode presentation, or a subprocess.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/clawcat/clawcat/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	os.Exit(cli.Run(ctx, cancel))
}
