/*
Package relay implements the single-threaded, readiness-multiplexed event loop that binds a
socket (through the crypto framing layer), a local endpoint (stdio or a subprocess's pipes), and
chat-mode presentation into the state machine spec.md 4.3 describes:

	INIT --(key ready, socket ready)--> RUNNING
	RUNNING --(peer EOF)--------------> DRAINING_OUT --(local EOF or error)-> CLOSED
	RUNNING --(local EOF)-------------> DRAINING_IN  --(peer EOF)-----------> CLOSED
	RUNNING --(auth/protocol/io error)-> CLOSED (fatal)

Go has no portable way to select() over an arbitrary os.File and a net.Conn in one native call, so
(as with every Go program facing this, including the teacher's own tun.go Relay/halfCopy pairing)
two reader goroutines turn blocking reads into channel readiness; Engine.Run is the single place
that ever interprets that readiness, decides what to write, and mutates relay state — the
readiness-multiplexed loop spec.md 4.3/5 requires, not two independent copy loops.
*/
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/clawcat/clawcat/frame"
)

type sessionState int

const (
	stateInit sessionState = iota
	stateRunning
	stateDrainingOut // peer EOF seen; waiting for local EOF before CLOSED
	stateDrainingIn  // local EOF seen; waiting for peer EOF before CLOSED
	stateClosed
)

// Stats mirrors spec.md 3's relay-state counters.
type Stats struct {
	BytesSent     uint64
	BytesReceived uint64
}

// Config configures one relay session. Socket and Local are both owned by the caller; Engine
// closes Socket only when Run's context is cancelled, and never closes Local.
type Config struct {
	Socket  net.Conn
	Local   Endpoint
	Session *frame.Session

	// Chat enables chat-mode presentation. It has no effect on wire format. Per spec.md 4.3 it is
	// only honored when stdin and stdout are both real terminals (see BothTTY, checked by the
	// caller before setting Chat).
	Chat bool
	// ChatOut is where decorated chat lines are written — "the local terminal" (spec.md 1), kept
	// distinct from Local because Local may be a subprocess's pipes in exec mode, which chat mode
	// never decorates.
	ChatOut io.Writer
	// Listener is true when this side accepted the connection rather than dialing out. It only
	// affects the one-time chat-established banner's local/remote labels (clawsec.c's
	// relay_socket_stdio: is_server picks "Server"/"Client").
	Listener bool

	Logger *slog.Logger
}

// Engine drives the relay loop for one session.
type Engine struct {
	cfg   Config
	state sessionState
	stats Stats
}

// New constructs an Engine in state INIT. The caller must have already established Socket and
// derived the session key (Session.InitFromPassword) before calling Run.
func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{cfg: cfg, state: stateInit}
}

// Stats returns a snapshot of the session's byte counters.
func (e *Engine) Stats() Stats { return e.stats }

type readResult struct {
	data []byte
	err  error // io.EOF marks a clean close; any other non-nil error is fatal
}

// Run drives the loop until both directions have drained or a fatal error occurs. A context
// cancellation (e.g. SIGINT/SIGTERM via the caller's signal.NotifyContext) closes the socket and
// returns ctx.Err() promptly, per spec.md 4.3's cancellation clause.
func (e *Engine) Run(ctx context.Context) error {
	e.state = stateRunning

	if e.cfg.Chat {
		_ = writeFull(e.cfg.ChatOut, []byte(chatEstablishedBanner(e.cfg.Listener)))
	}

	socketCh := make(chan readResult)
	localCh := make(chan readResult)

	go e.readSocketLoop(socketCh)
	go e.readLocalLoop(localCh)

	socketOpen, localOpen := true, true

	for socketOpen || localOpen {
		var sCh, lCh <-chan readResult
		if socketOpen {
			sCh = socketCh
		}
		if localOpen {
			lCh = localCh
		}

		select {
		case <-ctx.Done():
			e.state = stateClosed
			_ = e.cfg.Socket.Close()
			return ctx.Err()

		case res := <-sCh:
			if res.err == io.EOF {
				socketOpen = false
				_ = e.cfg.Local.CloseWrite()
				if !localOpen {
					e.state = stateClosed
					return nil
				}
				e.state = stateDrainingOut
				continue
			}
			if res.err != nil {
				e.state = stateClosed
				return fmt.Errorf("relay: socket read: %w", res.err)
			}
			if err := e.deliverToLocal(res.data); err != nil {
				e.state = stateClosed
				return fmt.Errorf("relay: local write: %w", err)
			}
			e.stats.BytesReceived += uint64(len(res.data))

		case res := <-lCh:
			if res.err == io.EOF {
				localOpen = false
				e.shutdownSocketWrite()
				if !socketOpen {
					e.state = stateClosed
					return nil
				}
				e.state = stateDrainingIn
				continue
			}
			if res.err != nil {
				e.state = stateClosed
				return fmt.Errorf("relay: local read: %w", res.err)
			}
			n, err := e.cfg.Session.WriteFrame(e.cfg.Socket, res.data)
			if err != nil {
				e.state = stateClosed
				return fmt.Errorf("relay: socket write: %w", err)
			}
			if n != len(res.data) {
				e.state = stateClosed
				return fmt.Errorf("relay: socket write: %w", errShortFrameWrite)
			}
			e.stats.BytesSent += uint64(n)
			if e.cfg.Chat {
				e.renderLocalEcho(res.data)
			}
		}
	}

	e.state = stateClosed
	return nil
}

var errShortFrameWrite = errors.New("short frame write")

// readSocketLoop turns blocking ReadFrame calls into channel readiness. One 8192-byte buffer is
// reused across iterations (spec.md 5's "one 8192-byte buffer per direction"); each delivered
// chunk is a fresh copy so the main loop never races the next read.
func (e *Engine) readSocketLoop(out chan<- readResult) {
	buf := make([]byte, frame.MaxPlaintext)
	for {
		n, err := e.cfg.Session.ReadFrame(e.cfg.Socket, buf)
		if err != nil {
			out <- readResult{err: err}
			return
		}
		if n == 0 {
			out <- readResult{err: io.EOF}
			return
		}
		chunk := make([]byte, n)
		copy(chunk, buf[:n])
		out <- readResult{data: chunk}
	}
}

func (e *Engine) readLocalLoop(out chan<- readResult) {
	buf := make([]byte, frame.MaxPlaintext)
	for {
		n, err := e.cfg.Local.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			out <- readResult{data: chunk}
		}
		if err != nil {
			if err == io.EOF {
				out <- readResult{err: io.EOF}
			} else {
				out <- readResult{err: err}
			}
			return
		}
	}
}

// deliverToLocal writes plaintext received from the peer to the local sink: decorated in chat
// mode, byte-for-byte otherwise (spec.md 4.3's local-sink-dispatch rules).
func (e *Engine) deliverToLocal(plaintext []byte) error {
	if e.cfg.Chat {
		rec := newChatRecord(roleRemote, string(plaintext))
		return writeFull(e.cfg.ChatOut, []byte(rec.render()))
	}
	return writeFull(e.cfg.Local, plaintext)
}

// renderLocalEcho decorates a just-sent local chunk with the opposite role/color and writes it to
// ChatOut, per spec.md 4.3: "Locally-typed lines receive the same treatment with the opposite
// role label and color."
func (e *Engine) renderLocalEcho(plaintext []byte) {
	rec := newChatRecord(roleYou, string(plaintext))
	_ = writeFull(e.cfg.ChatOut, []byte(rec.render()))
}

// shutdownSocketWrite issues a write-half shutdown on the socket if it supports one (TCP
// connections do via *net.TCPConn.CloseWrite), per spec.md 4.3's local-EOF handling.
func (e *Engine) shutdownSocketWrite() {
	if cw, ok := e.cfg.Socket.(interface{ CloseWrite() error }); ok {
		_ = cw.CloseWrite()
	}
}

// writeFull loops through partial writes, exactly as spec.md 4.3's plain-mode dispatch requires.
// Go's runtime already retries EINTR transparently for blocking I/O, so only genuine short writes
// need handling here.
func writeFull(w io.Writer, buf []byte) error {
	for len(buf) > 0 {
		n, err := w.Write(buf)
		if err != nil {
			return err
		}
		buf = buf[n:]
	}
	return nil
}
