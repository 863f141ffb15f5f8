package relay

import (
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Endpoint is the relay's local side of the session: a byte source/sink that is either local
// stdio or a subprocess's pipes. Spec design note 9 calls for modeling this as "an abstract
// duplex_byte_channel capability with variants {stdio, subprocess_pipes}, letting the loop body
// remain identical" — generalized here from the teacher's Handler/Tun style of depending on an
// interface rather than a concrete net.Conn.
type Endpoint interface {
	io.Reader
	io.Writer
	// CloseWrite signals EOF to whatever is reading this endpoint's write side, without closing
	// the read side. It mirrors a TCP half-close and is what the relay issues on peer EOF.
	CloseWrite() error
	Close() error
}

// stdioEndpoint wraps the process's own standard input/output.
type stdioEndpoint struct {
	in  io.Reader
	out io.Writer
}

// NewStdioEndpoint wraps in/out (normally os.Stdin/os.Stdout) as the relay's local endpoint.
func NewStdioEndpoint(in io.Reader, out io.Writer) Endpoint {
	return &stdioEndpoint{in: in, out: out}
}

func (e *stdioEndpoint) Read(p []byte) (int, error)  { return e.in.Read(p) }
func (e *stdioEndpoint) Write(p []byte) (int, error) { return e.out.Write(p) }

// CloseWrite is a no-op: stdio has no OS-level half-close, and the process owns its own stdio
// handles for its whole lifetime regardless of what the relay does with them.
func (e *stdioEndpoint) CloseWrite() error { return nil }
func (e *stdioEndpoint) Close() error      { return nil }

// subprocessEndpoint bridges a real child process's stdin/stdout through anonymous pipes. There
// is no in-process alternative: exec mode always implies a real subprocess boundary (spec.md 4.3).
type subprocessEndpoint struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
}

// NewSubprocessEndpoint launches program (with no arguments, matching spec.md 6's "-e program
// path") and wires its stdin/stdout as the relay's local endpoint; its stderr is inherited so
// diagnostics from the child still reach the operator's terminal.
func NewSubprocessEndpoint(program string) (Endpoint, error) {
	cmd := exec.Command(program)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("relay: subprocess stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("relay: subprocess stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("relay: start subprocess %q: %w", program, err)
	}
	return &subprocessEndpoint{cmd: cmd, stdin: stdin, stdout: stdout}, nil
}

func (e *subprocessEndpoint) Read(p []byte) (int, error)  { return e.stdout.Read(p) }
func (e *subprocessEndpoint) Write(p []byte) (int, error) { return e.stdin.Write(p) }

// CloseWrite closes the child's stdin, delivering EOF to it the same way a network half-close
// would to a peer.
func (e *subprocessEndpoint) CloseWrite() error { return e.stdin.Close() }

func (e *subprocessEndpoint) Close() error {
	_ = e.stdin.Close()
	_ = e.stdout.Close()
	if e.cmd.Process != nil {
		_ = e.cmd.Process.Kill()
	}
	_ = e.cmd.Wait()
	return nil
}
