package frame

import (
	"crypto/rand"
	"io"
	"sync"

	ccrypto "github.com/clawcat/clawcat/crypto"
)

// Session holds one process-wide derived key and performs password-based key setup plus framed
// reads/writes over a connected socket. The mutex guards only the key swap in InitFromPassword and
// Teardown; the relay calls ReadFrame from its socket-reader goroutine while its loop calls
// WriteFrame (see package relay). It is not a connection pool
// or a generic net.Conn wrapper the way the teacher's framed_conn.go/aesgcm_conn.go are, because
// spec.md 4.2 treats key setup and frame codec as one layer shared by both read and write paths.
type Session struct {
	mu          sync.Mutex
	engine      *ccrypto.Engine
	initialized bool
}

// NewSession returns an uninitialized framing layer. Read/write operations fail with
// ErrNotInitialized until InitFromPassword succeeds.
func NewSession() *Session {
	return &Session{}
}

// InitFromPassword derives the session key from password (see crypto.DeriveKey) and prepares the
// cipher engine. It warns (via the weak return) but never rejects short passwords. It is
// idempotent: re-initialization replaces prior key material, zeroing the old engine first.
func (s *Session) InitFromPassword(password string) (weak bool, err error) {
	key, weak := ccrypto.DeriveKey(password)
	engine, err := ccrypto.New(key)
	if err != nil {
		return weak, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine != nil {
		s.engine.Destroy()
	}
	s.engine = engine
	s.initialized = true
	return weak, nil
}

// Teardown zeroes the key and releases the cipher engine, marking the session uninitialized.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine != nil {
		s.engine.Destroy()
		s.engine = nil
	}
	s.initialized = false
}

// WriteFrame encrypts plaintext (1..MaxPlaintext bytes) under a fresh random IV and writes the
// resulting frame to socket in one contiguous, length-looped write: header || iv || tag ||
// ciphertext are assembled before any byte is sent, so a short underlying Write only ever retries
// the remainder of an already-complete frame — no other bytes can appear between frames even if
// the socket accepts the write in several syscalls. This gets the same single-write coalescing
// buffered_conn.go motivates for framed writers, without needing a persistent bufio.Writer across
// calls, since the whole frame is known up front.
//
// On success it returns len(plaintext), never a partial count: WriteFrame either sends the whole
// ciphertext or returns a non-nil error with n == 0, so a partial send can never look like success
// at this API boundary (spec design note 9).
func (s *Session) WriteFrame(socket io.Writer, plaintext []byte) (int, error) {
	s.mu.Lock()
	engine, ok := s.engine, s.initialized
	s.mu.Unlock()
	if !ok {
		return 0, ErrNotInitialized
	}

	n := len(plaintext)
	if n < 1 || n > MaxPlaintext {
		return 0, ErrInvalidInput
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return 0, ErrRNGFailure
	}

	ciphertext := make([]byte, n)
	tag := make([]byte, TagSize)
	if err := engine.Encrypt(plaintext, iv, ciphertext, tag); err != nil {
		return 0, err
	}

	frameBuf := make([]byte, 0, HeaderSize+IVSize+TagSize+n)
	hdr := encodeHeader(uint32(n))
	frameBuf = append(frameBuf, hdr[:]...)
	frameBuf = append(frameBuf, iv...)
	frameBuf = append(frameBuf, tag...)
	frameBuf = append(frameBuf, ciphertext...)

	if err := writeFull(socket, frameBuf); err != nil {
		return 0, err
	}
	return n, nil
}

// ReadFrame reads and decrypts exactly one frame from socket into out, whose length bounds the
// largest plaintext this call accepts (the spec's "cap" — idiomatically just len(out) here).
// A clean EOF before any header byte arrives returns (0, nil); a short read mid-header, mid-iv,
// mid-tag, or mid-ciphertext is an *IOError. A decrypt failure is ErrAuthenticationFailed and the
// first length bytes of out are zeroed — the caller must not surface them to a local sink.
func (s *Session) ReadFrame(socket io.Reader, out []byte) (int, error) {
	s.mu.Lock()
	engine, ok := s.engine, s.initialized
	s.mu.Unlock()
	if !ok {
		return 0, ErrNotInitialized
	}
	if len(out) == 0 || len(out) > MaxPlaintext {
		return 0, ErrInvalidInput
	}

	var hdrBuf [HeaderSize]byte
	if _, err := io.ReadFull(socket, hdrBuf[:]); err != nil {
		if err == io.EOF {
			return 0, nil // peer closed before sending anything: clean EOF
		}
		return 0, ioErr(err) // short read mid-header
	}

	length, err := decodeHeader(hdrBuf)
	if err != nil {
		return 0, err
	}
	if int(length) > len(out) {
		return 0, ErrFrameTooLarge
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(socket, iv); err != nil {
		return 0, ioErr(err)
	}
	tag := make([]byte, TagSize)
	if _, err := io.ReadFull(socket, tag); err != nil {
		return 0, ioErr(err)
	}
	ciphertext := make([]byte, length)
	if _, err := io.ReadFull(socket, ciphertext); err != nil {
		return 0, ioErr(err)
	}

	n, err := engine.Decrypt(ciphertext, iv, tag, out[:length])
	if err != nil {
		return 0, ErrAuthenticationFailed
	}
	return n, nil
}

// writeFull loops until the whole buffer is sent. Go's net package already retries EINTR
// transparently, so the only case this handles is a genuine short write (n < len(buf), err ==
// nil), which io.Writer permits and spec.md 4.2 explicitly requires looping on.
func writeFull(w io.Writer, buf []byte) error {
	for len(buf) > 0 {
		n, err := w.Write(buf)
		if err != nil {
			return ioErr(err)
		}
		buf = buf[n:]
	}
	return nil
}
