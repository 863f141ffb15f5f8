package frame

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newSessionPair(t *testing.T, password string) (client, server *Session) {
	t.Helper()
	client = NewSession()
	server = NewSession()
	_, err := client.InitFromPassword(password)
	require.NoError(t, err)
	_, err = server.InitFromPassword(password)
	require.NoError(t, err)
	return client, server
}

func TestWriteReadRoundTrip(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	t.Cleanup(func() { _ = clientConn.Close(); _ = serverConn.Close() })

	client, server := newSessionPair(t, "s3cretword")

	msg := []byte("hello\n")
	done := make(chan error, 1)
	go func() {
		_, err := client.WriteFrame(clientConn, msg)
		done <- err
	}()

	out := make([]byte, MaxPlaintext)
	n, err := server.ReadFrame(serverConn, out)
	require.NoError(t, <-done)
	require.NoError(t, err)
	require.Equal(t, msg, out[:n])
}

func TestFramingAtomicity(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	t.Cleanup(func() { _ = clientConn.Close(); _ = serverConn.Close() })

	client := NewSession()
	_, err := client.InitFromPassword("s3cretword")
	require.NoError(t, err)

	msg := []byte("abc")
	readBuf := make([]byte, HeaderSize+IVSize+TagSize+len(msg))
	readDone := make(chan error, 1)
	go func() {
		_, err := io.ReadFull(serverConn, readBuf)
		readDone <- err
	}()

	time.Sleep(10 * time.Millisecond)
	n, err := client.WriteFrame(clientConn, msg)
	require.NoError(t, err)
	require.Equal(t, len(msg), n)
	require.NoError(t, <-readDone)

	length := binary.BigEndian.Uint32(readBuf[8:12])
	require.EqualValues(t, len(msg), length)
	require.Len(t, readBuf, HeaderSize+IVSize+TagSize+len(msg))
}

func TestReadFrameCleanEOF(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	server := NewSession()
	_, err := server.InitFromPassword("s3cretword")
	require.NoError(t, err)

	go func() { _ = clientConn.Close() }()

	out := make([]byte, MaxPlaintext)
	n, err := server.ReadFrame(serverConn, out)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestReadFrameWrongPassword(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	t.Cleanup(func() { _ = clientConn.Close(); _ = serverConn.Close() })

	client := NewSession()
	_, err := client.InitFromPassword("goodpass1")
	require.NoError(t, err)
	server := NewSession()
	_, err = server.InitFromPassword("badpass12")
	require.NoError(t, err)

	go func() { _, _ = client.WriteFrame(clientConn, []byte("ping")) }()

	out := make([]byte, MaxPlaintext)
	_, err = server.ReadFrame(serverConn, out)
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestReadFrameBitFlipInCiphertext(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	t.Cleanup(func() { _ = clientConn.Close(); _ = serverConn.Close() })

	client, server := newSessionPair(t, "s3cretword")

	go func() { _, _ = client.WriteFrame(clientConn, []byte("abc")) }()

	fullLen := HeaderSize + IVSize + TagSize + 3
	raw := make([]byte, fullLen)
	_, err := io.ReadFull(serverConn, raw)
	require.NoError(t, err)
	raw[HeaderSize+IVSize+TagSize] ^= 0x01 // flip bit 0 of first ciphertext byte

	fakeSocket := &bufferReader{buf: raw}
	out := make([]byte, MaxPlaintext)
	_, err = server.ReadFrame(fakeSocket, out)
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestWriteFrameOversizedChunk(t *testing.T) {
	clientConn, _ := net.Pipe()
	defer clientConn.Close()
	client := NewSession()
	_, err := client.InitFromPassword("s3cretword")
	require.NoError(t, err)

	_, err = client.WriteFrame(clientConn, make([]byte, MaxPlaintext+1))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReadFrameBadMagic(t *testing.T) {
	raw := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(raw[0:4], 0xDEADBEEF)
	fakeSocket := &bufferReader{buf: raw}

	server := NewSession()
	_, err := server.InitFromPassword("s3cretword")
	require.NoError(t, err)

	out := make([]byte, MaxPlaintext)
	_, err = server.ReadFrame(fakeSocket, out)
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestNotInitializedFails(t *testing.T) {
	clientConn, _ := net.Pipe()
	defer clientConn.Close()
	s := NewSession()
	_, err := s.WriteFrame(clientConn, []byte("x"))
	require.ErrorIs(t, err, ErrNotInitialized)
}

// bufferReader adapts a fixed byte slice to io.Reader for tests that need to inspect/tamper with
// exact on-wire bytes before handing them to ReadFrame.
type bufferReader struct {
	buf []byte
	off int
}

func (b *bufferReader) Read(p []byte) (int, error) {
	if b.off >= len(b.buf) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[b.off:])
	b.off += n
	return n, nil
}
