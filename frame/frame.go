/*
Package frame turns a raw duplex byte stream into a duplex stream of encrypted, self-describing
frames. Each outbound plaintext chunk becomes exactly one frame on the wire:

	magic(4) version(2) flags(2) length(4) iv(12) tag(16) ciphertext(length)

magic/version/flags/length travel as a big-endian header; iv and tag are raw AES-GCM material.
There is no session preamble, handshake, or trailer — a conformant peer produces and consumes a
back-to-back stream of these frames.

This is the generalization of the teacher's framed_conn.go length-prefixed framing: the same
fixed-width-header-then-body shape, extended with the magic/version/flags/iv/tag fields an
authenticated, versioned protocol needs.
*/
package frame

import "encoding/binary"

const (
	// Magic identifies the protocol on the wire: the ASCII bytes "CLAW".
	Magic uint32 = 0x434C4157
	// Version is the only protocol version this build speaks.
	Version uint16 = 0x0001
	// flagsReserved must always be zero; no flag bits are defined yet.
	flagsReserved uint16 = 0x0000

	// HeaderSize is the fixed-width magic+version+flags+length prefix.
	HeaderSize = 4 + 2 + 2 + 4
	// IVSize is the AES-GCM nonce carried in clear immediately after the header.
	IVSize = 12
	// TagSize is the AES-GCM authentication tag carried immediately after the IV.
	TagSize = 16
	// MaxPlaintext is the largest plaintext chunk (and thus ciphertext) one frame may carry.
	MaxPlaintext = 8192
)

// encodeHeader writes the 12-byte header for a frame carrying length bytes of ciphertext.
func encodeHeader(length uint32) [HeaderSize]byte {
	var hdr [HeaderSize]byte
	binary.BigEndian.PutUint32(hdr[0:4], Magic)
	binary.BigEndian.PutUint16(hdr[4:6], Version)
	binary.BigEndian.PutUint16(hdr[6:8], flagsReserved)
	binary.BigEndian.PutUint32(hdr[8:12], length)
	return hdr
}

// decodeHeader parses a 12-byte header, validating magic and version per the read_frame contract:
// a magic mismatch is ErrProtocolError (permanent, peer or password likely wrong), an unexpected
// version is ErrUnsupportedVersion, and a length outside [1, MaxPlaintext] is ErrFrameTooLarge.
func decodeHeader(hdr [HeaderSize]byte) (length uint32, err error) {
	magic := binary.BigEndian.Uint32(hdr[0:4])
	if magic != Magic {
		return 0, ErrProtocolError
	}
	version := binary.BigEndian.Uint16(hdr[4:6])
	if version != Version {
		return 0, ErrUnsupportedVersion
	}
	length = binary.BigEndian.Uint32(hdr[8:12])
	if length == 0 || length > MaxPlaintext {
		return 0, ErrFrameTooLarge
	}
	return length, nil
}
