// Package packet implements the binary packet envelope of the SSH transport
// layer: compression, padding, encryption and message authentication applied
// in the protocol's mandated order, with a monotonic per-direction sequence
// number bound into every MAC.
//
// The framer owns no cryptographic state. Each call consumes a caller-owned
// cipher capability and the current sequence number; the caller advances the
// counter by exactly one after each successful call in that direction.
package packet

import "errors"

// Packet size bounds, excluding the MAC trailer.
const (
	// MaxSize is the maximum size for a packet, coincidentally the
	// maximum size for a TCP packet.
	MaxSize = 65535

	// MinSize is the minimum size for a packet, coincidentally the
	// largest block cipher's block-size.
	MinSize = 16
)

// minPadding is the smallest padding a packet may carry, per RFC 4253.
const minPadding = 4

// Framing error kinds. ErrAuthFailure and ErrOversized are fatal for the
// connection; this layer never retries.
var (
	// ErrOversized indicates a declared packet length above MaxSize,
	// detected before any further bytes are read from the stream.
	ErrOversized = errors.New("packet: length exceeds maximum size")

	// ErrTooSmall indicates a declared packet length too small to hold
	// the padding-length byte and block-aligned content.
	ErrTooSmall = errors.New("packet: length below minimum size")

	// ErrPaddingTooLarge indicates a padding length inconsistent with the
	// declared packet length.
	ErrPaddingTooLarge = errors.New("packet: padding length exceeds packet length")

	// ErrAuthFailure indicates MAC verification failed. It is deliberately
	// opaque: nothing about the cause is revealed, and no decrypted
	// content may be acted upon once it is returned.
	ErrAuthFailure = errors.New("packet: message authentication failed")
)

// Packet is the decrypted, decompressed payload of one transport unit.
// It has no identity beyond its bytes; ownership transfers to the
// message-decode step as soon as Read returns it.
type Packet []byte
