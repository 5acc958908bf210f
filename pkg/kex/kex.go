// Package kex holds key-exchange building blocks: X25519 ephemeral key
// agreement and the exchange-hash input whose digest identifies the
// session and signs the server's reply.
package kex

import (
	"crypto/rand"
	"hash"
	"io"
	"math/big"

	"golang.org/x/crypto/curve25519"

	"sshwire/pkg/msg"
	"sshwire/pkg/wire"
)

// GenerateKeyPair creates a clamped X25519 ephemeral key pair. The private
// scalar is wrapped in a scoped secret buffer; erase it once the shared
// secret is derived.
func GenerateKeyPair() (private *wire.Secret, public []byte, err error) {
	scalar := make([]byte, curve25519.ScalarSize)
	if _, err := io.ReadFull(rand.Reader, scalar); err != nil {
		return nil, nil, err
	}

	// Clamp per the X25519 spec.
	scalar[0] &= 248
	scalar[31] &= 127
	scalar[31] |= 64

	public, err = curve25519.X25519(scalar, curve25519.Basepoint)
	if err != nil {
		return nil, nil, err
	}
	return wire.NewSecret(scalar), public, nil
}

// SharedSecret derives the X25519 shared secret between a private scalar
// and the peer's public key.
func SharedSecret(private *wire.Secret, peerPublic []byte) (*wire.Secret, error) {
	shared, err := curve25519.X25519(private.Bytes(), peerPublic)
	if err != nil {
		return nil, err
	}
	return wire.NewSecret(shared), nil
}

// SecretInt interprets shared-secret bytes as the positive integer the
// exchange hash encodes.
func SecretInt(shared *wire.Secret) *big.Int {
	return new(big.Int).SetBytes(shared.Bytes())
}

// ExchangeHash is the input whose digest becomes the exchange hash H.
// Field order is fixed by RFC 5656 section 4: identification strings,
// both negotiation payloads embedded whole under their own length
// prefixes, the host key, both ephemeral public keys and the shared
// secret as an mpint.
type ExchangeHash struct {
	ClientIdent     wire.Bytes
	ServerIdent     wire.Bytes
	ClientKexInit   *msg.KexInit
	ServerKexInit   *msg.KexInit
	HostKey         wire.Bytes
	ClientEphemeral wire.Bytes
	ServerEphemeral wire.Bytes
	SharedSecret    *big.Int
}

// kexInitPayload marshals a negotiation message with its number byte, the
// form the exchange hash embeds.
type kexInitPayload struct {
	m *msg.KexInit
}

func (p kexInitPayload) Marshal(w *wire.Writer) {
	msg.Marshal(w, p.m)
}

func (h *ExchangeHash) Marshal(w *wire.Writer) {
	h.ClientIdent.Marshal(w)
	h.ServerIdent.Marshal(w)
	wire.MarshalLengthPrefixed(w, kexInitPayload{h.ClientKexInit})
	wire.MarshalLengthPrefixed(w, kexInitPayload{h.ServerKexInit})
	h.HostKey.Marshal(w)
	h.ClientEphemeral.Marshal(w)
	h.ServerEphemeral.Marshal(w)
	w.WriteMpInt(h.SharedSecret)
}

// Sum serializes the input and digests it with hash.
func (h *ExchangeHash) Sum(digest hash.Hash) ([]byte, error) {
	w := wire.NewWriter()
	h.Marshal(w)
	b, err := w.Bytes()
	if err != nil {
		return nil, err
	}
	digest.Reset()
	digest.Write(b)
	return digest.Sum(nil), nil
}
