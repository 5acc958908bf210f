// Package suites provides concrete cipher capabilities for the packet
// framer: the identity suite used before the first key exchange, stream
// suites built on AES-CTR and ChaCha20 authenticated with HMAC-SHA-256,
// optional zlib payload compression, and key-material derivation from a
// key-exchange shared secret.
package suites

import (
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"

	"sshwire/pkg/packet"
	"sshwire/pkg/wire"
)

// Suite is both halves of a cipher capability. One instance carries a
// single keystream state, so use each instance for exactly one direction:
// sealing on the send side or opening on the receive side, never both.
type Suite interface {
	packet.Opener
	packet.Sealer
}

// headerSize counts the length field and the padding-length byte.
const headerSize = 5

// paddingLength picks the smallest padding that block-aligns the packet,
// keeps at least 4 padding bytes and meets the protocol minimum size.
func paddingLength(n, blockSize int) int {
	padding := blockSize - (headerSize+n)%blockSize
	for padding < 4 {
		padding += blockSize
	}
	for headerSize+n+padding < packet.MinSize {
		padding += blockSize
	}
	return padding
}

// DeriveKey expands a key-exchange shared secret into n bytes of key
// material, salted with the session's exchange hash. The result is wrapped
// in a scoped secret buffer so the caller can erase it after keying the
// cipher.
func DeriveKey(secret, salt []byte, n int) (*wire.Secret, error) {
	kdf := hkdf.New(sha3.New256, secret, salt, nil)
	key := make([]byte, n)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}
	return wire.NewSecret(key), nil
}
