package suites

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20"

	"sshwire/pkg/packet"
)

// streamSuite wraps a keystream cipher and an HMAC into a full capability.
type streamSuite struct {
	stream    cipher.Stream
	blockSize int
	mac       *hmacSHA256
}

// NewAES128CTR builds an AES-128-CTR suite authenticated with HMAC-SHA-256.
// key and iv must be 16 bytes each. etm selects encrypt-then-mac ordering.
func NewAES128CTR(key, iv, macKey []byte, etm bool) (Suite, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &streamSuite{
		stream:    cipher.NewCTR(block, iv),
		blockSize: aes.BlockSize,
		mac:       &hmacSHA256{key: macKey, etm: etm},
	}, nil
}

// NewChaCha20 builds a ChaCha20 suite authenticated with HMAC-SHA-256.
// key must be 32 bytes and nonce 12 bytes.
func NewChaCha20(key, nonce, macKey []byte, etm bool) (Suite, error) {
	stream, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, err
	}
	return &streamSuite{
		stream:    stream,
		blockSize: noneBlockSize,
		mac:       &hmacSHA256{key: macKey, etm: etm},
	}, nil
}

func (s *streamSuite) BlockSize() int  { return s.blockSize }
func (s *streamSuite) Mac() packet.Mac { return s.mac }

func (s *streamSuite) Encrypt(buf []byte) error {
	s.stream.XORKeyStream(buf, buf)
	return nil
}

func (s *streamSuite) Decrypt(buf []byte) error {
	s.stream.XORKeyStream(buf, buf)
	return nil
}

func (s *streamSuite) Seal(buf []byte, seq uint32) ([]byte, error) {
	return s.mac.sum(buf, seq), nil
}

func (s *streamSuite) Open(buf, mac []byte, seq uint32) error {
	return s.mac.verify(buf, mac, seq)
}

func (s *streamSuite) Compress(payload []byte) ([]byte, error)   { return payload, nil }
func (s *streamSuite) Decompress(payload []byte) ([]byte, error) { return payload, nil }

func (s *streamSuite) PaddingLength(n int) int { return paddingLength(n, s.blockSize) }
