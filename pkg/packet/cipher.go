package packet

// Mac describes the message-authentication half of a cipher capability.
type Mac interface {
	// Size is the byte length of the MAC trailer. Zero disables
	// authentication entirely.
	Size() int

	// EncryptThenMac reports whether the MAC is computed over the
	// ciphertext (encrypt-then-mac) rather than the plaintext
	// (encrypt-and-mac). The flag governs both framing directions.
	EncryptThenMac() bool
}

// Cipher is the part of a cipher capability common to both directions.
// The framer only invokes it; it holds no state about the suite's
// internals and never caches or mutates it.
type Cipher interface {
	// BlockSize is the cipher's block size in bytes, which also sets how
	// many bytes must be fetched before the length field can be parsed.
	BlockSize() int

	Mac() Mac
}

// Opener is the receiving direction of a cipher capability.
type Opener interface {
	Cipher

	// Decrypt deciphers buf in place.
	Decrypt(buf []byte) error

	// Open verifies mac against buf under the given sequence number.
	// Any failure is terminal for the connection.
	Open(buf, mac []byte, seq uint32) error

	// Decompress expands a received payload.
	Decompress(payload []byte) ([]byte, error)
}

// Sealer is the sending direction of a cipher capability.
type Sealer interface {
	Cipher

	// Encrypt enciphers buf in place.
	Encrypt(buf []byte) error

	// Seal computes the MAC over buf under the given sequence number.
	Seal(buf []byte, seq uint32) ([]byte, error)

	// Compress shrinks a payload before framing.
	Compress(payload []byte) ([]byte, error)

	// PaddingLength picks the padding size for a compressed payload of n
	// bytes, such that the packet is block-aligned, carries at least 4
	// bytes of padding and meets the protocol minimum size.
	PaddingLength(n int) int
}
