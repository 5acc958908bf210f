package wire

// Secret is a scoped buffer for key material. Unlike a plain byte slice it
// guarantees its contents are overwritten on release, so a shared secret or
// derived key does not linger in memory after use. Opt in per call site;
// ordinary payload bytes do not need it.
type Secret struct {
	data []byte
}

// NewSecret takes ownership of b. The caller must not retain other
// references to it.
func NewSecret(b []byte) *Secret {
	return &Secret{data: b}
}

// Bytes exposes the secret content for reading. The returned slice becomes
// invalid after Zero.
func (s *Secret) Bytes() []byte { return s.data }

// Len reports the secret's byte length.
func (s *Secret) Len() int { return len(s.data) }

// Zero overwrites the secret content and releases the buffer.
// Safe to call more than once.
func (s *Secret) Zero() {
	for i := range s.data {
		s.data[i] = 0
	}
	s.data = nil
}
