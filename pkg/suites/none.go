package suites

import "sshwire/pkg/packet"

// noneBlockSize is the framing granularity used when no cipher is keyed;
// stream suites reuse it since they have no real block structure.
const noneBlockSize = 8

// none passes everything through untouched.
type none struct {
	mac nullMac
}

// None returns the identity suite: no encryption, no MAC, no compression.
// It is the state of a fresh connection before the first key exchange.
func None() Suite {
	return &none{}
}

// NoneETM is None with its (empty) MAC flagged as encrypt-then-mac,
// exercising the alternate framing order.
func NoneETM() Suite {
	return &none{mac: nullMac{etm: true}}
}

func (s *none) BlockSize() int  { return noneBlockSize }
func (s *none) Mac() packet.Mac { return s.mac }

func (s *none) Encrypt(buf []byte) error { return nil }
func (s *none) Decrypt(buf []byte) error { return nil }

func (s *none) Seal(buf []byte, seq uint32) ([]byte, error) { return nil, nil }

func (s *none) Open(buf, mac []byte, seq uint32) error {
	if len(mac) != 0 {
		return errVerify
	}
	return nil
}

func (s *none) Compress(payload []byte) ([]byte, error)   { return payload, nil }
func (s *none) Decompress(payload []byte) ([]byte, error) { return payload, nil }

func (s *none) PaddingLength(n int) int { return paddingLength(n, noneBlockSize) }
