package wire

import "math/big"

// encodeMpInt produces the minimal two's-complement big-endian content
// bytes for v, per RFC 4251 section 5. Zero encodes as an empty string.
// A single leading 0x00 is added only when a non-negative value's most
// significant content byte would otherwise have its high bit set.
func encodeMpInt(v *big.Int) []byte {
	switch v.Sign() {
	case 0:
		return nil

	case 1:
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			return append([]byte{0x00}, b...)
		}
		return b

	default:
		// Minimal width: n bytes represent values down to -2^(8n-1).
		// With u = -v-1, that is the smallest n with u.BitLen() <= 8n-1.
		u := new(big.Int).Neg(v)
		u.Sub(u, big.NewInt(1))
		n := u.BitLen()/8 + 1

		t := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
		t.Add(t, v)
		out := make([]byte, n)
		t.FillBytes(out)
		return out
	}
}

// decodeMpInt interprets content bytes as a two's-complement big-endian
// integer. Redundant leading sign bytes are accepted.
func decodeMpInt(b []byte) *big.Int {
	if len(b) == 0 {
		return new(big.Int)
	}
	v := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		t := new(big.Int).Lsh(big.NewInt(1), uint(8*len(b)))
		v.Sub(v, t)
	}
	return v
}
