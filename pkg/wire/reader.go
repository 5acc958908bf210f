package wire

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"unicode/utf8"
)

// Reader is a bounds-checked cursor over a caller-supplied buffer.
// Reading past the end of the buffer fails with ErrTruncated; a length
// field larger than the remaining input is rejected before any allocation
// sized by it is attempted.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader over buf. The Reader borrows buf; views
// returned by ReadBytes alias it.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len reports the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.off }

// Offset reports the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

// take consumes the next n bytes without copying.
func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, ErrTruncated
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// ReadUint8 consumes a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint32 consumes a 4-byte big-endian unsigned integer.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadBool consumes one byte. Decoding is lenient: any non-zero value is
// true, per RFC 4251 section 5.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadUint8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadRaw consumes exactly n bytes with no length prefix, for fixed-width
// fields such as cookies.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	return r.take(n)
}

// ReadBytes consumes a byte string and returns it as a borrowed,
// zero-copy view into the source buffer.
func (r *Reader) ReadBytes() (Bytes, error) {
	size, err := r.ReadUint32()
	if err != nil {
		return Bytes{}, err
	}
	b, err := r.take(int(size))
	if err != nil {
		return Bytes{}, err
	}
	return BorrowedBytes(b), nil
}

// ReadBytesCopy consumes a byte string and returns an owning copy.
func (r *Reader) ReadBytesCopy() ([]byte, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	out := make([]byte, b.Len())
	copy(out, b.Raw())
	return out, nil
}

// ReadUTF8 consumes a byte string constrained to valid UTF-8.
func (r *Reader) ReadUTF8() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b.Raw()) {
		return "", fmt.Errorf("%w: string is not valid UTF-8", ErrConstraint)
	}
	return string(b.Raw()), nil
}

// ReadAscii consumes a byte string constrained to pure ASCII.
func (r *Reader) ReadAscii() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	if !isASCII(b.Raw()) {
		return "", fmt.Errorf("%w: string is not pure ASCII", ErrConstraint)
	}
	return string(b.Raw()), nil
}

// ReadNameList consumes a byte string holding comma-separated ASCII tokens.
// Order is preserved and an empty middle token ("a,,b") stays representable
// as an empty string entry. An empty content decodes to an empty list.
func (r *Reader) ReadNameList() (NameList, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	return parseNameList(b.Raw())
}

// ReadMpInt consumes a byte string holding a minimal two's-complement
// big-endian integer. The decode is lenient about redundant leading sign
// bytes; the encoder never emits them.
func (r *Reader) ReadMpInt() (*big.Int, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	return decodeMpInt(b.Raw()), nil
}
