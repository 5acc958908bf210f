package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"
)

// Writer accumulates the wire form of a sequence of values. The first
// encoding failure sticks: later writes become no-ops and the error
// surfaces from Err or Bytes, so marshaling code stays linear.
//
// The zero value is ready to use.
type Writer struct {
	buf []byte
	err error
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Err reports the first encoding failure, if any.
func (w *Writer) Err() error { return w.err }

// Bytes returns the accumulated wire form, or the first encoding failure.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

// Len reports the number of bytes accumulated so far.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) setErr(err error) {
	if w.err == nil {
		w.err = err
	}
}

// WriteUint8 appends a single byte.
func (w *Writer) WriteUint8(v uint8) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, v)
}

// WriteUint32 appends a 4-byte big-endian unsigned integer.
func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// WriteBool appends the canonical boolean encoding: 0x01 for true,
// 0x00 for false. Never anything else.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

// WriteRaw appends bytes verbatim, with no length prefix.
func (w *Writer) WriteRaw(b []byte) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, b...)
}

// WriteBytes appends a length-prefixed byte string.
func (w *Writer) WriteBytes(b []byte) {
	if w.err != nil {
		return
	}
	if uint64(len(b)) > math.MaxUint32 {
		w.setErr(ErrOverflow)
		return
	}
	w.WriteUint32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteUTF8 appends a byte string constrained to valid UTF-8.
func (w *Writer) WriteUTF8(s string) {
	if w.err != nil {
		return
	}
	if !utf8.ValidString(s) {
		w.setErr(fmt.Errorf("%w: string is not valid UTF-8", ErrConstraint))
		return
	}
	w.WriteBytes([]byte(s))
}

// WriteAscii appends a byte string constrained to pure ASCII.
func (w *Writer) WriteAscii(s string) {
	if w.err != nil {
		return
	}
	if !isASCII([]byte(s)) {
		w.setErr(fmt.Errorf("%w: string is not pure ASCII", ErrConstraint))
		return
	}
	w.WriteBytes([]byte(s))
}

// WriteNameList appends a comma-joined list of ASCII tokens.
func (w *Writer) WriteNameList(l NameList) {
	if w.err != nil {
		return
	}
	b, err := l.join()
	if err != nil {
		w.setErr(err)
		return
	}
	w.WriteBytes(b)
}

// WriteMpInt appends the minimal two's-complement encoding of v.
// Zero encodes as a zero-length string; the high bit of the first content
// byte always matches the sign, with no redundant sign bytes.
func (w *Writer) WriteMpInt(v *big.Int) {
	if w.err != nil {
		return
	}
	w.WriteBytes(encodeMpInt(v))
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c > 0x7f {
			return false
		}
	}
	return true
}
