package wire

// Bytes is an SSH byte string: a variable-length opaque byte sequence,
// transmitted as a 4-byte big-endian length followed by the raw bytes.
//
// A Bytes value either exclusively owns its buffer or holds a bounded,
// read-only view into an externally-owned one (the zero-copy decode path).
// Both forms expose identical read access, so call sites stay agnostic to
// which one they hold.
type Bytes struct {
	data  []byte
	owned bool
}

// OwnedBytes wraps a buffer whose ownership transfers to the returned value.
func OwnedBytes(b []byte) Bytes {
	return Bytes{data: b, owned: true}
}

// BorrowedBytes wraps a view into a caller-owned buffer. The view stays
// valid only as long as the source buffer does; callers must not mutate it.
func BorrowedBytes(b []byte) Bytes {
	return Bytes{data: b}
}

// Raw exposes the underlying bytes for reading.
func (b Bytes) Raw() []byte { return b.data }

// Len reports the byte length of the content.
func (b Bytes) Len() int { return len(b.data) }

// Owned reports whether the value owns its buffer.
func (b Bytes) Owned() bool { return b.owned }

// Clone returns an owning copy, detached from any source buffer.
func (b Bytes) Clone() Bytes {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return Bytes{data: out, owned: true}
}

// Marshal appends the length-prefixed wire form.
func (b Bytes) Marshal(w *Writer) {
	w.WriteBytes(b.data)
}

// Unmarshal parses a byte string as an owning copy.
func (b *Bytes) Unmarshal(r *Reader) error {
	raw, err := r.ReadBytesCopy()
	if err != nil {
		return err
	}
	*b = OwnedBytes(raw)
	return nil
}
