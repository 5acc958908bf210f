package wire

// MarshalLengthPrefixed embeds a whole encodable value opaquely: m is
// serialized into a scratch buffer whose size is written first, so the
// receiver can treat the embedded structure as a single byte string
// (for example inside a hash input). A serialized size above MaxLength is
// a hard error, never a silent truncation, to keep the declared length and
// the content consistent on the wire.
func MarshalLengthPrefixed(w *Writer, m Marshaler) {
	if w.err != nil {
		return
	}
	var scratch Writer
	m.Marshal(&scratch)
	b, err := scratch.Bytes()
	if err != nil {
		w.setErr(err)
		return
	}
	if len(b) > MaxLength {
		w.setErr(ErrOverflow)
		return
	}
	w.WriteBytes(b)
}

// UnmarshalLengthPrefixed reads a length, then parses exactly that many
// bytes as u. Bytes left over inside the region after u is fully parsed
// fail with ErrTrailing; there is no partial-consumption tolerance.
func UnmarshalLengthPrefixed(r *Reader, u Unmarshaler) error {
	size, err := r.ReadUint32()
	if err != nil {
		return err
	}
	if size > MaxLength {
		return ErrOverflow
	}
	region, err := r.take(int(size))
	if err != nil {
		return err
	}
	sub := NewReader(region)
	if err := u.Unmarshal(sub); err != nil {
		return err
	}
	if sub.Len() != 0 {
		return ErrTrailing
	}
	return nil
}
