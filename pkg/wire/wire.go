// Package wire implements the primitive value encodings of the SSH wire
// format: length-prefixed byte strings, UTF-8 and ASCII constrained text,
// comma-separated name lists, arbitrary-precision integers and booleans.
//
// Every decode is bounds-checked against the remaining input before any
// allocation sized by an attacker-controlled length field. Encoders never
// truncate: a value whose serialized size does not fit the 4-byte length
// field is a hard error.
package wire

// MaxLength bounds the serialized size of a single length-prefixed
// embedding. It matches the maximum packet size of the transport layer,
// since no embedded value can outgrow the packet carrying it.
const MaxLength = 65535

// Marshaler is a value that knows how to append its wire form to a Writer.
// Encoding failures are recorded on the Writer and surface from Writer.Err.
type Marshaler interface {
	Marshal(w *Writer)
}

// Unmarshaler is a value that knows how to parse its wire form from a Reader.
type Unmarshaler interface {
	Unmarshal(r *Reader) error
}
