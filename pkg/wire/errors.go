package wire

import "errors"

// Codec error kinds. Decoders return them unchanged to their caller;
// the dispatch and framing layers never reinterpret them.
var (
	// ErrTruncated indicates the input buffer is shorter than a declared
	// field requires.
	ErrTruncated = errors.New("wire: truncated input")

	// ErrOverflow indicates a value's serialized size exceeds the
	// representable length-field range.
	ErrOverflow = errors.New("wire: value exceeds length-field range")

	// ErrConstraint indicates content failed a text-encoding invariant,
	// such as UTF-8 or ASCII validity.
	ErrConstraint = errors.New("wire: constraint violation")

	// ErrTrailing indicates bytes were left over inside a region that a
	// nested parse was required to consume entirely.
	ErrTrailing = errors.New("wire: trailing bytes after embedded value")
)
