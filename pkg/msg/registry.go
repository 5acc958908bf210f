package msg

import (
	"fmt"

	"sshwire/pkg/wire"
)

// Tagged is a payload variant selected by an ASCII tag on the wire. The
// tag is derived from the type and never stored in the body.
type Tagged interface {
	Tag() string

	wire.Marshaler
	wire.Unmarshaler
}

// Registry is a closed set of payload variants keyed by tag. It is built
// once at package init and read-only afterward.
type Registry[T Tagged] struct {
	byTag map[string]func() T
}

// NewRegistry builds a registry from variant constructors, keyed by the
// tag each constructed zero value reports.
func NewRegistry[T Tagged](ctors ...func() T) *Registry[T] {
	byTag := make(map[string]func() T, len(ctors))
	for _, ctor := range ctors {
		byTag[ctor().Tag()] = ctor
	}
	return &Registry[T]{byTag: byTag}
}

// New returns a fresh zero variant for tag, or UnknownTagError.
func (g *Registry[T]) New(tag string) (T, error) {
	ctor, ok := g.byTag[tag]
	if !ok {
		var zero T
		return zero, &UnknownTagError{Tag: tag}
	}
	return ctor(), nil
}

// Decode reads a tag and then the matching payload shape.
func (g *Registry[T]) Decode(r *wire.Reader) (T, error) {
	tag, err := r.ReadAscii()
	if err != nil {
		var zero T
		return zero, err
	}
	return g.DecodePayload(tag, r)
}

// DecodePayload decodes the payload shape for an already-read tag. Some
// messages interleave fixed fields between the tag and the payload, so
// this step is exposed separately from Decode. An unknown tag consumes
// nothing from r.
func (g *Registry[T]) DecodePayload(tag string, r *wire.Reader) (T, error) {
	v, err := g.New(tag)
	if err != nil {
		return v, err
	}
	if err := v.Unmarshal(r); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// UnknownTagError reports a discriminator tag outside the registry's
// closed set.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("msg: unknown tag %q", e.Tag)
}
