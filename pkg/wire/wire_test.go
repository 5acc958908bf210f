package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestBytesRoundTrip(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}

	var w Writer
	w.WriteBytes(payload)
	b, err := w.Bytes()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := append([]byte{0, 0, 0, 6}, payload...)
	if !bytes.Equal(b, want) {
		t.Fatalf("wire form mismatch: got %x want %x", b, want)
	}

	r := NewReader(b)
	out, err := r.ReadBytesCopy()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Fatalf("round trip mismatch: got %x want %x", out, payload)
	}
	if r.Len() != 0 {
		t.Fatalf("expected full consumption, %d bytes left", r.Len())
	}
}

func TestReadBytesBorrowsSourceBuffer(t *testing.T) {
	buf := []byte{0, 0, 0, 3, 'a', 'b', 'c'}
	r := NewReader(buf)
	v, err := r.ReadBytes()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Owned() {
		t.Fatal("expected a borrowed view")
	}
	if &v.Raw()[0] != &buf[4] {
		t.Fatal("expected view to alias the source buffer")
	}
	c := v.Clone()
	if !c.Owned() || &c.Raw()[0] == &buf[4] {
		t.Fatal("expected clone to detach from the source buffer")
	}
}

func TestReadBytesRejectsLengthPastEnd(t *testing.T) {
	// Declared length of 0xFFFFFFFF with 2 content bytes. Must fail before
	// attempting any allocation sized by the declared length.
	r := NewReader([]byte{0xff, 0xff, 0xff, 0xff, 1, 2})
	if _, err := r.ReadBytes(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestReadTruncatedPrimitive(t *testing.T) {
	for _, buf := range [][]byte{{}, {1}, {1, 2, 3}} {
		r := NewReader(buf)
		if _, err := r.ReadUint32(); !errors.Is(err, ErrTruncated) {
			t.Fatalf("buf %x: expected ErrTruncated, got %v", buf, err)
		}
	}
}

func TestUTF8RoundTripAndConstraint(t *testing.T) {
	var w Writer
	w.WriteUTF8("héllo, wörld")
	b, err := w.Bytes()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := NewReader(b).ReadUTF8()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != "héllo, wörld" {
		t.Fatalf("round trip mismatch: %q", out)
	}

	// Invalid UTF-8 content must fail decode, never silently truncate.
	bad := []byte{0, 0, 0, 2, 0xff, 0xfe}
	if _, err := NewReader(bad).ReadUTF8(); !errors.Is(err, ErrConstraint) {
		t.Fatalf("expected ErrConstraint, got %v", err)
	}

	var wb Writer
	wb.WriteUTF8(string([]byte{0xff, 0xfe}))
	if _, err := wb.Bytes(); !errors.Is(err, ErrConstraint) {
		t.Fatalf("expected ErrConstraint on encode, got %v", err)
	}
}

func TestAsciiConstraint(t *testing.T) {
	var w Writer
	w.WriteAscii("ssh-userauth")
	b, err := w.Bytes()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := NewReader(b).ReadAscii()
	if err != nil || out != "ssh-userauth" {
		t.Fatalf("round trip: %q, %v", out, err)
	}

	high := []byte{0, 0, 0, 2, 0xc3, 0xa9} // valid UTF-8, not ASCII
	if _, err := NewReader(high).ReadAscii(); !errors.Is(err, ErrConstraint) {
		t.Fatalf("expected ErrConstraint, got %v", err)
	}

	var wb Writer
	wb.WriteAscii("utf∞")
	if _, err := wb.Bytes(); !errors.Is(err, ErrConstraint) {
		t.Fatalf("expected ErrConstraint on encode, got %v", err)
	}
}

func TestNameListWireForm(t *testing.T) {
	var w Writer
	w.WriteNameList(NameList{"zlib", "none"})
	b, err := w.Bytes()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := append([]byte{0, 0, 0, 9}, []byte("zlib,none")...)
	if !bytes.Equal(b, want) {
		t.Fatalf("wire form mismatch: got %x want %x", b, want)
	}

	var empty Writer
	empty.WriteNameList(NameList{})
	eb, err := empty.Bytes()
	if err != nil {
		t.Fatalf("encode empty: %v", err)
	}
	if !bytes.Equal(eb, []byte{0, 0, 0, 0}) {
		t.Fatalf("empty list should encode as length 0, got %x", eb)
	}
}

func TestNameListDecode(t *testing.T) {
	tests := []struct {
		content string
		want    NameList
	}{
		{"zlib,none", NameList{"zlib", "none"}},
		{"", NameList{}},
		// Consecutive commas preserve the empty middle token.
		{"a,,b", NameList{"a", "", "b"}},
		{"single", NameList{"single"}},
	}
	for _, tt := range tests {
		var w Writer
		w.WriteBytes([]byte(tt.content))
		b, _ := w.Bytes()
		got, err := NewReader(b).ReadNameList()
		if err != nil {
			t.Fatalf("%q: decode: %v", tt.content, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("%q: got %d tokens, want %d", tt.content, len(got), len(tt.want))
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("%q: token %d: got %q want %q", tt.content, i, got[i], tt.want[i])
			}
		}
	}
}

func TestNameListRejectsBadTokens(t *testing.T) {
	for _, l := range []NameList{{"a,b"}, {"utf∞"}} {
		var w Writer
		w.WriteNameList(l)
		if _, err := w.Bytes(); !errors.Is(err, ErrConstraint) {
			t.Fatalf("%v: expected ErrConstraint, got %v", l, err)
		}
	}
}

func TestBoolLenientDecodeCanonicalEncode(t *testing.T) {
	f, err := NewReader([]byte{0x00}).ReadBool()
	if err != nil || f {
		t.Fatalf("0x00 should decode false: %v, %v", f, err)
	}
	v, err := NewReader([]byte{0x05}).ReadBool()
	if err != nil || !v {
		t.Fatalf("0x05 should decode true: %v, %v", v, err)
	}

	var w Writer
	w.WriteBool(true)
	w.WriteBool(false)
	b, _ := w.Bytes()
	if !bytes.Equal(b, []byte{0x01, 0x00}) {
		t.Fatalf("canonical encoding mismatch: %x", b)
	}
}

func TestSecretZero(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	s := NewSecret(buf)
	if !bytes.Equal(s.Bytes(), []byte{1, 2, 3, 4}) {
		t.Fatal("secret content mismatch")
	}
	s.Zero()
	if s.Len() != 0 {
		t.Fatal("expected released buffer")
	}
	if !bytes.Equal(buf, []byte{0, 0, 0, 0}) {
		t.Fatalf("backing buffer not overwritten: %x", buf)
	}
	s.Zero() // second call is a no-op
}
