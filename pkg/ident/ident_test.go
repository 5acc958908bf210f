package ident

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		line string
		want Id
		ok   bool
	}{
		{"SSH-2.0-billsSSH_3.6.3q3", Id{"2.0", "billsSSH_3.6.3q3", ""}, true},
		{"SSH-2.0-billsSSH_3.6.3q3\r\n", Id{"2.0", "billsSSH_3.6.3q3", ""}, true},
		{"SSH-1.99-OpenSSH_2.9 with comments here", Id{"1.99", "OpenSSH_2.9", "with comments here"}, true},
		{"SSH-2.0-libssh-0.11.0", Id{"2.0", "libssh-0.11.0", ""}, true},
		{"FOO-2.0-software", Id{}, false},
		{"SSH--software", Id{}, false},
		{"SSH-2.0-", Id{}, false},
		{"SSH-2.0- comments only", Id{}, false},
		{"", Id{}, false},
		{"SSH-2 0-software", Id{}, false},
	}

	for _, c := range cases {
		got, err := Parse(c.line)
		if c.ok {
			if err != nil {
				t.Fatalf("Parse(%q): %v", c.line, err)
			}
			if got != c.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", c.line, got, c.want)
			}
		} else if !errors.Is(err, ErrInvalid) {
			t.Fatalf("Parse(%q): expected ErrInvalid, got %v", c.line, err)
		}
	}
}

func TestReadSkipsPreamble(t *testing.T) {
	input := "welcome to the server\r\nsecond banner line\nSSH-2.0-testsrv_1.0 ready\r\n"
	id, err := Read(bufio.NewReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := Id{ProtoVersion: "2.0", SoftwareVersion: "testsrv_1.0", Comments: "ready"}
	if id != want {
		t.Fatalf("got %+v, want %+v", id, want)
	}
}

func TestReadBoundsPreamble(t *testing.T) {
	input := strings.Repeat("banner\r\n", maxPreambleLines+1) + "SSH-2.0-late\r\n"
	_, err := Read(bufio.NewReader(strings.NewReader(input)))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestReadRejectsOverlongLine(t *testing.T) {
	input := "SSH-2.0-" + strings.Repeat("x", maxLineLength) + "\r\n"
	_, err := Read(bufio.NewReader(strings.NewReader(input)))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	id := V2("testsrv_1.0", "release")
	if err := Write(&buf, id); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\r\n")) {
		t.Fatal("line not CR LF terminated")
	}

	out, err := Read(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if out != id {
		t.Fatalf("got %+v, want %+v", out, id)
	}
}
