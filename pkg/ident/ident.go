// Package ident exchanges the protocol identification string, the first
// line each side sends: "SSH-protoversion-softwareversion" with optional
// comments, terminated by CR LF.
package ident

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Line limits from RFC 4253 section 4.2: the identification line is at
// most 255 bytes including the terminator, and a server may send other
// lines first, which the client reads and discards.
const (
	maxLineLength    = 255
	maxPreambleLines = 64
)

// ErrInvalid reports a malformed identification string.
var ErrInvalid = errors.New("ident: invalid identification string")

// Id is a parsed identification string.
type Id struct {
	ProtoVersion    string
	SoftwareVersion string
	Comments        string
}

// V2 builds a protocol-2.0 identification.
func V2(software, comments string) Id {
	return Id{ProtoVersion: "2.0", SoftwareVersion: software, Comments: comments}
}

// String formats the identification line, without the CR LF terminator.
func (id Id) String() string {
	s := fmt.Sprintf("SSH-%s-%s", id.ProtoVersion, id.SoftwareVersion)
	if id.Comments != "" {
		s += " " + id.Comments
	}
	return s
}

// validToken reports whether s is printable US-ASCII with no whitespace
// and no minus sign, the charset both version fields must use.
func validToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c > '~' || c == '-' {
			return false
		}
	}
	return true
}

// Parse decodes one identification line. A trailing CR LF is tolerated.
func Parse(line string) (Id, error) {
	line = strings.TrimRight(line, "\r\n")
	if len(line) > maxLineLength {
		return Id{}, fmt.Errorf("%w: line longer than %d bytes", ErrInvalid, maxLineLength)
	}

	parts := strings.SplitN(line, "-", 3)
	if len(parts) != 3 || parts[0] != "SSH" {
		return Id{}, fmt.Errorf("%w: %q", ErrInvalid, line)
	}

	software, comments, _ := strings.Cut(parts[2], " ")
	id := Id{
		ProtoVersion:    parts[1],
		SoftwareVersion: software,
		Comments:        comments,
	}
	if !validToken(id.ProtoVersion) {
		return Id{}, fmt.Errorf("%w: bad protocol version in %q", ErrInvalid, line)
	}
	if id.SoftwareVersion == "" || !validToken(strings.ReplaceAll(id.SoftwareVersion, "-", "")) {
		return Id{}, fmt.Errorf("%w: bad software version in %q", ErrInvalid, line)
	}
	return id, nil
}

// Read consumes lines from r until the identification line appears,
// discarding any preamble the peer sends first. It fails after
// maxPreambleLines lines or on an overlong line rather than buffer
// arbitrary input.
func Read(r *bufio.Reader) (Id, error) {
	for lines := 0; lines < maxPreambleLines; lines++ {
		line, err := r.ReadString('\n')
		if err != nil {
			return Id{}, err
		}
		if len(line) > maxLineLength {
			return Id{}, fmt.Errorf("%w: line longer than %d bytes", ErrInvalid, maxLineLength)
		}
		if strings.HasPrefix(line, "SSH-") {
			return Parse(line)
		}
	}
	return Id{}, fmt.Errorf("%w: no identification string within %d lines", ErrInvalid, maxPreambleLines)
}

// Write sends the identification line with its CR LF terminator.
func Write(w io.Writer, id Id) error {
	line := id.String()
	if len(line)+2 > maxLineLength {
		return fmt.Errorf("%w: line longer than %d bytes", ErrInvalid, maxLineLength)
	}
	_, err := io.WriteString(w, line+"\r\n")
	return err
}
