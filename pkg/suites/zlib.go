package suites

import (
	"bytes"
	"compress/zlib"
	"io"

	"sshwire/pkg/packet"
)

// zlibSuite layers per-packet zlib compression over another suite.
type zlibSuite struct {
	Suite
}

// Zlib wraps a suite so payloads are deflated before framing and inflated
// after opening. Inflated output is bounded by the maximum packet size to
// contain decompression bombs.
func Zlib(s Suite) Suite {
	return &zlibSuite{Suite: s}
}

func (z *zlibSuite) Compress(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (z *zlibSuite) Decompress(payload []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, packet.MaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(out) > packet.MaxSize {
		return nil, packet.ErrOversized
	}
	return out, nil
}
