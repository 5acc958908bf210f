package suites

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
)

// errVerify is returned by Open on any MAC mismatch. The framer folds it
// into its own opaque authentication error.
var errVerify = errors.New("suites: verification failed")

// nullMac is the absent MAC of the identity suite.
type nullMac struct {
	etm bool
}

func (m nullMac) Size() int            { return 0 }
func (m nullMac) EncryptThenMac() bool { return m.etm }

// hmacSHA256 binds the sequence number and packet bytes under HMAC-SHA-256.
type hmacSHA256 struct {
	key []byte
	etm bool
}

func (m *hmacSHA256) Size() int            { return sha256.Size }
func (m *hmacSHA256) EncryptThenMac() bool { return m.etm }

// sum computes the MAC over seq || buf.
func (m *hmacSHA256) sum(buf []byte, seq uint32) []byte {
	h := hmac.New(sha256.New, m.key)
	var seqBytes [4]byte
	binary.BigEndian.PutUint32(seqBytes[:], seq)
	h.Write(seqBytes[:])
	h.Write(buf)
	return h.Sum(nil)
}

func (m *hmacSHA256) verify(buf, mac []byte, seq uint32) error {
	if !hmac.Equal(mac, m.sum(buf, seq)) {
		return errVerify
	}
	return nil
}
