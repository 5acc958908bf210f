package packet

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

// Write wraps payload into one packet envelope on w using the sending half
// of a cipher capability and the current send sequence number: compress,
// pad to the cipher's block size with random bytes, encrypt and
// authenticate in the order the MAC mode mandates.
//
// The caller advances the send sequence counter by exactly one afterward.
func Write(w io.Writer, payload []byte, sealer Sealer, seq uint32) error {
	compressed, err := sealer.Compress(payload)
	if err != nil {
		return err
	}

	padding := sealer.PaddingLength(len(compressed))
	if padding < minPadding || padding > 255 {
		return fmt.Errorf("packet: cipher produced invalid padding length %d", padding)
	}

	length := 1 + len(compressed) + padding
	if lenFieldSize+length > MaxSize {
		return ErrOversized
	}

	buf := make([]byte, lenFieldSize+length)
	binary.BigEndian.PutUint32(buf[:lenFieldSize], uint32(length))
	buf[lenFieldSize] = byte(padding)
	copy(buf[lenFieldSize+1:], compressed)
	if _, err := rand.Read(buf[lenFieldSize+1+len(compressed):]); err != nil {
		return err
	}

	var mac []byte
	if sealer.Mac().EncryptThenMac() {
		// Everything but the length field is enciphered; the MAC covers
		// seq || length_field || ciphertext.
		if err := sealer.Encrypt(buf[lenFieldSize:]); err != nil {
			return err
		}
		if mac, err = sealer.Seal(buf, seq); err != nil {
			return err
		}
	} else {
		// MAC over seq || plaintext first, then the whole packet is
		// enciphered.
		if mac, err = sealer.Seal(buf, seq); err != nil {
			return err
		}
		if err := sealer.Encrypt(buf); err != nil {
			return err
		}
	}

	if _, err := w.Write(buf); err != nil {
		return err
	}
	if len(mac) > 0 {
		if _, err := w.Write(mac); err != nil {
			return err
		}
	}
	return nil
}
