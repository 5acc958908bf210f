package packet

import (
	"encoding/binary"
	"io"
)

// lenFieldSize is the width of the packet-length field.
const lenFieldSize = 4

// Read fetches and unwraps exactly one packet from r using the receiving
// half of a cipher capability and the current receive sequence number.
//
// The length field is parsed from the first cipher block (decrypted first
// when the suite is not encrypt-then-mac, since the field must be in the
// clear to know how much more to fetch) and validated against MaxSize
// before anything else is read, bounding how much attacker-controlled data
// gets buffered. MAC verification always completes before any decrypted
// content is acted upon; a failure is returned as the opaque ErrAuthFailure.
//
// The caller advances the receive sequence counter by exactly one afterward,
// only on success. I/O errors from r propagate unchanged.
func Read(r io.Reader, opener Opener, seq uint32) (Packet, error) {
	etm := opener.Mac().EncryptThenMac()
	blockSize := opener.BlockSize()

	buf := make([]byte, blockSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	if !etm {
		if err := opener.Decrypt(buf); err != nil {
			return nil, err
		}
	}

	length := binary.BigEndian.Uint32(buf[:lenFieldSize])
	if length > MaxSize {
		return nil, ErrOversized
	}
	rest := int(length) + lenFieldSize - blockSize
	if rest < 0 || length == 0 {
		return nil, ErrTooSmall
	}

	buf = append(buf, make([]byte, rest)...)
	if _, err := io.ReadFull(r, buf[blockSize:]); err != nil {
		return nil, err
	}

	mac := make([]byte, opener.Mac().Size())
	if _, err := io.ReadFull(r, mac); err != nil {
		return nil, err
	}

	if etm {
		// MAC covers seq || length_field || ciphertext; verify before
		// decrypting anything past the length field.
		if err := opener.Open(buf, mac, seq); err != nil {
			return nil, ErrAuthFailure
		}
		if err := opener.Decrypt(buf[lenFieldSize:]); err != nil {
			return nil, err
		}
	} else {
		if err := opener.Decrypt(buf[blockSize:]); err != nil {
			return nil, err
		}
		if err := opener.Open(buf, mac, seq); err != nil {
			return nil, ErrAuthFailure
		}
	}

	padding := buf[lenFieldSize]
	if uint32(padding) > length-1 {
		return nil, ErrPaddingTooLarge
	}

	// Padding bytes are discarded unexamined.
	payload := buf[lenFieldSize+1 : lenFieldSize+int(length)-int(padding)]

	decompressed, err := opener.Decompress(payload)
	if err != nil {
		return nil, err
	}
	return Packet(decompressed), nil
}
