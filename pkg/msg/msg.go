// Package msg defines the transport, authentication and connection
// protocol messages and their codecs. Every message knows its protocol
// number; payloads discriminated by an ASCII tag on the wire (auth
// methods, global requests, channel open and channel request contexts)
// are dispatched through closed registries.
//
// Decoded messages borrow the payload buffer they were parsed from:
// byte-string fields are zero-copy views, valid only until the buffer is
// reused. Call Clone on a field to keep it longer.
package msg

import (
	"fmt"

	"sshwire/pkg/wire"
)

// Message is one protocol message: a number byte followed by a fixed
// body shape.
type Message interface {
	// Number is the message's protocol number, derived from the type
	// and never stored in the body.
	Number() uint8

	wire.Marshaler
	wire.Unmarshaler
}

// Marshal appends m's number byte and body to w.
func Marshal(w *wire.Writer, m Message) {
	w.WriteUint8(m.Number())
	m.Marshal(w)
}

// Encode returns m's complete wire form.
func Encode(m Message) ([]byte, error) {
	w := wire.NewWriter()
	Marshal(w, m)
	return w.Bytes()
}

// Unmarshal decodes payload into m, requiring the leading number byte to
// match m's and the body to consume the payload exactly.
func Unmarshal(payload []byte, m Message) error {
	r := wire.NewReader(payload)
	n, err := r.ReadUint8()
	if err != nil {
		return err
	}
	if n != m.Number() {
		return &UnexpectedMessageError{Want: m.Number(), Got: n}
	}
	if err := m.Unmarshal(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		return wire.ErrTrailing
	}
	return nil
}

// catalogue maps unambiguous message numbers to constructors. Numbers 30,
// 31 and 60 are deliberately absent: their body shape depends on the
// negotiated key exchange or the authentication method in flight, so only
// a caller with that context can pick the type (use Unmarshal with it).
var catalogue = map[uint8]func() Message{
	NumDisconnect:           func() Message { return &Disconnect{} },
	NumIgnore:               func() Message { return &Ignore{} },
	NumUnimplemented:        func() Message { return &Unimplemented{} },
	NumDebug:                func() Message { return &Debug{} },
	NumServiceRequest:       func() Message { return &ServiceRequest{} },
	NumServiceAccept:        func() Message { return &ServiceAccept{} },
	NumKexInit:              func() Message { return &KexInit{} },
	NumNewKeys:              func() Message { return &NewKeys{} },
	NumUserauthRequest:      func() Message { return &UserauthRequest{} },
	NumUserauthFailure:      func() Message { return &UserauthFailure{} },
	NumUserauthSuccess:      func() Message { return &UserauthSuccess{} },
	NumUserauthBanner:       func() Message { return &UserauthBanner{} },
	NumUserauthInfoResponse: func() Message { return &UserauthInfoResponse{} },
	NumGlobalRequest:        func() Message { return &GlobalRequest{} },
	NumRequestSuccess:       func() Message { return &RequestSuccess{} },
	NumRequestFailure:       func() Message { return &RequestFailure{} },
	NumChannelOpen:          func() Message { return &ChannelOpen{} },
	NumChannelOpenConfirm:   func() Message { return &ChannelOpenConfirmation{} },
	NumChannelOpenFailure:   func() Message { return &ChannelOpenFailure{} },
	NumChannelWindowAdjust:  func() Message { return &ChannelWindowAdjust{} },
	NumChannelData:          func() Message { return &ChannelData{} },
	NumChannelExtendedData:  func() Message { return &ChannelExtendedData{} },
	NumChannelEof:           func() Message { return &ChannelEof{} },
	NumChannelClose:         func() Message { return &ChannelClose{} },
	NumChannelRequest:       func() Message { return &ChannelRequest{} },
	NumChannelSuccess:       func() Message { return &ChannelSuccess{} },
	NumChannelFailure:       func() Message { return &ChannelFailure{} },
}

// Decode parses a payload whose message number alone determines the body
// shape. Context-dependent numbers (key-exchange replies, the userauth 60
// family) are rejected with UnknownMessageError; decode those with
// Unmarshal and the expected type.
func Decode(payload []byte) (Message, error) {
	r := wire.NewReader(payload)
	n, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	ctor, ok := catalogue[n]
	if !ok {
		return nil, &UnknownMessageError{Number: n}
	}
	m := ctor()
	if err := m.Unmarshal(r); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, wire.ErrTrailing
	}
	return m, nil
}

// Message numbers, per RFCs 4253, 4252, 4254, 4256 and 5656. Numbers 30,
// 31 and 60 are shared across message types and disambiguated by context.
const (
	NumDisconnect     uint8 = 1
	NumIgnore         uint8 = 2
	NumUnimplemented  uint8 = 3
	NumDebug          uint8 = 4
	NumServiceRequest uint8 = 5
	NumServiceAccept  uint8 = 6

	NumKexInit uint8 = 20
	NumNewKeys uint8 = 21

	NumKexdhInit    uint8 = 30
	NumKexdhReply   uint8 = 31
	NumKexEcdhInit  uint8 = 30
	NumKexEcdhReply uint8 = 31

	NumUserauthRequest uint8 = 50
	NumUserauthFailure uint8 = 51
	NumUserauthSuccess uint8 = 52
	NumUserauthBanner  uint8 = 53

	NumUserauthPkOk            uint8 = 60
	NumUserauthPasswdChangeReq uint8 = 60
	NumUserauthInfoRequest     uint8 = 60
	NumUserauthInfoResponse    uint8 = 61

	NumGlobalRequest  uint8 = 80
	NumRequestSuccess uint8 = 81
	NumRequestFailure uint8 = 82

	NumChannelOpen         uint8 = 90
	NumChannelOpenConfirm  uint8 = 91
	NumChannelOpenFailure  uint8 = 92
	NumChannelWindowAdjust uint8 = 93
	NumChannelData         uint8 = 94
	NumChannelExtendedData uint8 = 95
	NumChannelEof          uint8 = 96
	NumChannelClose        uint8 = 97
	NumChannelRequest      uint8 = 98
	NumChannelSuccess      uint8 = 99
	NumChannelFailure      uint8 = 100
)

// UnexpectedMessageError reports a payload whose number byte does not
// match the type the caller expected.
type UnexpectedMessageError struct {
	Want, Got uint8
}

func (e *UnexpectedMessageError) Error() string {
	return fmt.Sprintf("msg: expected message number %d, got %d", e.Want, e.Got)
}

// UnknownMessageError reports a number Decode has no constructor for.
type UnknownMessageError struct {
	Number uint8
}

func (e *UnknownMessageError) Error() string {
	return fmt.Sprintf("msg: unknown message number %d", e.Number)
}
