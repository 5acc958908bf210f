package msg

import (
	"math/big"

	"sshwire/pkg/wire"
)

// DisconnectReason is the machine-readable cause carried by Disconnect.
type DisconnectReason uint32

// Disconnect reason codes, per RFC 4253 section 11.1.
const (
	DisconnectHostNotAllowedToConnect     DisconnectReason = 1
	DisconnectProtocolError               DisconnectReason = 2
	DisconnectKeyExchangeFailed           DisconnectReason = 3
	DisconnectReserved                    DisconnectReason = 4
	DisconnectMacError                    DisconnectReason = 5
	DisconnectCompressionError            DisconnectReason = 6
	DisconnectServiceNotAvailable         DisconnectReason = 7
	DisconnectProtocolVersionNotSupported DisconnectReason = 8
	DisconnectHostKeyNotVerifiable        DisconnectReason = 9
	DisconnectConnectionLost              DisconnectReason = 10
	DisconnectByApplication               DisconnectReason = 11
	DisconnectTooManyConnections          DisconnectReason = 12
	DisconnectAuthCancelledByUser         DisconnectReason = 13
	DisconnectNoMoreAuthMethodsAvailable  DisconnectReason = 14
	DisconnectIllegalUserName             DisconnectReason = 15
)

// Disconnect terminates the connection with a reason and a human-readable
// description.
type Disconnect struct {
	Reason      DisconnectReason
	Description string
	LanguageTag string
}

func (m *Disconnect) Number() uint8 { return NumDisconnect }

func (m *Disconnect) Marshal(w *wire.Writer) {
	w.WriteUint32(uint32(m.Reason))
	w.WriteUTF8(m.Description)
	w.WriteAscii(m.LanguageTag)
}

func (m *Disconnect) Unmarshal(r *wire.Reader) (err error) {
	var reason uint32
	if reason, err = r.ReadUint32(); err != nil {
		return err
	}
	m.Reason = DisconnectReason(reason)
	if m.Description, err = r.ReadUTF8(); err != nil {
		return err
	}
	m.LanguageTag, err = r.ReadAscii()
	return err
}

// Ignore carries bytes the peer must discard; used for traffic padding.
type Ignore struct {
	Data wire.Bytes
}

func (m *Ignore) Number() uint8 { return NumIgnore }

func (m *Ignore) Marshal(w *wire.Writer) {
	m.Data.Marshal(w)
}

func (m *Ignore) Unmarshal(r *wire.Reader) (err error) {
	m.Data, err = r.ReadBytes()
	return err
}

// Unimplemented rejects a received message by its sequence number.
type Unimplemented struct {
	Sequence uint32
}

func (m *Unimplemented) Number() uint8 { return NumUnimplemented }

func (m *Unimplemented) Marshal(w *wire.Writer) {
	w.WriteUint32(m.Sequence)
}

func (m *Unimplemented) Unmarshal(r *wire.Reader) (err error) {
	m.Sequence, err = r.ReadUint32()
	return err
}

// Debug carries diagnostic text the peer may display.
type Debug struct {
	AlwaysDisplay bool
	Message       string
	LanguageTag   string
}

func (m *Debug) Number() uint8 { return NumDebug }

func (m *Debug) Marshal(w *wire.Writer) {
	w.WriteBool(m.AlwaysDisplay)
	w.WriteUTF8(m.Message)
	w.WriteAscii(m.LanguageTag)
}

func (m *Debug) Unmarshal(r *wire.Reader) (err error) {
	if m.AlwaysDisplay, err = r.ReadBool(); err != nil {
		return err
	}
	if m.Message, err = r.ReadUTF8(); err != nil {
		return err
	}
	m.LanguageTag, err = r.ReadAscii()
	return err
}

// ServiceRequest asks the peer to start a named service.
type ServiceRequest struct {
	Service string
}

func (m *ServiceRequest) Number() uint8 { return NumServiceRequest }

func (m *ServiceRequest) Marshal(w *wire.Writer) {
	w.WriteAscii(m.Service)
}

func (m *ServiceRequest) Unmarshal(r *wire.Reader) (err error) {
	m.Service, err = r.ReadAscii()
	return err
}

// ServiceAccept confirms a ServiceRequest.
type ServiceAccept struct {
	Service string
}

func (m *ServiceAccept) Number() uint8 { return NumServiceAccept }

func (m *ServiceAccept) Marshal(w *wire.Writer) {
	w.WriteAscii(m.Service)
}

func (m *ServiceAccept) Unmarshal(r *wire.Reader) (err error) {
	m.Service, err = r.ReadAscii()
	return err
}

// CookieSize is the width of the random cookie in KexInit.
const CookieSize = 16

// KexInit opens algorithm negotiation. Each side lists what it supports
// in preference order; the reserved trailer is always zero.
type KexInit struct {
	Cookie                    [CookieSize]byte
	KexAlgorithms             wire.NameList
	ServerHostKeyAlgorithms   wire.NameList
	EncryptionClientToServer  wire.NameList
	EncryptionServerToClient  wire.NameList
	MacClientToServer         wire.NameList
	MacServerToClient         wire.NameList
	CompressionClientToServer wire.NameList
	CompressionServerToClient wire.NameList
	LanguagesClientToServer   wire.NameList
	LanguagesServerToClient   wire.NameList
	FirstKexPacketFollows     bool
}

func (m *KexInit) Number() uint8 { return NumKexInit }

func (m *KexInit) Marshal(w *wire.Writer) {
	w.WriteRaw(m.Cookie[:])
	w.WriteNameList(m.KexAlgorithms)
	w.WriteNameList(m.ServerHostKeyAlgorithms)
	w.WriteNameList(m.EncryptionClientToServer)
	w.WriteNameList(m.EncryptionServerToClient)
	w.WriteNameList(m.MacClientToServer)
	w.WriteNameList(m.MacServerToClient)
	w.WriteNameList(m.CompressionClientToServer)
	w.WriteNameList(m.CompressionServerToClient)
	w.WriteNameList(m.LanguagesClientToServer)
	w.WriteNameList(m.LanguagesServerToClient)
	w.WriteBool(m.FirstKexPacketFollows)
	w.WriteUint32(0)
}

func (m *KexInit) Unmarshal(r *wire.Reader) error {
	cookie, err := r.ReadRaw(CookieSize)
	if err != nil {
		return err
	}
	copy(m.Cookie[:], cookie)

	for _, dst := range []*wire.NameList{
		&m.KexAlgorithms,
		&m.ServerHostKeyAlgorithms,
		&m.EncryptionClientToServer,
		&m.EncryptionServerToClient,
		&m.MacClientToServer,
		&m.MacServerToClient,
		&m.CompressionClientToServer,
		&m.CompressionServerToClient,
		&m.LanguagesClientToServer,
		&m.LanguagesServerToClient,
	} {
		if *dst, err = r.ReadNameList(); err != nil {
			return err
		}
	}

	if m.FirstKexPacketFollows, err = r.ReadBool(); err != nil {
		return err
	}
	_, err = r.ReadUint32()
	return err
}

// NewKeys switches the connection to the freshly negotiated keys. It has
// no body.
type NewKeys struct{}

func (m *NewKeys) Number() uint8 { return NumNewKeys }

func (m *NewKeys) Marshal(w *wire.Writer) {}

func (m *NewKeys) Unmarshal(r *wire.Reader) error { return nil }

// KexEcdhInit is the client's ephemeral public key for an ECDH exchange,
// per RFC 5656.
type KexEcdhInit struct {
	ClientEphemeral wire.Bytes
}

func (m *KexEcdhInit) Number() uint8 { return NumKexEcdhInit }

func (m *KexEcdhInit) Marshal(w *wire.Writer) {
	m.ClientEphemeral.Marshal(w)
}

func (m *KexEcdhInit) Unmarshal(r *wire.Reader) (err error) {
	m.ClientEphemeral, err = r.ReadBytes()
	return err
}

// KexEcdhReply is the server's half of an ECDH exchange: host key,
// ephemeral public key and a signature over the exchange hash.
type KexEcdhReply struct {
	HostKey         wire.Bytes
	ServerEphemeral wire.Bytes
	Signature       wire.Bytes
}

func (m *KexEcdhReply) Number() uint8 { return NumKexEcdhReply }

func (m *KexEcdhReply) Marshal(w *wire.Writer) {
	m.HostKey.Marshal(w)
	m.ServerEphemeral.Marshal(w)
	m.Signature.Marshal(w)
}

func (m *KexEcdhReply) Unmarshal(r *wire.Reader) (err error) {
	if m.HostKey, err = r.ReadBytes(); err != nil {
		return err
	}
	if m.ServerEphemeral, err = r.ReadBytes(); err != nil {
		return err
	}
	m.Signature, err = r.ReadBytes()
	return err
}

// KexdhInit is the client's public value for a classic finite-field
// Diffie-Hellman exchange. It shares number 30 with KexEcdhInit; the
// negotiated algorithm decides which shape applies.
type KexdhInit struct {
	E *big.Int
}

func (m *KexdhInit) Number() uint8 { return NumKexdhInit }

func (m *KexdhInit) Marshal(w *wire.Writer) {
	w.WriteMpInt(m.E)
}

func (m *KexdhInit) Unmarshal(r *wire.Reader) (err error) {
	m.E, err = r.ReadMpInt()
	return err
}

// KexdhReply is the server's half of a finite-field exchange.
type KexdhReply struct {
	HostKey   wire.Bytes
	F         *big.Int
	Signature wire.Bytes
}

func (m *KexdhReply) Number() uint8 { return NumKexdhReply }

func (m *KexdhReply) Marshal(w *wire.Writer) {
	m.HostKey.Marshal(w)
	w.WriteMpInt(m.F)
	m.Signature.Marshal(w)
}

func (m *KexdhReply) Unmarshal(r *wire.Reader) (err error) {
	if m.HostKey, err = r.ReadBytes(); err != nil {
		return err
	}
	if m.F, err = r.ReadMpInt(); err != nil {
		return err
	}
	m.Signature, err = r.ReadBytes()
	return err
}
