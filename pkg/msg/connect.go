package msg

import "sshwire/pkg/wire"

// RequestContext is the request-specific tail of a GlobalRequest.
type RequestContext interface {
	Tagged
}

var requestContexts = NewRegistry(
	func() RequestContext { return &TcpipForward{} },
	func() RequestContext { return &CancelTcpipForward{} },
)

// GlobalRequest asks the peer for something outside any channel. On the
// wire the request name precedes the want-reply flag, so decoding reads
// the tag, then the flag, then the tag's payload shape.
type GlobalRequest struct {
	WantReply bool
	Context   RequestContext
}

func (m *GlobalRequest) Number() uint8 { return NumGlobalRequest }

func (m *GlobalRequest) Marshal(w *wire.Writer) {
	w.WriteAscii(m.Context.Tag())
	w.WriteBool(m.WantReply)
	m.Context.Marshal(w)
}

func (m *GlobalRequest) Unmarshal(r *wire.Reader) error {
	tag, err := r.ReadAscii()
	if err != nil {
		return err
	}
	if m.WantReply, err = r.ReadBool(); err != nil {
		return err
	}
	m.Context, err = requestContexts.DecodePayload(tag, r)
	return err
}

// TcpipForward asks the peer to listen on an address and forward inbound
// connections back. Port zero lets the peer pick; the reply then carries
// the bound port.
type TcpipForward struct {
	Address string
	Port    uint32
}

func (c *TcpipForward) Tag() string { return "tcpip-forward" }

func (c *TcpipForward) Marshal(w *wire.Writer) {
	w.WriteUTF8(c.Address)
	w.WriteUint32(c.Port)
}

func (c *TcpipForward) Unmarshal(r *wire.Reader) (err error) {
	if c.Address, err = r.ReadUTF8(); err != nil {
		return err
	}
	c.Port, err = r.ReadUint32()
	return err
}

// CancelTcpipForward retracts an earlier TcpipForward.
type CancelTcpipForward struct {
	Address string
	Port    uint32
}

func (c *CancelTcpipForward) Tag() string { return "cancel-tcpip-forward" }

func (c *CancelTcpipForward) Marshal(w *wire.Writer) {
	w.WriteUTF8(c.Address)
	w.WriteUint32(c.Port)
}

func (c *CancelTcpipForward) Unmarshal(r *wire.Reader) (err error) {
	if c.Address, err = r.ReadUTF8(); err != nil {
		return err
	}
	c.Port, err = r.ReadUint32()
	return err
}

// RequestSuccess acknowledges a GlobalRequest. BoundPort is present only
// when answering a TcpipForward that asked for port zero.
type RequestSuccess struct {
	BoundPort *uint32
}

func (m *RequestSuccess) Number() uint8 { return NumRequestSuccess }

func (m *RequestSuccess) Marshal(w *wire.Writer) {
	if m.BoundPort != nil {
		w.WriteUint32(*m.BoundPort)
	}
}

func (m *RequestSuccess) Unmarshal(r *wire.Reader) error {
	m.BoundPort = nil
	if r.Len() == 0 {
		return nil
	}
	port, err := r.ReadUint32()
	if err != nil {
		return err
	}
	m.BoundPort = &port
	return nil
}

// RequestFailure denies a GlobalRequest. It has no body.
type RequestFailure struct{}

func (m *RequestFailure) Number() uint8 { return NumRequestFailure }

func (m *RequestFailure) Marshal(w *wire.Writer) {}

func (m *RequestFailure) Unmarshal(r *wire.Reader) error { return nil }

// ChannelOpenContext is the type-specific tail of a ChannelOpen.
type ChannelOpenContext interface {
	Tagged
}

var channelOpenContexts = NewRegistry(
	func() ChannelOpenContext { return &SessionOpen{} },
	func() ChannelOpenContext { return &X11Open{} },
	func() ChannelOpenContext { return &ForwardedTcpipOpen{} },
	func() ChannelOpenContext { return &DirectTcpipOpen{} },
)

// ChannelOpen starts a new channel. SenderChannel is the opener's local
// identifier; WindowSize and MaxPacketSize bound what the peer may send
// on it.
type ChannelOpen struct {
	SenderChannel uint32
	WindowSize    uint32
	MaxPacketSize uint32
	Context       ChannelOpenContext
}

func (m *ChannelOpen) Number() uint8 { return NumChannelOpen }

func (m *ChannelOpen) Marshal(w *wire.Writer) {
	w.WriteAscii(m.Context.Tag())
	w.WriteUint32(m.SenderChannel)
	w.WriteUint32(m.WindowSize)
	w.WriteUint32(m.MaxPacketSize)
	m.Context.Marshal(w)
}

func (m *ChannelOpen) Unmarshal(r *wire.Reader) error {
	tag, err := r.ReadAscii()
	if err != nil {
		return err
	}
	if m.SenderChannel, err = r.ReadUint32(); err != nil {
		return err
	}
	if m.WindowSize, err = r.ReadUint32(); err != nil {
		return err
	}
	if m.MaxPacketSize, err = r.ReadUint32(); err != nil {
		return err
	}
	m.Context, err = channelOpenContexts.DecodePayload(tag, r)
	return err
}

// SessionOpen opens an interactive session channel.
type SessionOpen struct{}

func (c *SessionOpen) Tag() string { return "session" }

func (c *SessionOpen) Marshal(w *wire.Writer) {}

func (c *SessionOpen) Unmarshal(r *wire.Reader) error { return nil }

// X11Open forwards an X11 client connection back to the peer.
type X11Open struct {
	OriginAddress string
	OriginPort    uint32
}

func (c *X11Open) Tag() string { return "x11" }

func (c *X11Open) Marshal(w *wire.Writer) {
	w.WriteUTF8(c.OriginAddress)
	w.WriteUint32(c.OriginPort)
}

func (c *X11Open) Unmarshal(r *wire.Reader) (err error) {
	if c.OriginAddress, err = r.ReadUTF8(); err != nil {
		return err
	}
	c.OriginPort, err = r.ReadUint32()
	return err
}

// ForwardedTcpipOpen delivers a connection that arrived on an address the
// peer asked to have forwarded.
type ForwardedTcpipOpen struct {
	ConnectedAddress string
	ConnectedPort    uint32
	OriginAddress    string
	OriginPort       uint32
}

func (c *ForwardedTcpipOpen) Tag() string { return "forwarded-tcpip" }

func (c *ForwardedTcpipOpen) Marshal(w *wire.Writer) {
	w.WriteUTF8(c.ConnectedAddress)
	w.WriteUint32(c.ConnectedPort)
	w.WriteUTF8(c.OriginAddress)
	w.WriteUint32(c.OriginPort)
}

func (c *ForwardedTcpipOpen) Unmarshal(r *wire.Reader) (err error) {
	if c.ConnectedAddress, err = r.ReadUTF8(); err != nil {
		return err
	}
	if c.ConnectedPort, err = r.ReadUint32(); err != nil {
		return err
	}
	if c.OriginAddress, err = r.ReadUTF8(); err != nil {
		return err
	}
	c.OriginPort, err = r.ReadUint32()
	return err
}

// DirectTcpipOpen asks the peer to connect out to a host and splice the
// channel to it.
type DirectTcpipOpen struct {
	HostToConnect string
	PortToConnect uint32
	OriginAddress string
	OriginPort    uint32
}

func (c *DirectTcpipOpen) Tag() string { return "direct-tcpip" }

func (c *DirectTcpipOpen) Marshal(w *wire.Writer) {
	w.WriteUTF8(c.HostToConnect)
	w.WriteUint32(c.PortToConnect)
	w.WriteUTF8(c.OriginAddress)
	w.WriteUint32(c.OriginPort)
}

func (c *DirectTcpipOpen) Unmarshal(r *wire.Reader) (err error) {
	if c.HostToConnect, err = r.ReadUTF8(); err != nil {
		return err
	}
	if c.PortToConnect, err = r.ReadUint32(); err != nil {
		return err
	}
	if c.OriginAddress, err = r.ReadUTF8(); err != nil {
		return err
	}
	c.OriginPort, err = r.ReadUint32()
	return err
}

// ChannelOpenConfirmation accepts a ChannelOpen and reports the
// accepter's own channel identifier and limits.
type ChannelOpenConfirmation struct {
	RecipientChannel uint32
	SenderChannel    uint32
	WindowSize       uint32
	MaxPacketSize    uint32
}

func (m *ChannelOpenConfirmation) Number() uint8 { return NumChannelOpenConfirm }

func (m *ChannelOpenConfirmation) Marshal(w *wire.Writer) {
	w.WriteUint32(m.RecipientChannel)
	w.WriteUint32(m.SenderChannel)
	w.WriteUint32(m.WindowSize)
	w.WriteUint32(m.MaxPacketSize)
}

func (m *ChannelOpenConfirmation) Unmarshal(r *wire.Reader) (err error) {
	if m.RecipientChannel, err = r.ReadUint32(); err != nil {
		return err
	}
	if m.SenderChannel, err = r.ReadUint32(); err != nil {
		return err
	}
	if m.WindowSize, err = r.ReadUint32(); err != nil {
		return err
	}
	m.MaxPacketSize, err = r.ReadUint32()
	return err
}

// ChannelOpenFailureReason is the machine-readable cause carried by
// ChannelOpenFailure.
type ChannelOpenFailureReason uint32

// Channel-open failure reason codes, per RFC 4254 section 5.1.
const (
	OpenAdministrativelyProhibited ChannelOpenFailureReason = 1
	OpenConnectFailed              ChannelOpenFailureReason = 2
	OpenUnknownChannelType         ChannelOpenFailureReason = 3
	OpenResourceShortage           ChannelOpenFailureReason = 4
)

// ChannelOpenFailure rejects a ChannelOpen.
type ChannelOpenFailure struct {
	RecipientChannel uint32
	Reason           ChannelOpenFailureReason
	Description      string
	LanguageTag      string
}

func (m *ChannelOpenFailure) Number() uint8 { return NumChannelOpenFailure }

func (m *ChannelOpenFailure) Marshal(w *wire.Writer) {
	w.WriteUint32(m.RecipientChannel)
	w.WriteUint32(uint32(m.Reason))
	w.WriteUTF8(m.Description)
	w.WriteAscii(m.LanguageTag)
}

func (m *ChannelOpenFailure) Unmarshal(r *wire.Reader) (err error) {
	if m.RecipientChannel, err = r.ReadUint32(); err != nil {
		return err
	}
	var reason uint32
	if reason, err = r.ReadUint32(); err != nil {
		return err
	}
	m.Reason = ChannelOpenFailureReason(reason)
	if m.Description, err = r.ReadUTF8(); err != nil {
		return err
	}
	m.LanguageTag, err = r.ReadAscii()
	return err
}

// ChannelWindowAdjust grants the peer more bytes of flow-control window.
type ChannelWindowAdjust struct {
	RecipientChannel uint32
	BytesToAdd       uint32
}

func (m *ChannelWindowAdjust) Number() uint8 { return NumChannelWindowAdjust }

func (m *ChannelWindowAdjust) Marshal(w *wire.Writer) {
	w.WriteUint32(m.RecipientChannel)
	w.WriteUint32(m.BytesToAdd)
}

func (m *ChannelWindowAdjust) Unmarshal(r *wire.Reader) (err error) {
	if m.RecipientChannel, err = r.ReadUint32(); err != nil {
		return err
	}
	m.BytesToAdd, err = r.ReadUint32()
	return err
}

// ChannelData carries application bytes on a channel.
type ChannelData struct {
	RecipientChannel uint32
	Data             wire.Bytes
}

func (m *ChannelData) Number() uint8 { return NumChannelData }

func (m *ChannelData) Marshal(w *wire.Writer) {
	w.WriteUint32(m.RecipientChannel)
	m.Data.Marshal(w)
}

func (m *ChannelData) Unmarshal(r *wire.Reader) (err error) {
	if m.RecipientChannel, err = r.ReadUint32(); err != nil {
		return err
	}
	m.Data, err = r.ReadBytes()
	return err
}

// ExtendedDataStderr is the only extended-data type RFC 4254 assigns.
const ExtendedDataStderr uint32 = 1

// ChannelExtendedData carries typed out-of-band bytes, in practice
// stderr output.
type ChannelExtendedData struct {
	RecipientChannel uint32
	DataType         uint32
	Data             wire.Bytes
}

func (m *ChannelExtendedData) Number() uint8 { return NumChannelExtendedData }

func (m *ChannelExtendedData) Marshal(w *wire.Writer) {
	w.WriteUint32(m.RecipientChannel)
	w.WriteUint32(m.DataType)
	m.Data.Marshal(w)
}

func (m *ChannelExtendedData) Unmarshal(r *wire.Reader) (err error) {
	if m.RecipientChannel, err = r.ReadUint32(); err != nil {
		return err
	}
	if m.DataType, err = r.ReadUint32(); err != nil {
		return err
	}
	m.Data, err = r.ReadBytes()
	return err
}

// ChannelEof announces no more data will be sent on a channel.
type ChannelEof struct {
	RecipientChannel uint32
}

func (m *ChannelEof) Number() uint8 { return NumChannelEof }

func (m *ChannelEof) Marshal(w *wire.Writer) {
	w.WriteUint32(m.RecipientChannel)
}

func (m *ChannelEof) Unmarshal(r *wire.Reader) (err error) {
	m.RecipientChannel, err = r.ReadUint32()
	return err
}

// ChannelClose tears a channel down.
type ChannelClose struct {
	RecipientChannel uint32
}

func (m *ChannelClose) Number() uint8 { return NumChannelClose }

func (m *ChannelClose) Marshal(w *wire.Writer) {
	w.WriteUint32(m.RecipientChannel)
}

func (m *ChannelClose) Unmarshal(r *wire.Reader) (err error) {
	m.RecipientChannel, err = r.ReadUint32()
	return err
}

// ChannelRequestContext is the request-specific tail of a ChannelRequest.
type ChannelRequestContext interface {
	Tagged
}

var channelRequestContexts = NewRegistry(
	func() ChannelRequestContext { return &PtyRequest{} },
	func() ChannelRequestContext { return &X11Request{} },
	func() ChannelRequestContext { return &EnvRequest{} },
	func() ChannelRequestContext { return &ShellRequest{} },
	func() ChannelRequestContext { return &ExecRequest{} },
	func() ChannelRequestContext { return &SubsystemRequest{} },
	func() ChannelRequestContext { return &WindowChangeRequest{} },
	func() ChannelRequestContext { return &XonXoffRequest{} },
	func() ChannelRequestContext { return &SignalRequest{} },
	func() ChannelRequestContext { return &ExitStatusRequest{} },
	func() ChannelRequestContext { return &ExitSignalRequest{} },
)

// ChannelRequest asks for channel-specific behavior. On the wire the
// recipient channel precedes the request name, which precedes the
// want-reply flag.
type ChannelRequest struct {
	RecipientChannel uint32
	WantReply        bool
	Context          ChannelRequestContext
}

func (m *ChannelRequest) Number() uint8 { return NumChannelRequest }

func (m *ChannelRequest) Marshal(w *wire.Writer) {
	w.WriteUint32(m.RecipientChannel)
	w.WriteAscii(m.Context.Tag())
	w.WriteBool(m.WantReply)
	m.Context.Marshal(w)
}

func (m *ChannelRequest) Unmarshal(r *wire.Reader) error {
	var err error
	if m.RecipientChannel, err = r.ReadUint32(); err != nil {
		return err
	}
	tag, err := r.ReadAscii()
	if err != nil {
		return err
	}
	if m.WantReply, err = r.ReadBool(); err != nil {
		return err
	}
	m.Context, err = channelRequestContexts.DecodePayload(tag, r)
	return err
}

// PtyRequest allocates a pseudo-terminal. Modes is the encoded terminal
// mode list of RFC 4254 section 8, kept opaque here.
type PtyRequest struct {
	Term         string
	WidthChars   uint32
	HeightRows   uint32
	WidthPixels  uint32
	HeightPixels uint32
	Modes        wire.Bytes
}

func (c *PtyRequest) Tag() string { return "pty-req" }

func (c *PtyRequest) Marshal(w *wire.Writer) {
	w.WriteAscii(c.Term)
	w.WriteUint32(c.WidthChars)
	w.WriteUint32(c.HeightRows)
	w.WriteUint32(c.WidthPixels)
	w.WriteUint32(c.HeightPixels)
	c.Modes.Marshal(w)
}

func (c *PtyRequest) Unmarshal(r *wire.Reader) (err error) {
	if c.Term, err = r.ReadAscii(); err != nil {
		return err
	}
	if c.WidthChars, err = r.ReadUint32(); err != nil {
		return err
	}
	if c.HeightRows, err = r.ReadUint32(); err != nil {
		return err
	}
	if c.WidthPixels, err = r.ReadUint32(); err != nil {
		return err
	}
	if c.HeightPixels, err = r.ReadUint32(); err != nil {
		return err
	}
	c.Modes, err = r.ReadBytes()
	return err
}

// X11Request asks for X11 forwarding on a session channel.
type X11Request struct {
	SingleConnection bool
	AuthProtocol     string
	AuthCookie       string
	ScreenNumber     uint32
}

func (c *X11Request) Tag() string { return "x11-req" }

func (c *X11Request) Marshal(w *wire.Writer) {
	w.WriteBool(c.SingleConnection)
	w.WriteAscii(c.AuthProtocol)
	w.WriteAscii(c.AuthCookie)
	w.WriteUint32(c.ScreenNumber)
}

func (c *X11Request) Unmarshal(r *wire.Reader) (err error) {
	if c.SingleConnection, err = r.ReadBool(); err != nil {
		return err
	}
	if c.AuthProtocol, err = r.ReadAscii(); err != nil {
		return err
	}
	if c.AuthCookie, err = r.ReadAscii(); err != nil {
		return err
	}
	c.ScreenNumber, err = r.ReadUint32()
	return err
}

// EnvRequest sets one environment variable for the session.
type EnvRequest struct {
	Name  string
	Value string
}

func (c *EnvRequest) Tag() string { return "env" }

func (c *EnvRequest) Marshal(w *wire.Writer) {
	w.WriteUTF8(c.Name)
	w.WriteUTF8(c.Value)
}

func (c *EnvRequest) Unmarshal(r *wire.Reader) (err error) {
	if c.Name, err = r.ReadUTF8(); err != nil {
		return err
	}
	c.Value, err = r.ReadUTF8()
	return err
}

// ShellRequest starts the user's default shell on a session channel.
type ShellRequest struct{}

func (c *ShellRequest) Tag() string { return "shell" }

func (c *ShellRequest) Marshal(w *wire.Writer) {}

func (c *ShellRequest) Unmarshal(r *wire.Reader) error { return nil }

// ExecRequest runs one command on a session channel.
type ExecRequest struct {
	Command string
}

func (c *ExecRequest) Tag() string { return "exec" }

func (c *ExecRequest) Marshal(w *wire.Writer) {
	w.WriteUTF8(c.Command)
}

func (c *ExecRequest) Unmarshal(r *wire.Reader) (err error) {
	c.Command, err = r.ReadUTF8()
	return err
}

// SubsystemRequest starts a named subsystem such as sftp.
type SubsystemRequest struct {
	Name string
}

func (c *SubsystemRequest) Tag() string { return "subsystem" }

func (c *SubsystemRequest) Marshal(w *wire.Writer) {
	w.WriteAscii(c.Name)
}

func (c *SubsystemRequest) Unmarshal(r *wire.Reader) (err error) {
	c.Name, err = r.ReadAscii()
	return err
}

// WindowChangeRequest reports a terminal resize. It is never replied to.
type WindowChangeRequest struct {
	WidthChars   uint32
	HeightRows   uint32
	WidthPixels  uint32
	HeightPixels uint32
}

func (c *WindowChangeRequest) Tag() string { return "window-change" }

func (c *WindowChangeRequest) Marshal(w *wire.Writer) {
	w.WriteUint32(c.WidthChars)
	w.WriteUint32(c.HeightRows)
	w.WriteUint32(c.WidthPixels)
	w.WriteUint32(c.HeightPixels)
}

func (c *WindowChangeRequest) Unmarshal(r *wire.Reader) (err error) {
	if c.WidthChars, err = r.ReadUint32(); err != nil {
		return err
	}
	if c.HeightRows, err = r.ReadUint32(); err != nil {
		return err
	}
	if c.WidthPixels, err = r.ReadUint32(); err != nil {
		return err
	}
	c.HeightPixels, err = r.ReadUint32()
	return err
}

// XonXoffRequest tells the client whether it may do its own flow control.
type XonXoffRequest struct {
	ClientCanDo bool
}

func (c *XonXoffRequest) Tag() string { return "xon-xoff" }

func (c *XonXoffRequest) Marshal(w *wire.Writer) {
	w.WriteBool(c.ClientCanDo)
}

func (c *XonXoffRequest) Unmarshal(r *wire.Reader) (err error) {
	c.ClientCanDo, err = r.ReadBool()
	return err
}

// SignalRequest delivers a signal to the remote process, named without
// the SIG prefix.
type SignalRequest struct {
	Name string
}

func (c *SignalRequest) Tag() string { return "signal" }

func (c *SignalRequest) Marshal(w *wire.Writer) {
	w.WriteAscii(c.Name)
}

func (c *SignalRequest) Unmarshal(r *wire.Reader) (err error) {
	c.Name, err = r.ReadAscii()
	return err
}

// ExitStatusRequest reports the remote command's exit status.
type ExitStatusRequest struct {
	Status uint32
}

func (c *ExitStatusRequest) Tag() string { return "exit-status" }

func (c *ExitStatusRequest) Marshal(w *wire.Writer) {
	w.WriteUint32(c.Status)
}

func (c *ExitStatusRequest) Unmarshal(r *wire.Reader) (err error) {
	c.Status, err = r.ReadUint32()
	return err
}

// ExitSignalRequest reports that the remote command was killed by a
// signal.
type ExitSignalRequest struct {
	Name        string
	CoreDumped  bool
	Message     string
	LanguageTag string
}

func (c *ExitSignalRequest) Tag() string { return "exit-signal" }

func (c *ExitSignalRequest) Marshal(w *wire.Writer) {
	w.WriteAscii(c.Name)
	w.WriteBool(c.CoreDumped)
	w.WriteUTF8(c.Message)
	w.WriteAscii(c.LanguageTag)
}

func (c *ExitSignalRequest) Unmarshal(r *wire.Reader) (err error) {
	if c.Name, err = r.ReadAscii(); err != nil {
		return err
	}
	if c.CoreDumped, err = r.ReadBool(); err != nil {
		return err
	}
	if c.Message, err = r.ReadUTF8(); err != nil {
		return err
	}
	c.LanguageTag, err = r.ReadAscii()
	return err
}

// ChannelSuccess acknowledges a ChannelRequest.
type ChannelSuccess struct {
	RecipientChannel uint32
}

func (m *ChannelSuccess) Number() uint8 { return NumChannelSuccess }

func (m *ChannelSuccess) Marshal(w *wire.Writer) {
	w.WriteUint32(m.RecipientChannel)
}

func (m *ChannelSuccess) Unmarshal(r *wire.Reader) (err error) {
	m.RecipientChannel, err = r.ReadUint32()
	return err
}

// ChannelFailure denies a ChannelRequest.
type ChannelFailure struct {
	RecipientChannel uint32
}

func (m *ChannelFailure) Number() uint8 { return NumChannelFailure }

func (m *ChannelFailure) Marshal(w *wire.Writer) {
	w.WriteUint32(m.RecipientChannel)
}

func (m *ChannelFailure) Unmarshal(r *wire.Reader) (err error) {
	m.RecipientChannel, err = r.ReadUint32()
	return err
}
