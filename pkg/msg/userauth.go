package msg

import "sshwire/pkg/wire"

// AuthMethod is the method-specific tail of a UserauthRequest, selected
// by the method name on the wire.
type AuthMethod interface {
	Tagged
}

// authMethods is the closed set of authentication methods, per RFC 4252
// and RFC 4256.
var authMethods = NewRegistry(
	func() AuthMethod { return &MethodNone{} },
	func() AuthMethod { return &MethodPublicKey{} },
	func() AuthMethod { return &MethodPassword{} },
	func() AuthMethod { return &MethodHostbased{} },
	func() AuthMethod { return &MethodKeyboardInteractive{} },
)

// UserauthRequest asks to authenticate a user for a service with one
// concrete method.
type UserauthRequest struct {
	Username string
	Service  string
	Method   AuthMethod
}

func (m *UserauthRequest) Number() uint8 { return NumUserauthRequest }

func (m *UserauthRequest) Marshal(w *wire.Writer) {
	w.WriteUTF8(m.Username)
	w.WriteAscii(m.Service)
	w.WriteAscii(m.Method.Tag())
	m.Method.Marshal(w)
}

func (m *UserauthRequest) Unmarshal(r *wire.Reader) (err error) {
	if m.Username, err = r.ReadUTF8(); err != nil {
		return err
	}
	if m.Service, err = r.ReadAscii(); err != nil {
		return err
	}
	m.Method, err = authMethods.Decode(r)
	return err
}

// MethodNone probes which methods the server will accept.
type MethodNone struct{}

func (a *MethodNone) Tag() string { return "none" }

func (a *MethodNone) Marshal(w *wire.Writer) {}

func (a *MethodNone) Unmarshal(r *wire.Reader) error { return nil }

// MethodPublicKey authenticates with a public key. A nil Signature is the
// query form asking whether the key would be acceptable; a non-nil
// Signature signs the session identifier and request, per RFC 4252
// section 7.
type MethodPublicKey struct {
	Algorithm string
	Blob      wire.Bytes
	Signature *wire.Bytes
}

func (a *MethodPublicKey) Tag() string { return "publickey" }

func (a *MethodPublicKey) Marshal(w *wire.Writer) {
	w.WriteBool(a.Signature != nil)
	w.WriteAscii(a.Algorithm)
	a.Blob.Marshal(w)
	if a.Signature != nil {
		a.Signature.Marshal(w)
	}
}

func (a *MethodPublicKey) Unmarshal(r *wire.Reader) error {
	signed, err := r.ReadBool()
	if err != nil {
		return err
	}
	if a.Algorithm, err = r.ReadAscii(); err != nil {
		return err
	}
	if a.Blob, err = r.ReadBytes(); err != nil {
		return err
	}
	a.Signature = nil
	if signed {
		sig, err := r.ReadBytes()
		if err != nil {
			return err
		}
		a.Signature = &sig
	}
	return nil
}

// MethodPassword authenticates with a password. A non-nil New requests a
// password change in the same message.
type MethodPassword struct {
	Password string
	New      *string
}

func (a *MethodPassword) Tag() string { return "password" }

func (a *MethodPassword) Marshal(w *wire.Writer) {
	w.WriteBool(a.New != nil)
	w.WriteUTF8(a.Password)
	if a.New != nil {
		w.WriteUTF8(*a.New)
	}
}

func (a *MethodPassword) Unmarshal(r *wire.Reader) error {
	change, err := r.ReadBool()
	if err != nil {
		return err
	}
	if a.Password, err = r.ReadUTF8(); err != nil {
		return err
	}
	a.New = nil
	if change {
		next, err := r.ReadUTF8()
		if err != nil {
			return err
		}
		a.New = &next
	}
	return nil
}

// MethodHostbased authenticates the client host rather than the user.
type MethodHostbased struct {
	Algorithm string
	HostKey   wire.Bytes
	Hostname  string
	Username  string
	Signature wire.Bytes
}

func (a *MethodHostbased) Tag() string { return "hostbased" }

func (a *MethodHostbased) Marshal(w *wire.Writer) {
	w.WriteAscii(a.Algorithm)
	a.HostKey.Marshal(w)
	w.WriteAscii(a.Hostname)
	w.WriteUTF8(a.Username)
	a.Signature.Marshal(w)
}

func (a *MethodHostbased) Unmarshal(r *wire.Reader) (err error) {
	if a.Algorithm, err = r.ReadAscii(); err != nil {
		return err
	}
	if a.HostKey, err = r.ReadBytes(); err != nil {
		return err
	}
	if a.Hostname, err = r.ReadAscii(); err != nil {
		return err
	}
	if a.Username, err = r.ReadUTF8(); err != nil {
		return err
	}
	a.Signature, err = r.ReadBytes()
	return err
}

// MethodKeyboardInteractive starts a challenge-response dialogue, per
// RFC 4256.
type MethodKeyboardInteractive struct {
	LanguageTag string
	Submethods  string
}

func (a *MethodKeyboardInteractive) Tag() string { return "keyboard-interactive" }

func (a *MethodKeyboardInteractive) Marshal(w *wire.Writer) {
	w.WriteAscii(a.LanguageTag)
	w.WriteUTF8(a.Submethods)
}

func (a *MethodKeyboardInteractive) Unmarshal(r *wire.Reader) (err error) {
	if a.LanguageTag, err = r.ReadAscii(); err != nil {
		return err
	}
	a.Submethods, err = r.ReadUTF8()
	return err
}

// UserauthFailure lists the methods that can still continue. PartialSuccess
// reports that the failed request was itself accepted but insufficient.
type UserauthFailure struct {
	Methods        wire.NameList
	PartialSuccess bool
}

func (m *UserauthFailure) Number() uint8 { return NumUserauthFailure }

func (m *UserauthFailure) Marshal(w *wire.Writer) {
	w.WriteNameList(m.Methods)
	w.WriteBool(m.PartialSuccess)
}

func (m *UserauthFailure) Unmarshal(r *wire.Reader) (err error) {
	if m.Methods, err = r.ReadNameList(); err != nil {
		return err
	}
	m.PartialSuccess, err = r.ReadBool()
	return err
}

// UserauthSuccess completes authentication. It has no body.
type UserauthSuccess struct{}

func (m *UserauthSuccess) Number() uint8 { return NumUserauthSuccess }

func (m *UserauthSuccess) Marshal(w *wire.Writer) {}

func (m *UserauthSuccess) Unmarshal(r *wire.Reader) error { return nil }

// UserauthBanner carries text to show the user before authentication.
type UserauthBanner struct {
	Message     string
	LanguageTag string
}

func (m *UserauthBanner) Number() uint8 { return NumUserauthBanner }

func (m *UserauthBanner) Marshal(w *wire.Writer) {
	w.WriteUTF8(m.Message)
	w.WriteAscii(m.LanguageTag)
}

func (m *UserauthBanner) Unmarshal(r *wire.Reader) (err error) {
	if m.Message, err = r.ReadUTF8(); err != nil {
		return err
	}
	m.LanguageTag, err = r.ReadAscii()
	return err
}

// UserauthPkOk accepts a public-key query. It shares number 60 with
// UserauthPasswdChangeReq and UserauthInfoRequest; the method in flight
// decides which shape applies.
type UserauthPkOk struct {
	Algorithm string
	Blob      wire.Bytes
}

func (m *UserauthPkOk) Number() uint8 { return NumUserauthPkOk }

func (m *UserauthPkOk) Marshal(w *wire.Writer) {
	w.WriteAscii(m.Algorithm)
	m.Blob.Marshal(w)
}

func (m *UserauthPkOk) Unmarshal(r *wire.Reader) (err error) {
	if m.Algorithm, err = r.ReadAscii(); err != nil {
		return err
	}
	m.Blob, err = r.ReadBytes()
	return err
}

// UserauthPasswdChangeReq demands a new password before authentication
// can proceed.
type UserauthPasswdChangeReq struct {
	Prompt      string
	LanguageTag string
}

func (m *UserauthPasswdChangeReq) Number() uint8 { return NumUserauthPasswdChangeReq }

func (m *UserauthPasswdChangeReq) Marshal(w *wire.Writer) {
	w.WriteUTF8(m.Prompt)
	w.WriteAscii(m.LanguageTag)
}

func (m *UserauthPasswdChangeReq) Unmarshal(r *wire.Reader) (err error) {
	if m.Prompt, err = r.ReadUTF8(); err != nil {
		return err
	}
	m.LanguageTag, err = r.ReadAscii()
	return err
}

// Prompt is one question in a keyboard-interactive exchange. Echo reports
// whether the user's answer may be displayed as typed.
type Prompt struct {
	Text string
	Echo bool
}

// UserauthInfoRequest asks the user a batch of questions.
type UserauthInfoRequest struct {
	Name        string
	Instruction string
	LanguageTag string
	Prompts     []Prompt
}

func (m *UserauthInfoRequest) Number() uint8 { return NumUserauthInfoRequest }

func (m *UserauthInfoRequest) Marshal(w *wire.Writer) {
	w.WriteUTF8(m.Name)
	w.WriteUTF8(m.Instruction)
	w.WriteAscii(m.LanguageTag)
	w.WriteUint32(uint32(len(m.Prompts)))
	for _, p := range m.Prompts {
		w.WriteUTF8(p.Text)
		w.WriteBool(p.Echo)
	}
}

func (m *UserauthInfoRequest) Unmarshal(r *wire.Reader) error {
	var err error
	if m.Name, err = r.ReadUTF8(); err != nil {
		return err
	}
	if m.Instruction, err = r.ReadUTF8(); err != nil {
		return err
	}
	if m.LanguageTag, err = r.ReadAscii(); err != nil {
		return err
	}
	count, err := r.ReadUint32()
	if err != nil {
		return err
	}
	m.Prompts = nil
	for i := uint32(0); i < count; i++ {
		var p Prompt
		if p.Text, err = r.ReadUTF8(); err != nil {
			return err
		}
		if p.Echo, err = r.ReadBool(); err != nil {
			return err
		}
		m.Prompts = append(m.Prompts, p)
	}
	return nil
}

// UserauthInfoResponse answers a UserauthInfoRequest, one response per
// prompt in order.
type UserauthInfoResponse struct {
	Responses []string
}

func (m *UserauthInfoResponse) Number() uint8 { return NumUserauthInfoResponse }

func (m *UserauthInfoResponse) Marshal(w *wire.Writer) {
	w.WriteUint32(uint32(len(m.Responses)))
	for _, resp := range m.Responses {
		w.WriteUTF8(resp)
	}
}

func (m *UserauthInfoResponse) Unmarshal(r *wire.Reader) error {
	count, err := r.ReadUint32()
	if err != nil {
		return err
	}
	m.Responses = nil
	for i := uint32(0); i < count; i++ {
		resp, err := r.ReadUTF8()
		if err != nil {
			return err
		}
		m.Responses = append(m.Responses, resp)
	}
	return nil
}

// PublicKeySignatureBlob builds the bytes a public-key authentication
// signature covers: the session identifier followed by the request fields
// up to and including the key blob, per RFC 4252 section 7.
func PublicKeySignatureBlob(sessionID []byte, username, service, algorithm string, blob wire.Bytes) ([]byte, error) {
	w := wire.NewWriter()
	w.WriteBytes(sessionID)
	w.WriteUint8(NumUserauthRequest)
	w.WriteUTF8(username)
	w.WriteAscii(service)
	w.WriteAscii("publickey")
	w.WriteBool(true)
	w.WriteAscii(algorithm)
	blob.Marshal(w)
	return w.Bytes()
}
