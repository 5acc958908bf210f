package msg

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"sshwire/pkg/wire"
)

func encode(t *testing.T, m Message) []byte {
	t.Helper()
	payload, err := Encode(m)
	if err != nil {
		t.Fatalf("encode %T: %v", m, err)
	}
	return payload
}

func TestRoundTripThroughCatalogue(t *testing.T) {
	port := uint32(2222)
	next := "correct horse battery staple"

	messages := []Message{
		&Disconnect{Reason: DisconnectProtocolError, Description: "bad packet", LanguageTag: "en"},
		&Ignore{Data: wire.BorrowedBytes([]byte{1, 2, 3})},
		&Unimplemented{Sequence: 9},
		&Debug{AlwaysDisplay: true, Message: "debug text"},
		&ServiceRequest{Service: "ssh-userauth"},
		&ServiceAccept{Service: "ssh-userauth"},
		&KexInit{
			Cookie:                    [CookieSize]byte{0: 0xAA, 15: 0xBB},
			KexAlgorithms:             wire.NameList{"curve25519-sha256"},
			ServerHostKeyAlgorithms:   wire.NameList{"ssh-ed25519", "rsa-sha2-256"},
			EncryptionClientToServer:  wire.NameList{"aes128-ctr"},
			EncryptionServerToClient:  wire.NameList{"aes128-ctr"},
			MacClientToServer:         wire.NameList{"hmac-sha2-256"},
			MacServerToClient:         wire.NameList{"hmac-sha2-256"},
			CompressionClientToServer: wire.NameList{"none", "zlib"},
			CompressionServerToClient: wire.NameList{"none"},
			LanguagesClientToServer:   wire.NameList{},
			LanguagesServerToClient:   wire.NameList{},
		},
		&NewKeys{},
		&UserauthRequest{
			Username: "alice",
			Service:  "ssh-connection",
			Method:   &MethodNone{},
		},
		&UserauthRequest{
			Username: "alice",
			Service:  "ssh-connection",
			Method:   &MethodPassword{Password: "hunter2", New: &next},
		},
		&UserauthRequest{
			Username: "alice",
			Service:  "ssh-connection",
			Method: &MethodPublicKey{
				Algorithm: "ssh-ed25519",
				Blob:      wire.BorrowedBytes([]byte("key blob")),
			},
		},
		&UserauthRequest{
			Username: "bob",
			Service:  "ssh-connection",
			Method: &MethodKeyboardInteractive{
				Submethods: "pam",
			},
		},
		&UserauthFailure{Methods: wire.NameList{"publickey", "password"}, PartialSuccess: true},
		&UserauthSuccess{},
		&UserauthBanner{Message: "welcome", LanguageTag: "en"},
		&UserauthInfoResponse{Responses: []string{"first", "second"}},
		&GlobalRequest{WantReply: true, Context: &TcpipForward{Address: "0.0.0.0", Port: 8080}},
		&GlobalRequest{Context: &CancelTcpipForward{Address: "0.0.0.0", Port: 8080}},
		&RequestSuccess{},
		&RequestSuccess{BoundPort: &port},
		&RequestFailure{},
		&ChannelOpen{
			SenderChannel: 1,
			WindowSize:    1 << 20,
			MaxPacketSize: 32768,
			Context:       &SessionOpen{},
		},
		&ChannelOpen{
			SenderChannel: 2,
			WindowSize:    1 << 20,
			MaxPacketSize: 32768,
			Context: &DirectTcpipOpen{
				HostToConnect: "internal.example",
				PortToConnect: 443,
				OriginAddress: "10.0.0.1",
				OriginPort:    51234,
			},
		},
		&ChannelOpenConfirmation{RecipientChannel: 1, SenderChannel: 7, WindowSize: 4096, MaxPacketSize: 1024},
		&ChannelOpenFailure{RecipientChannel: 1, Reason: OpenConnectFailed, Description: "refused"},
		&ChannelWindowAdjust{RecipientChannel: 1, BytesToAdd: 4096},
		&ChannelData{RecipientChannel: 1, Data: wire.BorrowedBytes([]byte("stdout bytes"))},
		&ChannelExtendedData{RecipientChannel: 1, DataType: ExtendedDataStderr, Data: wire.BorrowedBytes([]byte("stderr bytes"))},
		&ChannelEof{RecipientChannel: 1},
		&ChannelClose{RecipientChannel: 1},
		&ChannelRequest{
			RecipientChannel: 1,
			WantReply:        true,
			Context: &PtyRequest{
				Term:       "xterm-256color",
				WidthChars: 80, HeightRows: 24,
				Modes: wire.BorrowedBytes([]byte{0}),
			},
		},
		&ChannelRequest{RecipientChannel: 1, WantReply: true, Context: &ExecRequest{Command: "uname -a"}},
		&ChannelRequest{RecipientChannel: 1, Context: &EnvRequest{Name: "LANG", Value: "C.UTF-8"}},
		&ChannelRequest{RecipientChannel: 1, Context: &ExitSignalRequest{Name: "KILL", CoreDumped: false, Message: "killed"}},
		&ChannelSuccess{RecipientChannel: 1},
		&ChannelFailure{RecipientChannel: 1},
	}

	for _, m := range messages {
		payload := encode(t, m)
		out, err := Decode(payload)
		if err != nil {
			t.Fatalf("decode %T: %v", m, err)
		}
		if !reflect.DeepEqual(m, out) {
			t.Fatalf("%T round trip mismatch:\n in: %+v\nout: %+v", m, m, out)
		}
	}
}

// Key-exchange replies and the userauth 60 family share message numbers,
// so they round trip through Unmarshal with the expected type instead of
// the catalogue.
func TestRoundTripContextDependent(t *testing.T) {
	pairs := []struct {
		in, out Message
	}{
		{&KexEcdhInit{ClientEphemeral: wire.BorrowedBytes([]byte("Q_C"))}, &KexEcdhInit{}},
		{
			&KexEcdhReply{
				HostKey:         wire.BorrowedBytes([]byte("K_S")),
				ServerEphemeral: wire.BorrowedBytes([]byte("Q_S")),
				Signature:       wire.BorrowedBytes([]byte("sig")),
			},
			&KexEcdhReply{},
		},
		{&UserauthPkOk{Algorithm: "ssh-ed25519", Blob: wire.BorrowedBytes([]byte("blob"))}, &UserauthPkOk{}},
		{&UserauthPasswdChangeReq{Prompt: "expired", LanguageTag: "en"}, &UserauthPasswdChangeReq{}},
		{
			&UserauthInfoRequest{
				Name:        "one-time password",
				Instruction: "check your token",
				Prompts:     []Prompt{{Text: "OTP: ", Echo: false}, {Text: "PIN: ", Echo: true}},
			},
			&UserauthInfoRequest{},
		},
	}

	for _, p := range pairs {
		payload := encode(t, p.in)
		if err := Unmarshal(payload, p.out); err != nil {
			t.Fatalf("unmarshal %T: %v", p.in, err)
		}
		if !reflect.DeepEqual(p.in, p.out) {
			t.Fatalf("%T round trip mismatch:\n in: %+v\nout: %+v", p.in, p.in, p.out)
		}
	}
}

func TestSignaturePresenceDerivedFromField(t *testing.T) {
	sig := wire.OwnedBytes([]byte("signature"))
	withSig := encode(t, &UserauthRequest{
		Username: "alice",
		Service:  "ssh-connection",
		Method: &MethodPublicKey{
			Algorithm: "ssh-ed25519",
			Blob:      wire.OwnedBytes([]byte("blob")),
			Signature: &sig,
		},
	})
	withoutSig := encode(t, &UserauthRequest{
		Username: "alice",
		Service:  "ssh-connection",
		Method: &MethodPublicKey{
			Algorithm: "ssh-ed25519",
			Blob:      wire.OwnedBytes([]byte("blob")),
		},
	})
	if len(withSig) != len(withoutSig)+4+len("signature") {
		t.Fatalf("signature field not reflected on the wire: %d vs %d bytes", len(withSig), len(withoutSig))
	}

	var req UserauthRequest
	if err := Unmarshal(withSig, &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	pk := req.Method.(*MethodPublicKey)
	if pk.Signature == nil || !bytes.Equal(pk.Signature.Raw(), []byte("signature")) {
		t.Fatal("signature lost in decode")
	}
}

func TestDecodeRejectsContextDependentNumbers(t *testing.T) {
	payload := encode(t, &KexEcdhInit{ClientEphemeral: wire.OwnedBytes([]byte("Q_C"))})
	_, err := Decode(payload)
	var unknown *UnknownMessageError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownMessageError, got %v", err)
	}
	if unknown.Number != NumKexEcdhInit {
		t.Fatalf("expected number %d in error, got %d", NumKexEcdhInit, unknown.Number)
	}
}

func TestUnmarshalChecksNumberAndTrailingBytes(t *testing.T) {
	payload := encode(t, &ChannelEof{RecipientChannel: 3})

	var wrongType ChannelClose
	err := Unmarshal(payload, &wrongType)
	var unexpected *UnexpectedMessageError
	if !errors.As(err, &unexpected) {
		t.Fatalf("expected UnexpectedMessageError, got %v", err)
	}
	if unexpected.Want != NumChannelClose || unexpected.Got != NumChannelEof {
		t.Fatalf("wrong numbers in error: %+v", unexpected)
	}

	var eof ChannelEof
	if err := Unmarshal(append(payload, 0x00), &eof); !errors.Is(err, wire.ErrTrailing) {
		t.Fatalf("expected ErrTrailing, got %v", err)
	}
}

func TestUnknownTagConsumesNoPayload(t *testing.T) {
	w := wire.NewWriter()
	w.WriteAscii("gssapi-with-mic")
	w.WriteRaw([]byte{1, 2, 3, 4})
	buf, err := w.Bytes()
	if err != nil {
		t.Fatalf("build input: %v", err)
	}

	r := wire.NewReader(buf)
	_, err = authMethods.Decode(r)
	var unknown *UnknownTagError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTagError, got %v", err)
	}
	if unknown.Tag != "gssapi-with-mic" {
		t.Fatalf("wrong tag in error: %q", unknown.Tag)
	}
	if r.Len() != 4 {
		t.Fatalf("payload bytes consumed after unknown tag: %d left", r.Len())
	}
}

func TestTagDerivedFromContext(t *testing.T) {
	payload := encode(t, &GlobalRequest{
		WantReply: true,
		Context:   &TcpipForward{Address: "localhost", Port: 22},
	})

	r := wire.NewReader(payload[1:])
	tag, err := r.ReadAscii()
	if err != nil {
		t.Fatalf("read tag: %v", err)
	}
	if tag != "tcpip-forward" {
		t.Fatalf("wrong tag on the wire: %q", tag)
	}
	flag, err := r.ReadUint8()
	if err != nil {
		t.Fatalf("read flag: %v", err)
	}
	if flag != 1 {
		t.Fatalf("want-reply flag not after the tag: %d", flag)
	}
}

func TestCatalogueNumbersConsistent(t *testing.T) {
	for number, ctor := range catalogue {
		if got := ctor().Number(); got != number {
			t.Fatalf("catalogue entry %d constructs a message numbered %d", number, got)
		}
	}
}

func TestKexInitReservedFieldAlwaysZero(t *testing.T) {
	payload := encode(t, &KexInit{})
	if len(payload) < 4 {
		t.Fatalf("short payload: %d", len(payload))
	}
	if !bytes.Equal(payload[len(payload)-4:], []byte{0, 0, 0, 0}) {
		t.Fatal("reserved trailer not zero")
	}
}

func TestPublicKeySignatureBlobLayout(t *testing.T) {
	blob, err := PublicKeySignatureBlob(
		[]byte("session identifier"),
		"alice",
		"ssh-connection",
		"ssh-ed25519",
		wire.OwnedBytes([]byte("key blob")),
	)
	if err != nil {
		t.Fatalf("build blob: %v", err)
	}

	r := wire.NewReader(blob)
	sid, err := r.ReadBytes()
	if err != nil || !bytes.Equal(sid.Raw(), []byte("session identifier")) {
		t.Fatalf("session id: %v", err)
	}
	num, _ := r.ReadUint8()
	if num != NumUserauthRequest {
		t.Fatalf("expected request number after session id, got %d", num)
	}
	user, _ := r.ReadUTF8()
	service, _ := r.ReadAscii()
	method, _ := r.ReadAscii()
	signed, _ := r.ReadBool()
	alg, _ := r.ReadAscii()
	key, err := r.ReadBytes()
	if err != nil {
		t.Fatalf("key blob: %v", err)
	}
	if user != "alice" || service != "ssh-connection" || method != "publickey" || !signed || alg != "ssh-ed25519" {
		t.Fatalf("unexpected fields: %q %q %q %v %q", user, service, method, signed, alg)
	}
	if !bytes.Equal(key.Raw(), []byte("key blob")) {
		t.Fatal("key blob mismatch")
	}
	if r.Len() != 0 {
		t.Fatalf("%d stray bytes", r.Len())
	}
}
