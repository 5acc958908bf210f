// Package session binds the framing layers to one byte stream: it
// exchanges identification strings, frames packets with the session's
// current cipher capabilities and keeps the per-direction sequence
// counters that every MAC covers.
package session

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sshwire/pkg/ident"
	"sshwire/pkg/msg"
	"sshwire/pkg/packet"
	"sshwire/pkg/suites"
)

// Session frames packets over a single connection. Each direction has its
// own cipher capability and sequence counter, guarded by its own lock, so
// reads and writes can proceed concurrently.
type Session struct {
	// ID uniquely identifies the session in logs.
	ID uuid.UUID

	conn   io.ReadWriter
	reader *bufio.Reader
	log    zerolog.Logger

	sendMu  sync.Mutex
	sealer  packet.Sealer
	sendSeq uint32

	recvMu  sync.Mutex
	opener  packet.Opener
	recvSeq uint32
}

// New wraps conn in a session. Both directions start on the identity
// suite; the caller installs real capabilities once keys are negotiated.
func New(conn io.ReadWriter, log zerolog.Logger) *Session {
	id := uuid.New()
	return &Session{
		ID:     id,
		conn:   conn,
		reader: bufio.NewReader(conn),
		log:    log.With().Str("session", id.String()).Logger(),
		sealer: suites.None(),
		opener: suites.None(),
	}
}

// WriteIdent sends our identification line.
func (s *Session) WriteIdent(id ident.Id) error {
	if err := ident.Write(s.conn, id); err != nil {
		return err
	}
	s.log.Debug().Stringer("ident", id).Msg("sent identification")
	return nil
}

// ReadIdent reads the peer's identification line, skipping any preamble.
func (s *Session) ReadIdent() (ident.Id, error) {
	id, err := ident.Read(s.reader)
	if err != nil {
		return ident.Id{}, err
	}
	s.log.Debug().Stringer("ident", id).Msg("received identification")
	return id, nil
}

// ReadPacket fetches one packet. The receive counter advances by exactly
// one on success and not at all on failure; after an authentication
// failure the connection is unusable and must be torn down. The context
// is consulted before blocking, not during the read itself.
func (s *Session) ReadPacket(ctx context.Context) (packet.Packet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.recvMu.Lock()
	defer s.recvMu.Unlock()

	p, err := packet.Read(s.reader, s.opener, s.recvSeq)
	if err != nil {
		s.log.Debug().Err(err).Uint32("seq", s.recvSeq).Msg("read packet failed")
		return nil, err
	}
	s.recvSeq++
	return p, nil
}

// WritePacket frames and sends one payload. The send counter advances by
// exactly one on success.
func (s *Session) WritePacket(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if err := packet.Write(s.conn, payload, s.sealer, s.sendSeq); err != nil {
		s.log.Debug().Err(err).Uint32("seq", s.sendSeq).Msg("write packet failed")
		return err
	}
	s.sendSeq++
	return nil
}

// Send encodes m and frames it as one packet.
func (s *Session) Send(ctx context.Context, m msg.Message) error {
	payload, err := msg.Encode(m)
	if err != nil {
		return err
	}
	if err := s.WritePacket(ctx, payload); err != nil {
		return err
	}
	s.log.Trace().Uint8("msg", m.Number()).Msg("sent message")
	return nil
}

// Recv reads one packet and decodes it through the message catalogue.
// The returned message borrows the packet buffer.
func (s *Session) Recv(ctx context.Context) (msg.Message, error) {
	p, err := s.ReadPacket(ctx)
	if err != nil {
		return nil, err
	}
	m, err := msg.Decode(p)
	if err != nil {
		return nil, err
	}
	s.log.Trace().Uint8("msg", m.Number()).Msg("received message")
	return m, nil
}

// RecvInto reads one packet and decodes it as m, for message numbers
// whose shape only the caller's context can determine.
func (s *Session) RecvInto(ctx context.Context, m msg.Message) error {
	p, err := s.ReadPacket(ctx)
	if err != nil {
		return err
	}
	if err := msg.Unmarshal(p, m); err != nil {
		return err
	}
	s.log.Trace().Uint8("msg", m.Number()).Msg("received message")
	return nil
}

// SetOpener installs the receive-direction capability after a key
// exchange. The sequence counter keeps running; rekeying never resets it.
func (s *Session) SetOpener(o packet.Opener) {
	s.recvMu.Lock()
	defer s.recvMu.Unlock()
	s.opener = o
}

// SetSealer installs the send-direction capability after a key exchange.
func (s *Session) SetSealer(sl packet.Sealer) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	s.sealer = sl
}

// Seq reports the current send and receive counters.
func (s *Session) Seq() (send, recv uint32) {
	s.sendMu.Lock()
	send = s.sendSeq
	s.sendMu.Unlock()

	s.recvMu.Lock()
	recv = s.recvSeq
	s.recvMu.Unlock()
	return send, recv
}
