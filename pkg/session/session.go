// Package session holds the domain handshake state machine: session
// identity, the monotonic sequence counter, the server-assigned local id,
// and the assignment-client list from the latest domain-list reply.
package session

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MayaTheShy/Starworld/pkg/protocol"
)

// State is the handshake phase. Denied is terminal for the attempt; the
// caller decides whether to start over.
type State uint8

const (
	StateDisconnected State = iota
	StateAwaitingDomainList
	StateConnected
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateAwaitingDomainList:
		return "AwaitingDomainList"
	case StateConnected:
		return "Connected"
	case StateDenied:
		return "Denied"
	default:
		return "Unknown"
	}
}

// Node is one assignment-client record from a domain-list reply.
type Node struct {
	Type             protocol.NodeType
	ID               uuid.UUID
	Public           protocol.SockAddr
	Local            protocol.SockAddr
	Permissions      uint32
	Replicated       bool
	LocalID          uint16
	ConnectionSecret uuid.UUID
}

// Session tracks one connection attempt to a domain. It is only touched
// from the orchestrator's tick, so it carries no locking.
type Session struct {
	ID       uuid.UUID
	Versions *protocol.VersionTable

	seq   uint32
	state State

	DomainID      uuid.UUID
	LocalID       uint16
	Permissions   uint32
	Authenticated bool

	nodes        []Node
	entityServer *protocol.SockAddr
	avatarMixer  *protocol.SockAddr

	denialReason string
}

// New creates a session with a fresh random identity. The version table is
// passed in, never defaulted, so tests and alternate server targets can
// substitute their own.
func New(versions *protocol.VersionTable) *Session {
	return &Session{
		ID:       uuid.New(),
		Versions: versions,
	}
}

func (s *Session) State() State    { return s.state }
func (s *Session) Connected() bool { return s.state == StateConnected }

// LastDenialReason returns the reason text from a terminal denial, empty
// otherwise.
func (s *Session) LastDenialReason() string { return s.denialReason }

// Begin marks the start of a connection attempt. Idempotent while the
// handshake resend timer keeps firing.
func (s *Session) Begin() {
	if s.state == StateDisconnected {
		s.state = StateAwaitingDomainList
	}
}

// NextSequence consumes the next value from the single monotonic counter,
// wrapping at 2^27. Never reset within the session's lifetime.
func (s *Session) NextSequence() uint32 {
	v := s.seq
	s.seq = (s.seq + 1) & protocol.SequenceMask
	return v
}

// NewPacket frames an outgoing packet: next sequence number, the pinned
// version for the type, and the local id when the type is sourced and the
// domain has assigned one.
func (s *Session) NewPacket(t protocol.PacketType, reliable bool, payload []byte) protocol.Packet {
	h := protocol.Header{
		Sequence: s.NextSequence(),
		Reliable: reliable,
		Type:     t,
		Version:  s.Versions.Version(t),
	}
	if t.Sourced() && s.LocalID != 0 {
		h.Sourced = true
		h.LocalID = s.LocalID
	}
	return protocol.Packet{Header: h, Payload: payload}
}

// ApplyDomainList installs the reply: identity, permissions, and the full
// assignment-client list (replaced, never merged). Transitions to Connected.
func (s *Session) ApplyDomainList(dl DomainList) {
	s.DomainID = dl.DomainID
	s.LocalID = dl.LocalID
	s.Permissions = dl.Permissions
	s.Authenticated = dl.Authenticated
	s.nodes = dl.Nodes

	s.entityServer = nil
	s.avatarMixer = nil
	for i := range dl.Nodes {
		n := &dl.Nodes[i]
		switch n.Type {
		case protocol.NodeEntityServer:
			if s.entityServer == nil {
				addr := n.Public
				s.entityServer = &addr
			}
		case protocol.NodeAvatarMixer:
			if s.avatarMixer == nil {
				addr := n.Public
				s.avatarMixer = &addr
			}
		}
	}

	if s.state != StateConnected {
		zap.L().Info("connected to domain",
			zap.String("domain", dl.DomainID.String()),
			zap.Uint16("localId", dl.LocalID),
			zap.Int("nodes", len(dl.Nodes)))
	}
	s.state = StateConnected
}

// ApplyDenial records a terminal denial. No automatic retry.
func (s *Session) ApplyDenial(code uint8, reason string) {
	s.state = StateDenied
	s.denialReason = reason
	zap.L().Warn("domain connection denied",
		zap.Uint8("code", code), zap.String("reason", reason))
}

// Nodes returns the assignment-client list from the latest domain-list.
func (s *Session) Nodes() []Node { return s.nodes }

// EntityServer returns the cached entity-server endpoint, if discovered.
func (s *Session) EntityServer() (protocol.SockAddr, bool) {
	if s.entityServer == nil {
		return protocol.SockAddr{}, false
	}
	return *s.entityServer, true
}

// AvatarMixer returns the cached avatar-mixer endpoint, if discovered.
func (s *Session) AvatarMixer() (protocol.SockAddr, bool) {
	if s.avatarMixer == nil {
		return protocol.SockAddr{}, false
	}
	return *s.avatarMixer, true
}
