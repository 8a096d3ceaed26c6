package session

import (
	"errors"

	"github.com/google/uuid"

	"github.com/MayaTheShy/Starworld/pkg/protocol"
)

var ErrBadDomainList = errors.New("malformed domain list")

// DomainList is a parsed domain-list reply: identity and permissions for
// this client plus every assignment client the domain currently runs.
type DomainList struct {
	DomainID      uuid.UUID
	SessionID     uuid.UUID
	LocalID       uint16
	Permissions   uint32
	Authenticated bool
	Nodes         []Node
}

// ParseDomainList decodes the fixed preamble and then assignment-client
// records until the buffer is exhausted. A record cut short makes the whole
// payload malformed.
func ParseDomainList(payload []byte) (DomainList, error) {
	r := protocol.NewReader(payload)
	var dl DomainList
	dl.DomainID = r.ReadUUID()
	dl.SessionID = r.ReadUUID()
	dl.LocalID = r.ReadUint16()
	dl.Permissions = r.ReadUint32()
	dl.Authenticated = r.ReadUint8() != 0
	if r.Err() != nil {
		return DomainList{}, ErrBadDomainList
	}
	for r.Remaining() > 0 {
		var n Node
		n.Type = protocol.NodeType(r.ReadUint8())
		n.ID = r.ReadUUID()
		n.Public = r.ReadSockAddr()
		n.Local = r.ReadSockAddr()
		n.Permissions = r.ReadUint32()
		n.Replicated = r.ReadUint8() != 0
		n.LocalID = r.ReadUint16()
		n.ConnectionSecret = r.ReadUUID()
		if r.Err() != nil {
			return DomainList{}, ErrBadDomainList
		}
		dl.Nodes = append(dl.Nodes, n)
	}
	return dl, nil
}

// EncodeDomainList writes a reply in the same layout. Tests standing in for
// the domain server use it; a client never sends one.
func EncodeDomainList(dl DomainList) []byte {
	var w protocol.Writer
	w.WriteUUID(dl.DomainID)
	w.WriteUUID(dl.SessionID)
	w.WriteUint16(dl.LocalID)
	w.WriteUint32(dl.Permissions)
	if dl.Authenticated {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
	for _, n := range dl.Nodes {
		w.WriteUint8(uint8(n.Type))
		w.WriteUUID(n.ID)
		w.WriteSockAddr(n.Public)
		w.WriteSockAddr(n.Local)
		w.WriteUint32(n.Permissions)
		if n.Replicated {
			w.WriteUint8(1)
		} else {
			w.WriteUint8(0)
		}
		w.WriteUint16(n.LocalID)
		w.WriteUUID(n.ConnectionSecret)
	}
	return w.Bytes()
}
