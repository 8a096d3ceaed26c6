package session

import (
	"errors"
	"time"

	"github.com/MayaTheShy/Starworld/pkg/protocol"
)

// Keepalive ping and NAT-traversal ICE ping payloads. The ICE reply must
// echo the opaque peer id and ping-type byte verbatim; the remote matches
// replies byte-for-byte.

var (
	ErrBadPing    = errors.New("malformed ping")
	ErrBadICEPing = errors.New("malformed ice ping")
)

// PingType distinguishes the local/public probe variants.
const (
	PingLocal  uint8 = 0
	PingPublic uint8 = 1
)

// Ping is a keepalive probe: type byte plus a microsecond send timestamp.
type Ping struct {
	PingType  uint8
	Timestamp time.Time
}

func (p Ping) Encode() []byte {
	var w protocol.Writer
	w.WriteUint8(p.PingType)
	w.WriteUint64(uint64(p.Timestamp.UnixMicro()))
	return w.Bytes()
}

func ParsePing(payload []byte) (Ping, error) {
	r := protocol.NewReader(payload)
	var p Ping
	p.PingType = r.ReadUint8()
	p.Timestamp = time.UnixMicro(int64(r.ReadUint64())).UTC()
	if r.Err() != nil {
		return Ping{}, ErrBadPing
	}
	return p, nil
}

// PingReply echoes the probe and appends the replier's own timestamp.
type PingReply struct {
	Ping
	ReplyTimestamp time.Time
}

func (p PingReply) Encode() []byte {
	var w protocol.Writer
	w.WriteUint8(p.PingType)
	w.WriteUint64(uint64(p.Timestamp.UnixMicro()))
	w.WriteUint64(uint64(p.ReplyTimestamp.UnixMicro()))
	return w.Bytes()
}

func ParsePingReply(payload []byte) (PingReply, error) {
	r := protocol.NewReader(payload)
	var p PingReply
	p.PingType = r.ReadUint8()
	p.Timestamp = time.UnixMicro(int64(r.ReadUint64())).UTC()
	p.ReplyTimestamp = time.UnixMicro(int64(r.ReadUint64())).UTC()
	if r.Err() != nil {
		return PingReply{}, ErrBadPing
	}
	return p, nil
}

// ICEPing is the NAT-traversal probe: 16 opaque peer-id bytes + type byte.
// The id is not parsed as an identifier; it is echoed untouched.
type ICEPing struct {
	PeerID   [16]byte
	PingType uint8
}

func (p ICEPing) Encode() []byte {
	var w protocol.Writer
	w.WriteBytes(p.PeerID[:])
	w.WriteUint8(p.PingType)
	return w.Bytes()
}

func ParseICEPing(payload []byte) (ICEPing, error) {
	if len(payload) < 17 {
		return ICEPing{}, ErrBadICEPing
	}
	var p ICEPing
	copy(p.PeerID[:], payload[:16])
	p.PingType = payload[16]
	return p, nil
}

// Reply builds the echo payload for an incoming ICE ping.
func (p ICEPing) Reply() []byte { return p.Encode() }
