package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/MayaTheShy/Starworld/pkg/auth"
	"github.com/MayaTheShy/Starworld/pkg/protocol"
)

// Connect-reason codes sent with the connect request.
const (
	ReasonConnect          uint32 = 0
	ReasonSilentDisconnect uint32 = 1
	ReasonAwake            uint32 = 2
)

// ConnectRequest collects everything the connect-request payload carries.
// Credential strings stay empty for an anonymous connection.
type ConnectRequest struct {
	SessionID          uuid.UUID
	Signature          []byte
	HardwareAddress    string
	MachineFingerprint uuid.UUID
	SystemInfo         []byte // already a compressed block
	ConnectReason      uint32
	PreviousUptime     time.Duration
	Timestamp          time.Time
	NodeType           protocol.NodeType
	Public             protocol.SockAddr
	Local              protocol.SockAddr
	Interest           []protocol.NodeType
	PlaceName          string
	Credentials        auth.Credentials
}

// Encode writes the payload in the pinned wire order. Handshake strings are
// wide strings; the signature and signed-username proof are byte blobs.
func (c ConnectRequest) Encode() []byte {
	var w protocol.Writer
	w.WriteUUID(c.SessionID)
	w.WriteBlob(c.Signature)
	w.WriteWideString(c.HardwareAddress)
	w.WriteUUID(c.MachineFingerprint)
	// the compressed block travels inside blob framing so the decoder can
	// skip it without parsing the deflate stream
	w.WriteBlob(c.SystemInfo)
	w.WriteUint32(c.ConnectReason)
	w.WriteUint64(uint64(c.PreviousUptime.Microseconds()))
	w.WriteUint64(uint64(c.Timestamp.UnixMicro()))
	w.WriteUint8(uint8(c.NodeType))
	w.WriteSockAddr(c.Public)
	w.WriteSockAddr(c.Local)
	w.WriteUint32(uint32(len(c.Interest)))
	for _, t := range c.Interest {
		w.WriteUint8(uint8(t))
	}
	w.WriteWideString(c.PlaceName)
	w.WriteWideString(c.Credentials.Username)
	w.WriteBlob(c.Credentials.SignedUsername)
	w.WriteWideString(c.Credentials.DomainUsername)
	w.WriteWideString(c.Credentials.AccessToken)
	return w.Bytes()
}

// DecodeConnectRequest parses an encoded payload back into its fields. Used
// by tests standing in for the domain server.
func DecodeConnectRequest(payload []byte) (ConnectRequest, error) {
	var c ConnectRequest
	r := protocol.NewReader(payload)
	c.SessionID = r.ReadUUID()
	c.Signature = r.ReadBlob()
	c.HardwareAddress = r.ReadWideString()
	c.MachineFingerprint = r.ReadUUID()
	c.SystemInfo = r.ReadBlob() // compressed block shares the blob framing
	c.ConnectReason = r.ReadUint32()
	c.PreviousUptime = time.Duration(r.ReadUint64()) * time.Microsecond
	c.Timestamp = time.UnixMicro(int64(r.ReadUint64())).UTC()
	c.NodeType = protocol.NodeType(r.ReadUint8())
	c.Public = r.ReadSockAddr()
	c.Local = r.ReadSockAddr()
	n := r.ReadUint32()
	for i := uint32(0); i < n && r.Err() == nil; i++ {
		c.Interest = append(c.Interest, protocol.NodeType(r.ReadUint8()))
	}
	c.PlaceName = r.ReadWideString()
	c.Credentials.Username = r.ReadWideString()
	c.Credentials.SignedUsername = r.ReadBlob()
	c.Credentials.DomainUsername = r.ReadWideString()
	c.Credentials.AccessToken = r.ReadWideString()
	if r.Err() != nil {
		return ConnectRequest{}, r.Err()
	}
	return c, nil
}
