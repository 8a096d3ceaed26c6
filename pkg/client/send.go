package client

import (
	"errors"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/MayaTheShy/Starworld/pkg/entities"
	"github.com/MayaTheShy/Starworld/pkg/protocol"
	"github.com/MayaTheShy/Starworld/pkg/session"
	"github.com/MayaTheShy/Starworld/pkg/spatial"
)

var ErrNotConnected = errors.New("no local id assigned yet")

// Node types whose traffic this client wants routed to it.
var interestSet = []protocol.NodeType{
	protocol.NodeAvatarMixer,
	protocol.NodeAudioMixer,
	protocol.NodeEntityServer,
}

func (c *Client) send(conn *net.UDPConn, to *net.UDPAddr, pkt protocol.Packet) {
	if conn == nil || to == nil {
		return
	}
	buf, err := pkt.EncodeFrame()
	if err != nil {
		zap.L().Warn("encode frame", zap.Error(err))
		return
	}
	if _, err := conn.WriteToUDP(buf, to); err != nil {
		zap.L().Debug("send failed",
			zap.String("type", pkt.Header.Type.String()),
			zap.String("to", to.String()), zap.Error(err))
	}
}

func (c *Client) localSockAddr() protocol.SockAddr {
	a := protocol.SockAddr{Type: protocol.SocketUDP, IP: net.IPv4zero}
	if c.domainConn == nil {
		return a
	}
	if la, ok := c.domainConn.LocalAddr().(*net.UDPAddr); ok {
		a.IP = la.IP
		a.Port = uint16(la.Port)
	}
	return a
}

func (c *Client) sendConnectRequest() {
	local := c.localSockAddr()
	req := session.ConnectRequest{
		SessionID:          c.sess.ID,
		Signature:          c.sess.Versions.Signature(),
		HardwareAddress:    hardwareAddress(),
		MachineFingerprint: c.fingerprint,
		SystemInfo:         systemInfoBlock(),
		ConnectReason:      session.ReasonConnect,
		PreviousUptime:     0,
		Timestamp:          time.Now(),
		NodeType:           protocol.NodeAgent,
		// the public endpoint is unknown until the domain reflects it;
		// send the local one for both, as a first connect does
		Public:      local,
		Local:       local,
		Interest:    interestSet,
		PlaceName:   c.place,
		Credentials: c.creds,
	}
	pkt := c.sess.NewPacket(protocol.PacketDomainConnectRequest, true, req.Encode())
	c.send(c.domainConn, c.domainAddr, pkt)
}

func (c *Client) sendListRequest() {
	pkt := c.sess.NewPacket(protocol.PacketDomainListRequest, true, nil)
	c.send(c.domainConn, c.domainAddr, pkt)
}

func (c *Client) sendPing(now time.Time) {
	payload := session.Ping{PingType: session.PingPublic, Timestamp: now}.Encode()
	pkt := c.sess.NewPacket(protocol.PacketPing, false, payload)
	c.send(c.domainConn, c.domainAddr, pkt)
}

// sendEntityQuery asks the entity server for everything: zero frustums, a
// packet-rate budget, LOD scale, an empty filter block, and the flag
// requesting an initial-results-complete notification.
func (c *Client) sendEntityQuery() {
	var w protocol.Writer
	w.WriteUint8(0) // no view frustums: all entities
	w.WriteInt32(c.cfg.MaxPacketsPerSecond)
	w.WriteFloat32(c.cfg.LODSizeScale)
	w.WriteInt32(c.cfg.BoundaryLevelAdjust)
	w.WriteUint16(0) // empty filter block
	w.WriteUint16(1) // bit0: notify when initial results are complete

	to := c.domainAddr
	if es, ok := c.sess.EntityServer(); ok {
		to = es.UDPAddr()
	}
	pkt := c.sess.NewPacket(protocol.PacketEntityQuery, false, w.Bytes())
	c.send(c.entityConn, to, pkt)
	zap.L().Debug("entity query sent", zap.String("to", to.String()))
}

// CreateEntity asks the server to instantiate a minimal entity. Requires
// the domain to have assigned a local id.
func (c *Client) CreateEntity(name string, kind entities.Kind, position, dimensions spatial.Vec3, color entities.Color) error {
	if !c.sess.Connected() || c.sess.LocalID == 0 {
		return ErrNotConnected
	}
	payload := entities.EncodeCreate(entities.CreateProps{
		Name:       name,
		Position:   position,
		Dimensions: dimensions,
		Color:      color,
	})
	to := c.domainAddr
	if es, ok := c.sess.EntityServer(); ok {
		to = es.UDPAddr()
	}
	pkt := c.sess.NewPacket(protocol.PacketEntityAdd, true, payload)
	c.send(c.entityConn, to, pkt)
	zap.L().Info("create entity requested",
		zap.String("name", name), zap.String("kind", kind.String()))
	return nil
}
