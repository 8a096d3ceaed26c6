package client

import (
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/MayaTheShy/Starworld/pkg/entities"
	"github.com/MayaTheShy/Starworld/pkg/protocol"
	"github.com/MayaTheShy/Starworld/pkg/session"
)

func (c *Client) handleDomainList(from *net.UDPAddr, pkt *protocol.Packet) {
	dl, err := session.ParseDomainList(pkt.Payload)
	if err != nil {
		zap.L().Debug("dropping domain list", zap.Error(err))
		return
	}
	wasConnected := c.sess.Connected()
	c.sess.ApplyDomainList(dl)
	if !wasConnected {
		c.sendEntityQuery()
	}
}

func (c *Client) handleDenied(from *net.UDPAddr, pkt *protocol.Packet) {
	d, err := session.ParseDenial(pkt.Payload)
	if err != nil {
		zap.L().Debug("dropping denial", zap.Error(err))
		return
	}
	c.sess.ApplyDenial(d.Code, d.Reason)
}

func (c *Client) handlePing(from *net.UDPAddr, pkt *protocol.Packet) {
	p, err := session.ParsePing(pkt.Payload)
	if err != nil {
		zap.L().Debug("dropping ping", zap.Error(err))
		return
	}
	reply := session.PingReply{Ping: p, ReplyTimestamp: time.Now()}
	out := c.sess.NewPacket(protocol.PacketPingReply, false, reply.Encode())
	c.send(c.domainConn, from, out)
}

func (c *Client) handlePingReply(from *net.UDPAddr, pkt *protocol.Packet) {
	// liveness confirmation only; no state change
	if _, err := session.ParsePingReply(pkt.Payload); err != nil {
		zap.L().Debug("dropping ping reply", zap.Error(err))
	}
}

// handleICEPing echoes the opaque peer id and type byte verbatim. A timely
// reply is what lets the remote's NAT-traversal attempt succeed.
func (c *Client) handleICEPing(from *net.UDPAddr, pkt *protocol.Packet) {
	p, err := session.ParseICEPing(pkt.Payload)
	if err != nil {
		zap.L().Debug("dropping ice ping", zap.Error(err))
		return
	}
	out := c.sess.NewPacket(protocol.PacketICEPingReply, false, p.Reply())
	c.send(c.domainConn, from, out)
}

func (c *Client) handleEntityAddOrData(from *net.UDPAddr, pkt *protocol.Packet) {
	e, err := entities.DecodeAdd(pkt.Payload)
	if err != nil {
		zap.L().Debug("dropping entity payload", zap.Error(err))
		return
	}
	c.repo.ApplyAdd(e)
}

func (c *Client) handleEntityEdit(from *net.UDPAddr, pkt *protocol.Packet) {
	id, flags, t, err := entities.DecodeEdit(pkt.Payload)
	if err != nil {
		zap.L().Debug("dropping entity edit", zap.Error(err))
		return
	}
	c.repo.ApplyEdit(id, flags, t)
}

func (c *Client) handleEntityErase(from *net.UDPAddr, pkt *protocol.Packet) {
	id, err := entities.DecodeErase(pkt.Payload)
	if err != nil {
		zap.L().Debug("dropping entity erase", zap.Error(err))
		return
	}
	c.repo.ApplyErase(id)
}
