// Package client runs the domain join: two non-blocking UDP sockets, a
// per-tick receive/dispatch loop, handshake retries, and entity sync.
package client

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MayaTheShy/Starworld/pkg/auth"
	"github.com/MayaTheShy/Starworld/pkg/config"
	"github.com/MayaTheShy/Starworld/pkg/entities"
	"github.com/MayaTheShy/Starworld/pkg/protocol"
	"github.com/MayaTheShy/Starworld/pkg/session"
)

// Client owns the domain and entity sockets and composes the session and
// the entity repository. Single-threaded: all I/O and state live behind
// Tick, which never blocks.
type Client struct {
	cfg   config.ClientConfig
	place string
	creds auth.Credentials

	sess *session.Session
	repo *entities.Repository

	domainConn *net.UDPConn
	entityConn *net.UDPConn
	domainAddr *net.UDPAddr

	fingerprint uuid.UUID
	startedAt   time.Time
	lastPing    time.Time
	lastResend  time.Time

	handlers map[protocol.PacketType]handlerFunc
}

type handlerFunc func(c *Client, from *net.UDPAddr, pkt *protocol.Packet)

// New builds a client around an explicit version table. The table is a
// pinned artifact per target server release; tests substitute their own.
func New(cfg config.DomainConfig, tuning config.ClientConfig, versions *protocol.VersionTable, creds auth.Credentials) *Client {
	c := &Client{
		cfg:         tuning,
		place:       cfg.PlaceName,
		creds:       creds,
		sess:        session.New(versions),
		repo:        entities.NewRepository(),
		fingerprint: machineFingerprint(),
	}
	c.handlers = map[protocol.PacketType]handlerFunc{
		protocol.PacketDomainList:             (*Client).handleDomainList,
		protocol.PacketDomainConnectionDenied: (*Client).handleDenied,
		protocol.PacketPing:                   (*Client).handlePing,
		protocol.PacketPingReply:              (*Client).handlePingReply,
		protocol.PacketICEPing:                (*Client).handleICEPing,
		protocol.PacketEntityAdd:              (*Client).handleEntityAddOrData,
		protocol.PacketEntityData:             (*Client).handleEntityAddOrData,
		protocol.PacketEntityEdit:             (*Client).handleEntityEdit,
		protocol.PacketEntityErase:            (*Client).handleEntityErase,
	}
	return c
}

// Repository exposes the entity replica for the scene pump.
func (c *Client) Repository() *entities.Repository { return c.repo }

// Connect resolves the domain, opens both sockets, and sends the first
// connect-request + list-request pair. Failure leaves the client offline;
// the caller may retry.
func (c *Client) Connect(host string, port uint16) error {
	addr, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return fmt.Errorf("resolve domain: %w", err)
	}
	domainConn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero})
	if err != nil {
		return fmt.Errorf("open domain socket: %w", err)
	}
	entityConn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero})
	if err != nil {
		domainConn.Close()
		return fmt.Errorf("open entity socket: %w", err)
	}
	c.domainConn = domainConn
	c.entityConn = entityConn
	c.domainAddr = addr

	now := time.Now()
	c.startedAt = now
	c.sess.Begin()
	c.sendConnectRequest()
	c.sendListRequest()
	c.lastResend = now
	c.lastPing = now

	zap.L().Info("joining domain",
		zap.String("domain", addr.String()),
		zap.String("session", c.sess.ID.String()))
	return nil
}

// Close tears down both sockets; all I/O stops immediately.
func (c *Client) Close() {
	if c.domainConn != nil {
		c.domainConn.Close()
	}
	if c.entityConn != nil {
		c.entityConn.Close()
	}
}

// Connected reports whether the handshake has completed.
func (c *Client) Connected() bool { return c.sess.Connected() }

// State returns the handshake phase.
func (c *Client) State() session.State { return c.sess.State() }

// LastDenialReason surfaces the reason text of a terminal denial.
func (c *Client) LastDenialReason() string { return c.sess.LastDenialReason() }

// Tick drains at most one datagram from each socket, dispatches it, and
// fires any due timers. Never blocks; cadence is the caller's concern.
func (c *Client) Tick(now time.Time) {
	if pkt, from, ok := c.readOne(c.domainConn); ok {
		c.dispatch(from, pkt)
	}
	if pkt, from, ok := c.readOne(c.entityConn); ok {
		c.dispatch(from, pkt)
	}

	if now.Sub(c.lastPing) >= time.Duration(c.cfg.PingIntervalMS)*time.Millisecond {
		c.sendPing(now)
		c.lastPing = now
	}
	if !c.sess.Connected() && c.sess.State() == session.StateAwaitingDomainList &&
		now.Sub(c.lastResend) >= time.Duration(c.cfg.ResendIntervalMS)*time.Millisecond {
		// duplicate sends are idempotent server-side; this is the only
		// loss recovery during the handshake
		c.sendConnectRequest()
		c.sendListRequest()
		c.lastResend = now
	}
}

// readOne performs a non-blocking receive and decodes the frame. Malformed
// datagrams are dropped with a debug log, never fatal.
func (c *Client) readOne(conn *net.UDPConn) (*protocol.Packet, *net.UDPAddr, bool) {
	if conn == nil {
		return nil, nil, false
	}
	var buf [1500]byte
	conn.SetReadDeadline(time.Now())
	n, from, err := conn.ReadFromUDP(buf[:])
	if err != nil {
		return nil, nil, false
	}
	data := make([]byte, n)
	copy(data, buf[:n])
	var pkt protocol.Packet
	if err := pkt.DecodeFrame(data); err != nil {
		zap.L().Debug("dropping malformed datagram",
			zap.Int("len", n), zap.Error(err))
		return nil, nil, false
	}
	return &pkt, from, true
}

func (c *Client) dispatch(from *net.UDPAddr, pkt *protocol.Packet) {
	h, ok := c.handlers[pkt.Header.Type]
	if !ok {
		zap.L().Debug("ignoring packet of unknown type",
			zap.Uint8("type", uint8(pkt.Header.Type)),
			zap.String("from", from.String()))
		return
	}
	h(c, from, pkt)
}

func machineFingerprint() uuid.UUID {
	host, err := os.Hostname()
	if err != nil {
		return uuid.New()
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("starworld:"+host))
}

func hardwareAddress() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) == 0 {
			continue
		}
		return iface.HardwareAddr.String()
	}
	return ""
}

func systemInfoBlock() []byte {
	info, err := json.Marshal(map[string]string{
		"os":   runtime.GOOS,
		"arch": runtime.GOARCH,
		"app":  "starworld-client",
	})
	if err != nil {
		return nil
	}
	block, err := protocol.CompressBlock(info)
	if err != nil {
		return nil
	}
	return block
}
