package session

import (
	"net"
	"testing"

	"github.com/google/uuid"

	"github.com/MayaTheShy/Starworld/pkg/protocol"
)

func TestSequenceStrictlyIncreasing(t *testing.T) {
	s := New(protocol.NewVersionTable())
	prev := s.NextSequence()
	for i := 0; i < 1000; i++ {
		cur := s.NextSequence()
		if cur != prev+1 {
			t.Fatalf("sequence jumped %d -> %d", prev, cur)
		}
		prev = cur
	}
}

func TestSequenceWrapsAt27Bits(t *testing.T) {
	s := New(protocol.NewVersionTable())
	s.seq = protocol.SequenceMask
	if v := s.NextSequence(); v != protocol.SequenceMask {
		t.Fatalf("pre-wrap value = %d", v)
	}
	if v := s.NextSequence(); v != 0 {
		t.Fatalf("post-wrap value = %d", v)
	}

	// the wrap must not disturb header flag bits
	s.seq = protocol.SequenceMask
	p := s.NewPacket(protocol.PacketPing, true, nil)
	buf, err := p.EncodeFrame()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var back protocol.Packet
	if err := back.DecodeFrame(buf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !back.Header.Reliable || back.Header.Sequence != protocol.SequenceMask {
		t.Fatalf("wrapped header = %+v", back.Header)
	}
}

func TestNewPacketVersionAndSourcing(t *testing.T) {
	s := New(protocol.NewVersionTable())

	p := s.NewPacket(protocol.PacketDomainConnectRequest, true, nil)
	if p.Header.Version != 26 || p.Header.Sourced {
		t.Fatalf("connect-request header = %+v", p.Header)
	}

	// entity traffic is sourced, but only once a local id exists
	p = s.NewPacket(protocol.PacketEntityQuery, false, nil)
	if p.Header.Sourced {
		t.Fatalf("sourced before local id assigned")
	}
	s.LocalID = 0x2222
	p = s.NewPacket(protocol.PacketEntityQuery, false, nil)
	if !p.Header.Sourced || p.Header.LocalID != 0x2222 {
		t.Fatalf("entity-query header = %+v", p.Header)
	}
}

func TestDomainListRoundtripAndApply(t *testing.T) {
	in := DomainList{
		DomainID:      uuid.New(),
		SessionID:     uuid.New(),
		LocalID:       515,
		Permissions:   0x3F,
		Authenticated: true,
		Nodes: []Node{
			{
				Type:             protocol.NodeEntityServer,
				ID:               uuid.New(),
				Public:           protocol.SockAddr{Type: protocol.SocketUDP, IP: net.IPv4(10, 0, 0, 5), Port: 40103},
				Local:            protocol.SockAddr{Type: protocol.SocketUDP, IP: net.IPv4(192, 168, 1, 5), Port: 40103},
				Permissions:      0x3F,
				LocalID:          2,
				ConnectionSecret: uuid.New(),
			},
			{
				Type:   protocol.NodeAvatarMixer,
				ID:     uuid.New(),
				Public: protocol.SockAddr{Type: protocol.SocketUDP, IP: net.IPv4(10, 0, 0, 6), Port: 40104},
				Local:  protocol.SockAddr{Type: protocol.SocketUDP, IP: net.IPv4(192, 168, 1, 6), Port: 40104},
			},
		},
	}
	out, err := ParseDomainList(EncodeDomainList(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out.DomainID != in.DomainID || out.LocalID != 515 || !out.Authenticated {
		t.Fatalf("preamble: %+v", out)
	}
	if len(out.Nodes) != 2 || out.Nodes[0].Type != protocol.NodeEntityServer {
		t.Fatalf("nodes: %+v", out.Nodes)
	}

	s := New(protocol.NewVersionTable())
	s.Begin()
	s.ApplyDomainList(out)
	if !s.Connected() || s.LocalID != 515 {
		t.Fatalf("session after apply: state=%v localId=%d", s.State(), s.LocalID)
	}
	es, ok := s.EntityServer()
	if !ok || !es.IP.Equal(net.IPv4(10, 0, 0, 5)) || es.Port != 40103 {
		t.Fatalf("entity server cache: %+v ok=%v", es, ok)
	}
	if _, ok := s.AvatarMixer(); !ok {
		t.Fatalf("avatar mixer not cached")
	}
}

func TestDomainListTruncatedRecord(t *testing.T) {
	buf := EncodeDomainList(DomainList{Nodes: []Node{{Type: protocol.NodeEntityServer}}})
	if _, err := ParseDomainList(buf[:len(buf)-3]); err == nil {
		t.Fatalf("expected error for truncated record")
	}
}

func TestDenialTerminal(t *testing.T) {
	buf := EncodeDenial(Denial{Code: DeniedLoginError, Reason: "Invalid credentials"})
	d, err := ParseDenial(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s := New(protocol.NewVersionTable())
	s.Begin()
	s.ApplyDenial(d.Code, d.Reason)
	if s.Connected() {
		t.Fatalf("connected after denial")
	}
	if s.State() != StateDenied || s.LastDenialReason() != "Invalid credentials" {
		t.Fatalf("state=%v reason=%q", s.State(), s.LastDenialReason())
	}
}

func TestConnectRequestRoundtrip(t *testing.T) {
	vt := protocol.NewVersionTable()
	in := ConnectRequest{
		SessionID:          uuid.New(),
		Signature:          vt.Signature(),
		HardwareAddress:    "aa:bb:cc:dd:ee:ff",
		MachineFingerprint: uuid.New(),
		SystemInfo:         mustCompress(t, []byte(`{"os":"linux"}`)),
		ConnectReason:      ReasonConnect,
		NodeType:           protocol.NodeAgent,
		Public:             protocol.SockAddr{Type: protocol.SocketUDP, IP: net.IPv4(203, 0, 113, 9), Port: 51000},
		Local:              protocol.SockAddr{Type: protocol.SocketUDP, IP: net.IPv4(192, 168, 1, 20), Port: 51000},
		Interest:           []protocol.NodeType{protocol.NodeAvatarMixer, protocol.NodeAudioMixer, protocol.NodeEntityServer},
		PlaceName:          "sandbox",
	}
	buf := in.Encode()

	// session id leads the payload, followed by the blob-framed signature
	if string(buf[:16]) != string(in.SessionID[:]) {
		t.Fatalf("payload does not start with session id")
	}
	if buf[16] != 0 || buf[17] != 0 || buf[18] != 0 || buf[19] != 16 {
		t.Fatalf("signature blob count = % x", buf[16:20])
	}

	out, err := DecodeConnectRequest(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.SessionID != in.SessionID || string(out.Signature) != string(in.Signature) {
		t.Fatalf("identity fields: %+v", out)
	}
	if out.HardwareAddress != in.HardwareAddress || out.PlaceName != "sandbox" {
		t.Fatalf("string fields: %+v", out)
	}
	if len(out.Interest) != 3 || out.Interest[2] != protocol.NodeEntityServer {
		t.Fatalf("interest list: %v", out.Interest)
	}
	if !out.Credentials.IsAnonymous() {
		t.Fatalf("anonymous request decoded credentials: %+v", out.Credentials)
	}
}

func TestICEPingEchoVerbatim(t *testing.T) {
	raw := make([]byte, 17)
	for i := range raw[:16] {
		raw[i] = byte(0xA0 + i)
	}
	raw[16] = 0

	p, err := ParseICEPing(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	reply := p.Reply()
	if string(reply[:16]) != string(raw[:16]) {
		t.Fatalf("peer id not echoed: % x", reply[:16])
	}
	if reply[16] != 0 {
		t.Fatalf("ping type not echoed: %d", reply[16])
	}

	if _, err := ParseICEPing(raw[:16]); err == nil {
		t.Fatalf("expected error for short ice ping")
	}
}

func mustCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	block, err := protocol.CompressBlock(data)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	return block
}
