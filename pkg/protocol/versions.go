package protocol

import "crypto/md5"

// Per-packet-type protocol versions, pinned to one target server release.
// The table is a versioned artifact: it is constructed explicitly and passed
// into the session, never held as lazily-initialized global state, so tests
// and alternate server targets can substitute their own.

const baselineVersion = 22

// Version overrides relative to the baseline. Every type not listed here
// reports baselineVersion.
const (
	versionDomainList           = 25
	versionDomainConnectRequest = 26
	versionEntity               = 91
)

// VersionTable maps packet types to the protocol version expected by the
// target server. Zero value is unusable; build one with NewVersionTable.
type VersionTable struct {
	versions [NumPacketTypes]uint8
}

// NewVersionTable returns the table for the pinned target server release.
func NewVersionTable() *VersionTable {
	var t VersionTable
	for i := range t.versions {
		t.versions[i] = baselineVersion
	}
	t.versions[PacketDomainList] = versionDomainList
	t.versions[PacketDomainConnectRequest] = versionDomainConnectRequest
	for _, pt := range []PacketType{PacketEntityAdd, PacketEntityEdit, PacketEntityErase, PacketEntityData} {
		t.versions[pt] = versionEntity
	}
	return &t
}

// Version returns the wire version for a packet type; unmapped types report
// the baseline.
func (t *VersionTable) Version(pt PacketType) uint8 {
	if int(pt) >= len(t.versions) {
		return baselineVersion
	}
	return t.versions[pt]
}

// Override returns a copy of the table with one entry replaced. Used to
// target a server release that differs in a single packet version.
func (t *VersionTable) Override(pt PacketType, v uint8) *VersionTable {
	out := *t
	if int(pt) < len(out.versions) {
		out.versions[pt] = v
	}
	return &out
}

// Signature digests the ordered sequence {type count, version(0), ...,
// version(N-1)} with MD5. The server silently rejects a connect request
// whose signature does not match its own; there is no error reply, so a
// wrong table shows up only as a handshake timeout.
func (t *VersionTable) Signature() []byte {
	data := make([]byte, 0, 1+NumPacketTypes)
	data = append(data, byte(NumPacketTypes))
	data = append(data, t.versions[:]...)
	sum := md5.Sum(data)
	return sum[:]
}
