package protocol

import (
	"encoding/binary"
	"errors"
)

// Wire header layout, all big-endian:
//
//	0 ..3   sequence word: control b31 | reliable b30 | message b29 |
//	        obfuscation b28..27 | sequence number b26..0
//	4       packet type u8
//	5       protocol version u8
//	6 ..7   local id u16 (sourced packets only)
//
// Whether the local-id extension is present is inferred from the total
// datagram length, not from a flag bit. Both ends apply the same rule, so it
// must be preserved exactly.
const (
	BaseHeaderSize    = 6
	SourcedHeaderSize = 8

	controlBitMask   = uint32(1) << 31
	reliableBitMask  = uint32(1) << 30
	messageBitMask   = uint32(1) << 29
	obfuscationMask  = uint32(0x18000000)
	obfuscationShift = 27

	// SequenceMask keeps the low 27 bits; sequence numbers wrap there.
	SequenceMask = uint32(0x07FFFFFF)
)

var ErrShortHeader = errors.New("short header")

// Header carries the decoded fields of the fixed packet prefix.
type Header struct {
	Sequence    uint32 // masked to 27 bits
	Control     bool
	Reliable    bool
	Message     bool
	Obfuscation uint8 // 2 bits
	Type        PacketType
	Version     uint8
	LocalID     uint16
	Sourced     bool // LocalID present on the wire
}

// MarshalBinary encodes the header to 6 bytes, or 8 when sourced.
func (h *Header) MarshalBinary() ([]byte, error) {
	size := BaseHeaderSize
	if h.Sourced {
		size = SourcedHeaderSize
	}
	buf := make([]byte, size)
	word := h.Sequence & SequenceMask
	if h.Control {
		word |= controlBitMask
	}
	if h.Reliable {
		word |= reliableBitMask
	}
	if h.Message {
		word |= messageBitMask
	}
	word |= (uint32(h.Obfuscation) << obfuscationShift) & obfuscationMask
	binary.BigEndian.PutUint32(buf[0:4], word)
	buf[4] = byte(h.Type)
	buf[5] = h.Version
	if h.Sourced {
		binary.BigEndian.PutUint16(buf[6:8], h.LocalID)
	}
	return buf, nil
}

// UnmarshalBinary decodes the header from the front of a datagram. The
// sourced extension is read whenever at least 8 bytes were supplied.
func (h *Header) UnmarshalBinary(buf []byte) error {
	if len(buf) < BaseHeaderSize {
		return ErrShortHeader
	}
	word := binary.BigEndian.Uint32(buf[0:4])
	h.Sequence = word & SequenceMask
	h.Control = word&controlBitMask != 0
	h.Reliable = word&reliableBitMask != 0
	h.Message = word&messageBitMask != 0
	h.Obfuscation = uint8((word & obfuscationMask) >> obfuscationShift)
	h.Type = PacketType(buf[4])
	h.Version = buf[5]
	if len(buf) >= SourcedHeaderSize {
		h.LocalID = binary.BigEndian.Uint16(buf[6:8])
		h.Sourced = true
	} else {
		h.LocalID = 0
		h.Sourced = false
	}
	return nil
}

// HeaderSize returns the encoded size of h.
func (h *Header) HeaderSize() int {
	if h.Sourced {
		return SourcedHeaderSize
	}
	return BaseHeaderSize
}

// Packet is a header + payload pair framing a single datagram.
type Packet struct {
	Header  Header
	Payload []byte
}

// EncodeFrame returns header+payload as a single byte slice.
func (p *Packet) EncodeFrame() ([]byte, error) {
	hb, err := p.Header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(hb)+len(p.Payload))
	copy(out, hb)
	copy(out[len(hb):], p.Payload)
	return out, nil
}

// DecodeFrame parses a single datagram into header and payload. The payload
// slice aliases buf. The raw header decode infers the local-id extension from
// length alone; framing additionally consults the packet type, since a
// non-sourced packet with a payload is long enough to satisfy the length rule
// without actually carrying a local id.
func (p *Packet) DecodeFrame(buf []byte) error {
	if err := p.Header.UnmarshalBinary(buf); err != nil {
		return err
	}
	off := BaseHeaderSize
	if p.Header.Type.Sourced() && len(buf) >= SourcedHeaderSize {
		off = SourcedHeaderSize
	} else {
		p.Header.LocalID = 0
		p.Header.Sourced = false
	}
	p.Payload = buf[off:]
	return nil
}
