package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"net"
	"unicode/utf16"

	"github.com/google/uuid"
	"github.com/klauspost/compress/flate"
)

// Wire primitives shared by every payload codec. All multi-byte integers are
// big-endian. Two string conventions exist and are never interchangeable:
// handshake payloads use wide strings (4-byte BE character count followed by
// 16-bit BE code units), entity payloads use NUL-terminated byte strings.

var (
	ErrShortPayload = errors.New("short payload")
	ErrBadBlock     = errors.New("malformed compressed block")
)

// Writer appends wire primitives to a growing buffer.
type Writer struct {
	buf []byte
}

func (w *Writer) Bytes() []byte { return w.buf }
func (w *Writer) Len() int      { return len(w.buf) }

func (w *Writer) WriteUint8(v uint8)  { w.buf = append(w.buf, v) }
func (w *Writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }

func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// WriteUint64 emits the value byte-reversed from host order one octet at a
// time, so the result is big-endian regardless of platform.
func (w *Writer) WriteUint64(v uint64) {
	w.buf = append(w.buf,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }

func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteBlob writes a 4-byte BE count followed by the raw bytes.
func (w *Writer) WriteBlob(b []byte) {
	w.WriteUint32(uint32(len(b)))
	w.WriteBytes(b)
}

// WriteWideString writes a 4-byte BE character count followed by one 16-bit
// BE code unit per character. Handshake payload fields only.
func (w *Writer) WriteWideString(s string) {
	units := utf16.Encode([]rune(s))
	w.WriteUint32(uint32(len(units)))
	for _, u := range units {
		w.WriteUint16(u)
	}
}

// WriteCString writes the bytes of s followed by a single NUL. Entity names
// and URLs only.
func (w *Writer) WriteCString(s string) {
	w.WriteBytes([]byte(s))
	w.WriteUint8(0)
}

// WriteUUID writes the 16 raw bytes of a packed identifier.
func (w *Writer) WriteUUID(id uuid.UUID) {
	w.WriteBytes(id[:])
}

// WriteSockAddr writes a socket descriptor: type byte, 4-byte IPv4 address,
// 2-byte BE port. A nil or non-IPv4 address encodes as zeros.
func (w *Writer) WriteSockAddr(a SockAddr) {
	w.WriteUint8(uint8(a.Type))
	ip4 := a.IP.To4()
	if ip4 == nil {
		ip4 = net.IPv4zero.To4()
	}
	w.WriteBytes(ip4)
	w.WriteUint16(a.Port)
}

// Reader consumes wire primitives from a byte slice with a sticky error.
// After the first failure every subsequent read returns a zero value.
type Reader struct {
	buf []byte
	off int
	err error
}

func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

func (r *Reader) Err() error     { return r.err }
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) fail() {
	if r.err == nil {
		r.err = ErrShortPayload
	}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.Remaining() < n {
		r.fail()
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) ReadUint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) ReadUint16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (r *Reader) ReadUint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (r *Reader) ReadUint64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
}

func (r *Reader) ReadInt32() int32 { return int32(r.ReadUint32()) }

func (r *Reader) ReadFloat32() float32 {
	return math.Float32frombits(r.ReadUint32())
}

func (r *Reader) ReadBytes(n int) []byte {
	b := r.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

func (r *Reader) ReadBlob() []byte {
	n := r.ReadUint32()
	if r.err != nil {
		return nil
	}
	return r.ReadBytes(int(n))
}

func (r *Reader) ReadWideString() string {
	n := r.ReadUint32()
	if r.err != nil {
		return ""
	}
	if r.Remaining() < int(n)*2 {
		r.fail()
		return ""
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = r.ReadUint16()
	}
	return string(utf16.Decode(units))
}

// ReadCString reads bytes up to the next NUL. A missing terminator consumes
// the rest of the buffer rather than failing; truncated entity payloads are
// expected (see the repository defaults).
func (r *Reader) ReadCString() string {
	if r.err != nil {
		return ""
	}
	rest := r.buf[r.off:]
	i := bytes.IndexByte(rest, 0)
	if i < 0 {
		r.off = len(r.buf)
		return string(rest)
	}
	r.off += i + 1
	return string(rest[:i])
}

func (r *Reader) ReadUUID() uuid.UUID {
	b := r.take(16)
	if b == nil {
		return uuid.UUID{}
	}
	var id uuid.UUID
	copy(id[:], b)
	return id
}

func (r *Reader) ReadSockAddr() SockAddr {
	var a SockAddr
	a.Type = SocketType(r.ReadUint8())
	ip := r.take(4)
	if ip != nil {
		a.IP = net.IPv4(ip[0], ip[1], ip[2], ip[3])
	}
	a.Port = r.ReadUint16()
	return a
}

// SocketType labels the transport of a socket descriptor.
type SocketType uint8

const (
	SocketUnknown SocketType = 0
	SocketUDP     SocketType = 1
)

// SockAddr is a wire socket descriptor: transport type plus IPv4 endpoint.
type SockAddr struct {
	Type SocketType
	IP   net.IP
	Port uint16
}

func (a SockAddr) UDPAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: a.IP, Port: int(a.Port)}
}

// ParseUUID parses a canonical hyphenated hex identifier into its packed
// 16-byte form.
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// CompressBlock encodes data as a compressed block: 4-byte BE uncompressed
// length followed by the deflate stream at the fastest compression level.
func CompressBlock(data []byte) ([]byte, error) {
	var w Writer
	w.WriteUint32(uint32(len(data)))
	var body bytes.Buffer
	fw, err := flate.NewWriter(&body, flate.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	w.WriteBytes(body.Bytes())
	return w.Bytes(), nil
}

// DecompressBlock reverses CompressBlock, validating the length prefix.
func DecompressBlock(block []byte) ([]byte, error) {
	if len(block) < 4 {
		return nil, ErrBadBlock
	}
	want := binary.BigEndian.Uint32(block[:4])
	fr := flate.NewReader(bytes.NewReader(block[4:]))
	defer fr.Close()
	out := make([]byte, 0, want)
	buf := make([]byte, 4096)
	for {
		n, err := fr.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	if uint32(len(out)) != want {
		return nil, ErrBadBlock
	}
	return out, nil
}
