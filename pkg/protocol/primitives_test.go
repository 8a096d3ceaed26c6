package protocol

import (
	"bytes"
	"net"
	"testing"

	"github.com/google/uuid"
)

func TestUint64BigEndianBytes(t *testing.T) {
	var w Writer
	w.WriteUint64(0x1122334455667788)
	want := []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("u64 bytes = %x, want %x", w.Bytes(), want)
	}
	r := NewReader(w.Bytes())
	if v := r.ReadUint64(); v != 0x1122334455667788 {
		t.Fatalf("u64 roundtrip = %x", v)
	}
}

func TestWideStringRoundtrip(t *testing.T) {
	var w Writer
	w.WriteWideString("hello wørld")
	b := w.Bytes()
	// 4-byte count then two bytes per code unit
	if b[3] != 11 {
		t.Fatalf("char count = %d", b[3])
	}
	if len(b) != 4+11*2 {
		t.Fatalf("encoded len = %d", len(b))
	}
	r := NewReader(b)
	if s := r.ReadWideString(); s != "hello wørld" {
		t.Fatalf("roundtrip = %q", s)
	}
	if r.Err() != nil {
		t.Fatalf("err: %v", r.Err())
	}
}

func TestCStringRoundtrip(t *testing.T) {
	var w Writer
	w.WriteCString("Cube")
	w.WriteCString("")
	w.WriteUint8(7)
	r := NewReader(w.Bytes())
	if s := r.ReadCString(); s != "Cube" {
		t.Fatalf("first = %q", s)
	}
	if s := r.ReadCString(); s != "" {
		t.Fatalf("second = %q", s)
	}
	if v := r.ReadUint8(); v != 7 {
		t.Fatalf("trailing byte = %d", v)
	}
}

func TestCStringMissingTerminator(t *testing.T) {
	r := NewReader([]byte("truncated"))
	if s := r.ReadCString(); s != "truncated" {
		t.Fatalf("got %q", s)
	}
	if r.Remaining() != 0 || r.Err() != nil {
		t.Fatalf("reader state: rem=%d err=%v", r.Remaining(), r.Err())
	}
}

func TestBlobRoundtrip(t *testing.T) {
	var w Writer
	w.WriteBlob([]byte{9, 8, 7})
	r := NewReader(w.Bytes())
	if b := r.ReadBlob(); !bytes.Equal(b, []byte{9, 8, 7}) {
		t.Fatalf("blob = %x", b)
	}
}

func TestUUIDPacked(t *testing.T) {
	id, err := ParseUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var w Writer
	w.WriteUUID(id)
	if w.Len() != 16 {
		t.Fatalf("packed len = %d", w.Len())
	}
	r := NewReader(w.Bytes())
	if got := r.ReadUUID(); got != id {
		t.Fatalf("roundtrip = %s", got)
	}
}

func TestSockAddrRoundtrip(t *testing.T) {
	a := SockAddr{Type: SocketUDP, IP: net.IPv4(10, 0, 0, 5), Port: 40103}
	var w Writer
	w.WriteSockAddr(a)
	if w.Len() != 7 {
		t.Fatalf("descriptor len = %d", w.Len())
	}
	r := NewReader(w.Bytes())
	got := r.ReadSockAddr()
	if got.Type != SocketUDP || !got.IP.Equal(a.IP) || got.Port != 40103 {
		t.Fatalf("roundtrip = %+v", got)
	}
}

func TestCompressedBlockRoundtrip(t *testing.T) {
	data := bytes.Repeat([]byte("system-info "), 64)
	block, err := CompressBlock(data)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if len(block) >= len(data) {
		t.Fatalf("block not smaller than input: %d >= %d", len(block), len(data))
	}
	out, err := DecompressBlock(block)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("roundtrip mismatch")
	}
}

func TestDecompressBlockBadLength(t *testing.T) {
	block, err := CompressBlock([]byte("abc"))
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	block[3]++ // corrupt the uncompressed-length prefix
	if _, err := DecompressBlock(block); err == nil {
		t.Fatalf("expected error for corrupted length prefix")
	}
}

func TestReaderStickyError(t *testing.T) {
	r := NewReader([]byte{1, 2})
	_ = r.ReadUint32()
	if r.Err() == nil {
		t.Fatalf("expected short-payload error")
	}
	if v := r.ReadUint8(); v != 0 {
		t.Fatalf("read after error = %d", v)
	}
	if id := r.ReadUUID(); id != (uuid.UUID{}) {
		t.Fatalf("uuid after error = %s", id)
	}
}
