package protocol

import (
	"bytes"
	"testing"
)

func TestVersionTableLookups(t *testing.T) {
	tbl := NewVersionTable()
	if v := tbl.Version(PacketDomainList); v != 25 {
		t.Fatalf("DomainList version = %d", v)
	}
	if v := tbl.Version(PacketDomainConnectRequest); v != 26 {
		t.Fatalf("DomainConnectRequest version = %d", v)
	}
	if v := tbl.Version(PacketEntityData); v != 91 {
		t.Fatalf("EntityData version = %d", v)
	}
	// unmapped type falls back to the baseline
	if v := tbl.Version(PacketDomainSettings); v != 22 {
		t.Fatalf("baseline version = %d", v)
	}
	if v := tbl.Version(PacketType(200)); v != 22 {
		t.Fatalf("out-of-range version = %d", v)
	}
}

func TestSignatureDeterministic(t *testing.T) {
	a := NewVersionTable().Signature()
	b := NewVersionTable().Signature()
	if len(a) != 16 {
		t.Fatalf("signature length = %d", len(a))
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("signature not deterministic")
	}
}

func TestSignatureSensitiveToEveryEntry(t *testing.T) {
	base := NewVersionTable()
	baseSig := base.Signature()
	for pt := 0; pt < NumPacketTypes; pt++ {
		mod := base.Override(PacketType(pt), base.Version(PacketType(pt))+1)
		if bytes.Equal(mod.Signature(), baseSig) {
			t.Fatalf("signature unchanged after modifying entry %d", pt)
		}
	}
}

func TestOverrideDoesNotMutate(t *testing.T) {
	base := NewVersionTable()
	_ = base.Override(PacketDomainList, 99)
	if base.Version(PacketDomainList) != 25 {
		t.Fatalf("Override mutated the receiver")
	}
}
