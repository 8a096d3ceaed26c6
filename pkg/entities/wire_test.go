package entities

import (
	"testing"

	"github.com/MayaTheShy/Starworld/pkg/spatial"
)

func TestAddPayloadRoundtrip(t *testing.T) {
	in := Entity{
		ID:   0x0102030405060708,
		Name: "Crate",
		Transform: spatial.Transform{
			Position: spatial.Vec3{X: 1, Y: 2, Z: 3},
			Rotation: spatial.Quat{X: 0, Y: 0.7071068, Z: 0, W: 0.7071068},
			Scale:    spatial.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
		},
		Kind:       KindModel,
		ModelURL:   "https://assets.example/crate.glb",
		TextureURL: "https://assets.example/crate.png",
		Color:      Color{0.2, 0.4, 0.6},
		Alpha:      1,
	}
	out, err := DecodeAdd(EncodeAdd(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Fatalf("roundtrip mismatch:\n got %+v\nwant %+v", out, in)
	}
}

func TestAddPayloadIDOnlyDefaults(t *testing.T) {
	e, err := DecodeAdd(EncodeErase(77))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.ID != 77 || e.Name != "Entity_77" {
		t.Fatalf("defaults: id=%d name=%q", e.ID, e.Name)
	}
	if e.Transform.Position != DefaultPosition || e.Transform.Scale != DefaultScale {
		t.Fatalf("default transform: %+v", e.Transform)
	}
	if e.Transform.Rotation != spatial.Identity() || e.Kind != KindBox {
		t.Fatalf("default rotation/kind: %+v %v", e.Transform.Rotation, e.Kind)
	}
	if e.Color != (Color{1, 1, 1}) || e.Alpha != 1 {
		t.Fatalf("default color: %+v alpha=%v", e.Color, e.Alpha)
	}
}

func TestAddPayloadTruncatedMidFloats(t *testing.T) {
	full := EncodeAdd(NewEntity(9))
	// cut inside the position triple: name survives, position defaults
	cut := full[:8+len("Entity_9")+1+5]
	e, err := DecodeAdd(cut)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Name != "Entity_9" || e.Transform.Position != DefaultPosition {
		t.Fatalf("truncated decode: %+v", e)
	}
}

func TestAddPayloadShortID(t *testing.T) {
	if _, err := DecodeAdd([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for short id")
	}
}

func TestAddPayloadKindOutOfRange(t *testing.T) {
	e := NewEntity(4)
	e.Kind = Kind(200)
	out, err := DecodeAdd(EncodeAdd(e))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Kind != KindBox {
		t.Fatalf("out-of-range kind decoded as %v", out.Kind)
	}
}

func TestEditPayloadRoundtrip(t *testing.T) {
	want := spatial.Transform{
		Position: spatial.Vec3{X: 4, Y: 5, Z: 6},
		Scale:    spatial.Vec3{X: 2, Y: 2, Z: 2},
	}
	buf := EncodeEdit(11, EditPosition|EditDimensions, want)
	// id + flags + two flagged vec3s, nothing for the unflagged rotation
	if len(buf) != 8+1+12+12 {
		t.Fatalf("edit payload len = %d", len(buf))
	}
	id, flags, got, err := DecodeEdit(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id != 11 || flags != EditPosition|EditDimensions || got != want {
		t.Fatalf("roundtrip: id=%d flags=%b %+v", id, flags, got)
	}
}

func TestEditPayloadTruncatedFlaggedField(t *testing.T) {
	buf := EncodeEdit(11, EditRotation, spatial.Transform{Rotation: spatial.Identity()})
	if _, _, _, err := DecodeEdit(buf[:len(buf)-2]); err == nil {
		t.Fatalf("expected error for truncated flagged field")
	}
}

func TestErasePayloadRoundtrip(t *testing.T) {
	id, err := DecodeErase(EncodeErase(31337))
	if err != nil || id != 31337 {
		t.Fatalf("roundtrip: id=%d err=%v", id, err)
	}
	if _, err := DecodeErase([]byte{0}); err == nil {
		t.Fatalf("expected error for short erase")
	}
}

func TestCreatePayloadRoundtrip(t *testing.T) {
	in := CreateProps{
		Name:       "MyBox",
		Position:   spatial.Vec3{X: 0, Y: 1, Z: -2},
		Dimensions: spatial.Vec3{X: 0.25, Y: 0.25, Z: 0.25},
		Color:      Color{1, 0, 0},
	}
	buf := EncodeCreate(in)
	// four (id, value) pairs plus the end sentinel
	if want := 2 + len("MyBox") + 1 + 2 + 12 + 2 + 12 + 2 + 12 + 2; len(buf) != want {
		t.Fatalf("create payload len = %d, want %d", len(buf), want)
	}
	out, err := DecodeCreate(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Fatalf("roundtrip: %+v", out)
	}
}

func TestCreatePayloadUnknownProperty(t *testing.T) {
	buf := EncodeCreate(CreateProps{Name: "x"})
	buf[0], buf[1] = 0x7F, 0x7F
	if _, err := DecodeCreate(buf); err == nil {
		t.Fatalf("expected error for unknown property id")
	}
}
