package entities

import (
	"errors"

	"github.com/MayaTheShy/Starworld/pkg/protocol"
	"github.com/MayaTheShy/Starworld/pkg/spatial"
)

// Entity payload codecs. Add and data payloads share one fixed field order:
// u64 id, NUL name, 3xf32 position, 4xf32 rotation (x,y,z,w), 3xf32 scale,
// NUL model URL, NUL texture URL, 3xf32 RGB, optional trailing kind byte.
// Every field past the supplied length falls back to the NewEntity default,
// so a truncated payload still yields a visible placeholder entity.

var ErrBadEntityPayload = errors.New("malformed entity payload")

// DecodeAdd decodes an add or data payload. Only the id is mandatory.
func DecodeAdd(payload []byte) (Entity, error) {
	r := protocol.NewReader(payload)
	id := r.ReadUint64()
	if r.Err() != nil {
		return Entity{}, ErrBadEntityPayload
	}
	e := NewEntity(ID(id))

	if r.Remaining() == 0 {
		return e, nil
	}
	e.Name = r.ReadCString()

	if r.Remaining() < 12 {
		return e, nil
	}
	e.Transform.Position = readVec3(r)

	if r.Remaining() < 16 {
		return e, nil
	}
	e.Transform.Rotation = readQuat(r)

	if r.Remaining() < 12 {
		return e, nil
	}
	e.Transform.Scale = readVec3(r)

	if r.Remaining() == 0 {
		return e, nil
	}
	e.ModelURL = r.ReadCString()

	if r.Remaining() == 0 {
		return e, nil
	}
	e.TextureURL = r.ReadCString()

	if r.Remaining() < 12 {
		return e, nil
	}
	e.Color = Color{r.ReadFloat32(), r.ReadFloat32(), r.ReadFloat32()}

	if r.Remaining() >= 1 {
		if k := Kind(r.ReadUint8()); k < numKinds {
			e.Kind = k
		}
	}
	return e, nil
}

// EncodeAdd writes the full fixed field order including the kind byte.
func EncodeAdd(e Entity) []byte {
	var w protocol.Writer
	w.WriteUint64(uint64(e.ID))
	w.WriteCString(e.Name)
	writeVec3(&w, e.Transform.Position)
	writeQuat(&w, e.Transform.Rotation)
	writeVec3(&w, e.Transform.Scale)
	w.WriteCString(e.ModelURL)
	w.WriteCString(e.TextureURL)
	w.WriteFloat32(e.Color.R)
	w.WriteFloat32(e.Color.G)
	w.WriteFloat32(e.Color.B)
	w.WriteUint8(uint8(e.Kind))
	return w.Bytes()
}

// DecodeEdit decodes a partial edit: id, flag mask, then only the flagged
// transform fields in fixed order. A flagged field with missing bytes makes
// the whole payload malformed, unlike the add path.
func DecodeEdit(payload []byte) (ID, EditFlags, spatial.Transform, error) {
	r := protocol.NewReader(payload)
	id := ID(r.ReadUint64())
	flags := EditFlags(r.ReadUint8())

	var t spatial.Transform
	if flags&EditPosition != 0 {
		t.Position = readVec3(r)
	}
	if flags&EditRotation != 0 {
		t.Rotation = readQuat(r)
	}
	if flags&EditDimensions != 0 {
		t.Scale = readVec3(r)
	}
	if r.Err() != nil {
		return 0, 0, spatial.Transform{}, ErrBadEntityPayload
	}
	return id, flags, t, nil
}

func EncodeEdit(id ID, flags EditFlags, t spatial.Transform) []byte {
	var w protocol.Writer
	w.WriteUint64(uint64(id))
	w.WriteUint8(uint8(flags))
	if flags&EditPosition != 0 {
		writeVec3(&w, t.Position)
	}
	if flags&EditRotation != 0 {
		writeQuat(&w, t.Rotation)
	}
	if flags&EditDimensions != 0 {
		writeVec3(&w, t.Scale)
	}
	return w.Bytes()
}

// DecodeErase decodes an erase payload: the bare id.
func DecodeErase(payload []byte) (ID, error) {
	r := protocol.NewReader(payload)
	id := ID(r.ReadUint64())
	if r.Err() != nil {
		return 0, ErrBadEntityPayload
	}
	return id, nil
}

func EncodeErase(id ID) []byte {
	var w protocol.Writer
	w.WriteUint64(uint64(id))
	return w.Bytes()
}

// Client-side create payloads carry an ordered (property id, value) pair
// list instead of the fixed server layout.
const (
	propName       uint16 = 0x0001
	propPosition   uint16 = 0x0002
	propDimensions uint16 = 0x0003
	propColor      uint16 = 0x0004
	propEnd        uint16 = 0xFFFF
)

// CreateProps is the minimal property set a client may ask the server to
// instantiate.
type CreateProps struct {
	Name       string
	Position   spatial.Vec3
	Dimensions spatial.Vec3
	Color      Color
}

// EncodeCreate writes the property pairs in ascending id order followed by
// the end sentinel.
func EncodeCreate(p CreateProps) []byte {
	var w protocol.Writer
	w.WriteUint16(propName)
	w.WriteCString(p.Name)
	w.WriteUint16(propPosition)
	writeVec3(&w, p.Position)
	w.WriteUint16(propDimensions)
	writeVec3(&w, p.Dimensions)
	w.WriteUint16(propColor)
	w.WriteFloat32(p.Color.R)
	w.WriteFloat32(p.Color.G)
	w.WriteFloat32(p.Color.B)
	w.WriteUint16(propEnd)
	return w.Bytes()
}

// DecodeCreate parses property pairs until the end sentinel. An unknown
// property id is fatal since its value length cannot be skipped.
func DecodeCreate(payload []byte) (CreateProps, error) {
	var p CreateProps
	r := protocol.NewReader(payload)
	for {
		id := r.ReadUint16()
		if r.Err() != nil {
			return CreateProps{}, ErrBadEntityPayload
		}
		switch id {
		case propEnd:
			return p, nil
		case propName:
			p.Name = r.ReadCString()
		case propPosition:
			p.Position = readVec3(r)
		case propDimensions:
			p.Dimensions = readVec3(r)
		case propColor:
			p.Color = Color{r.ReadFloat32(), r.ReadFloat32(), r.ReadFloat32()}
		default:
			return CreateProps{}, ErrBadEntityPayload
		}
		if r.Err() != nil {
			return CreateProps{}, ErrBadEntityPayload
		}
	}
}

func readVec3(r *protocol.Reader) spatial.Vec3 {
	return spatial.Vec3{X: r.ReadFloat32(), Y: r.ReadFloat32(), Z: r.ReadFloat32()}
}

func writeVec3(w *protocol.Writer, v spatial.Vec3) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
	w.WriteFloat32(v.Z)
}

func readQuat(r *protocol.Reader) spatial.Quat {
	return spatial.Quat{X: r.ReadFloat32(), Y: r.ReadFloat32(), Z: r.ReadFloat32(), W: r.ReadFloat32()}
}

func writeQuat(w *protocol.Writer, q spatial.Quat) {
	w.WriteFloat32(q.X)
	w.WriteFloat32(q.Y)
	w.WriteFloat32(q.Z)
	w.WriteFloat32(q.W)
}
