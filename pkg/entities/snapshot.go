package entities

import (
	"sort"

	cbor "github.com/fxamacker/cbor/v2"

	"github.com/MayaTheShy/Starworld/pkg/spatial"
)

// Snapshot persistence: a restarted client re-presents the last known
// replica from disk before fresh server data arrives. Deterministic CBOR
// (RFC 8949 core profile) keeps snapshots byte-stable for equal contents.

type snapshotEntity struct {
	ID         uint64     `cbor:"1,keyasint"`
	Name       string     `cbor:"2,keyasint"`
	Position   [3]float32 `cbor:"3,keyasint"`
	Rotation   [4]float32 `cbor:"4,keyasint"`
	Scale      [3]float32 `cbor:"5,keyasint"`
	Kind       uint8      `cbor:"6,keyasint"`
	ModelURL   string     `cbor:"7,keyasint,omitempty"`
	TextureURL string     `cbor:"8,keyasint,omitempty"`
	Color      [3]float32 `cbor:"9,keyasint"`
	Alpha      float32    `cbor:"10,keyasint"`
}

var snapshotEnc cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	snapshotEnc = em
}

// Snapshot serializes the current entity set, sorted by id.
func (r *Repository) Snapshot() ([]byte, error) {
	out := make([]snapshotEntity, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, snapshotEntity{
			ID:         uint64(e.ID),
			Name:       e.Name,
			Position:   [3]float32{e.Transform.Position.X, e.Transform.Position.Y, e.Transform.Position.Z},
			Rotation:   [4]float32{e.Transform.Rotation.X, e.Transform.Rotation.Y, e.Transform.Rotation.Z, e.Transform.Rotation.W},
			Scale:      [3]float32{e.Transform.Scale.X, e.Transform.Scale.Y, e.Transform.Scale.Z},
			Kind:       uint8(e.Kind),
			ModelURL:   e.ModelURL,
			TextureURL: e.TextureURL,
			Color:      [3]float32{e.Color.R, e.Color.G, e.Color.B},
			Alpha:      e.Alpha,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return snapshotEnc.Marshal(out)
}

// Restore replaces the repository contents with a snapshot and marks every
// restored entity changed so the scene pump re-presents it.
func (r *Repository) Restore(data []byte) error {
	var in []snapshotEntity
	if err := cbor.Unmarshal(data, &in); err != nil {
		return err
	}
	r.entities = make(map[ID]*Entity, len(in))
	r.changed = nil
	r.changedSet = make(map[ID]struct{})
	r.deleted = nil
	for _, s := range in {
		e := NewEntity(ID(s.ID))
		e.Name = s.Name
		e.Transform.Position = vec3FromArray(s.Position)
		e.Transform.Rotation.X = s.Rotation[0]
		e.Transform.Rotation.Y = s.Rotation[1]
		e.Transform.Rotation.Z = s.Rotation[2]
		e.Transform.Rotation.W = s.Rotation[3]
		e.Transform.Scale = vec3FromArray(s.Scale)
		if Kind(s.Kind) < numKinds {
			e.Kind = Kind(s.Kind)
		}
		e.ModelURL = s.ModelURL
		e.TextureURL = s.TextureURL
		e.Color = Color{s.Color[0], s.Color[1], s.Color[2]}
		e.Alpha = s.Alpha
		r.ApplyAdd(e)
	}
	return nil
}

func vec3FromArray(a [3]float32) spatial.Vec3 {
	return spatial.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
