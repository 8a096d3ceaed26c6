// Package entities maintains the local replica of the domain's entity set
// and decodes the entity payloads that mutate it.
package entities

import (
	"fmt"

	"github.com/MayaTheShy/Starworld/pkg/spatial"
)

// ID is the 64-bit entity identifier, server- or locally-assigned.
type ID uint64

// Kind is the closed set of entity shapes the server replicates.
type Kind uint8

const (
	KindBox Kind = iota
	KindSphere
	KindModel
	KindShape
	KindLight
	KindText
	KindZone
	KindWeb
	KindParticleEffect
	KindLine
	KindPolyLine
	KindGrid
	KindGizmo
	KindMaterial

	numKinds
)

func (k Kind) String() string {
	names := [...]string{
		"Box", "Sphere", "Model", "Shape", "Light", "Text", "Zone", "Web",
		"ParticleEffect", "Line", "PolyLine", "Grid", "Gizmo", "Material",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Color is an RGB triple with components in [0, 1].
type Color struct {
	R, G, B float32
}

// Entity is one replicated object: transform plus visual properties.
type Entity struct {
	ID         ID
	Name       string
	Transform  spatial.Transform
	Kind       Kind
	ModelURL   string
	TextureURL string
	Color      Color
	Alpha      float32
}

// Defaults applied to fields a truncated add/data payload did not carry.
// The position sits a little in front of the origin so a newly-seen entity
// is visible before its full properties arrive.
var (
	DefaultPosition = spatial.Vec3{X: 0, Y: 1.5, Z: -2}
	DefaultScale    = spatial.Vec3{X: 0.1, Y: 0.1, Z: 0.1}
)

// NewEntity returns an entity with every field at its documented default.
func NewEntity(id ID) Entity {
	return Entity{
		ID:   id,
		Name: fmt.Sprintf("Entity_%d", id),
		Transform: spatial.Transform{
			Position: DefaultPosition,
			Rotation: spatial.Identity(),
			Scale:    DefaultScale,
		},
		Kind:  KindBox,
		Color: Color{1, 1, 1},
		Alpha: 1,
	}
}
