// Package scene is the boundary to the rendering bridge. The protocol core
// never renders; it pushes plain create/update/remove calls into a Sink and
// the bridge does the rest.
package scene

import (
	"github.com/MayaTheShy/Starworld/pkg/entities"
	"github.com/MayaTheShy/Starworld/pkg/spatial"
)

// Handle identifies one presented object inside the sink.
type Handle uint64

// Sink receives entity presentation calls. Implementations live outside
// this module (compositor bridge); tests use a recorder.
type Sink interface {
	Create(name string, t spatial.Transform) Handle
	UpdateTransform(h Handle, t spatial.Transform)
	SetKind(h Handle, kind entities.Kind)
	SetColor(h Handle, color entities.Color, alpha float32)
	SetDimensions(h Handle, dims spatial.Vec3)
	SetModel(h Handle, url string)
	SetTexture(h Handle, url string)
	Remove(h Handle)
}
