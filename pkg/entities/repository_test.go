package entities

import (
	"testing"

	"github.com/MayaTheShy/Starworld/pkg/spatial"
)

func TestAddConsumeChangedOnce(t *testing.T) {
	r := NewRepository()
	r.ApplyAdd(NewEntity(42))
	if got := r.ConsumeChanged(); len(got) != 1 || got[0] != 42 {
		t.Fatalf("first drain = %v", got)
	}
	if got := r.ConsumeChanged(); got != nil {
		t.Fatalf("second drain = %v", got)
	}
}

func TestChangedCollapsesRepeats(t *testing.T) {
	r := NewRepository()
	r.ApplyAdd(NewEntity(1))
	r.ApplyAdd(NewEntity(2))
	r.ApplyEdit(1, EditPosition, spatial.Transform{Position: spatial.Vec3{X: 9}})
	if got := r.ConsumeChanged(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("drain = %v", got)
	}
	e, _ := r.Get(1)
	if e.Transform.Position.X != 9 {
		t.Fatalf("collapsed entry lost latest state: %+v", e.Transform.Position)
	}
}

func TestEditZeroFlagsLeavesTransformUntouched(t *testing.T) {
	r := NewRepository()
	e := NewEntity(7)
	e.Transform.Position = spatial.Vec3{X: 1.25, Y: -3.5, Z: 0.0625}
	e.Transform.Rotation = spatial.Quat{X: 0.5, Y: 0.5, Z: 0.5, W: 0.5}
	e.Transform.Scale = spatial.Vec3{X: 2, Y: 2, Z: 2}
	r.ApplyAdd(e)
	before, _ := r.Get(7)

	if !r.ApplyEdit(7, 0, spatial.Transform{Position: spatial.Vec3{X: 99}}) {
		t.Fatalf("edit rejected")
	}
	after, _ := r.Get(7)
	if after.Transform != before.Transform {
		t.Fatalf("transform changed: %+v vs %+v", after.Transform, before.Transform)
	}
}

func TestEditRotationOnly(t *testing.T) {
	r := NewRepository()
	r.ApplyAdd(NewEntity(7))
	before, _ := r.Get(7)

	rot := spatial.Quat{X: 0, Y: 0.7071068, Z: 0, W: 0.7071068}
	r.ApplyEdit(7, EditRotation, spatial.Transform{Rotation: rot, Position: spatial.Vec3{X: 99}, Scale: spatial.Vec3{X: 99}})
	after, _ := r.Get(7)
	if after.Transform.Rotation != rot {
		t.Fatalf("rotation not applied: %+v", after.Transform.Rotation)
	}
	if after.Transform.Position != before.Transform.Position || after.Transform.Scale != before.Transform.Scale {
		t.Fatalf("unflagged fields changed: %+v", after.Transform)
	}
}

func TestEditUnknownIgnored(t *testing.T) {
	r := NewRepository()
	if r.ApplyEdit(404, EditPosition, spatial.Transform{}) {
		t.Fatalf("edit of unknown id accepted")
	}
	if got := r.ConsumeChanged(); got != nil {
		t.Fatalf("unknown edit enqueued %v", got)
	}
}

func TestEraseUnknownNoop(t *testing.T) {
	r := NewRepository()
	if r.ApplyErase(404) {
		t.Fatalf("erase of unknown id reported success")
	}
	if got := r.ConsumeDeleted(); got != nil {
		t.Fatalf("unknown erase enqueued %v", got)
	}
}

func TestEraseEnqueuesDeleted(t *testing.T) {
	r := NewRepository()
	r.ApplyAdd(NewEntity(5))
	if !r.ApplyErase(5) {
		t.Fatalf("erase rejected")
	}
	if _, ok := r.Get(5); ok {
		t.Fatalf("entity still present after erase")
	}
	if got := r.ConsumeDeleted(); len(got) != 1 || got[0] != 5 {
		t.Fatalf("deleted drain = %v", got)
	}
	if got := r.ConsumeDeleted(); got != nil {
		t.Fatalf("second deleted drain = %v", got)
	}
}

func TestSnapshotRoundtrip(t *testing.T) {
	r := NewRepository()
	e := NewEntity(3)
	e.Name = "lamp"
	e.Kind = KindLight
	e.ModelURL = "https://assets.example/lamp.glb"
	e.Color = Color{1, 0.8, 0.2}
	r.ApplyAdd(e)
	r.ApplyAdd(NewEntity(1))
	r.ConsumeChanged()

	data, err := r.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	restored := NewRepository()
	if err := restored.Restore(data); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Len() != 2 {
		t.Fatalf("restored %d entities", restored.Len())
	}
	got, ok := restored.Get(3)
	if !ok || got.Name != "lamp" || got.Kind != KindLight || got.ModelURL != e.ModelURL || got.Color != e.Color {
		t.Fatalf("restored entity = %+v", got)
	}
	// restored entities re-enter the changed queue for the scene pump
	if changed := restored.ConsumeChanged(); len(changed) != 2 {
		t.Fatalf("restored changed queue = %v", changed)
	}
}
