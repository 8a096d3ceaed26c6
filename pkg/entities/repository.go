package entities

import (
	"go.uber.org/zap"

	"github.com/MayaTheShy/Starworld/pkg/spatial"
)

// EditFlags selects which transform fields an edit payload carries.
type EditFlags uint8

const (
	EditPosition   EditFlags = 1 << 0
	EditRotation   EditFlags = 1 << 1
	EditDimensions EditFlags = 1 << 2
)

// Repository is the authoritative local replica of the domain's entities.
// It is only ever touched from the orchestrator's tick, so it carries no
// locking. Changed and deleted ids accumulate in drainable queues; repeated
// changes to one id within a drain interval collapse to a single entry.
type Repository struct {
	entities map[ID]*Entity

	changed    []ID
	changedSet map[ID]struct{}
	deleted    []ID
}

func NewRepository() *Repository {
	return &Repository{
		entities:   make(map[ID]*Entity),
		changedSet: make(map[ID]struct{}),
	}
}

func (r *Repository) Len() int { return len(r.entities) }

// Get returns a copy of the stored entity.
func (r *Repository) Get(id ID) (Entity, bool) {
	e, ok := r.entities[id]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// ApplyAdd inserts or overwrites an entity and marks it changed.
func (r *Repository) ApplyAdd(e Entity) {
	stored := e
	r.entities[e.ID] = &stored
	r.markChanged(e.ID)
}

// ApplyEdit overwrites only the transform fields selected by flags. Unknown
// ids are ignored; a lost add simply leaves later edits without a target
// until the next full data payload arrives.
func (r *Repository) ApplyEdit(id ID, flags EditFlags, t spatial.Transform) bool {
	e, ok := r.entities[id]
	if !ok {
		zap.L().Debug("edit for unknown entity", zap.Uint64("id", uint64(id)))
		return false
	}
	if flags&EditPosition != 0 {
		e.Transform.Position = t.Position
	}
	if flags&EditRotation != 0 {
		e.Transform.Rotation = t.Rotation
	}
	if flags&EditDimensions != 0 {
		e.Transform.Scale = t.Scale
	}
	r.markChanged(id)
	return true
}

// ApplyErase removes an entity if present and marks it deleted. Erasing an
// unknown id enqueues nothing.
func (r *Repository) ApplyErase(id ID) bool {
	if _, ok := r.entities[id]; !ok {
		return false
	}
	delete(r.entities, id)
	r.deleted = append(r.deleted, id)
	return true
}

// ConsumeChanged drains the changed queue in arrival order.
func (r *Repository) ConsumeChanged() []ID {
	if len(r.changed) == 0 {
		return nil
	}
	out := r.changed
	r.changed = nil
	r.changedSet = make(map[ID]struct{})
	return out
}

// ConsumeDeleted drains the deleted queue in arrival order.
func (r *Repository) ConsumeDeleted() []ID {
	if len(r.deleted) == 0 {
		return nil
	}
	out := r.deleted
	r.deleted = nil
	return out
}

func (r *Repository) markChanged(id ID) {
	if _, dup := r.changedSet[id]; dup {
		return
	}
	r.changedSet[id] = struct{}{}
	r.changed = append(r.changed, id)
}
