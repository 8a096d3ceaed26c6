package scene

import (
	"go.uber.org/zap"

	"github.com/MayaTheShy/Starworld/pkg/entities"
)

// Pump drains the repository's changed/deleted queues into a sink once per
// tick, keeping the id-to-handle map. An entity is created on first sight
// and fully re-pushed on every change; the sink is expected to be cheap.
type Pump struct {
	repo    *entities.Repository
	sink    Sink
	handles map[entities.ID]Handle
}

func NewPump(repo *entities.Repository, sink Sink) *Pump {
	return &Pump{
		repo:    repo,
		sink:    sink,
		handles: make(map[entities.ID]Handle),
	}
}

// Tick presents all pending changes. Deletions run after changes so an
// add-then-erase within one interval nets out to nothing visible.
func (p *Pump) Tick() {
	for _, id := range p.repo.ConsumeChanged() {
		e, ok := p.repo.Get(id)
		if !ok {
			// changed then erased within the same interval
			continue
		}
		h, seen := p.handles[id]
		if !seen {
			h = p.sink.Create(e.Name, e.Transform)
			p.handles[id] = h
			zap.L().Debug("scene create",
				zap.Uint64("id", uint64(id)), zap.Uint64("handle", uint64(h)))
		} else {
			p.sink.UpdateTransform(h, e.Transform)
		}
		p.sink.SetKind(h, e.Kind)
		p.sink.SetColor(h, e.Color, e.Alpha)
		p.sink.SetDimensions(h, e.Transform.Scale)
		if e.ModelURL != "" {
			p.sink.SetModel(h, e.ModelURL)
		}
		if e.TextureURL != "" {
			p.sink.SetTexture(h, e.TextureURL)
		}
	}
	for _, id := range p.repo.ConsumeDeleted() {
		h, seen := p.handles[id]
		if !seen {
			continue
		}
		delete(p.handles, id)
		p.sink.Remove(h)
	}
}

// Presented returns the number of live handles.
func (p *Pump) Presented() int { return len(p.handles) }
