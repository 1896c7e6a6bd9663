package ecs

import (
	"sort"

	"github.com/milk9111/pursuit/ecs/component"
)

// System updates a world once per tick.
type System interface {
	Update(w *World)
}

// World owns entities, component storage, the event queue and the clock of
// the tick currently being processed.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue

	dt   float64
	time float64
	tick uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and recycles its id.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in id order.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.alive()
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// AddComponent stores value for e under the component id, replacing any
// previous value.
func (w *World) AddComponent(e Entity, kind component.KindID, value any) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if kind == nil || kind.ID() == 0 {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	w.store(kind.ID(), true).Set(e.id(), value)
	return nil
}

// HasComponent reports whether e carries a component of the given kind.
func (w *World) HasComponent(e Entity, kind component.KindID) bool {
	if w == nil || kind == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(kind.ID(), false).Has(e.id())
}

// GetComponent returns the raw stored component value.
func (w *World) GetComponent(e Entity, kind component.KindID) (any, bool) {
	if w == nil || kind == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	v := w.store(kind.ID(), false).Get(e.id())
	return v, v != nil
}

// Query returns the entities carrying every listed component kind, ordered
// by entity id so iteration is deterministic.
func (w *World) Query(kinds ...component.KindID) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s.Len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Len() < sets[j].Len() })

	ids := make([]entityID, 0, sets[0].Len())
	for _, id := range sets[0].ids() {
		matched := true
		for _, other := range sets[1:] {
			if !other.Has(id) {
				matched = false
				break
			}
		}
		if matched {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.entities.entity(id))
	}
	return out
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// BeginTick records the delta time for the tick about to run.
func (w *World) BeginTick(dt float64) {
	if w == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.dt = dt
	w.time += dt
	w.tick++
}

// DeltaTime returns the seconds covered by the current tick.
func (w *World) DeltaTime() float64 {
	if w == nil {
		return 0
	}
	return w.dt
}

// Time returns the accumulated simulated seconds.
func (w *World) Time() float64 {
	if w == nil {
		return 0
	}
	return w.time
}

// Tick returns how many ticks have begun.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}
