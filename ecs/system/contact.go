package system

import (
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// ContactSystem turns agent/character touches from the physics world into
// hit events and arbiter calls.
type ContactSystem struct {
	physics *ecs.PhysicsWorld
	arbiter *ControlArbiter
}

func NewContactSystem(physics *ecs.PhysicsWorld, arbiter *ControlArbiter) *ContactSystem {
	return &ContactSystem{physics: physics, arbiter: arbiter}
}

func (s *ContactSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	for _, c := range s.physics.DrainContacts() {
		s.route(w, c)
	}
}

func (s *ContactSystem) route(w *ecs.World, c ecs.Contact) {
	if ecs.Has(w, c.Agent, component.DisabledComponent) {
		return
	}
	idx := s.arbiter.IndexOf(c.Character)
	if idx < 0 {
		return
	}
	hit := ecs.CharacterHit{Agent: c.Agent, Character: c.Character, Index: idx}
	if idx == 0 {
		w.Events().Emit(ecs.EventMainCharacterHit, hit)
		s.arbiter.OnMainHit()
		return
	}
	w.Events().Emit(ecs.EventSecondaryCharacterHit, hit)
	s.arbiter.OnSecondaryHit()
}
