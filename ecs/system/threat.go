package system

import (
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// AnyAgentSeesAnyCharacter checks every agent's sight cone against every
// character, active or not, and stops at the first sighting. The agents'
// FSM state is irrelevant.
func AnyAgentSeesAnyCharacter(w *ecs.World, query ecs.ObstacleQuery, agents, characters []ecs.Entity) bool {
	if w == nil || len(agents) == 0 || len(characters) == 0 {
		return false
	}
	for _, agent := range agents {
		if ecs.Has(w, agent, component.DisabledComponent) {
			continue
		}
		p, ok := ecs.Get(w, agent, component.PerceptionComponent)
		if !ok {
			continue
		}
		pb, ok := ecs.Get(w, agent, component.PhysicsBodyComponent)
		if !ok || pb.Body == nil {
			continue
		}
		eyes := EyePosition(pb.Body.Position(), p)
		for _, character := range characters {
			if CanSee(w, query, eyes, p, character) {
				return true
			}
		}
	}
	return false
}

// ThreatSystem publishes the global "someone is seen" flag to the arbiter.
// It must run after perception and before the arbiter.
type ThreatSystem struct {
	query   ecs.ObstacleQuery
	arbiter *ControlArbiter
}

func NewThreatSystem(query ecs.ObstacleQuery, arbiter *ControlArbiter) *ThreatSystem {
	return &ThreatSystem{query: query, arbiter: arbiter}
}

func (s *ThreatSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.arbiter.Disabled() {
		return
	}
	agents := w.Query(component.AgentTagComponent, component.PerceptionComponent, component.PhysicsBodyComponent)
	s.arbiter.SetThreatened(AnyAgentSeesAnyCharacter(w, s.query, agents, s.arbiter.Roster()))
}
