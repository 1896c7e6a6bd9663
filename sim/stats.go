package sim

import (
	"github.com/milk9111/pursuit/ecs"
)

// Stats accumulates what happened over a run. Restarts do not reset it.
type Stats struct {
	Ticks        uint64
	PhysicsSteps uint64
	Restarts     int

	// Transitions counts FSM changes keyed "from->to".
	Transitions map[string]int
	// FirstChaseTick is the tick of the first Patrol/Search -> Chase, 0 if
	// none happened.
	FirstChaseTick uint64

	ThreatChanges  int
	ThreatenedTime float64

	Switches       int
	ForcedSwitches int
	// Blocked counts refused switch requests by reason.
	Blocked map[string]int

	MainHits      int
	SecondaryHits int
}

func newStats() Stats {
	return Stats{
		Transitions: make(map[string]int),
		Blocked:     make(map[string]int),
	}
}

func (s *Stats) record(tick uint64, ev ecs.Event) {
	switch ev.Type {
	case ecs.EventAgentStateChanged:
		data, ok := ev.Data.(ecs.AgentStateChanged)
		if !ok {
			return
		}
		s.Transitions[data.From+"->"+data.To]++
		if data.To == "chase" && s.FirstChaseTick == 0 {
			s.FirstChaseTick = tick
		}
	case ecs.EventThreatChanged:
		s.ThreatChanges++
	case ecs.EventActiveCharacterChanged:
		s.Switches++
		if data, ok := ev.Data.(ecs.ActiveCharacterChanged); ok && data.Forced {
			s.ForcedSwitches++
		}
	case ecs.EventSwitchBlocked:
		if data, ok := ev.Data.(ecs.SwitchBlocked); ok {
			s.Blocked[data.Reason]++
		}
	case ecs.EventMainCharacterHit:
		s.MainHits++
	case ecs.EventSecondaryCharacterHit:
		s.SecondaryHits++
	}
}

// Clone returns a copy that shares no maps with s.
func (s Stats) Clone() Stats {
	out := s
	out.Transitions = make(map[string]int, len(s.Transitions))
	for k, v := range s.Transitions {
		out.Transitions[k] = v
	}
	out.Blocked = make(map[string]int, len(s.Blocked))
	for k, v := range s.Blocked {
		out.Blocked[k] = v
	}
	return out
}
