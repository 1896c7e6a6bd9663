package system

import (
	"log/slog"
	"math/rand"

	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// PursuitSystem runs every agent's patrol/chase/search machine.
type PursuitSystem struct {
	query    ecs.ObstacleQuery
	arbiter  *ControlArbiter
	rng      *rand.Rand
	fsmCache map[string]*FSMDef
	disabled bool
}

// NewPursuitSystem wires the system to the obstacle query and the arbiter
// that decides which character agents track. Without characters the
// system disables itself.
func NewPursuitSystem(query ecs.ObstacleQuery, arbiter *ControlArbiter, rng *rand.Rand) *PursuitSystem {
	s := &PursuitSystem{
		query:   query,
		arbiter: arbiter,
		rng:     rng,
		fsmCache: map[string]*FSMDef{
			component.DefaultAIFSMName: DefaultPursuitFSM(),
		},
	}
	if arbiter.Disabled() {
		s.disabled = true
		slog.Error("pursuit has no characters to track, disabling", "system", "pursuit")
	}
	return s
}

// RegisterFSM makes def available to agents whose AIConfig names it.
func (s *PursuitSystem) RegisterFSM(name string, def *FSMDef) {
	if s == nil || name == "" || def == nil {
		return
	}
	s.fsmCache[name] = def
}

func (s *PursuitSystem) fsmFor(cfg *component.AIConfig) *FSMDef {
	name := component.DefaultAIFSMName
	if cfg != nil && cfg.FSM != "" {
		name = cfg.FSM
	}
	if def, ok := s.fsmCache[name]; ok {
		return def
	}
	def, err := LoadFSM(name)
	if err != nil {
		slog.Error("load fsm failed, using built-in", "system", "pursuit", "fsm", name, "err", err)
		def = s.fsmCache[component.DefaultAIFSMName]
	}
	s.fsmCache[name] = def
	return def
}

func (s *PursuitSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.disabled {
		return
	}

	entities := w.Query(
		component.AgentTagComponent,
		component.PhysicsBodyComponent,
		component.PerceptionComponent,
		component.SteeringComponent,
		component.PursuitComponent,
		component.AIStateComponent,
	)
	for _, e := range entities {
		if ecs.Has(w, e, component.DisabledComponent) {
			continue
		}
		body, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok || body.Body == nil {
			continue
		}
		perception, ok := ecs.Get(w, e, component.PerceptionComponent)
		if !ok {
			continue
		}
		steering, ok := ecs.Get(w, e, component.SteeringComponent)
		if !ok {
			continue
		}
		pursuit, ok := ecs.Get(w, e, component.PursuitComponent)
		if !ok {
			continue
		}
		state, ok := ecs.Get(w, e, component.AIStateComponent)
		if !ok {
			continue
		}
		cfg, _ := ecs.Get(w, e, component.AIConfigComponent)

		ctx := &AIActionContext{
			World:      w,
			Query:      s.query,
			Rand:       s.rng,
			Arbiter:    s.arbiter,
			Entity:     e,
			DT:         w.DeltaTime(),
			Body:       body,
			Perception: perception,
			Steering:   steering,
			Pursuit:    pursuit,
			State:      state,
		}
		from, to, changed := s.fsmFor(cfg).Step(ctx)
		if !changed {
			continue
		}
		slog.Debug("agent state changed", "system", "pursuit", "agent", e, "from", from, "to", to)
		w.Events().Emit(ecs.EventAgentStateChanged, ecs.AgentStateChanged{
			Agent: e,
			From:  string(from),
			To:    string(to),
		})
	}
}
