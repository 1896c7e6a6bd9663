package system

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/prefabs"
)

type Action func(ctx *AIActionContext)

// AIActionContext is everything an FSM action or transition check may touch
// for one agent during one tick.
type AIActionContext struct {
	World   *ecs.World
	Query   ecs.ObstacleQuery
	Rand    *rand.Rand
	Arbiter *ControlArbiter
	Entity  ecs.Entity
	DT      float64

	Body       *component.PhysicsBody
	Perception *component.Perception
	Steering   *component.Steering
	Pursuit    *component.Pursuit
	State      *component.AIState
}

func (ctx *AIActionContext) Position() cp.Vector {
	return ctx.Body.Position()
}

func (ctx *AIActionContext) Tracked() ecs.Entity {
	return ecs.Entity(ctx.Pursuit.Tracked)
}

// SeesTracked runs the sight test against the tracked character and
// remembers where it was seen.
func (ctx *AIActionContext) SeesTracked() bool {
	target := ctx.Tracked()
	pos, ok := TargetPosition(ctx.World, target)
	if !ok {
		return false
	}
	eyes := EyePosition(ctx.Position(), ctx.Perception)
	if !CanSeePoint(ctx.Query, eyes, ctx.Perception, pos, target) {
		return false
	}
	ctx.Pursuit.TrackedPos = pos
	return true
}

func (ctx *AIActionContext) pickRoamTarget() {
	p := ctx.Pursuit
	p.RoamTarget = PickRoamTarget(ctx.Query, ctx.Rand, p, ctx.Steering.ObstacleMask)
	p.RoamTimer = p.RoamInterval
}

type StateDef struct {
	OnEnter []Action
	While   []Action
	OnExit  []Action
}

type TransitionChecker func(ctx *AIActionContext) bool

type TransitionCheckerDef struct {
	Name  string
	To    component.StateID
	Check TransitionChecker
}

// FSMDef is a compiled state machine. Checkers are evaluated in order and
// the first one that passes wins.
type FSMDef struct {
	Initial  component.StateID
	States   map[component.StateID]StateDef
	Checkers map[component.StateID][]TransitionCheckerDef
}

var actionRegistry = map[string]func(any) Action{
	"log": func(arg any) Action {
		msg := fmt.Sprint(arg)
		return func(ctx *AIActionContext) {
			slog.Debug(msg, "system", "pursuit", "agent", ctx.Entity)
		}
	},
	"pick_roam_target": func(_ any) Action {
		return func(ctx *AIActionContext) {
			ctx.pickRoamTarget()
		}
	},
	"track_active": func(_ any) Action {
		return func(ctx *AIActionContext) {
			if e, ok := ctx.Arbiter.Active(); ok {
				ctx.Pursuit.Tracked = uint64(e)
			} else {
				ctx.Pursuit.Tracked = 0
			}
		}
	},
	"patrol_step": func(_ any) Action {
		return func(ctx *AIActionContext) {
			p := ctx.Pursuit
			p.RoamTimer -= ctx.DT
			reached := MoveToward(ctx.Query, ctx.Body, ctx.Steering, p.RoamTarget)
			if reached || p.RoamTimer <= 0 {
				ctx.pickRoamTarget()
			}
		}
	},
	"move_to_tracked": func(_ any) Action {
		return func(ctx *AIActionContext) {
			pos, ok := TargetPosition(ctx.World, ctx.Tracked())
			if !ok {
				Brake(ctx.Body)
				return
			}
			MoveToward(ctx.Query, ctx.Body, ctx.Steering, pos)
		}
	},
	"snapshot_last_seen": func(_ any) Action {
		return func(ctx *AIActionContext) {
			// A disabled character still stands somewhere; a destroyed one
			// leaves the last sighting.
			if pos, ok := EntityPosition(ctx.World, ctx.Tracked()); ok {
				ctx.Pursuit.LastSeen = pos
				return
			}
			ctx.Pursuit.LastSeen = ctx.Pursuit.TrackedPos
		}
	},
	"start_search_timer": func(arg any) Action {
		override := asFloat(arg)
		return func(ctx *AIActionContext) {
			if override > 0 {
				ctx.Pursuit.SearchTimer = override
				return
			}
			ctx.Pursuit.SearchTimer = ctx.Pursuit.SearchTime
		}
	},
	"search_step": func(_ any) Action {
		return func(ctx *AIActionContext) {
			p := ctx.Pursuit
			if p.SearchTimer <= 0 {
				return
			}
			p.SearchTimer -= ctx.DT
			MoveToward(ctx.Query, ctx.Body, ctx.Steering, p.LastSeen)
		}
	},
	"brake": func(_ any) Action {
		return func(ctx *AIActionContext) {
			Brake(ctx.Body)
		}
	},
}

var transitionRegistry = map[string]func(any) TransitionChecker{
	"always": func(_ any) TransitionChecker {
		return func(ctx *AIActionContext) bool { return true }
	},
	"sees_target": func(_ any) TransitionChecker {
		return func(ctx *AIActionContext) bool { return ctx.SeesTracked() }
	},
	"loses_target": func(_ any) TransitionChecker {
		return func(ctx *AIActionContext) bool { return !ctx.SeesTracked() }
	},
	"search_expired": func(_ any) TransitionChecker {
		return func(ctx *AIActionContext) bool { return ctx.Pursuit.SearchTimer <= 0 }
	},
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float64:
		return t
	case float32:
		return float64(t)
	default:
		return 0
	}
}

// singleKey returns the only key of an FSM list entry. Entries with more
// than one key would run in map order, so they are rejected.
func singleKey[V any](m map[string]V) (string, V, error) {
	var zero V
	if len(m) != 1 {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", zero, fmt.Errorf("fsm: entry must have exactly one key, got %v", keys)
	}
	for k, v := range m {
		return k, v, nil
	}
	return "", zero, nil
}

func buildActions(list []map[string]any) ([]Action, error) {
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]Action, 0, len(list))
	for _, entry := range list {
		name, arg, err := singleKey(entry)
		if err != nil {
			return nil, err
		}
		makeAction, ok := actionRegistry[name]
		if !ok {
			return nil, fmt.Errorf("fsm: unknown action %q", name)
		}
		out = append(out, makeAction(arg))
	}
	return out, nil
}

// CompileFSMSpec turns a prefab FSM description into runnable tables.
func CompileFSMSpec(spec prefabs.FSMSpec) (*FSMDef, error) {
	if spec.Initial == "" {
		return nil, fmt.Errorf("fsm: missing initial state")
	}

	states := make(map[component.StateID]StateDef, len(spec.States))
	for name, s := range spec.States {
		onEnter, err := buildActions(s.OnEnter)
		if err != nil {
			return nil, fmt.Errorf("fsm: state %s on_enter: %w", name, err)
		}
		while, err := buildActions(s.While)
		if err != nil {
			return nil, fmt.Errorf("fsm: state %s while: %w", name, err)
		}
		onExit, err := buildActions(s.OnExit)
		if err != nil {
			return nil, fmt.Errorf("fsm: state %s on_exit: %w", name, err)
		}
		states[component.StateID(name)] = StateDef{OnEnter: onEnter, While: while, OnExit: onExit}
	}
	if _, ok := states[component.StateID(spec.Initial)]; !ok {
		return nil, fmt.Errorf("fsm: initial state %q is not defined", spec.Initial)
	}

	checkers := make(map[component.StateID][]TransitionCheckerDef, len(spec.Transitions))
	for from, entries := range spec.Transitions {
		fromID := component.StateID(from)
		if _, ok := states[fromID]; !ok {
			return nil, fmt.Errorf("fsm: transitions from undefined state %q", from)
		}
		for _, entry := range entries {
			cond, to, err := singleKey(entry)
			if err != nil {
				return nil, fmt.Errorf("fsm: transitions from %s: %w", from, err)
			}
			maker, ok := transitionRegistry[cond]
			if !ok {
				return nil, fmt.Errorf("fsm: unknown condition %q", cond)
			}
			if _, ok := states[component.StateID(to)]; !ok {
				return nil, fmt.Errorf("fsm: transition %s.%s targets undefined state %q", from, cond, to)
			}
			checkers[fromID] = append(checkers[fromID], TransitionCheckerDef{
				Name:  cond,
				To:    component.StateID(to),
				Check: maker(nil),
			})
		}
	}

	return &FSMDef{
		Initial:  component.StateID(spec.Initial),
		States:   states,
		Checkers: checkers,
	}, nil
}

// LoadFSM compiles the FSM prefab with the given file name.
func LoadFSM(name string) (*FSMDef, error) {
	spec, err := prefabs.LoadFSMSpec(name)
	if err != nil {
		return nil, err
	}
	return CompileFSMSpec(*spec)
}

// DefaultPursuitFSM is the patrol/chase/search machine used when no prefab
// is configured or the prefab fails to load.
func DefaultPursuitFSM() *FSMDef {
	act := func(name string) Action { return actionRegistry[name](nil) }
	check := func(name string, to component.StateID) TransitionCheckerDef {
		return TransitionCheckerDef{Name: name, To: to, Check: transitionRegistry[name](nil)}
	}
	return &FSMDef{
		Initial: component.StatePatrol,
		States: map[component.StateID]StateDef{
			component.StatePatrol: {
				OnEnter: []Action{act("pick_roam_target")},
				While:   []Action{act("track_active"), act("patrol_step")},
			},
			component.StateChase: {
				While: []Action{act("track_active"), act("move_to_tracked")},
			},
			component.StateSearch: {
				OnEnter: []Action{act("snapshot_last_seen"), act("start_search_timer")},
				While:   []Action{act("search_step")},
			},
		},
		Checkers: map[component.StateID][]TransitionCheckerDef{
			component.StatePatrol: {check("sees_target", component.StateChase)},
			component.StateChase:  {check("loses_target", component.StateSearch)},
			component.StateSearch: {
				check("sees_target", component.StateChase),
				check("search_expired", component.StatePatrol),
			},
		},
	}
}

// Step enters the initial state on first use, runs the current state's
// while actions and then applies at most one transition.
func (f *FSMDef) Step(ctx *AIActionContext) (from, to component.StateID, changed bool) {
	if f == nil || ctx == nil || ctx.State == nil {
		return "", "", false
	}
	if ctx.State.Current == "" {
		ctx.State.Current = f.Initial
		runActions(f.States[f.Initial].OnEnter, ctx)
	}

	current := ctx.State.Current
	state, ok := f.States[current]
	if !ok {
		slog.Warn("agent in unknown state, resetting", "system", "pursuit", "agent", ctx.Entity, "state", current)
		ctx.State.Current = f.Initial
		runActions(f.States[f.Initial].OnEnter, ctx)
		return current, f.Initial, true
	}
	runActions(state.While, ctx)

	for _, c := range f.Checkers[current] {
		if !c.Check(ctx) {
			continue
		}
		runActions(state.OnExit, ctx)
		ctx.State.Current = c.To
		runActions(f.States[c.To].OnEnter, ctx)
		return current, c.To, true
	}
	return current, current, false
}

func runActions(actions []Action, ctx *AIActionContext) {
	for _, a := range actions {
		if a != nil {
			a(ctx)
		}
	}
}
