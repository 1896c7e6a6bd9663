package system

import (
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/ecs/entity"
	"github.com/milk9111/pursuit/prefabs"
)

// fakeQuery is a scripted ObstacleQuery.
type fakeQuery struct {
	hit      *ecs.RayHit
	overlaps bool

	rays   int
	points int
}

func (f *fakeQuery) Raycast(origin, dir cp.Vector, maxDistance float64, mask component.Layer) (ecs.RayHit, bool) {
	f.rays++
	if f.hit == nil {
		return ecs.RayHit{}, false
	}
	return *f.hit, true
}

func (f *fakeQuery) OverlapsPoint(point cp.Vector, radius float64, mask component.Layer) bool {
	f.points++
	return f.overlaps
}

type testScene struct {
	w       *ecs.World
	pw      *ecs.PhysicsWorld
	tuning  prefabs.Tuning
	rng     *rand.Rand
	agents  []ecs.Entity
	roster  []ecs.Entity
	arbiter *ControlArbiter
}

func newTestScene(t *testing.T) *testScene {
	t.Helper()
	return &testScene{
		w:      ecs.NewWorld(),
		pw:     ecs.NewPhysicsWorld(),
		tuning: prefabs.DefaultTuning(),
		rng:    rand.New(rand.NewSource(1)),
	}
}

func (s *testScene) addAgent(t *testing.T, spawn, facing cp.Vector) ecs.Entity {
	t.Helper()
	spec := s.tuning.Agent
	spec.FSM = ""
	e, err := entity.NewAgent(s.w, s.pw, spawn, facing, spec)
	require.NoError(t, err)
	s.agents = append(s.agents, e)
	return e
}

func (s *testScene) addCharacter(t *testing.T, pos cp.Vector) ecs.Entity {
	t.Helper()
	e, err := entity.NewCharacter(s.w, s.pw, pos, len(s.roster), "", s.tuning.Character)
	require.NoError(t, err)
	s.roster = append(s.roster, e)
	return e
}

func (s *testScene) addWall(t *testing.T, minX, minY, maxX, maxY float64, sightOnly bool) ecs.Entity {
	t.Helper()
	e, err := entity.NewObstacle(s.w, s.pw, minX, minY, maxX, maxY, sightOnly)
	require.NoError(t, err)
	return e
}

func (s *testScene) buildArbiter() *ControlArbiter {
	s.arbiter = NewControlArbiter(s.w, s.roster, ArbiterConfig{
		SwitchCooldownAfterHit:      s.tuning.Arbiter.SwitchCooldownAfterHit,
		DisableSwitchWhenThreatened: s.tuning.Arbiter.DisableSwitchWhenThreatened,
	})
	return s.arbiter
}

func (s *testScene) moveTo(t *testing.T, e ecs.Entity, pos cp.Vector) {
	t.Helper()
	pb, ok := ecs.Get(s.w, e, component.PhysicsBodyComponent)
	require.True(t, ok)
	pb.Body.SetPosition(pos)
}

func (s *testScene) state(t *testing.T, agent ecs.Entity) component.StateID {
	t.Helper()
	st, ok := ecs.Get(s.w, agent, component.AIStateComponent)
	require.True(t, ok)
	return st.Current
}

func (s *testScene) pursuit(t *testing.T, agent ecs.Entity) *component.Pursuit {
	t.Helper()
	p, ok := ecs.Get(s.w, agent, component.PursuitComponent)
	require.True(t, ok)
	return p
}

func eventsOfType(events []ecs.Event, typ string) []ecs.Event {
	var out []ecs.Event
	for _, e := range events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}
