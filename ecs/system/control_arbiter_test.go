package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

func newArbiterScene(t *testing.T, characters int) *testScene {
	t.Helper()
	s := newTestScene(t)
	for i := 0; i < characters; i++ {
		s.addCharacter(t, cp.Vector{X: float64(i) * 2})
	}
	s.buildArbiter()
	return s
}

func activeFlags(t *testing.T, s *testScene) []bool {
	t.Helper()
	out := make([]bool, len(s.roster))
	for i, e := range s.roster {
		c, ok := ecs.Get(s.w, e, component.CharacterComponent)
		require.True(t, ok)
		out[i] = c.Active
	}
	return out
}

func TestControlArbiterStartsOnMain(t *testing.T) {
	s := newArbiterScene(t, 3)
	a := s.arbiter

	assert.False(t, a.Disabled())
	assert.Equal(t, 0, a.ActiveIndex())
	assert.True(t, a.IsMain())
	assert.Equal(t, []bool{true, false, false}, activeFlags(t, s))

	active, ok := a.Active()
	require.True(t, ok)
	assert.Equal(t, s.roster[0], active)
	assert.Equal(t, 2, a.IndexOf(s.roster[2]))
	assert.Equal(t, -1, a.IndexOf(ecs.Entity(999)))
}

func TestControlArbiterEmptyRoster(t *testing.T) {
	s := newArbiterScene(t, 0)
	a := s.arbiter

	assert.True(t, a.Disabled())
	_, ok := a.Active()
	assert.False(t, ok)
	assert.Equal(t, -1, a.ActiveIndex())
	assert.Equal(t, SwitchBlockedNotEnoughCharacters, a.RequestSwitch())

	a.OnSecondaryHit()
	a.SetThreatened(true)
	s.w.BeginTick(0.1)
	a.Update(s.w)
	assert.False(t, a.Threatened())
	assert.Zero(t, s.w.Events().Len())
}

func TestControlArbiterCyclesRoster(t *testing.T) {
	s := newArbiterScene(t, 3)
	a := s.arbiter
	s.w.Events().Drain()

	for _, want := range []int{1, 2, 0, 1} {
		require.Equal(t, SwitchAllowed, a.RequestSwitch())
		assert.Equal(t, want, a.ActiveIndex())
	}
	assert.Equal(t, []bool{false, true, false}, activeFlags(t, s))

	changes := eventsOfType(s.w.Events().Drain(), ecs.EventActiveCharacterChanged)
	require.Len(t, changes, 4)
	last := changes[3].Data.(ecs.ActiveCharacterChanged)
	assert.Equal(t, 0, last.OldIndex)
	assert.Equal(t, 1, last.NewIndex)
	assert.Equal(t, s.roster[1], last.New)
	assert.False(t, last.Forced)
}

func TestControlArbiterSingleCharacterCannotSwitch(t *testing.T) {
	s := newArbiterScene(t, 1)
	a := s.arbiter

	assert.Equal(t, SwitchBlockedNotEnoughCharacters, a.RequestSwitch())
	assert.Equal(t, 0, a.ActiveIndex())

	blocked := eventsOfType(s.w.Events().Drain(), ecs.EventSwitchBlocked)
	require.Len(t, blocked, 1)
	assert.Equal(t, "not-enough-characters", blocked[0].Data.(ecs.SwitchBlocked).Reason)
}

func TestControlArbiterThreatBlocksSwitch(t *testing.T) {
	s := newArbiterScene(t, 2)
	a := s.arbiter
	require.Equal(t, SwitchAllowed, a.RequestSwitch())
	require.Equal(t, 1, a.ActiveIndex())
	s.w.Events().Drain()

	a.SetThreatened(true)
	a.SetThreatened(true)
	assert.Equal(t, SwitchBlockedThreatened, a.RequestSwitch())
	assert.Equal(t, 1, a.ActiveIndex(), "blocked request changes nothing")
	assert.Equal(t, []bool{false, true}, activeFlags(t, s))

	events := s.w.Events().Drain()
	require.Len(t, eventsOfType(events, ecs.EventThreatChanged), 1, "only flips are published")
	require.Len(t, eventsOfType(events, ecs.EventSwitchBlocked), 1)
	assert.Empty(t, eventsOfType(events, ecs.EventActiveCharacterChanged))

	a.SetThreatened(false)
	assert.Equal(t, SwitchAllowed, a.RequestSwitch())
	assert.Equal(t, 0, a.ActiveIndex())
}

func TestControlArbiterThreatIgnoredWhenConfigured(t *testing.T) {
	s := newTestScene(t)
	s.tuning.Arbiter.DisableSwitchWhenThreatened = false
	s.addCharacter(t, cp.Vector{})
	s.addCharacter(t, cp.Vector{X: 2})
	a := s.buildArbiter()

	a.SetThreatened(true)
	assert.Equal(t, SwitchAllowed, a.RequestSwitch())
}

func TestControlArbiterSecondaryHit(t *testing.T) {
	tests := []struct {
		name  string
		setup func(a *ControlArbiter, w *ecs.World)
	}{
		{
			name:  "from_secondary",
			setup: func(a *ControlArbiter, w *ecs.World) { a.RequestSwitch() },
		},
		{
			name:  "already_on_main",
			setup: func(a *ControlArbiter, w *ecs.World) {},
		},
		{
			name: "during_cooldown",
			setup: func(a *ControlArbiter, w *ecs.World) {
				a.RequestSwitch()
				a.OnSecondaryHit()
				a.cooldown = 0
				a.RequestSwitch()
				a.cooldown = 1
			},
		},
		{
			name: "while_threatened",
			setup: func(a *ControlArbiter, w *ecs.World) {
				a.RequestSwitch()
				a.SetThreatened(true)
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newArbiterScene(t, 2)
			a := s.arbiter
			tc.setup(a, s.w)
			a.QueueSwitch()

			a.OnSecondaryHit()

			assert.Equal(t, 0, a.ActiveIndex())
			assert.Equal(t, []bool{true, false}, activeFlags(t, s))
			assert.True(t, a.OnCooldown())
			assert.InDelta(t, 3, a.CooldownRemaining(), 1e-9)

			// The queued request was dropped with the hit.
			s.w.BeginTick(0.1)
			a.Update(s.w)
			assert.Equal(t, 0, a.ActiveIndex())
		})
	}
}

func TestControlArbiterSecondaryHitIsForced(t *testing.T) {
	s := newArbiterScene(t, 2)
	a := s.arbiter
	a.RequestSwitch()
	s.w.Events().Drain()

	a.OnSecondaryHit()
	changes := eventsOfType(s.w.Events().Drain(), ecs.EventActiveCharacterChanged)
	require.Len(t, changes, 1)
	ev := changes[0].Data.(ecs.ActiveCharacterChanged)
	assert.True(t, ev.Forced)
	assert.Equal(t, 1, ev.OldIndex)
	assert.Equal(t, 0, ev.NewIndex)
}

func TestControlArbiterCooldownDecay(t *testing.T) {
	s := newArbiterScene(t, 2)
	a := s.arbiter
	a.OnSecondaryHit()
	s.w.Events().Drain()

	assert.Equal(t, SwitchBlockedOnCooldown, a.BlockReason())
	assert.Equal(t, "cooldown active (3.0s remaining)", a.BlockMessage(a.BlockReason()))

	var remaining, finished int
	for i := 0; i < 12; i++ {
		s.w.BeginTick(0.25)
		a.Update(s.w)
		events := s.w.Events().Drain()
		remaining += len(eventsOfType(events, ecs.EventCooldownRemaining))
		finished += len(eventsOfType(events, ecs.EventCooldownFinished))
	}
	assert.Equal(t, 11, remaining)
	assert.Equal(t, 1, finished)
	assert.False(t, a.OnCooldown())
	assert.Zero(t, a.CooldownRemaining())
	assert.True(t, a.CanSwitch())
}

func TestControlArbiterQueuedSwitch(t *testing.T) {
	s := newArbiterScene(t, 2)
	a := s.arbiter

	a.QueueSwitch()
	assert.Equal(t, 0, a.ActiveIndex(), "queued requests wait for Update")

	s.w.BeginTick(0.02)
	a.Update(s.w)
	assert.Equal(t, 1, a.ActiveIndex())

	s.w.BeginTick(0.02)
	a.Update(s.w)
	assert.Equal(t, 1, a.ActiveIndex(), "a request is consumed once")
}

func TestControlArbiterDeactivateStopsCharacter(t *testing.T) {
	s := newArbiterScene(t, 2)
	a := s.arbiter
	mainChar := s.roster[0]

	in, _ := ecs.Get(s.w, mainChar, component.InputComponent)
	in.MoveX = 1
	pb, _ := ecs.Get(s.w, mainChar, component.PhysicsBodyComponent)
	pb.Body.SetVelocityVector(cp.Vector{X: 6})

	require.Equal(t, SwitchAllowed, a.RequestSwitch())
	assert.Equal(t, component.Input{}, *in)
	assert.Equal(t, cp.Vector{}, pb.Velocity())
}

func TestSwitchBlockReasonString(t *testing.T) {
	assert.Equal(t, "none", SwitchAllowed.String())
	assert.Equal(t, "on-cooldown", SwitchBlockedOnCooldown.String())
	assert.Equal(t, "threatened", SwitchBlockedThreatened.String())
	assert.Equal(t, "SwitchBlockReason(9)", SwitchBlockReason(9).String())
}
