package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

func TestAnyAgentSeesAnyCharacter(t *testing.T) {
	s := newTestScene(t)
	agent := s.addAgent(t, cp.Vector{}, cp.Vector{X: 1})
	s.addCharacter(t, cp.Vector{X: -4})
	scout := s.addCharacter(t, cp.Vector{X: 3})
	s.buildArbiter()

	// Only the inactive scout is in front of the agent.
	c, _ := ecs.Get(s.w, scout, component.CharacterComponent)
	require.False(t, c.Active)
	assert.True(t, AnyAgentSeesAnyCharacter(s.w, s.pw, s.agents, s.roster))

	assert.False(t, AnyAgentSeesAnyCharacter(s.w, s.pw, nil, s.roster))
	assert.False(t, AnyAgentSeesAnyCharacter(s.w, s.pw, s.agents, nil))

	require.NoError(t, ecs.Add(s.w, agent, component.DisabledComponent, &component.Disabled{}))
	assert.False(t, AnyAgentSeesAnyCharacter(s.w, s.pw, s.agents, s.roster), "disabled agents do not count")
}

func TestAnyAgentSeesAnyCharacterBlockedByWall(t *testing.T) {
	s := newTestScene(t)
	s.addAgent(t, cp.Vector{}, cp.Vector{X: 1})
	s.addCharacter(t, cp.Vector{X: 4})
	s.addWall(t, 1.5, -1, 2, 1, false)

	assert.False(t, AnyAgentSeesAnyCharacter(s.w, s.pw, s.agents, s.roster))
}

func TestThreatSystemUpdatesArbiter(t *testing.T) {
	s := newTestScene(t)
	s.addAgent(t, cp.Vector{}, cp.Vector{X: 1})
	s.addCharacter(t, cp.Vector{X: -3})
	s.addCharacter(t, cp.Vector{Y: 5})
	a := s.buildArbiter()
	threat := NewThreatSystem(s.pw, a)

	threat.Update(s.w)
	assert.False(t, a.Threatened())

	s.moveTo(t, s.roster[1], cp.Vector{X: 3})
	threat.Update(s.w)
	assert.True(t, a.Threatened())
	assert.Equal(t, SwitchBlockedThreatened, a.RequestSwitch())

	s.moveTo(t, s.roster[1], cp.Vector{X: 3, Y: 5})
	threat.Update(s.w)
	assert.False(t, a.Threatened())

	flips := eventsOfType(s.w.Events().Drain(), ecs.EventThreatChanged)
	require.Len(t, flips, 2)
	assert.True(t, flips[0].Data.(ecs.ThreatChanged).Threatened)
	assert.False(t, flips[1].Data.(ecs.ThreatChanged).Threatened)
}
