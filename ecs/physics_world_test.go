package ecs

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/pursuit/ecs/component"
)

func TestPhysicsWorldRaycast(t *testing.T) {
	w := NewWorld()
	pw := NewPhysicsWorld()

	wall := w.CreateEntity()
	pw.AddStaticBox(wall, 2, -1, 3, 1, component.CollisionLayer{Category: component.LayerObstacle})
	glass := w.CreateEntity()
	pw.AddStaticBox(glass, -3, -1, -2, 1, component.CollisionLayer{
		Category: component.LayerSightBlocker,
		Mask:     component.LayerQuery,
	})

	tests := []struct {
		name     string
		dir      cp.Vector
		maxDist  float64
		mask     component.Layer
		wantHit  bool
		wantDist float64
		owner    Entity
	}{
		{name: "hits_wall", dir: cp.Vector{X: 1}, maxDist: 10, mask: component.SightMask, wantHit: true, wantDist: 2, owner: wall},
		{name: "wall_out_of_range", dir: cp.Vector{X: 1}, maxDist: 1.5, mask: component.SightMask, wantHit: false},
		{name: "sight_blocker_on_sight_mask", dir: cp.Vector{X: -1}, maxDist: 10, mask: component.SightMask, wantHit: true, wantDist: 2, owner: glass},
		{name: "sight_blocker_ignored_by_obstacle_mask", dir: cp.Vector{X: -1}, maxDist: 10, mask: component.LayerObstacle, wantHit: false},
		{name: "unnormalized_direction", dir: cp.Vector{X: 5}, maxDist: 10, mask: component.SightMask, wantHit: true, wantDist: 2, owner: wall},
		{name: "zero_direction", dir: cp.Vector{}, maxDist: 10, mask: component.SightMask, wantHit: false},
		{name: "empty_direction", dir: cp.Vector{Y: 1}, maxDist: 10, mask: component.SightMask, wantHit: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hit, ok := pw.Raycast(cp.Vector{}, tc.dir, tc.maxDist, tc.mask)
			require.Equal(t, tc.wantHit, ok)
			if !tc.wantHit {
				return
			}
			assert.InDelta(t, tc.wantDist, hit.Distance, 1e-6)
			assert.Equal(t, tc.owner, hit.Owner)
		})
	}
}

func TestPhysicsWorldOverlapsPoint(t *testing.T) {
	w := NewWorld()
	pw := NewPhysicsWorld()
	pw.AddStaticBox(w.CreateEntity(), 0, 0, 2, 2, component.CollisionLayer{Category: component.LayerObstacle})

	assert.True(t, pw.OverlapsPoint(cp.Vector{X: 1, Y: 1}, 0.5, component.LayerObstacle), "inside box")
	assert.True(t, pw.OverlapsPoint(cp.Vector{X: 2.3, Y: 1}, 0.5, component.LayerObstacle), "within clearance")
	assert.False(t, pw.OverlapsPoint(cp.Vector{X: 3, Y: 1}, 0.5, component.LayerObstacle), "clear")
	assert.False(t, pw.OverlapsPoint(cp.Vector{X: 1, Y: 1}, 0.5, component.LayerAgent), "other layer")
}

func TestPhysicsWorldContactsAndSpeedClamp(t *testing.T) {
	w := NewWorld()
	pw := NewPhysicsWorld()

	agent := w.CreateEntity()
	agentBody := &component.PhysicsBody{Radius: 0.5, Mass: 1, MaxSpeed: 3}
	pw.AddCircleBody(agent, cp.Vector{X: 0}, agentBody, component.CollisionLayer{
		Category: component.LayerAgent,
		Mask:     component.LayerObstacle | component.LayerCharacter | component.LayerAgent,
	})
	character := w.CreateEntity()
	charBody := &component.PhysicsBody{Radius: 0.5, Mass: 1}
	pw.AddCircleBody(character, cp.Vector{X: 2}, charBody, component.CollisionLayer{
		Category: component.LayerCharacter,
		Mask:     component.LayerObstacle | component.LayerAgent,
	})
	require.NotNil(t, agentBody.Body)
	require.NotNil(t, charBody.Shape)

	agentBody.Body.SetVelocityVector(cp.Vector{X: 10})
	for i := 0; i < 50 && len(pw.contacts) == 0; i++ {
		pw.Step(0.02)
		assert.LessOrEqual(t, agentBody.Velocity().Length(), 3+1e-6)
	}

	contacts := pw.DrainContacts()
	require.NotEmpty(t, contacts)
	assert.Equal(t, Contact{Agent: agent, Character: character}, contacts[0])
	assert.Nil(t, pw.DrainContacts())
}

func TestPhysicsWorldLinearDamping(t *testing.T) {
	w := NewWorld()
	pw := NewPhysicsWorld()
	pb := &component.PhysicsBody{Radius: 0.5, Mass: 1, LinearDamping: 2}
	pw.AddCircleBody(w.CreateEntity(), cp.Vector{}, pb, component.CollisionLayer{Category: component.LayerCharacter})

	pb.Body.SetVelocityVector(cp.Vector{X: 4})
	pw.Step(0.02)

	assert.InDelta(t, 4/(1+0.02*2), pb.Velocity().X, 1e-6)
}
