package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

func newSteering() *component.Steering {
	return &component.Steering{
		MoveSpeed:         3,
		Acceleration:      10,
		StoppingDistance:  0.5,
		DetectionDistance: 1.5,
		AvoidanceForce:    2,
		RaySpread:         45,
		Rays:              3,
	}
}

func TestAvoidanceAngles(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		spread float64
		want   []float64
	}{
		{name: "none_means_one", n: 0, spread: 45, want: []float64{0}},
		{name: "single_straight", n: 1, spread: 45, want: []float64{0}},
		{name: "three", n: 3, spread: 45, want: []float64{-45, 0, 45}},
		{name: "five", n: 5, spread: 30, want: []float64{-30, -15, 0, 15, 30}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDeltaSlice(t, tc.want, avoidanceAngles(tc.n, tc.spread), 1e-9)
		})
	}
}

func TestComputeAvoidance(t *testing.T) {
	t.Run("no_hits", func(t *testing.T) {
		q := &fakeQuery{}
		v, avoiding := ComputeAvoidance(q, cp.Vector{}, cp.Vector{X: 1}, newSteering())
		assert.False(t, avoiding)
		assert.Equal(t, cp.Vector{}, v)
		assert.Equal(t, 3, q.rays)
	})

	t.Run("hits_are_normalized", func(t *testing.T) {
		q := &fakeQuery{hit: &ecs.RayHit{Distance: 0.75, Normal: cp.Vector{X: -1}}}
		v, avoiding := ComputeAvoidance(q, cp.Vector{}, cp.Vector{X: 1}, newSteering())
		assert.True(t, avoiding)
		assert.InDelta(t, -1, v.X, 1e-9)
		assert.InDelta(t, 0, v.Y, 1e-9)
	})

	t.Run("zero_desired", func(t *testing.T) {
		q := &fakeQuery{hit: &ecs.RayHit{Distance: 0.75, Normal: cp.Vector{X: -1}}}
		_, avoiding := ComputeAvoidance(q, cp.Vector{}, cp.Vector{}, newSteering())
		assert.False(t, avoiding)
		assert.Zero(t, q.rays)
	})

	t.Run("wall_ahead", func(t *testing.T) {
		s := newTestScene(t)
		s.addWall(t, 1, -2, 2, 2, false)
		v, avoiding := ComputeAvoidance(s.pw, cp.Vector{}, cp.Vector{X: 1}, newSteering())
		require.True(t, avoiding)
		assert.Less(t, v.X, 0.0, "pushes away from the wall")
	})

	t.Run("sight_blocker_does_not_block_movement", func(t *testing.T) {
		s := newTestScene(t)
		s.addWall(t, 1, -2, 2, 2, true)
		_, avoiding := ComputeAvoidance(s.pw, cp.Vector{}, cp.Vector{X: 1}, newSteering())
		assert.False(t, avoiding)
	})
}

func TestMoveToward(t *testing.T) {
	s := newTestScene(t)
	agent := s.addAgent(t, cp.Vector{}, cp.Vector{X: 1})
	pb, _ := ecs.Get(s.w, agent, component.PhysicsBodyComponent)
	steer := newSteering()

	reached := MoveToward(s.pw, pb, steer, cp.Vector{X: 5})
	require.False(t, reached)
	assert.Greater(t, pb.Body.Force().X, 0.0)

	for i := 0; i < 100; i++ {
		MoveToward(s.pw, pb, steer, cp.Vector{X: 50})
		s.pw.Step(0.02)
		require.LessOrEqual(t, pb.Velocity().Length(), steer.MoveSpeed+1e-6, "step %d", i)
	}
	assert.Greater(t, pb.Velocity().X, 2.0, "settles near move speed against damping")

	pb.Body.SetVelocityVector(cp.Vector{X: 2})
	reached = MoveToward(s.pw, pb, steer, pb.Position().Add(cp.Vector{X: 0.3}))
	assert.True(t, reached)
	assert.InDelta(t, 1.6, pb.Velocity().X, 1e-9)

	// Exactly at the stopping distance the body brakes but has not arrived.
	pb.Body.SetPosition(cp.Vector{})
	pb.Body.SetVelocityVector(cp.Vector{X: 2})
	reached = MoveToward(s.pw, pb, steer, cp.Vector{X: steer.StoppingDistance})
	assert.False(t, reached)
	assert.InDelta(t, 1.6, pb.Velocity().X, 1e-9)
}
