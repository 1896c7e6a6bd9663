package system

import (
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// DefaultPhysicsStep is the fixed physics timestep in seconds.
const DefaultPhysicsStep = 1.0 / 50.0

// PhysicsSystem advances the Chipmunk space by one fixed step and copies
// body positions into transforms.
type PhysicsSystem struct {
	physics *ecs.PhysicsWorld
	step    float64
}

func NewPhysicsSystem(physics *ecs.PhysicsWorld, step float64) *PhysicsSystem {
	if step <= 0 {
		step = DefaultPhysicsStep
	}
	return &PhysicsSystem{physics: physics, step: step}
}

// Step returns the fixed timestep.
func (s *PhysicsSystem) Step() float64 {
	return s.step
}

func (s *PhysicsSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.physics == nil {
		return
	}
	s.physics.Step(s.step)

	ecs.ForEach2(w, component.PhysicsBodyComponent, component.TransformComponent, func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Body == nil {
			return
		}
		pos := pb.Body.Position()
		t.X = pos.X
		t.Y = pos.Y
	})
}
