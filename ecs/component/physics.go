package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
type PhysicsBody struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Radius float64
	Mass   float64
	// LinearDamping is drag per second applied in the velocity integrator.
	LinearDamping float64
	// MaxSpeed clamps the body speed after each physics step. Zero disables it.
	MaxSpeed float64
}

// Position returns the body position, or the zero vector without a body.
func (b *PhysicsBody) Position() cp.Vector {
	if b == nil || b.Body == nil {
		return cp.Vector{}
	}
	return b.Body.Position()
}

// Velocity returns the body velocity, or the zero vector without a body.
func (b *PhysicsBody) Velocity() cp.Vector {
	if b == nil || b.Body == nil {
		return cp.Vector{}
	}
	return b.Body.Velocity()
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
