package component

import "github.com/jakecoffman/cp"

// Steering holds movement tuning and the avoidance state of the last tick.
type Steering struct {
	MoveSpeed        float64
	Acceleration     float64
	StoppingDistance float64

	DetectionDistance float64
	AvoidanceForce    float64
	// RaySpread is the angle in degrees of the outermost avoidance ray.
	RaySpread    float64
	Rays         int
	ObstacleMask Layer

	// Avoiding and Avoidance are display-only.
	Avoiding  bool
	Avoidance cp.Vector
}

var SteeringComponent = NewComponent[Steering]()
