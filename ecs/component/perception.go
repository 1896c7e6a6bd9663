package component

import "github.com/jakecoffman/cp"

// Perception is an agent's sight cone. SightDir is kept unit length by the
// perception system and lags behind LastMoveDir.
type Perception struct {
	SightRange float64
	// SightAngle is the full cone width in degrees.
	SightAngle  float64
	UpdateSpeed float64
	MinMovement float64
	EyeOffset   cp.Vector
	Mask        Layer

	SightDir    cp.Vector
	LastMoveDir cp.Vector
}

// HalfAngle returns half of the cone width in degrees.
func (p *Perception) HalfAngle() float64 {
	return p.SightAngle * 0.5
}

var PerceptionComponent = NewComponent[Perception]()
