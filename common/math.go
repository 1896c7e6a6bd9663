package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-9

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Normalize returns v scaled to unit length, or the zero vector when v is
// too short to have a direction. cp.Vector.Normalize yields NaN for zero.
func Normalize(v cp.Vector) cp.Vector {
	l := v.Length()
	if l < Epsilon {
		return cp.Vector{}
	}
	return cp.Vector{X: v.X / l, Y: v.Y / l}
}

func IsZero(v cp.Vector) bool {
	return v.LengthSq() < Epsilon*Epsilon
}

// AngleBetween returns the unsigned angle in degrees between a and b, in
// [0, 180]. Zero-length inputs give 0.
func AngleBetween(a, b cp.Vector) float64 {
	na := Normalize(a)
	nb := Normalize(b)
	if IsZero(na) || IsZero(nb) {
		return 0
	}
	dot := math.Max(-1, math.Min(1, na.Dot(nb)))
	return math.Acos(dot) * 180 / math.Pi
}

// Rotate turns v counter-clockwise by deg degrees.
func Rotate(v cp.Vector, deg float64) cp.Vector {
	return v.Rotate(cp.ForAngle(deg * math.Pi / 180))
}
