package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// stopDamping is applied to the velocity every logic tick once an agent is
// inside its stopping distance.
const stopDamping = 0.8

// avoidanceAngles spreads n rays evenly over [-spread, +spread] degrees.
func avoidanceAngles(n int, spread float64) []float64 {
	if n < 1 {
		n = 1
	}
	if n == 1 {
		return []float64{0}
	}
	angles := make([]float64, n)
	step := 2 * spread / float64(n-1)
	for i := range angles {
		angles[i] = -spread + float64(i)*step
	}
	return angles
}

// ComputeAvoidance fans rays around desired and sums the hit normals, each
// weighted by how close the hit is. The result is normalized; avoiding is
// false when no ray hit anything.
func ComputeAvoidance(query ecs.ObstacleQuery, origin, desired cp.Vector, s *component.Steering) (cp.Vector, bool) {
	if query == nil || s == nil || s.DetectionDistance <= 0 {
		return cp.Vector{}, false
	}
	forward := common.Normalize(desired)
	if common.IsZero(forward) {
		return cp.Vector{}, false
	}
	mask := s.ObstacleMask
	if mask == 0 {
		mask = component.LayerObstacle
	}

	var sum cp.Vector
	avoiding := false
	for _, angle := range avoidanceAngles(s.Rays, s.RaySpread) {
		dir := common.Rotate(forward, angle)
		hit, ok := query.Raycast(origin, dir, s.DetectionDistance, mask)
		if !ok {
			continue
		}
		avoiding = true
		weight := 1 - hit.Distance/s.DetectionDistance
		sum = sum.Add(hit.Normal.Mult(weight * s.AvoidanceForce))
	}
	if !avoiding {
		return cp.Vector{}, false
	}
	return common.Normalize(sum), true
}

// MoveToward pushes body toward target while steering around obstacles.
// Within the stopping distance the body is slowed down instead. It reports
// whether the target was reached, i.e. is strictly closer than the stopping
// distance.
func MoveToward(query ecs.ObstacleQuery, pb *component.PhysicsBody, s *component.Steering, target cp.Vector) bool {
	if pb == nil || pb.Body == nil || s == nil {
		return false
	}
	pos := pb.Body.Position()
	vel := pb.Body.Velocity()
	toTarget := target.Sub(pos)

	dist := toTarget.Length()
	if dist <= s.StoppingDistance {
		s.Avoiding = false
		s.Avoidance = cp.Vector{}
		pb.Body.SetVelocityVector(vel.Mult(stopDamping))
		return dist < s.StoppingDistance
	}

	desired := common.Normalize(toTarget)
	avoidance, avoiding := ComputeAvoidance(query, pos, desired, s)
	s.Avoiding = avoiding
	s.Avoidance = avoidance

	final := common.Normalize(desired.Add(avoidance))
	if common.IsZero(final) {
		final = desired
	}
	force := final.Mult(s.MoveSpeed).Sub(vel).Mult(s.Acceleration)
	pb.Body.SetForce(pb.Body.Force().Add(force))
	return false
}

// Brake slows a body the same way MoveToward does inside the stopping
// distance.
func Brake(pb *component.PhysicsBody) {
	if pb == nil || pb.Body == nil {
		return
	}
	pb.Body.SetVelocityVector(pb.Body.Velocity().Mult(stopDamping))
}
