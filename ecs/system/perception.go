package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// boundaryTolerance keeps targets lying exactly on the range or cone edge
// visible despite rounding in the angle math.
const boundaryTolerance = 1e-6

// UpdateSightDirection turns the sight direction toward the direction of
// travel. Below MinMovement the last movement direction is kept.
func UpdateSightDirection(p *component.Perception, velocity cp.Vector, dt float64) {
	if p == nil {
		return
	}
	if velocity.Length() > p.MinMovement {
		p.LastMoveDir = common.Normalize(velocity)
	}
	if common.IsZero(p.LastMoveDir) {
		p.LastMoveDir = common.Normalize(p.SightDir)
		if common.IsZero(p.LastMoveDir) {
			p.LastMoveDir = cp.Vector{X: 1}
		}
	}
	if common.IsZero(p.SightDir) {
		p.SightDir = p.LastMoveDir
	}

	t := common.Clamp01(p.UpdateSpeed * dt)
	blended := cp.Vector{
		X: common.Lerp(p.SightDir.X, p.LastMoveDir.X, t),
		Y: common.Lerp(p.SightDir.Y, p.LastMoveDir.Y, t),
	}
	next := common.Normalize(blended)
	if common.IsZero(next) {
		next = p.LastMoveDir
	}
	p.SightDir = next
}

// EyePosition returns where sight rays start for an agent at pos.
func EyePosition(pos cp.Vector, p *component.Perception) cp.Vector {
	if p == nil {
		return pos
	}
	return pos.Add(p.EyeOffset)
}

// TargetPosition resolves the position of a perceivable entity. It fails
// for dead entities, disabled entities and entities without a position.
func TargetPosition(w *ecs.World, target ecs.Entity) (cp.Vector, bool) {
	if w == nil || ecs.Has(w, target, component.DisabledComponent) {
		return cp.Vector{}, false
	}
	return EntityPosition(w, target)
}

// EntityPosition is where a live entity is, perceivable or not.
func EntityPosition(w *ecs.World, target ecs.Entity) (cp.Vector, bool) {
	if w == nil || !target.Valid() || !w.IsAlive(target) {
		return cp.Vector{}, false
	}
	if pb, ok := ecs.Get(w, target, component.PhysicsBodyComponent); ok && pb.Body != nil {
		return pb.Body.Position(), true
	}
	if t, ok := ecs.Get(w, target, component.TransformComponent); ok {
		return cp.Vector{X: t.X, Y: t.Y}, true
	}
	return cp.Vector{}, false
}

// CanSee reports whether target is inside the sight cone of p looking from
// eyes, with nothing but the target itself in between.
func CanSee(w *ecs.World, query ecs.ObstacleQuery, eyes cp.Vector, p *component.Perception, target ecs.Entity) bool {
	pos, ok := TargetPosition(w, target)
	if !ok {
		return false
	}
	return CanSeePoint(query, eyes, p, pos, target)
}

// CanSeePoint is CanSee for a known target position. owner identifies the
// target's own shapes so they never occlude it.
func CanSeePoint(query ecs.ObstacleQuery, eyes cp.Vector, p *component.Perception, targetPos cp.Vector, owner ecs.Entity) bool {
	if p == nil {
		return false
	}
	toTarget := targetPos.Sub(eyes)
	dist := toTarget.Length()
	if dist < common.Epsilon {
		return true
	}
	if dist > p.SightRange+boundaryTolerance {
		return false
	}
	if common.AngleBetween(p.SightDir, toTarget) > p.HalfAngle()+boundaryTolerance {
		return false
	}
	if query == nil {
		return true
	}

	mask := p.Mask
	if mask == 0 {
		mask = component.SightMask
	}
	hit, blocked := query.Raycast(eyes, toTarget, dist, mask)
	if !blocked {
		return true
	}
	return owner.Valid() && hit.Owner == owner
}

// PerceptionSystem refreshes every agent's sight direction from its
// velocity.
type PerceptionSystem struct{}

func NewPerceptionSystem() *PerceptionSystem {
	return &PerceptionSystem{}
}

func (s *PerceptionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, component.PerceptionComponent, component.PhysicsBodyComponent, func(e ecs.Entity, p *component.Perception, pb *component.PhysicsBody) {
		if ecs.Has(w, e, component.DisabledComponent) {
			return
		}
		UpdateSightDirection(p, pb.Velocity(), dt)
	})
}
