package ecs

import (
	"log/slog"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs/component"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeSightBlocker
	collisionTypeAgent
	collisionTypeCharacter
)

// RayHit describes the nearest surface hit by a raycast.
type RayHit struct {
	Distance float64
	Point    cp.Vector
	Normal   cp.Vector
	// Owner is the entity whose shape was hit; 0 for level bounds.
	Owner Entity
}

// ObstacleQuery answers geometric questions about the level. It is the only
// way perception, steering and roam sampling look at the world.
type ObstacleQuery interface {
	// Raycast returns the nearest blocking surface along dir within
	// maxDistance on the given layers.
	Raycast(origin, dir cp.Vector, maxDistance float64, mask component.Layer) (RayHit, bool)
	// OverlapsPoint reports whether any shape on the given layers lies within
	// radius of point.
	OverlapsPoint(point cp.Vector, radius float64, mask component.Layer) bool
}

// Contact records an agent body touching a character body during a step.
type Contact struct {
	Agent     Entity
	Character Entity
}

// PhysicsWorld owns the Chipmunk space, the static level shapes and the
// dynamic bodies of agents and characters.
type PhysicsWorld struct {
	space         *cp.Space
	handlersReady bool
	contacts      []Contact
}

var _ ObstacleQuery = (*PhysicsWorld)(nil)

// NewPhysicsWorld creates a top-down physics world with no gravity.
func NewPhysicsWorld() *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})

	pw := &PhysicsWorld{space: space}
	pw.setupHandlers()
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

func shapeFilter(layer component.CollisionLayer) cp.ShapeFilter {
	category := layer.Category
	if category == 0 {
		category = component.LayerObstacle
	}
	mask := layer.Mask
	if mask == 0 {
		mask = ^component.Layer(0)
	}
	return cp.NewShapeFilter(cp.NO_GROUP, uint(category), uint(mask|component.LayerQuery))
}

func queryFilter(mask component.Layer) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, uint(component.LayerQuery), uint(mask))
}

// AddStaticBox adds an axis-aligned static box owned by e.
func (pw *PhysicsWorld) AddStaticBox(e Entity, minX, minY, maxX, maxY float64, layer component.CollisionLayer) *cp.Shape {
	if pw == nil || pw.space == nil {
		return nil
	}
	bb := cp.BB{L: minX, B: minY, R: maxX, T: maxY}
	shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
	shape.SetFriction(0)
	if layer.Category == component.LayerSightBlocker {
		shape.SetCollisionType(collisionTypeSightBlocker)
	} else {
		shape.SetCollisionType(collisionTypeSolid)
	}
	shape.SetFilter(shapeFilter(layer))
	shape.UserData = e
	pw.space.AddShape(shape)
	return shape
}

// AddBounds encloses the rectangle [0,width]x[0,height] with solid walls.
func (pw *PhysicsWorld) AddBounds(width, height float64) {
	if pw == nil || pw.space == nil || width <= 0 || height <= 0 {
		return
	}
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: width, Y: 0}},
		{a: cp.Vector{X: 0, Y: height}, b: cp.Vector{X: width, Y: height}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: height}},
		{a: cp.Vector{X: width, Y: 0}, b: cp.Vector{X: width, Y: height}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(pw.space.StaticBody, seg.a, seg.b, 0.05)
		shape.SetFriction(0)
		shape.SetCollisionType(collisionTypeSolid)
		shape.SetFilter(shapeFilter(component.CollisionLayer{Category: component.LayerObstacle}))
		shape.UserData = Entity(0)
		pw.space.AddShape(shape)
	}
}

// AddCircleBody creates a dynamic, rotation-locked circle for e and stores
// the body and shape in pb. The velocity integrator applies pb's linear
// damping and then clamps the speed to pb.MaxSpeed.
func (pw *PhysicsWorld) AddCircleBody(e Entity, pos cp.Vector, pb *component.PhysicsBody, layer component.CollisionLayer) {
	if pw == nil || pw.space == nil || pb == nil {
		return
	}
	mass := pb.Mass
	if mass <= 0 {
		mass = 1
	}
	radius := pb.Radius
	if radius <= 0 {
		radius = 0.4
	}

	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(pos)
	body.UserData = e
	body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		if pb.LinearDamping > 0 {
			damping /= 1 + dt*pb.LinearDamping
		}
		cp.BodyUpdateVelocity(body, gravity, damping, dt)
		if pb.MaxSpeed > 0 {
			v := body.Velocity()
			if v.Length() > pb.MaxSpeed {
				body.SetVelocityVector(common.Normalize(v).Mult(pb.MaxSpeed))
			}
		}
	})

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0)
	shape.SetElasticity(0)
	switch layer.Category {
	case component.LayerAgent:
		shape.SetCollisionType(collisionTypeAgent)
	case component.LayerCharacter:
		shape.SetCollisionType(collisionTypeCharacter)
	}
	shape.SetFilter(shapeFilter(layer))
	shape.UserData = e

	pw.space.AddBody(body)
	pw.space.AddShape(shape)

	pb.Body = body
	pb.Shape = shape
	pb.Mass = mass
	pb.Radius = radius
}

// Step advances the physics simulation.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}

// DrainContacts returns the agent/character contacts that began since the
// last call.
func (pw *PhysicsWorld) DrainContacts() []Contact {
	if pw == nil || len(pw.contacts) == 0 {
		return nil
	}
	out := pw.contacts
	pw.contacts = nil
	return out
}

// Raycast implements ObstacleQuery.
func (pw *PhysicsWorld) Raycast(origin, dir cp.Vector, maxDistance float64, mask component.Layer) (RayHit, bool) {
	if pw == nil || pw.space == nil || maxDistance <= 0 {
		return RayHit{}, false
	}
	n := common.Normalize(dir)
	if common.IsZero(n) {
		return RayHit{}, false
	}
	end := origin.Add(n.Mult(maxDistance))
	info := pw.space.SegmentQueryFirst(origin, end, 0, queryFilter(mask))
	if info.Shape == nil {
		return RayHit{}, false
	}
	owner, _ := info.Shape.UserData.(Entity)
	return RayHit{
		Distance: info.Alpha * maxDistance,
		Point:    info.Point,
		Normal:   info.Normal,
		Owner:    owner,
	}, true
}

// OverlapsPoint implements ObstacleQuery.
func (pw *PhysicsWorld) OverlapsPoint(point cp.Vector, radius float64, mask component.Layer) bool {
	if pw == nil || pw.space == nil {
		return false
	}
	info := pw.space.PointQueryNearest(point, math.Max(radius, 0), queryFilter(mask))
	return info != nil && info.Shape != nil
}

func (pw *PhysicsWorld) setupHandlers() {
	if pw == nil || pw.handlersReady || pw.space == nil {
		return
	}

	contactHandler := pw.space.NewCollisionHandler(collisionTypeAgent, collisionTypeCharacter)
	contactHandler.UserData = pw
	contactHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		agent, okA := shapeA.UserData.(Entity)
		character, okB := shapeB.UserData.(Entity)
		if !okA || !okB {
			return true
		}
		slog.Debug("physics contact", "agent", agent, "character", character)
		world.contacts = append(world.contacts, Contact{Agent: agent, Character: character})
		return true
	}

	pw.handlersReady = true
}
