package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/prefabs"
)

// AgentLayer is the collision setup of every pursuing agent.
var AgentLayer = component.CollisionLayer{
	Category: component.LayerAgent,
	Mask:     component.LayerObstacle | component.LayerAgent | component.LayerCharacter,
}

// NewAgent builds a pursuing agent anchored at spawn, initially looking
// along facing.
func NewAgent(w *ecs.World, pw *ecs.PhysicsWorld, spawn, facing cp.Vector, spec prefabs.AgentSpec) (ecs.Entity, error) {
	if w == nil || pw == nil {
		return 0, fmt.Errorf("agent: nil world")
	}
	entity := w.CreateEntity()

	if err := ecs.Add(w, entity, component.AgentTagComponent, &component.AgentTag{}); err != nil {
		return 0, fmt.Errorf("agent: add agent tag: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent, &component.Transform{X: spawn.X, Y: spawn.Y}); err != nil {
		return 0, fmt.Errorf("agent: add transform: %w", err)
	}

	body := &component.PhysicsBody{
		Radius:        spec.Collider.Radius,
		Mass:          spec.Collider.Mass,
		LinearDamping: spec.Collider.LinearDamping,
		MaxSpeed:      spec.Steering.MoveSpeed,
	}
	pw.AddCircleBody(entity, spawn, body, AgentLayer)
	if err := ecs.Add(w, entity, component.PhysicsBodyComponent, body); err != nil {
		return 0, fmt.Errorf("agent: add physics body: %w", err)
	}

	layer := AgentLayer
	if err := ecs.Add(w, entity, component.CollisionLayerComponent, &layer); err != nil {
		return 0, fmt.Errorf("agent: add collision layer: %w", err)
	}

	dir := common.Normalize(facing)
	if common.IsZero(dir) {
		dir = cp.Vector{X: 1}
	}
	if err := ecs.Add(w, entity, component.PerceptionComponent, &component.Perception{
		SightRange:  spec.Perception.SightRange,
		SightAngle:  spec.Perception.SightAngle,
		UpdateSpeed: spec.Perception.UpdateSpeed,
		MinMovement: spec.Perception.MinMovement,
		EyeOffset:   cp.Vector{X: spec.Perception.EyeOffset.X, Y: spec.Perception.EyeOffset.Y},
		Mask:        component.SightMask,
		SightDir:    dir,
		LastMoveDir: dir,
	}); err != nil {
		return 0, fmt.Errorf("agent: add perception: %w", err)
	}

	if err := ecs.Add(w, entity, component.SteeringComponent, &component.Steering{
		MoveSpeed:         spec.Steering.MoveSpeed,
		Acceleration:      spec.Steering.Acceleration,
		StoppingDistance:  spec.Steering.StoppingDistance,
		DetectionDistance: spec.Steering.DetectionDistance,
		AvoidanceForce:    spec.Steering.AvoidanceForce,
		RaySpread:         spec.Steering.RaySpread,
		Rays:              spec.Steering.Rays,
		ObstacleMask:      component.LayerObstacle,
	}); err != nil {
		return 0, fmt.Errorf("agent: add steering: %w", err)
	}

	if err := ecs.Add(w, entity, component.PursuitComponent, &component.Pursuit{
		Spawn:             spawn,
		RoamRadius:        spec.Pursuit.RoamRadius,
		MinPatrolDistance: spec.Pursuit.MinPatrolDistance,
		RoamInterval:      spec.Pursuit.RoamInterval,
		SearchTime:        spec.Pursuit.SearchTime,
		RoamTarget:        spawn,
	}); err != nil {
		return 0, fmt.Errorf("agent: add pursuit: %w", err)
	}

	if err := ecs.Add(w, entity, component.AIStateComponent, &component.AIState{}); err != nil {
		return 0, fmt.Errorf("agent: add ai state: %w", err)
	}

	if err := ecs.Add(w, entity, component.AIConfigComponent, &component.AIConfig{FSM: spec.FSM}); err != nil {
		return 0, fmt.Errorf("agent: add ai config: %w", err)
	}

	return entity, nil
}
