package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/prefabs"
)

var CharacterLayer = component.CollisionLayer{
	Category: component.LayerCharacter,
	Mask:     component.LayerObstacle | component.LayerAgent,
}

// NewCharacter builds the controllable character at roster position index.
// Characters start inactive; the control arbiter activates one.
func NewCharacter(w *ecs.World, pw *ecs.PhysicsWorld, pos cp.Vector, index int, name string, spec prefabs.CharacterSpec) (ecs.Entity, error) {
	if w == nil || pw == nil {
		return 0, fmt.Errorf("character: nil world")
	}
	if name == "" {
		name = fmt.Sprintf("%s-%d", spec.Name, index)
	}
	entity := w.CreateEntity()

	if err := ecs.Add(w, entity, component.CharacterTagComponent, &component.CharacterTag{}); err != nil {
		return 0, fmt.Errorf("character: add character tag: %w", err)
	}

	if err := ecs.Add(w, entity, component.CharacterComponent, &component.Character{
		Name:      name,
		Index:     index,
		MoveSpeed: spec.MoveSpeed,
	}); err != nil {
		return 0, fmt.Errorf("character: add character: %w", err)
	}

	if err := ecs.Add(w, entity, component.InputComponent, &component.Input{}); err != nil {
		return 0, fmt.Errorf("character: add input: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent, &component.Transform{X: pos.X, Y: pos.Y}); err != nil {
		return 0, fmt.Errorf("character: add transform: %w", err)
	}

	body := &component.PhysicsBody{
		Radius:        spec.Collider.Radius,
		Mass:          spec.Collider.Mass,
		LinearDamping: spec.Collider.LinearDamping,
		MaxSpeed:      spec.MoveSpeed,
	}
	pw.AddCircleBody(entity, pos, body, CharacterLayer)
	if err := ecs.Add(w, entity, component.PhysicsBodyComponent, body); err != nil {
		return 0, fmt.Errorf("character: add physics body: %w", err)
	}

	layer := CharacterLayer
	if err := ecs.Add(w, entity, component.CollisionLayerComponent, &layer); err != nil {
		return 0, fmt.Errorf("character: add collision layer: %w", err)
	}

	return entity, nil
}
