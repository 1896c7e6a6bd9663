package entity

import (
	"fmt"

	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// ObstacleLayer blocks movement and sight.
var ObstacleLayer = component.CollisionLayer{
	Category: component.LayerObstacle,
	Mask:     component.LayerAgent | component.LayerCharacter,
}

// SightBlockerLayer blocks sight only; nothing collides with it.
var SightBlockerLayer = component.CollisionLayer{
	Category: component.LayerSightBlocker,
	Mask:     component.LayerQuery,
}

// NewObstacle adds a static axis-aligned box. sightOnly boxes (tall grass,
// smoke) hide characters but can be walked through.
func NewObstacle(w *ecs.World, pw *ecs.PhysicsWorld, minX, minY, maxX, maxY float64, sightOnly bool) (ecs.Entity, error) {
	if w == nil || pw == nil {
		return 0, fmt.Errorf("obstacle: nil world")
	}
	if maxX <= minX || maxY <= minY {
		return 0, fmt.Errorf("obstacle: empty box (%g,%g)-(%g,%g)", minX, minY, maxX, maxY)
	}
	entity := w.CreateEntity()

	if err := ecs.Add(w, entity, component.ObstacleTagComponent, &component.ObstacleTag{}); err != nil {
		return 0, fmt.Errorf("obstacle: add obstacle tag: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent, &component.Transform{
		X: (minX + maxX) / 2,
		Y: (minY + maxY) / 2,
	}); err != nil {
		return 0, fmt.Errorf("obstacle: add transform: %w", err)
	}

	layer := ObstacleLayer
	if sightOnly {
		layer = SightBlockerLayer
	}
	pw.AddStaticBox(entity, minX, minY, maxX, maxY, layer)
	if err := ecs.Add(w, entity, component.CollisionLayerComponent, &layer); err != nil {
		return 0, fmt.Errorf("obstacle: add collision layer: %w", err)
	}

	return entity, nil
}
