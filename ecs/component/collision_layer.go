package component

// Layer is a Chipmunk category bit.
type Layer uint

const (
	LayerObstacle Layer = 1 << iota
	// LayerSightBlocker shapes block perception rays but not movement.
	LayerSightBlocker
	LayerAgent
	LayerCharacter
	// LayerQuery is the category carried by raycasts and point queries.
	LayerQuery
)

// SightMask is what perception rays test against by default.
const SightMask = LayerObstacle | LayerSightBlocker

// CollisionLayer allows entities to declare a collision category and mask
// so the physics world can selectively enable collisions between groups.
type CollisionLayer struct {
	// Category is a bitmask of this entity's collision category.
	Category Layer `json:"category,omitempty"`
	// Mask is a bitmask of categories this entity should collide with.
	Mask Layer `json:"mask,omitempty"`
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()
