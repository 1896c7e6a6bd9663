package component

// Transform is the world-space position of an entity, synced from its
// physics body after every physics step.
type Transform struct {
	X float64
	Y float64
}

var TransformComponent = NewComponent[Transform]()
