package component

// Character is a player-controllable unit. Index 0 is the main character.
type Character struct {
	Name      string
	Index     int
	Active    bool
	MoveSpeed float64
}

// IsMain reports whether losing this character ends the run.
func (c *Character) IsMain() bool {
	return c != nil && c.Index == 0
}

var CharacterComponent = NewComponent[Character]()
