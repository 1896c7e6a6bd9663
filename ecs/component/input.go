package component

// Input stores the per-tick movement intent of a character. Only the active
// character receives non-zero input.
type Input struct {
	MoveX float64
	MoveY float64
}

var InputComponent = NewComponent[Input]()
