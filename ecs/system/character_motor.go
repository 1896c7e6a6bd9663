package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// CharacterMotorSystem drives the active character at full speed in the
// input direction and pins inactive characters in place.
type CharacterMotorSystem struct{}

func NewCharacterMotorSystem() *CharacterMotorSystem {
	return &CharacterMotorSystem{}
}

func (s *CharacterMotorSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.CharacterComponent, component.PhysicsBodyComponent, func(e ecs.Entity, c *component.Character, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		if !c.Active || ecs.Has(w, e, component.DisabledComponent) {
			pb.Body.SetVelocityVector(cp.Vector{})
			return
		}
		var move cp.Vector
		if in, ok := ecs.Get(w, e, component.InputComponent); ok {
			move = cp.Vector{X: in.MoveX, Y: in.MoveY}
		}
		pb.Body.SetVelocityVector(common.Normalize(move).Mult(c.MoveSpeed))
	})
}
