package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// InputFrame is one tick of player intent. SwitchRequested is edge
// triggered: it is true only on the tick the request was made.
type InputFrame struct {
	Move            cp.Vector
	SwitchRequested bool
}

// InputSource produces player intent. Keyboard, scripted and test sources
// all implement it.
type InputSource interface {
	Poll(tick uint64, elapsed float64) InputFrame
}

// InputFunc adapts a plain function to InputSource.
type InputFunc func(tick uint64, elapsed float64) InputFrame

func (f InputFunc) Poll(tick uint64, elapsed float64) InputFrame {
	return f(tick, elapsed)
}

// InputSystem routes the move vector to the active character and forwards
// switch requests to the arbiter.
type InputSystem struct {
	source  InputSource
	arbiter *ControlArbiter
}

func NewInputSystem(source InputSource, arbiter *ControlArbiter) *InputSystem {
	return &InputSystem{source: source, arbiter: arbiter}
}

// SetSource swaps the input source, e.g. after a script reload.
func (s *InputSystem) SetSource(source InputSource) {
	s.source = source
}

func (s *InputSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.source == nil {
		return
	}
	frame := s.source.Poll(w.Tick(), w.Time())

	active, hasActive := s.arbiter.Active()
	ecs.ForEach2(w, component.CharacterComponent, component.InputComponent, func(e ecs.Entity, c *component.Character, in *component.Input) {
		if hasActive && e == active && c.Active {
			in.MoveX = frame.Move.X
			in.MoveY = frame.Move.Y
			return
		}
		*in = component.Input{}
	})

	if frame.SwitchRequested {
		s.arbiter.QueueSwitch()
	}
}
