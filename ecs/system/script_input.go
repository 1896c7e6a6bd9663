package system

import (
	"fmt"
	"log/slog"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/pursuit/prefabs"
)

// ScriptedInput is an InputSource backed by a tengo script. The script sees
// `tick` (int) and `time` (seconds) and sets `move_x`, `move_y` and
// `switch_requested`. The switch flag is turned into an edge.
type ScriptedInput struct {
	name       string
	compiled   *tengo.Compiled
	prevSwitch bool
	failed     bool
}

// NewScriptedInput compiles the named script from prefabs/scripts.
func NewScriptedInput(name string) (*ScriptedInput, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, err
	}
	return CompileScriptedInput(name, src)
}

// CompileScriptedInput compiles script source directly.
func CompileScriptedInput(name string, src []byte) (*ScriptedInput, error) {
	script := tengo.NewScript(src)
	_ = script.Add("tick", 0)
	_ = script.Add("time", 0.0)
	script.SetImports(stdlib.GetModuleMap("math", "rand"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("system: compile script %s: %w", name, err)
	}
	return &ScriptedInput{name: name, compiled: compiled}, nil
}

func (s *ScriptedInput) Name() string {
	return s.name
}

func (s *ScriptedInput) Poll(tick uint64, elapsed float64) InputFrame {
	if s == nil || s.compiled == nil || s.failed {
		return InputFrame{}
	}
	if err := s.run(tick, elapsed); err != nil {
		// A broken script stops driving input instead of logging every tick.
		s.failed = true
		slog.Error("input script failed", "system", "input", "script", s.name, "err", err)
		return InputFrame{}
	}

	level := s.compiled.Get("switch_requested").Bool()
	frame := InputFrame{
		Move: cp.Vector{
			X: s.compiled.Get("move_x").Float(),
			Y: s.compiled.Get("move_y").Float(),
		},
		SwitchRequested: level && !s.prevSwitch,
	}
	s.prevSwitch = level
	return frame
}

func (s *ScriptedInput) run(tick uint64, elapsed float64) error {
	if err := s.compiled.Set("tick", int64(tick)); err != nil {
		return err
	}
	if err := s.compiled.Set("time", elapsed); err != nil {
		return err
	}
	return s.compiled.Run()
}
