package system

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedInputSwitchIsEdgeTriggered(t *testing.T) {
	in, err := CompileScriptedInput("hold", []byte(`
move_x := 1.0
move_y := -0.5
switch_requested := tick >= 2 && tick <= 4 || tick == 6
`))
	require.NoError(t, err)
	assert.Equal(t, "hold", in.Name())

	var edges []uint64
	for tick := uint64(0); tick < 8; tick++ {
		frame := in.Poll(tick, float64(tick)*0.02)
		assert.Equal(t, 1.0, frame.Move.X)
		assert.Equal(t, -0.5, frame.Move.Y)
		if frame.SwitchRequested {
			edges = append(edges, tick)
		}
	}
	assert.Equal(t, []uint64{2, 6}, edges)
}

func TestScriptedInputMissingOutputsAreZero(t *testing.T) {
	in, err := CompileScriptedInput("quiet", []byte(`x := 1`))
	require.NoError(t, err)
	frame := in.Poll(1, 0.02)
	assert.Equal(t, InputFrame{}, frame)
}

func TestScriptedInputCompileError(t *testing.T) {
	_, err := CompileScriptedInput("broken", []byte(`move_x := `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "system: compile script broken")
}

func TestScriptedInputRuntimeErrorStopsScript(t *testing.T) {
	in, err := CompileScriptedInput("crash", []byte(`
move_x := 1.0
if tick == 3 {
	n := 5
	n()
}
`))
	require.NoError(t, err)

	assert.Equal(t, 1.0, in.Poll(1, 0).Move.X)
	assert.Equal(t, InputFrame{}, in.Poll(3, 0))
	assert.Equal(t, InputFrame{}, in.Poll(4, 0), "a failed script stays silent")
}

func TestEmbeddedCircleScript(t *testing.T) {
	in, err := NewScriptedInput("circle")
	require.NoError(t, err)

	frame := in.Poll(0, 1.5)
	assert.InDelta(t, 1, math.Hypot(frame.Move.X, frame.Move.Y), 1e-9)
	assert.InDelta(t, 0, frame.Move.X, 1e-9)
	assert.InDelta(t, 1, frame.Move.Y, 1e-9)
	assert.False(t, frame.SwitchRequested)

	assert.True(t, in.Poll(150, 3).SwitchRequested)
	assert.False(t, in.Poll(151, 3.02).SwitchRequested)

	_, err = NewScriptedInput("nope")
	require.Error(t, err)
}
