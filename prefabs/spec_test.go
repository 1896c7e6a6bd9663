package prefabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedTuningMatchesDefaults(t *testing.T) {
	tuning, err := LoadTuning()
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tuning)
}

func TestLoadFSMSpec(t *testing.T) {
	spec, err := LoadFSMSpec("pursuit_fsm.yaml")
	require.NoError(t, err)

	assert.Equal(t, "patrol", spec.Initial)
	require.Contains(t, spec.States, "search")
	assert.Len(t, spec.States["search"].OnEnter, 2)

	search := spec.Transitions["search"]
	require.Len(t, search, 2)
	assert.Equal(t, "chase", search[0]["sees_target"], "sighting is checked before expiry")
	assert.Equal(t, "patrol", search[1]["search_expired"])
}

func TestLoadSpecErrors(t *testing.T) {
	_, err := LoadSpec[AgentSpec]("missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefabs: load missing.yaml")

	_, err = LoadFSMSpec("arbiter.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing initial state")
}

func TestCleanScriptPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "circle", want: "scripts/circle.tengo"},
		{in: "circle.tengo", want: "scripts/circle.tengo"},
		{in: "scripts/circle.tengo", want: "scripts/circle.tengo"},
		{in: "prefabs/scripts/circle.tengo", want: "scripts/circle.tengo"},
		{in: "", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, cleanScriptPath(tc.in))
		})
	}
}

func TestLoadScript(t *testing.T) {
	data, err := LoadScript("circle")
	require.NoError(t, err)
	assert.Contains(t, string(data), "switch_requested")

	_, err = LoadScript("does_not_exist")
	require.Error(t, err)
}

func TestClassify(t *testing.T) {
	kind, ok := classify("prefabs/agent.yaml")
	assert.True(t, ok)
	assert.Equal(t, ChangeSpec, kind)

	kind, ok = classify("prefabs/scripts/circle.tengo")
	assert.True(t, ok)
	assert.Equal(t, ChangeScript, kind)

	_, ok = classify("prefabs/notes.txt")
	assert.False(t, ok)
}

func TestScripts(t *testing.T) {
	assert.Equal(t, []string{"circle", "idle"}, Scripts())
}
