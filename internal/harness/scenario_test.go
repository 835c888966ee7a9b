package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenario_ResolvesMachineRelativeToFile(t *testing.T) {
	s, err := LoadScenario("testdata/nested_go_back.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "machines", "nested.yaml"), s.Machine)
	assert.Equal(t, "nested_go_back", s.Name)
	assert.Len(t, s.Steps, 5)
}

func TestLoadScenario_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m.yaml"), []byte("root: m\n"), 0644))

	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown field", "name: x\nmachine: m.yaml\nsteps: [{input: a}]\nassertion: []\n", "failed to parse YAML"},
		{"no name", "machine: m.yaml\nsteps: [{input: a}]\n", "name is required"},
		{"no machine", "name: x\nsteps: [{input: a}]\n", "machine is required"},
		{"missing machine", "name: x\nmachine: gone.yaml\nsteps: [{input: a}]\n", "does not exist"},
		{"no steps", "name: x\nmachine: m.yaml\n", "steps list is required"},
		{"empty input", "name: x\nmachine: m.yaml\nsteps: [{input: ''}]\n", "input is required"},
		{"bad result", "name: x\nmachine: m.yaml\nsteps: [{input: a, expect: {result: Maybe}}]\n", "steps[0].expect"},
		{"bad assertion", "name: x\nmachine: m.yaml\nsteps: [{input: a}]\nassertions: [{type: final_path}]\n", "path is required"},
		{"unknown assertion", "name: x\nmachine: m.yaml\nsteps: [{input: a}]\nassertions: [{type: bogus}]\n", "unknown assertion type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, dir, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingMachineIsTyped(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadScenario(writeScenario(t, dir, "name: x\nmachine: gone.yaml\nsteps: [{input: a}]\n"))
	var nf *MachineNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "x", nf.Scenario)
}

func TestDiscover(t *testing.T) {
	files, err := Discover("testdata/scenarios", "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "scenarios", "nested.yaml"),
		filepath.Join("testdata", "scenarios", "nested_wrong.yaml"),
	}, files)

	files, err = Discover("testdata/scenarios", "*wrong")
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = Discover("testdata/scenarios", "[")
	assert.Error(t, err)
}

func TestGoldenPath(t *testing.T) {
	assert.Equal(t, filepath.Join("dir", "golden", "name.golden"), GoldenPath(filepath.Join("dir", "name.yaml")))
}
