package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyScenarios copies testdata/scenarios into a temp dir.
func copyScenarios(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"nested.yaml", "machines/nested.yaml"} {
		data, err := os.ReadFile(filepath.Join("testdata", "scenarios", name))
		require.NoError(t, err)
		dst := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0755))
		require.NoError(t, os.WriteFile(dst, data, 0644))
	}
	return dir
}

func TestTestCommand_Pass(t *testing.T) {
	out, _, err := execute(t, "", "test", "testdata/scenarios")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ nested\n")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_UpdateThenCompare(t *testing.T) {
	dir := copyScenarios(t)
	golden := filepath.Join(dir, "golden", "nested.golden")

	out, _, err := execute(t, "", "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ nested (golden updated)")
	require.FileExists(t, golden)

	_, _, err = execute(t, "", "test", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(golden, []byte(`{"scenario":"stale"}`), 0644))
	out, _, err = execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ nested")
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommand_FailingScenarioJSON(t *testing.T) {
	dir := copyScenarios(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(`name: wrong
machine: machines/nested.yaml
steps:
  - input: Continue
assertions:
  - type: final_path
    path: B
`), 0644))

	out, _, err := execute(t, "", "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestTestCommand_Filter(t *testing.T) {
	out, _, err := execute(t, "", "test", "testdata/scenarios", "--filter", "kiosk-*")
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")

	out, _, err = execute(t, "", "test", "testdata/scenarios", "--filter", "nest*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
}

func TestTestCommand_Errors(t *testing.T) {
	_, _, err := execute(t, "", "test", "testdata/nowhere")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "", "test", "testdata/scenarios", "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_UnloadableScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: bad\nmachine: missing.yaml\nsteps:\n  - input: Go\n"), 0644))

	out, _, err := execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "failed to load scenario")
}
