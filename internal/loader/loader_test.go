package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/compstate/internal/compiler"
	"github.com/roach88/compstate/internal/ir"
	"github.com/roach88/compstate/internal/testutil"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_YAMLKiosk(t *testing.T) {
	cfg, err := LoadFile("testdata/kiosk.yaml")
	require.NoError(t, err)
	require.NoError(t, compiler.Check(cfg))

	assert.Equal(t, "kiosk", cfg.Name)
	assert.Equal(t, ir.StateID("Startup"), cfg.Start)
	assert.Same(t, cfg.State("PublicPhotoSession").Sub, cfg.State("PersonalizedPhotoSession").Sub)

	// Same structure as the in-code fixture.
	loaded, err := compiler.Compile(cfg)
	require.NoError(t, err)
	fixture, err := compiler.Compile(testutil.Kiosk(nil))
	require.NoError(t, err)
	assert.Equal(t, fixture.MustFingerprint(), loaded.MustFingerprint())
}

func TestLoadFile_CUEFile(t *testing.T) {
	cfg, err := LoadFile("testdata/two_level.cue")
	require.NoError(t, err)

	loaded, err := compiler.Compile(cfg)
	require.NoError(t, err)
	fixture, err := compiler.Compile(testutil.TwoLevel(nil))
	require.NoError(t, err)
	assert.Equal(t, compiler.Describe(fixture), compiler.Describe(loaded))
}

func TestLoadFile_CUEDirectory(t *testing.T) {
	cfg, err := LoadFile("testdata/cuedir")
	require.NoError(t, err)

	assert.Equal(t, "outer", cfg.Name)
	assert.Equal(t, ir.Path("A", "D"), cfg.StartPath())
	assert.Equal(t, "inner", cfg.State("A").Sub.Name)
}

func TestParse_SingleMachineNeedsNoRoot(t *testing.T) {
	doc, err := Parse([]byte(`
machines:
  only:
    start: A
    states:
      - id: A
`), FormatYAML, "")
	require.NoError(t, err)

	name, err := doc.RootName()
	require.NoError(t, err)
	assert.Equal(t, "only", name)
}

func TestParse_ScalarIDsBecomeStrings(t *testing.T) {
	doc, err := Parse([]byte(`
machines:
  m:
    start: 1
    states:
      - id: 1
        transitions:
          - {input: 7, next: 2}
      - id: 2
`), FormatYAML, "")
	require.NoError(t, err)

	cfg, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, ir.StateID("1"), cfg.Start)
	assert.Equal(t, ir.Input("7"), cfg.States[0].Transitions[0].Input)
}

func TestParse_NormalizesIdentifiers(t *testing.T) {
	doc, err := Parse([]byte("machines:\n  m:\n    start: \"cafe\\u0301\"\n    states:\n      - id: \"caf\\u00e9\"\n"), FormatYAML, "")
	require.NoError(t, err)

	cfg, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, cfg.Start, cfg.States[0].ID)
	assert.NoError(t, compiler.Check(cfg))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		code   string
	}{
		{"bad yaml", "machines: [", FormatYAML, ErrCodeParseFailed},
		{"empty", "", FormatYAML, ErrCodeDecodeFailed},
		{"unknown field", "machines:\n  m:\n    start: A\n    stats: []\n", FormatYAML, ErrCodeDecodeFailed},
		{"wrong shape", "machines: 3\n", FormatYAML, ErrCodeDecodeFailed},
		{"bad cue", "machines: {", FormatCUE, ErrCodeBuildFailed},
		{"conflicting cue", "root: \"a\"\nroot: \"b\"\n", FormatCUE, ErrCodeBuildFailed},
		{"unknown format", "", Format("toml"), ErrCodeUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format, "doc.cue")
			require.Error(t, err)
			assert.True(t, IsLoadError(err))
			assert.Equal(t, tt.code, Code(err))
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Run("unknown root", func(t *testing.T) {
		doc := &Document{Root: "missing", Machines: map[string]MachineDoc{"m": {Start: "A"}}}
		_, err := doc.Build()
		assert.Equal(t, ErrCodeUnknownRoot, Code(err))
	})

	t.Run("ambiguous root", func(t *testing.T) {
		doc := &Document{Machines: map[string]MachineDoc{"a": {}, "b": {}}}
		_, err := doc.Build()
		assert.Equal(t, ErrCodeUnknownRoot, Code(err))
	})

	t.Run("unknown sub", func(t *testing.T) {
		doc := &Document{Machines: map[string]MachineDoc{
			"m": {Start: "A", States: []StateDoc{{ID: "A", Sub: "ghost"}}},
		}}
		_, err := doc.Build()
		assert.Equal(t, ErrCodeUnknownSub, Code(err))
		assert.Contains(t, err.Error(), `sub "ghost"`)
	})
}

func TestBuild_CycleIsLeftToValidation(t *testing.T) {
	doc := &Document{Root: "a", Machines: map[string]MachineDoc{
		"a": {Start: "X", States: []StateDoc{{ID: "X", Sub: "b"}}},
		"b": {Start: "Y", States: []StateDoc{{ID: "Y", Sub: "a"}}},
	}}
	cfg, err := doc.Build()
	require.NoError(t, err)
	assert.True(t, compiler.HasCode(compiler.Check(cfg), compiler.ErrReferenceCycle))
}

func TestParseFile_Errors(t *testing.T) {
	_, err := ParseFile("testdata/does-not-exist.yaml")
	assert.Equal(t, ErrCodeNotFound, Code(err))

	_, err = ParseFile(writeFile(t, "doc.toml", "x = 1"))
	assert.Equal(t, ErrCodeUnknownFormat, Code(err))

	_, err = ParseFile(t.TempDir())
	assert.Equal(t, ErrCodeNoFiles, Code(err))
}

func TestParseFile_CUEPosition(t *testing.T) {
	path := writeFile(t, "bad.cue", "root: \"a\"\nroot: \"b\"\n")
	_, err := ParseFile(path)
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.True(t, le.Pos.IsValid())
	assert.Contains(t, err.Error(), "bad.cue:")
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{
		"a.yaml": FormatYAML,
		"a.YML":  FormatYAML,
		"a.json": FormatYAML,
		"a.cue":  FormatCUE,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
}

func TestLoadError_Error(t *testing.T) {
	err := &LoadError{Code: ErrCodeNotFound, Message: "document not found: x"}
	assert.Equal(t, "E005: document not found: x", err.Error())
	assert.Equal(t, "", Code(nil))
}
