package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/compstate/internal/compiler"
	"github.com/roach88/compstate/internal/ir"
	"github.com/roach88/compstate/internal/testutil"
)

func TestNewComposite_RejectsInvalidConfig(t *testing.T) {
	_, err := NewComposite(&ir.MachineConfig{Start: "Z", States: []ir.StateConfig{{ID: "A"}}})
	require.Error(t, err)
	assert.True(t, compiler.HasCode(err, compiler.ErrUnknownStart))

	_, err = NewComposite(nil)
	assert.True(t, compiler.HasCode(err, compiler.ErrNilMachine))
}

func TestNewComposite_RejectsDuplicateInput(t *testing.T) {
	cfg := testutil.Linear()
	cfg.States[0].Transitions = append(cfg.States[0].Transitions, ir.TransitionConfig{Input: testutil.Continue, Next: "C"})

	_, err := NewComposite(cfg)
	assert.True(t, compiler.HasCode(err, compiler.ErrDuplicateInput))
}

func TestNewComposite_RejectsCycle(t *testing.T) {
	m := &ir.MachineConfig{Name: "loop", Start: "X"}
	m.States = []ir.StateConfig{{ID: "X", Sub: m}}

	_, err := NewComposite(m)
	assert.True(t, compiler.HasCode(err, compiler.ErrReferenceCycle))
}

func TestNewComposite_DiamondBuildsSharedLeafOnce(t *testing.T) {
	leaf := &ir.MachineConfig{Name: "leaf", Start: "X", States: []ir.StateConfig{{ID: "X"}}}
	left := &ir.MachineConfig{Name: "left", Start: "L", States: []ir.StateConfig{{ID: "L", Sub: leaf}}}
	right := &ir.MachineConfig{Name: "right", Start: "R", States: []ir.StateConfig{{ID: "R", Sub: leaf}}}
	root := &ir.MachineConfig{Name: "root", Start: "A", States: []ir.StateConfig{
		{ID: "A", Sub: left},
		{ID: "B", Sub: right},
	}}

	c := newComposite(t, root)
	assert.Same(t, c.Sub("A").Sub("L"), c.Sub("B").Sub("R"))
	assert.Equal(t, ir.Path("A", "L", "X"), c.Path())
}

func TestWithStart_Prefix(t *testing.T) {
	c := newComposite(t, testutil.Kiosk(nil), WithStart(ir.Path("AdministratorSession")))
	assert.Equal(t, ir.Path("AdministratorSession", "Menu"), c.Path())

	c = newComposite(t, testutil.Kiosk(nil), WithStart(ir.Path("PublicPhotoSession", "EditPhoto")))
	assert.Equal(t, ir.Path("PublicPhotoSession", "EditPhoto"), c.Path())
}

func TestWithStart_DeclaredStartIsUnchanged(t *testing.T) {
	c := newComposite(t, testutil.Linear(), WithStart(ir.Path("C")))
	assert.Equal(t, ir.Path("C"), c.Path())
	assert.Equal(t, ir.StateID("A"), c.Start())
}

func TestWithStart_Invalid(t *testing.T) {
	tests := []struct {
		name string
		path ir.StatePath
	}{
		{"empty", ir.Path()},
		{"unknown root state", ir.Path("Nope")},
		{"unknown nested state", ir.Path("B", "Nope")},
		{"past a leaf", ir.Path("A", "D")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewComposite(testutil.TwoLevel(nil), WithStart(tt.path))
			require.Error(t, err)
			assert.True(t, IsStartError(err))
		})
	}
}

func TestWithStart_Nil(t *testing.T) {
	c := newComposite(t, testutil.Nested(), WithStart(nil))
	assert.Equal(t, ir.Path("A", "D"), c.Path())
}

func TestStartError_Error(t *testing.T) {
	err := &StartError{Path: ir.Path("A", "X"), Message: "no state"}
	assert.Equal(t, `invalid start "A/X": no state`, err.Error())

	bare := &StartError{Message: "table has no states"}
	assert.Equal(t, "invalid start: table has no states", bare.Error())
}
