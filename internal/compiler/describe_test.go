package compiler

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/compstate/internal/ir"
	"github.com/roach88/compstate/internal/testutil"
)

func TestDescribe_Golden(t *testing.T) {
	table := mustCompile(t, testutil.TwoLevel(testutil.NewRecorder()))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "two_level", []byte(Describe(table)))
}

func TestView(t *testing.T) {
	table := mustCompile(t, testutil.TwoLevel(testutil.NewRecorder()))

	v, err := View(table)
	require.NoError(t, err)

	assert.Equal(t, ir.TableVersion, v.Version)
	assert.Equal(t, table.MustFingerprint(), v.Fingerprint)
	require.Len(t, v.States, 5)

	c := v.States[4]
	assert.Equal(t, 4, c.Index)
	assert.Equal(t, "C", c.Path)
	require.Len(t, c.Transitions, 1)
	assert.Equal(t, TransitionView{
		Input:    testutil.GoBack,
		Next:     1,
		NextPath: "B/D",
		Steps:    []string{"exit C", "transition C -> B/D", "enter B", "enter B/D"},
	}, c.Transitions[0])
}
