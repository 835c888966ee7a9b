package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(hook EnterFunc) *Table {
	return &Table{States: []CompiledState{
		{
			Path: Path("A"),
			Transitions: []CompiledTransition{{
				Input:  "Continue",
				Next:   1,
				Effect: Effect{Steps: []Step{EnterStep(Path("B"), hook)}},
			}},
		},
		{Path: Path("B")},
	}}
}

func TestFingerprint_Deterministic(t *testing.T) {
	fp1, err := sampleTable(nil).Fingerprint()
	require.NoError(t, err)
	fp2, err := sampleTable(nil).Fingerprint()
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1, 64, "SHA-256 hex is 64 characters")
}

func TestFingerprint_IgnoresHookIdentity(t *testing.T) {
	withHook := sampleTable(func(StatePath) {}).MustFingerprint()
	without := sampleTable(nil).MustFingerprint()
	assert.Equal(t, without, withHook)
}

func TestFingerprint_ChangesWithStructure(t *testing.T) {
	base := sampleTable(nil)
	changed := sampleTable(nil)
	changed.States[0].Transitions[0].Input = "Skip"

	assert.NotEqual(t, base.MustFingerprint(), changed.MustFingerprint())
}

func TestHashWithDomain_Separation(t *testing.T) {
	data := []byte("payload")
	assert.NotEqual(t, hashWithDomain("a", data), hashWithDomain("b", data))
}
