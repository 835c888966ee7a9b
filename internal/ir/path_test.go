package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual_Identity(t *testing.T) {
	tests := []struct {
		name string
		a, b StatePath
	}{
		{"both absent", nil, nil},
		{"both empty", StatePath{}, StatePath{}},
		{"single", Path("A"), Path("A")},
		{"nested", Path("A", "B", "C"), Path("A", "B", "C")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Equal(tt.a, tt.b))
			assert.True(t, Equal(tt.b, tt.a), "equality must be symmetric")
			assert.Equal(t, tt.a.Hash(), tt.b.Hash())
		})
	}
}

func TestEqual_Different(t *testing.T) {
	tests := []struct {
		name string
		a, b StatePath
	}{
		{"absent vs empty", nil, StatePath{}},
		{"absent vs present", nil, Path("A")},
		{"different ids", Path("A"), Path("B")},
		{"different length", Path("A"), Path("A", "B")},
		{"permutation", Path("A", "B"), Path("B", "A")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Equal(tt.a, tt.b))
			assert.False(t, Equal(tt.b, tt.a), "equality must be symmetric")
		})
	}
}

func TestEqual_Reflexive(t *testing.T) {
	for _, p := range []StatePath{nil, {}, Path("A"), Path("A", "B")} {
		assert.True(t, p.Equal(p))
	}
}

func TestEqual_Transitive(t *testing.T) {
	a := Path("X", "Y")
	b := a.Clone()
	c := b.Clone()

	require.True(t, Equal(a, b))
	require.True(t, Equal(b, c))
	assert.True(t, Equal(a, c))
}

func TestHash_OrderSensitive(t *testing.T) {
	assert.NotEqual(t, Path("A", "B").Hash(), Path("B", "A").Hash())
	assert.NotEqual(t, Path("A").Hash(), Path("A", "A").Hash())
}

func TestStatePath_CloneAndAppendDoNotAlias(t *testing.T) {
	base := make(StatePath, 1, 4)
	base[0] = "A"

	x := base.Append("B")
	y := base.Append("C")
	assert.Equal(t, Path("A", "B"), x)
	assert.Equal(t, Path("A", "C"), y)

	clone := x.Clone()
	clone[0] = "Z"
	assert.Equal(t, StateID("A"), x[0])

	assert.Nil(t, StatePath(nil).Clone())
	assert.NotNil(t, StatePath{}.Clone())
}

func TestStatePath_HasPrefixAndLeaf(t *testing.T) {
	p := Path("A", "B", "C")

	assert.True(t, p.HasPrefix(nil))
	assert.True(t, p.HasPrefix(Path("A")))
	assert.True(t, p.HasPrefix(Path("A", "B", "C")))
	assert.False(t, p.HasPrefix(Path("B")))
	assert.False(t, p.HasPrefix(Path("A", "B", "C", "D")))

	assert.Equal(t, StateID("C"), p.Leaf())
	assert.Equal(t, StateID(""), StatePath{}.Leaf())
}

func TestStatePath_StringRoundTrip(t *testing.T) {
	p := Path("Kiosk", "Photo", "Edit")
	assert.Equal(t, "Kiosk/Photo/Edit", p.String())
	assert.Equal(t, p, ParsePath(p.String()))
	assert.Equal(t, StatePath{}, ParsePath(""))
}

func TestPathIndex(t *testing.T) {
	idx := NewPathIndex()

	i, added := idx.Add(Path("A", "D"))
	assert.True(t, added)
	assert.Equal(t, 0, i)

	i, added = idx.Add(Path("A", "E"))
	assert.True(t, added)
	assert.Equal(t, 1, i)

	i, added = idx.Add(Path("A", "D"))
	assert.False(t, added, "duplicate path must not be re-added")
	assert.Equal(t, 0, i)

	_, ok := idx.Lookup(Path("D", "A"))
	assert.False(t, ok)

	i, ok = idx.Lookup(Path("A", "E"))
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, 2, idx.Len())
}

func TestPathIndex_CopiesKeys(t *testing.T) {
	idx := NewPathIndex()
	p := Path("A", "B")
	idx.Add(p)
	p[1] = "Z"

	_, ok := idx.Lookup(Path("A", "B"))
	assert.True(t, ok, "index must not alias caller storage")
}

func TestNewInput_NFC(t *testing.T) {
	composed := Input("Caf\u00e9")
	assert.Equal(t, composed, NewInput("Cafe\u0301"))
	assert.Equal(t, composed, NewInput("Caf\u00e9"))
	assert.Equal(t, Input("Continue"), NewInput("Continue"))
}
