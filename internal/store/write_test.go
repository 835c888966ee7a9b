package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/compstate/internal/ir"
)

func TestWriteRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("run-1", ir.Path("A", "B"))
	run.Source = "machines/kiosk.yaml"
	require.NoError(t, s.WriteRun(ctx, run))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, got)
}

func TestWriteRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, createTestRun("run-1", ir.Path("A"))))
	other := createTestRun("run-1", ir.Path("Z"))
	require.NoError(t, s.WriteRun(ctx, other))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, ir.Path("A"), got.Start, "first write wins")
}

func TestWriteFire_RequiresRun(t *testing.T) {
	s := createTestStore(t)

	err := s.WriteFire(context.Background(), Fire{
		RunID: "missing", Seq: 1, Input: "Go",
		From: ir.Path("A"), Result: ir.NoAction, To: ir.Path("A"),
	})
	assert.Error(t, err, "foreign key should reject orphan fires")
}

func TestWriteFire_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-1", ir.Path("A"))))

	f := Fire{RunID: "run-1", Seq: 1, Input: "Go", From: ir.Path("A"), Result: ir.Transitioned, To: ir.Path("B")}
	require.NoError(t, s.WriteFire(ctx, f))
	require.NoError(t, s.WriteFire(ctx, f))

	fires, err := s.ReadFires(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, fires, 1)
}

func TestMarshalPath_Canonical(t *testing.T) {
	text, err := marshalPath(ir.Path("A", "B<C>"))
	require.NoError(t, err)
	assert.Equal(t, `["A","B<C>"]`, text)

	p, err := unmarshalPath(text)
	require.NoError(t, err)
	assert.Equal(t, ir.Path("A", "B<C>"), p)

	empty, err := unmarshalPath("[]")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = unmarshalPath("not json")
	assert.Error(t, err)
}
