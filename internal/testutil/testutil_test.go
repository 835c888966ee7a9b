package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/compstate/internal/engine"
	"github.com/roach88/compstate/internal/ir"
)

func TestFixedRunIDGenerator(t *testing.T) {
	gen := NewFixedRunIDGenerator("run-1")
	assert.Equal(t, "run-1", gen.Generate())
	assert.Equal(t, "run-1", gen.Generate())

	assert.Equal(t, "test-run-default", NewFixedRunIDGenerator("").Generate())
}

func TestRecorder_Hooks(t *testing.T) {
	rec := NewRecorder()
	s := rec.State("A")
	e := rec.Edge("Go", "B")

	s.OnEnter(ir.Path("A"))
	e.OnTransition(ir.Path("A"), ir.Path("B", "C"))
	s.OnExit(ir.Path("A"))

	assert.Equal(t, []string{"enter A", "Go A -> B/C", "exit A"}, rec.Take())
	assert.Empty(t, rec.Log)
}

func TestRecorder_NilBuildsPlainConfig(t *testing.T) {
	var rec *Recorder
	s := rec.State("A", rec.Edge("Go", "B"))

	assert.Nil(t, s.OnEnter)
	assert.Nil(t, s.OnExit)
	require.Len(t, s.Transitions, 1)
	assert.Nil(t, s.Transitions[0].OnTransition)
}

func TestSampleMachines_StartPaths(t *testing.T) {
	assert.Equal(t, ir.Path("A"), Linear().StartPath())
	assert.Equal(t, ir.Path("A", "D"), Nested().StartPath())
	assert.Equal(t, ir.Path("A"), TwoLevel(nil).StartPath())
	assert.Equal(t, ir.Path("Startup"), Kiosk(nil).StartPath())
}

func TestKiosk_SharesPhotoMachine(t *testing.T) {
	k := Kiosk(nil)
	public := k.State("PublicPhotoSession")
	personalized := k.State("PersonalizedPhotoSession")
	require.NotNil(t, public)
	require.NotNil(t, personalized)
	assert.Same(t, public.Sub, personalized.Sub)
}

// numberSession fires inputs at m and stamps each fire with clock.
func numberSession(m ir.Machine, clock *DeterministicClock, inputs []ir.Input) []int64 {
	seqs := make([]int64, 0, len(inputs))
	for _, in := range inputs {
		m.Fire(in)
		seqs = append(seqs, clock.Next())
	}
	return seqs
}

func TestDeterministicClock_NumbersSessionRepeatably(t *testing.T) {
	session := []ir.Input{Continue, Public, Continue, Skip, Logout, Timeout}
	c, err := engine.NewComposite(Kiosk(nil))
	require.NoError(t, err)
	clock := NewDeterministicClock()
	assert.Equal(t, int64(0), clock.Current())

	first := numberSession(c, clock, session)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, first)
	assert.Equal(t, int64(len(session)), clock.Current())

	c.Reset()
	clock.Reset()
	assert.Equal(t, int64(0), clock.Current())
	assert.Equal(t, first, numberSession(c, clock, session))
}

func TestDeterministicClock_ObserverStampsEveryFire(t *testing.T) {
	clock := NewDeterministicClock()
	var stamped []int64
	c, err := engine.NewComposite(Kiosk(nil), engine.WithObserver(engine.ObserverFunc(func(engine.FireEvent) {
		stamped = append(stamped, clock.Next())
	})))
	require.NoError(t, err)

	for _, in := range KioskInputs {
		c.Fire(in)
	}
	require.Len(t, stamped, len(KioskInputs))
	for i, seq := range stamped {
		assert.Equal(t, int64(i+1), seq)
	}
}

func TestDeterministicClock_ConcurrentNextIsUnique(t *testing.T) {
	clock := NewDeterministicClock()
	const workers, calls = 8, 50

	var mu sync.Mutex
	seen := make(map[int64]bool, workers*calls)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range calls {
				seq := clock.Next()
				mu.Lock()
				seen[seq] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*calls)
	assert.Equal(t, int64(workers*calls), clock.Current())
}
