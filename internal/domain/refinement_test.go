package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRefinement(seed uint64) *Refinement {
	return NewRefinement(5, 100, 5, NewValueSource(seed))
}

func totals(r *Refinement) []int {
	out := make([]int, 0, len(r.Containers()))
	for _, c := range r.Containers() {
		out = append(out, c.Total())
	}
	return out
}

func fill(t *testing.T, r *Refinement) {
	t.Helper()
	for _, c := range r.Containers() {
		for !c.Full() {
			require.NoError(t, r.AddBatch(c.ID()))
		}
	}
}

func TestRefinementStartsLoading(t *testing.T) {
	r := newTestRefinement(1)

	assert.Equal(t, PhaseLoading, r.Phase())
	assert.Zero(t, r.LoadingProgress())
}

func TestRefinementActivateEndsWarmUp(t *testing.T) {
	r := newTestRefinement(1)

	r.Activate()

	assert.Equal(t, PhaseActive, r.Phase())

	// Activate is a no-op in every other phase.
	require.NoError(t, r.BeginReset())
	r.Activate()
	assert.Equal(t, PhaseResetting, r.Phase())
}

func TestRefinementWarmUpCompletesByTicking(t *testing.T) {
	r := newTestRefinement(3)

	for i := 0; i < 10_000 && r.Phase() == PhaseLoading; i++ {
		r.Tick()
	}

	assert.Equal(t, PhaseActive, r.Phase())
	assert.InDelta(t, 100, r.LoadingProgress(), 1e-9)
}

func TestRefinementCommandsDiscardedWhileLoading(t *testing.T) {
	r := newTestRefinement(4)
	before := totals(r)

	assert.ErrorIs(t, r.AddBatch(1), ErrNotActive)
	assert.ErrorIs(t, r.AddRandomBatch(), ErrNotActive)
	assert.ErrorIs(t, r.Deposit(12), ErrNotActive)
	assert.ErrorIs(t, r.BeginReset(), ErrNotActive)

	assert.Equal(t, before, totals(r))
	assert.Equal(t, PhaseLoading, r.Phase())
}

func TestRefinementCommandsDiscardedWhileResetting(t *testing.T) {
	r := newTestRefinement(5)
	r.Activate()
	require.NoError(t, r.BeginReset())
	before := totals(r)

	assert.ErrorIs(t, r.AddBatch(2), ErrNotActive)
	assert.ErrorIs(t, r.AddRandomBatch(), ErrNotActive)

	assert.Equal(t, before, totals(r))
}

func TestRefinementAddBatchTargetsExactlyOneContainer(t *testing.T) {
	for id := 1; id <= 5; id++ {
		r := newTestRefinement(uint64(id))
		r.Activate()

		require.NoError(t, r.AddBatch(id))

		for _, c := range r.Containers() {
			if c.ID() == id {
				assert.Equal(t, r.BatchSize(), c.Total())
			} else {
				assert.Zero(t, c.Total())
			}
		}
	}
}

func TestRefinementFourPressesReachTwentyUnits(t *testing.T) {
	r := newTestRefinement(6)
	r.Activate()

	for range 4 {
		require.NoError(t, r.AddBatch(1))
	}

	bin, ok := r.Container(1)
	require.True(t, ok)
	assert.Equal(t, 20, bin.Total())
	assert.InDelta(t, 0.2, bin.Progress(), 1e-9)
}

func TestRefinementAddBatchUnknownContainer(t *testing.T) {
	r := newTestRefinement(7)
	r.Activate()

	assert.ErrorIs(t, r.AddBatch(0), ErrNoSuchContainer)
	assert.ErrorIs(t, r.AddBatch(6), ErrNoSuchContainer)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, totals(r))
}

func TestRefinementRandomBatchesLandUniformly(t *testing.T) {
	r := NewRefinement(5, 1_000_000, 5, NewValueSource(8))
	r.Activate()

	const presses = 10_000
	for range presses {
		require.NoError(t, r.AddRandomBatch())
	}

	expected := float64(presses*r.BatchSize()) / 5
	for _, c := range r.Containers() {
		assert.InDelta(t, expected, float64(c.Total()), expected*0.05,
			"container %d holds %d units", c.ID(), c.Total())
	}
}

func TestRefinementResetIsTransientSingleTick(t *testing.T) {
	r := newTestRefinement(9)
	r.Activate()
	require.NoError(t, r.AddBatch(3))

	require.NoError(t, r.BeginReset())
	assert.Equal(t, PhaseResetting, r.Phase())
	assert.Equal(t, []int{0, 0, 0, 0, 0}, totals(r))

	r.Tick()
	assert.Equal(t, PhaseActive, r.Phase())
}

func TestRefinementDepositSkipsFullContainers(t *testing.T) {
	r := NewRefinement(2, 10, 5, NewValueSource(10))
	r.Activate()

	first, _ := r.Container(1)
	for !first.Full() {
		require.NoError(t, r.AddBatch(1))
	}

	require.NoError(t, r.Deposit(7))

	second, _ := r.Container(2)
	assert.Equal(t, 7, second.Total())
	assert.Equal(t, 10, first.Total())

	// Every bin full: deposit becomes a no-op.
	for !second.Full() {
		require.NoError(t, r.AddBatch(2))
	}
	require.NoError(t, r.Deposit(3))
	assert.Equal(t, 10, first.Total())
	assert.Equal(t, 10, second.Total())
}

func TestRefinementCompletionLeadsToPrize(t *testing.T) {
	r := newTestRefinement(11)
	r.Activate()
	fill(t, r)

	for range completeHoldTicks {
		assert.Equal(t, PhaseActive, r.Phase())
		r.Tick()
	}

	assert.Equal(t, PhaseComplete, r.Phase())
	assert.Contains(t, Prizes, r.Prize())
}

func TestRefinementCompletionHoldResetsWhenBinsEmpty(t *testing.T) {
	r := newTestRefinement(12)
	r.Activate()
	fill(t, r)

	r.Tick()
	r.Tick()
	require.NoError(t, r.BeginReset())
	r.Tick() // Resetting -> Active

	for range completeHoldTicks {
		r.Tick()
	}

	assert.Equal(t, PhaseActive, r.Phase(), "hold counter must restart after reset")
}

func TestRefinementClaimPrizeReturnsToActive(t *testing.T) {
	r := newTestRefinement(13)
	r.Activate()
	fill(t, r)
	for r.Phase() != PhaseComplete {
		r.Tick()
	}

	r.ClaimPrize()

	assert.Equal(t, PhaseActive, r.Phase())
	assert.Equal(t, []int{0, 0, 0, 0, 0}, totals(r))

	// Idempotent outside Complete.
	r.ClaimPrize()
	assert.Equal(t, PhaseActive, r.Phase())
}
