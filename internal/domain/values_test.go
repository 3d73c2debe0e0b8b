package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSourceNextStaysInBounds(t *testing.T) {
	s := NewValueSource(1)

	for range 1_000 {
		v := s.Next()
		assert.GreaterOrEqual(t, v.Value, MinValue)
		assert.LessOrEqual(t, v.Value, MaxValue)
		assert.Contains(t, Feels, v.Feel)
	}
}

func TestValueSourceBatchTotalsExactlyRequestedUnits(t *testing.T) {
	s := NewValueSource(2)

	for _, units := range []int{1, 5, 17, 100} {
		batch := s.Batch(units)
		total := 0
		for _, v := range batch {
			total += v.Value
			assert.GreaterOrEqual(t, v.Value, MinValue)
			assert.LessOrEqual(t, v.Value, MaxValue)
		}
		assert.Equal(t, units, total)
	}

	assert.Empty(t, s.Batch(0))
}

func TestValueSourceDeterministicUnderSeed(t *testing.T) {
	a := NewValueSource(42)
	b := NewValueSource(42)

	assert.Equal(t, a.Batch(32), b.Batch(32))
	assert.Equal(t, a.PickContainer(5), b.PickContainer(5))
	assert.Equal(t, a.Prize(), b.Prize())
}

func TestValueSourcePickContainerIsRoughlyUniform(t *testing.T) {
	const (
		bins  = 5
		draws = 50_000
	)
	s := NewValueSource(7)

	counts := make(map[int]int, bins)
	for range draws {
		id := s.PickContainer(bins)
		require.GreaterOrEqual(t, id, 1)
		require.LessOrEqual(t, id, bins)
		counts[id]++
	}

	// Each bin expects draws/bins picks; allow 5% relative deviation,
	// far looser than the binomial standard deviation at this sample size.
	expected := float64(draws) / bins
	for id := 1; id <= bins; id++ {
		assert.InDelta(t, expected, float64(counts[id]), expected*0.05,
			"container %d drawn %d times", id, counts[id])
	}
}

func TestValueSourceLoadingIncrementBounds(t *testing.T) {
	s := NewValueSource(9)

	for range 1_000 {
		inc := s.LoadingIncrement()
		assert.GreaterOrEqual(t, inc, 0.0)
		assert.Less(t, inc, 13.0)
	}
}

func TestValueSourcePrizeComesFromCatalog(t *testing.T) {
	s := NewValueSource(11)

	for range 100 {
		assert.Contains(t, Prizes, s.Prize())
	}
}
