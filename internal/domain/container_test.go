package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerProgressMatchesRecomputation(t *testing.T) {
	c := NewContainer(1, 100)

	adds := []Refined{
		{Value: 7, Feel: FeelWoe},
		{Value: 3, Feel: FeelFrolic},
		{Value: 10, Feel: FeelDread},
		{Value: 1, Feel: FeelMalice},
	}
	for _, v := range adds {
		require.NoError(t, c.Add(v))
	}

	recomputed := 0
	for _, v := range c.Values() {
		recomputed += v.Value
	}

	assert.Equal(t, recomputed, c.Total())
	assert.InDelta(t, float64(recomputed)/100.0, c.Progress(), 1e-9)
}

func TestContainerAddClampsAtCapacity(t *testing.T) {
	c := NewContainer(2, 10)

	require.NoError(t, c.Add(Refined{Value: 8, Feel: FeelWoe}))
	require.NoError(t, c.Add(Refined{Value: 8, Feel: FeelFrolic}))

	assert.Equal(t, 10, c.Total())
	assert.True(t, c.Full())
	assert.InDelta(t, 1.0, c.Progress(), 1e-9)

	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, 2, last.Value, "overflowing add stores the clamped remainder")
}

func TestContainerAddRejectedWhenFull(t *testing.T) {
	c := NewContainer(3, 5)
	require.NoError(t, c.Add(Refined{Value: 5, Feel: FeelDread}))

	err := c.Add(Refined{Value: 1, Feel: FeelMalice})

	assert.ErrorIs(t, err, ErrContainerFull)
	assert.Equal(t, 5, c.Total())
	assert.Len(t, c.Values(), 1)
}

func TestContainerAddIgnoresNonPositiveValues(t *testing.T) {
	c := NewContainer(4, 100)

	require.NoError(t, c.Add(Refined{Value: 0, Feel: FeelWoe}))
	require.NoError(t, c.Add(Refined{Value: -3, Feel: FeelWoe}))

	assert.Empty(t, c.Values())
	assert.Zero(t, c.Total())
}

func TestContainerResetIsIdempotent(t *testing.T) {
	c := NewContainer(5, 100)
	require.NoError(t, c.Add(Refined{Value: 9, Feel: FeelFrolic}))

	c.Reset()
	once := *c

	c.Reset()

	assert.Equal(t, once.Total(), c.Total())
	assert.Empty(t, c.Values())
	assert.Zero(t, c.Progress())
	assert.False(t, c.Full())
}

func TestContainerLastReflectsInsertionOrder(t *testing.T) {
	c := NewContainer(1, 100)

	_, ok := c.Last()
	assert.False(t, ok)

	require.NoError(t, c.Add(Refined{Value: 2, Feel: FeelWoe}))
	require.NoError(t, c.Add(Refined{Value: 4, Feel: FeelMalice}))

	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, Refined{Value: 4, Feel: FeelMalice}, last)
}
