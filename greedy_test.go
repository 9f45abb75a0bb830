package twotsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreedyTourSmallMatrix(t *testing.T) {
	inst := fiveCities(t)
	tour, err := GreedyTour(inst, 0)
	require.NoError(t, err)
	assert.Equal(t, Tour{0, 2, 1, 4, 3}, tour)

	length, err := inst.TourLength(tour)
	require.NoError(t, err)
	assert.Equal(t, 19, length)
}

func TestGreedyTourStartsAtDepot(t *testing.T) {
	inst := fiveCities(t)
	base, err := GreedyTour(inst, 0)
	require.NoError(t, err)
	for _, depot := range []int{1, 2, 3, 4} {
		tour, err := GreedyTour(inst, depot)
		require.NoError(t, err)
		assert.Equal(t, depot, tour[0])
		assert.True(t, EqualModuloRotation(base, tour))
	}
}

func TestGreedyTourBurma(t *testing.T) {
	inst := burmaInstance(t, 14)
	tour, err := GreedyTour(inst, 0)
	require.NoError(t, err)
	requirePermutation(t, inst, tour)
	assert.Equal(t, 0, tour[0])

	length, err := inst.TourLength(tour)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, length, burma14Optimum)
}

func TestGreedyTourTwoCities(t *testing.T) {
	inst := burmaInstance(t, 2)
	tour, err := GreedyTour(inst, 1)
	require.NoError(t, err)
	assert.Equal(t, Tour{1, 0}, tour)
}

func TestGreedyTourUnknownDepot(t *testing.T) {
	_, err := GreedyTour(fiveCities(t), 42)
	assert.ErrorIs(t, err, ErrUnknownCity)
}
