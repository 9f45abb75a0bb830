package twotsp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// burma14 is the 14-city GEO sample numbered from 0.
func burma14() []City {
	return []City{
		{ID: 0, X: 16.47, Y: 96.10},
		{ID: 1, X: 16.47, Y: 94.44},
		{ID: 2, X: 20.09, Y: 92.54},
		{ID: 3, X: 22.39, Y: 93.37},
		{ID: 4, X: 25.23, Y: 97.24},
		{ID: 5, X: 22.00, Y: 96.05},
		{ID: 6, X: 20.47, Y: 97.02},
		{ID: 7, X: 17.20, Y: 96.29},
		{ID: 8, X: 16.30, Y: 97.38},
		{ID: 9, X: 14.05, Y: 98.12},
		{ID: 10, X: 16.53, Y: 97.38},
		{ID: 11, X: 21.52, Y: 95.59},
		{ID: 12, X: 19.41, Y: 97.13},
		{ID: 13, X: 20.09, Y: 94.55},
	}
}

const burma14Optimum = 3323

// fiveCities is a small symmetric matrix instance with ids 0..4.
func fiveCities(t *testing.T) *Instance {
	t.Helper()
	inst, err := NewInstanceFromMatrix([]int{0, 1, 2, 3, 4}, [][]int{
		{0, 3, 4, 2, 7},
		{3, 0, 4, 6, 3},
		{4, 4, 0, 5, 8},
		{2, 6, 5, 0, 6},
		{7, 3, 8, 6, 0},
	})
	require.NoError(t, err)
	return inst
}

func burmaInstance(t *testing.T, n int) *Instance {
	t.Helper()
	inst, err := NewInstance(burma14()[:n])
	require.NoError(t, err)
	return inst
}

// bruteForce returns the optimal closed tour length by enumerating every
// tour starting at the first city.
func bruteForce(inst *Instance) int {
	n := inst.Len()
	rest := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		rest = append(rest, i)
	}
	best := -1
	var permute func(k int)
	permute = func(k int) {
		if k == len(rest) {
			length := inst.at(0, rest[0]) + inst.at(rest[len(rest)-1], 0)
			for i := 0; i+1 < len(rest); i++ {
				length += inst.at(rest[i], rest[i+1])
			}
			if best < 0 || length < best {
				best = length
			}
			return
		}
		for i := k; i < len(rest); i++ {
			rest[k], rest[i] = rest[i], rest[k]
			permute(k + 1)
			rest[k], rest[i] = rest[i], rest[k]
		}
	}
	permute(0)
	return best
}

func requirePermutation(t *testing.T, inst *Instance, tour Tour) {
	t.Helper()
	require.NoError(t, tour.Validate(inst))
}
