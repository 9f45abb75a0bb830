package twotsp

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstanceErrors(t *testing.T) {
	tests := []struct {
		name   string
		cities []City
	}{
		{"empty", nil},
		{"single", []City{{ID: 1}}},
		{"duplicate", []City{{ID: 1}, {ID: 2, X: 1}, {ID: 1, Y: 2}}},
		{"nan", []City{{ID: 1}, {ID: 2, X: math.NaN()}}},
		{"inf", []City{{ID: 1}, {ID: 2, Y: math.Inf(-1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := NewInstance(tt.cities)
			assert.ErrorIs(t, err, ErrInvalidInstance)
			assert.Nil(t, inst)
		})
	}
}

func TestNewInstanceFromMatrixErrors(t *testing.T) {
	tests := []struct {
		name    string
		ids     []int
		weights [][]int
	}{
		{"rows", []int{1, 2}, [][]int{{0, 1}}},
		{"cols", []int{1, 2}, [][]int{{0, 1}, {1}}},
		{"diagonal", []int{1, 2}, [][]int{{1, 1}, {1, 0}}},
		{"negative", []int{1, 2}, [][]int{{0, -1}, {1, 0}}},
		{"duplicate", []int{1, 1}, [][]int{{0, 1}, {1, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInstanceFromMatrix(tt.ids, tt.weights)
			assert.ErrorIs(t, err, ErrInvalidInstance)
		})
	}
}

func TestInstanceLookups(t *testing.T) {
	cities := burma14()
	inst, err := NewInstance(cities)
	require.NoError(t, err)

	assert.Equal(t, 14, inst.Len())
	assert.Equal(t, cities, inst.Cities())

	c, ok := inst.City(13)
	require.True(t, ok)
	assert.Equal(t, cities[13], c)
	_, ok = inst.City(99)
	assert.False(t, ok)

	i, ok := inst.Index(7)
	require.True(t, ok)
	assert.Equal(t, 7, i)

	d, err := inst.Distance(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 153, d)
	d, err = inst.Distance(5, 5)
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = inst.Distance(0, 99)
	assert.ErrorIs(t, err, ErrUnknownCity)
	_, err = inst.Distance(-1, 0)
	assert.ErrorIs(t, err, ErrUnknownCity)
}

func TestInstanceCitiesIsACopy(t *testing.T) {
	inst := burmaInstance(t, 3)
	cities := inst.Cities()
	cities[0].X = 0
	c, _ := inst.City(0)
	assert.Equal(t, 16.47, c.X)
}

func TestInstanceArcs(t *testing.T) {
	inst := fiveCities(t)
	arcs := inst.Arcs()
	require.Len(t, arcs, 20)
	assert.Equal(t, Arc{From: 0, To: 1, Distance: 3}, arcs[0])
	assert.Equal(t, Arc{From: 4, To: 3, Distance: 6}, arcs[19])
	for _, a := range arcs {
		assert.NotEqual(t, a.From, a.To)
		d, err := inst.Distance(a.From, a.To)
		require.NoError(t, err)
		assert.Equal(t, d, a.Distance)
	}
}

func TestInstanceTourLength(t *testing.T) {
	inst := fiveCities(t)
	length, err := inst.TourLength(Tour{0, 3, 2, 1, 4})
	require.NoError(t, err)
	assert.Equal(t, 21, length)

	_, err = inst.TourLength(Tour{0, 3, 2, 1})
	assert.ErrorIs(t, err, ErrInvalidTour)
}

func TestInstanceConcurrentReaders(t *testing.T) {
	inst := burmaInstance(t, 14)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := 0; a < 14; a++ {
				for b := 0; b < 14; b++ {
					_, _ = inst.Distance(a, b)
				}
			}
		}()
	}
	wg.Wait()
}
