package twotsp

import (
	"fmt"
	"math"
)

// GreedyTour builds an approximate tour by nearest fragment insertion and
// returns it rotated to begin at depot.
//
// The path is seeded with the shortest arc of the instance. At every step the
// unplaced city closest to any placed city joins the path, spliced between
// the adjacent pair where it adds the least length. The finished path is
// closed into a cycle.
func GreedyTour(inst *Instance, depot int) (Tour, error) {
	if _, ok := inst.index[depot]; !ok {
		return nil, fmt.Errorf("%w: depot %d", ErrUnknownCity, depot)
	}
	n := inst.Len()

	// seed: shortest arc, lowest index pair on ties
	si, sj, best := 0, 1, math.MaxInt
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && inst.at(i, j) < best {
				si, sj, best = i, j, inst.at(i, j)
			}
		}
	}

	placed := make([]bool, n)
	key := make([]int, n) // shortest arc between k and any placed city
	for k := range key {
		key[k] = math.MaxInt
	}
	path := make([]int, 0, n)
	place := func(c int) {
		placed[c] = true
		for k := 0; k < n; k++ {
			if placed[k] {
				continue
			}
			if d := arcBetween(inst, c, k); d < key[k] {
				key[k] = d
			}
		}
	}
	path = append(path, si, sj)
	place(si)
	place(sj)

	for len(path) < n {
		next := -1
		for k := 0; k < n; k++ {
			if !placed[k] && (next < 0 || key[k] < key[next]) {
				next = k
			}
		}
		at := cheapestInsertion(inst, path, next)
		path = append(path, 0)
		copy(path[at+1:], path[at:])
		path[at] = next
		place(next)
	}

	tour := make(Tour, n)
	for k, c := range path {
		tour[k] = inst.cities[c].ID
	}
	return tour.RotateToStart(depot)
}

func arcBetween(inst *Instance, a, b int) int {
	if d, e := inst.at(a, b), inst.at(b, a); e < d {
		return e
	}
	return inst.at(a, b)
}

// cheapestInsertion returns the path position at which c should be inserted:
// between path[at-1] and path[at].
func cheapestInsertion(inst *Instance, path []int, c int) int {
	at, best := 1, math.MaxInt
	for k := 1; k < len(path); k++ {
		pred, succ := path[k-1], path[k]
		delta := inst.at(pred, c) + inst.at(c, succ) - inst.at(pred, succ)
		if delta < best {
			at, best = k, delta
		}
	}
	return at
}
