package twotsp

import (
	"fmt"
	"math"
)

// Objective scores a candidate break of the tour. Lower is better.
type Objective int

const (
	// Bottleneck is the longer of the two routes.
	Bottleneck Objective = iota
	// BalancedIncrease is the length difference of the two routes plus the
	// detour added by the extra depot visit.
	BalancedIncrease
)

func (o Objective) String() string {
	switch o {
	case Bottleneck:
		return "bottleneck"
	case BalancedIncrease:
		return "balanced-increase"
	default:
		return fmt.Sprintf("Objective(%d)", int(o))
	}
}

// ParseObjective maps the names produced by Objective.String back.
func ParseObjective(s string) (Objective, error) {
	switch s {
	case "", "bottleneck":
		return Bottleneck, nil
	case "balanced-increase", "balanced":
		return BalancedIncrease, nil
	}
	return 0, fmt.Errorf("unknown split objective %q", s)
}

func (o Objective) score(route1, route2, increase int) int {
	if o == BalancedIncrease {
		diff := route1 - route2
		if diff < 0 {
			diff = -diff
		}
		return diff + increase
	}
	if route1 > route2 {
		return route1
	}
	return route2
}

// SplitOption configures Split.
type SplitOption func(*splitConfig)

type splitConfig struct {
	objective Objective
}

// WithObjective selects the score minimized over candidate breaks.
func WithObjective(o Objective) SplitOption {
	return func(c *splitConfig) { c.objective = o }
}

// SplitResult is the outcome of breaking one tour into two depot round trips.
type SplitResult struct {
	Route1       []int `json:"route1"`
	Route2       []int `json:"route2"`
	Route1Length int   `json:"route1_length"`
	Route2Length int   `json:"route2_length"`
	TourLength   int   `json:"tsp_length"`
	// Route is the rotated tour with the depot inserted after BreakAfter,
	// closed back to the depot.
	Route      []int `json:"route"`
	BreakAfter int   `json:"break_after"`
	Split      bool  `json:"split"`
}

// Bottleneck returns the longer of the two route lengths.
func (r SplitResult) Bottleneck() int {
	if r.Route1Length > r.Route2Length {
		return r.Route1Length
	}
	return r.Route2Length
}

// Split breaks tour into two round trips through depot by replacing a single
// tour edge (a, b) with the arcs (a, depot) and (depot, b). Edges touching
// the depot are not candidates. The first candidate with the lowest score
// wins.
//
// A tour without candidates (two cities) is returned unsplit: Route1 is the
// closed tour, Route2 is empty and Split is false.
func Split(inst *Instance, tour Tour, depot int, opts ...SplitOption) (SplitResult, error) {
	cfg := splitConfig{objective: Bottleneck}
	for _, opt := range opts {
		opt(&cfg)
	}
	if _, ok := inst.index[depot]; !ok {
		return SplitResult{}, fmt.Errorf("%w: depot %d", ErrUnknownCity, depot)
	}
	if err := tour.Validate(inst); err != nil {
		return SplitResult{}, err
	}
	rotated, err := tour.RotateToStart(depot)
	if err != nil {
		return SplitResult{}, err
	}

	pos := make([]int, len(rotated))
	for k, id := range rotated {
		pos[k] = inst.index[id]
	}
	dep := pos[0]
	total := inst.pathLength(rotated, true)

	brk, best := -1, math.MaxInt
	var len1, len2 int
	prefix := 0 // L(c_k)
	for k := 1; k+1 < len(pos); k++ {
		prefix += inst.at(pos[k-1], pos[k])
		a, b := pos[k], pos[k+1]
		r1 := prefix + inst.at(a, dep)
		r2 := total - prefix - inst.at(a, b) + inst.at(dep, b)
		increase := inst.at(a, dep) + inst.at(dep, b) - inst.at(a, b)
		if s := cfg.objective.score(r1, r2, increase); s < best {
			brk, best = k, s
			len1, len2 = r1, r2
		}
	}

	if brk < 0 {
		return SplitResult{
			Route1:       rotated.Closed(),
			Route2:       []int{},
			Route1Length: total,
			TourLength:   total,
			Route:        rotated.Closed(),
		}, nil
	}

	route1 := make([]int, 0, brk+2)
	route1 = append(route1, rotated[:brk+1]...)
	route1 = append(route1, depot)

	route2 := make([]int, 0, len(rotated)-brk+1)
	route2 = append(route2, depot)
	route2 = append(route2, rotated[brk+1:]...)
	route2 = append(route2, depot)

	route := make([]int, 0, len(rotated)+2)
	route = append(route, route1...)
	route = append(route, route2[1:]...)

	return SplitResult{
		Route1:       route1,
		Route2:       route2,
		Route1Length: len1,
		Route2Length: len2,
		TourLength:   total,
		Route:        route,
		BreakAfter:   rotated[brk],
		Split:        true,
	}, nil
}
