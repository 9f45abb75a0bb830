package twotsp

import (
	"context"
	"fmt"
	"time"

	"git.solver4all.com/azaryc2s/twotsp/internal/logging"
	"git.solver4all.com/azaryc2s/twotsp/milp"
)

// successorThreshold is the value above which an assignment variable counts
// as a used arc.
const successorThreshold = 0.9

// ExactOption configures an ExactSolver.
type ExactOption func(*ExactSolver)

// WithWarmStart hands the greedy tour to the backend as a start solution.
func WithWarmStart(on bool) ExactOption {
	return func(s *ExactSolver) { s.warmStart = on }
}

// WithLogger sets the logger used for model and solve reports.
func WithLogger(l logging.Logger) ExactOption {
	return func(s *ExactSolver) { s.log = l }
}

// ExactSolver finds optimal tours through the Miller-Tucker-Zemlin
// formulation solved by a milp.Solver.
type ExactSolver struct {
	backend   milp.Solver
	warmStart bool
	log       logging.Logger
}

// NewExactSolver returns a solver that hands tour models to backend.
func NewExactSolver(backend milp.Solver, opts ...ExactOption) *ExactSolver {
	s := &ExactSolver{backend: backend, log: logging.Noop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Noop()
	}
	return s
}

// Solve returns an optimal tour of inst starting at depot and its length.
//
// Backend outcomes other than an optimal solution are reported as
// ErrInfeasible, ErrUnbounded or ErrSolver.
func (s *ExactSolver) Solve(ctx context.Context, inst *Instance, depot int) (Tour, int, error) {
	dep, ok := inst.index[depot]
	if !ok {
		return nil, 0, fmt.Errorf("%w: depot %d", ErrUnknownCity, depot)
	}
	if s.backend == nil {
		return nil, 0, fmt.Errorf("%w: no backend", ErrSolver)
	}

	model := BuildTourModel(inst, depot)
	if s.warmStart {
		if greedy, err := GreedyTour(inst, depot); err == nil {
			model.Start = tourStart(inst, dep, greedy)
		}
	}
	s.log.Debug(ctx, "tour model built",
		logging.Int("cities", inst.Len()),
		logging.Int("vars", model.NumVars()),
		logging.Int("constrs", model.NumConstrs()),
		logging.Bool("warm_start", model.Start != nil))

	startTime := time.Now()
	res, err := s.backend.Solve(ctx, model)
	s.log.Info(ctx, "tour model solved",
		logging.String("status", res.Status.String()),
		logging.Float("objective", res.Objective),
		logging.Int("nodes", res.Nodes),
		logging.Duration("elapsed", time.Since(startTime)))

	switch {
	case res.Status == milp.StatusInfeasible:
		return nil, 0, ErrInfeasible
	case res.Status == milp.StatusUnbounded:
		return nil, 0, ErrUnbounded
	case err != nil:
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrSolver, res.Status, err)
	case res.Status != milp.StatusOptimal:
		return nil, 0, fmt.Errorf("%w: backend stopped with status %s", ErrSolver, res.Status)
	}

	tour, err := decodeTour(inst, dep, res.X)
	if err != nil {
		return nil, 0, err
	}
	return tour, inst.pathLength(tour, true), nil
}

// BuildTourModel returns the MTZ model of inst. Variable assign_i_j (arc
// from position i to position j) sits at GetArcIndex(i, j, n, 0); rank
// variables of the non-depot cities follow in instance order.
func BuildTourModel(inst *Instance, depot int) *milp.Model {
	n := inst.Len()
	dep := inst.index[depot]
	model := milp.NewModel("twotsp", milp.Minimize)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			model.AddVar(fmt.Sprintf("assign_%d_%d", inst.cities[i].ID, inst.cities[j].ID),
				milp.Binary, 0, 1, float64(inst.at(i, j)))
		}
	}
	rank := make([]int, n)
	for i := 0; i < n; i++ {
		rank[i] = -1
		if i == dep {
			continue
		}
		rank[i] = model.AddVar(fmt.Sprintf("rank_%d", inst.cities[i].ID), milp.Continuous, 0, float64(n-1), 0)
	}

	// leave and enter every city exactly once
	for i := 0; i < n; i++ {
		var (
			out, in []int
			val     []float64
		)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			out = append(out, GetArcIndex(i, j, n, 0))
			in = append(in, GetArcIndex(j, i, n, 0))
			val = append(val, 1.0)
		}
		model.AddConstr(out, val, milp.Equal, 1, fmt.Sprintf("leave_%d", inst.cities[i].ID))
		model.AddConstr(in, val, milp.Equal, 1, fmt.Sprintf("enter_%d", inst.cities[i].ID))
	}

	// rank[i] - rank[j] + n*assign[i,j] <= n-1
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || i == dep || j == dep {
				continue
			}
			model.AddConstr(
				[]int{rank[i], rank[j], GetArcIndex(i, j, n, 0)},
				[]float64{1, -1, float64(n)},
				milp.LessEqual, float64(n-1),
				fmt.Sprintf("mtz_%d_%d", inst.cities[i].ID, inst.cities[j].ID))
		}
	}
	return model
}

// tourStart encodes tour as a full assignment of the tour model.
func tourStart(inst *Instance, dep int, tour Tour) []float64 {
	n := inst.Len()
	x := make([]float64, n*(n-1)+n-1)
	rotated, err := tour.RotateToStart(inst.cities[dep].ID)
	if err != nil {
		return nil
	}
	rankAt := n * (n - 1)
	pos := make([]int, n)
	for k, id := range rotated {
		pos[inst.index[id]] = k
	}
	for k := range rotated {
		i := inst.index[rotated[k]]
		j := inst.index[rotated[(k+1)%n]]
		x[GetArcIndex(i, j, n, 0)] = 1
	}
	for i := 0; i < n; i++ {
		if i == dep {
			continue
		}
		x[rankAt] = float64(pos[i])
		rankAt++
	}
	return x
}

// decodeTour follows the chosen arcs from the depot.
func decodeTour(inst *Instance, dep int, x []float64) (Tour, error) {
	n := inst.Len()
	if len(x) < n*(n-1) {
		return nil, fmt.Errorf("%w: solution has %d values, want at least %d", ErrSolver, len(x), n*(n-1))
	}
	succ := make([]int, n)
	for i := 0; i < n; i++ {
		succ[i] = -1
		for j := 0; j < n; j++ {
			if i == j || x[GetArcIndex(i, j, n, 0)] <= successorThreshold {
				continue
			}
			if succ[i] >= 0 {
				return nil, fmt.Errorf("%w: city %d has several successors", ErrSolver, inst.cities[i].ID)
			}
			succ[i] = j
		}
		if succ[i] < 0 {
			return nil, fmt.Errorf("%w: city %d has no successor", ErrSolver, inst.cities[i].ID)
		}
	}

	tour := make(Tour, 0, n)
	seen := make([]bool, n)
	for c := dep; len(tour) < n; c = succ[c] {
		if seen[c] {
			return nil, fmt.Errorf("%w: subtour of %d cities through %d", ErrSolver, len(tour), inst.cities[dep].ID)
		}
		seen[c] = true
		tour = append(tour, inst.cities[c].ID)
	}
	if succ[inst.index[tour[n-1]]] != dep {
		return nil, fmt.Errorf("%w: tour does not return to the depot", ErrSolver)
	}
	return tour, nil
}
