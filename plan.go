package twotsp

import (
	"context"
	"fmt"
	"strings"
)

// Tour algorithms understood by Planner.
const (
	AlgorithmExact  = "exact"
	AlgorithmGreedy = "greedy"
)

// Plan is a tour together with its two-vehicle split.
type Plan struct {
	Algorithm string
	Tour      Tour
	// Optimal is set when the tour was proven optimal by the exact solver.
	Optimal bool
	Split   SplitResult
}

// Planner builds tours with the requested algorithm and splits them at the
// depot.
type Planner struct {
	// Exact serves AlgorithmExact. A nil Exact rejects exact requests.
	Exact     *ExactSolver
	Objective Objective
}

// Tour returns a tour of inst starting at depot.
func (p *Planner) Tour(ctx context.Context, inst *Instance, depot int, algorithm string) (Tour, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	switch strings.ToLower(algorithm) {
	case AlgorithmExact:
		if p.Exact == nil {
			return nil, false, fmt.Errorf("%w: exact solver not configured", ErrSolver)
		}
		tour, _, err := p.Exact.Solve(ctx, inst, depot)
		if err != nil {
			return nil, false, err
		}
		return tour, true, nil
	case AlgorithmGreedy, "":
		tour, err := GreedyTour(inst, depot)
		return tour, false, err
	default:
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// Plan builds a tour of inst and splits it into two depot routes.
func (p *Planner) Plan(ctx context.Context, inst *Instance, depot int, algorithm string) (Plan, error) {
	tour, optimal, err := p.Tour(ctx, inst, depot, algorithm)
	if err != nil {
		return Plan{}, err
	}
	res, err := Split(inst, tour, depot, WithObjective(p.Objective))
	if err != nil {
		return Plan{}, err
	}
	if algorithm == "" {
		algorithm = AlgorithmGreedy
	}
	return Plan{
		Algorithm: strings.ToLower(algorithm),
		Tour:      tour,
		Optimal:   optimal,
		Split:     res,
	}, nil
}
