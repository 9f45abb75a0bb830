package milp

import (
	"context"
	"fmt"
)

// Status is the terminal state of a solve.
type Status int

const (
	// StatusOptimal: X holds a proven optimal assignment.
	StatusOptimal Status = iota
	// StatusInfeasible: no assignment satisfies the model.
	StatusInfeasible
	// StatusUnbounded: the objective can improve without limit.
	StatusUnbounded
	// StatusLimit: the solve stopped early. X holds the best assignment
	// found so far, if any.
	StatusLimit
	// StatusError: the backend failed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusLimit:
		return "limit"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is what a Solver reports back. X is indexed like Model.Vars.
type Result struct {
	Status    Status
	Objective float64
	X         []float64
	Nodes     int
}

// Solver optimizes a Model. Implementations must not modify the model.
type Solver interface {
	Solve(ctx context.Context, m *Model) (Result, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(ctx context.Context, m *Model) (Result, error)

func (f SolverFunc) Solve(ctx context.Context, m *Model) (Result, error) { return f(ctx, m) }
