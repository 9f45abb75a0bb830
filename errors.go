package twotsp

import "errors"

var (
	// ErrInvalidInstance is returned when an Instance cannot be built from the
	// supplied cities or weights (too few cities, duplicate ids, bad matrix).
	ErrInvalidInstance = errors.New("twotsp: invalid instance")

	// ErrUnknownCity is returned when a city id is not part of the Instance.
	ErrUnknownCity = errors.New("twotsp: unknown city")

	// ErrInvalidTour is returned when a tour is not a Hamiltonian cycle over
	// the cities of the Instance.
	ErrInvalidTour = errors.New("twotsp: invalid tour")

	// ErrInfeasible is returned when the MILP backend proves the tour model
	// has no solution.
	ErrInfeasible = errors.New("twotsp: tour model is infeasible")

	// ErrUnbounded is returned when the MILP backend reports an unbounded
	// relaxation.
	ErrUnbounded = errors.New("twotsp: tour model is unbounded")

	// ErrSolver covers every other non-success outcome of the MILP backend,
	// including solutions that do not decode into a single cycle.
	ErrSolver = errors.New("twotsp: solver error")

	// ErrUnknownAlgorithm is returned for a tour algorithm name that is
	// neither "exact" nor "greedy".
	ErrUnknownAlgorithm = errors.New("twotsp: unknown algorithm")
)
