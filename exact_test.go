package twotsp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.solver4all.com/azaryc2s/twotsp/milp"
)

func TestBuildTourModelShape(t *testing.T) {
	inst := fiveCities(t)
	m := BuildTourModel(inst, 0)
	require.NoError(t, m.Validate())

	// 20 arcs and 4 ranks, 10 degree rows and 12 ordering rows
	assert.Equal(t, 24, m.NumVars())
	assert.Equal(t, 22, m.NumConstrs())
	assert.Equal(t, "assign_0_1", m.Vars[GetArcIndex(0, 1, 5, 0)].Name)
	assert.Equal(t, "assign_4_3", m.Vars[GetArcIndex(4, 3, 5, 0)].Name)
	assert.Equal(t, 6.0, m.Vars[GetArcIndex(4, 3, 5, 0)].Obj)
	assert.Equal(t, milp.Binary, m.Vars[0].Type)
	assert.Equal(t, "rank_1", m.Vars[20].Name)
	assert.Equal(t, milp.Continuous, m.Vars[20].Type)
}

func TestTourStartIsFeasible(t *testing.T) {
	inst := burmaInstance(t, 8)
	for _, depot := range []int{0, 3} {
		m := BuildTourModel(inst, depot)
		tour, err := GreedyTour(inst, depot)
		require.NoError(t, err)
		dep, _ := inst.Index(depot)
		x := tourStart(inst, dep, tour)
		assert.True(t, m.Feasible(x, 1e-9))

		decoded, err := decodeTour(inst, dep, x)
		require.NoError(t, err)
		assert.Equal(t, tour, decoded)

		length, err := inst.TourLength(tour)
		require.NoError(t, err)
		assert.InDelta(t, float64(length), m.Objective(x), 1e-9)
	}
}

func TestExactSolverMatchesBruteForce(t *testing.T) {
	instances := map[string]*Instance{
		"matrix":  fiveCities(t),
		"burma5":  burmaInstance(t, 5),
		"burma6":  burmaInstance(t, 6),
		"twocity": burmaInstance(t, 2),
	}
	for name, inst := range instances {
		t.Run(name, func(t *testing.T) {
			solver := NewExactSolver(&milp.BranchAndBound{})
			tour, length, err := solver.Solve(context.Background(), inst, 0)
			require.NoError(t, err)
			requirePermutation(t, inst, tour)
			assert.Equal(t, 0, tour[0])
			assert.Equal(t, bruteForce(inst), length)

			greedy, err := GreedyTour(inst, 0)
			require.NoError(t, err)
			greedyLength, err := inst.TourLength(greedy)
			require.NoError(t, err)
			assert.LessOrEqual(t, length, greedyLength)
		})
	}
}

func TestExactSolverWarmStart(t *testing.T) {
	inst := burmaInstance(t, 6)
	var start []float64
	backend := milp.SolverFunc(func(ctx context.Context, m *milp.Model) (milp.Result, error) {
		start = m.Start
		return (&milp.BranchAndBound{}).Solve(ctx, m)
	})
	tour, length, err := NewExactSolver(backend, WithWarmStart(true)).Solve(context.Background(), inst, 2)
	require.NoError(t, err)
	require.NotNil(t, start)
	assert.Equal(t, 2, tour[0])
	assert.Equal(t, 2336, length)
}

func TestExactSolverEveryDepot(t *testing.T) {
	inst := burmaInstance(t, 6)
	want := bruteForce(inst)
	for _, depot := range inst.IDs() {
		t.Run(fmt.Sprintf("depot %d", depot), func(t *testing.T) {
			solver := NewExactSolver(&milp.BranchAndBound{}, WithWarmStart(depot%2 == 0))
			tour, length, err := solver.Solve(context.Background(), inst, depot)
			require.NoError(t, err)
			requirePermutation(t, inst, tour)
			assert.Equal(t, depot, tour[0])
			assert.Equal(t, want, length)
		})
	}
}

func TestExactSolverDeadline(t *testing.T) {
	inst, err := NewInstance(burma14())
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err = NewExactSolver(&milp.BranchAndBound{}).Solve(ctx, inst, 0)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.ErrorIs(t, err, ErrSolver)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExactSolverStatusMapping(t *testing.T) {
	inst := fiveCities(t)
	boom := errors.New("boom")
	tests := []struct {
		name string
		res  milp.Result
		err  error
		want error
	}{
		{"infeasible", milp.Result{Status: milp.StatusInfeasible}, nil, ErrInfeasible},
		{"unbounded", milp.Result{Status: milp.StatusUnbounded}, nil, ErrUnbounded},
		{"limit", milp.Result{Status: milp.StatusLimit}, nil, ErrSolver},
		{"error", milp.Result{Status: milp.StatusError}, boom, boom},
		{"optimal without values", milp.Result{Status: milp.StatusOptimal}, nil, ErrSolver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := milp.SolverFunc(func(context.Context, *milp.Model) (milp.Result, error) {
				return tt.res, tt.err
			})
			_, _, err := NewExactSolver(backend).Solve(context.Background(), inst, 0)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExactSolverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewExactSolver(&milp.BranchAndBound{}).Solve(ctx, burmaInstance(t, 5), 0)
	assert.ErrorIs(t, err, ErrSolver)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExactSolverUnknownDepot(t *testing.T) {
	_, _, err := NewExactSolver(&milp.BranchAndBound{}).Solve(context.Background(), fiveCities(t), 9)
	assert.ErrorIs(t, err, ErrUnknownCity)
}

func TestDecodeTourRejectsSubtours(t *testing.T) {
	inst := fiveCities(t)
	x := make([]float64, 24)
	// 0 -> 1 -> 0 and 2 -> 3 -> 4 -> 2
	for _, arc := range [][2]int{{0, 1}, {1, 0}, {2, 3}, {3, 4}, {4, 2}} {
		x[GetArcIndex(arc[0], arc[1], 5, 0)] = 1
	}
	_, err := decodeTour(inst, 0, x)
	assert.ErrorIs(t, err, ErrSolver)

	x = make([]float64, 24)
	for _, arc := range [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 4}, {3, 0}} {
		x[GetArcIndex(arc[0], arc[1], 5, 0)] = 1
	}
	_, err = decodeTour(inst, 0, x)
	assert.ErrorIs(t, err, ErrSolver)
}
