package milp

import (
	"context"
	"errors"
	"fmt"
	"math"
)

const (
	defaultIntTol = 1e-6
	defaultLPTol  = 1e-9
)

// BranchAndBound is a depth-first branch and bound MILP solver. Relaxations
// are solved from scratch with a dense tableau simplex, so it suits small
// models only. The context is checked before every node and every few
// simplex pivots. The zero value is ready to use.
type BranchAndBound struct {
	// NodeLimit stops the search after this many nodes (0: no limit). The
	// result then carries StatusLimit and the best incumbent, if any.
	NodeLimit int
	// IntTol is the integrality tolerance (default 1e-6).
	IntTol float64
	// LPTol is the reduced cost tolerance of the simplex (default 1e-9).
	LPTol float64
}

var _ Solver = (*BranchAndBound)(nil)

// bnbNode is a subproblem: the model with tightened variable bounds.
type bnbNode struct {
	lb, ub []float64
}

type bnbEngine struct {
	m      *Model
	c      []float64 // objective in minimization form
	sign   float64
	intTol float64
	lpTol  float64

	best    []float64
	bestObj float64
	nodes   int
}

// Solve implements Solver.
func (b *BranchAndBound) Solve(ctx context.Context, m *Model) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{Status: StatusError}, err
	}
	e := &bnbEngine{
		m:       m,
		sign:    1,
		intTol:  b.IntTol,
		lpTol:   b.LPTol,
		bestObj: math.Inf(1),
	}
	if e.intTol <= 0 {
		e.intTol = defaultIntTol
	}
	if e.lpTol <= 0 {
		e.lpTol = defaultLPTol
	}
	if m.Sense == Maximize {
		e.sign = -1
	}
	e.c = make([]float64, len(m.Vars))
	for j, v := range m.Vars {
		e.c[j] = e.sign * v.Obj
	}

	if m.Start != nil && m.Feasible(m.Start, e.intTol) {
		e.best = append([]float64(nil), m.Start...)
		e.bestObj = e.objective(e.best)
	}

	root := bnbNode{lb: make([]float64, len(m.Vars)), ub: make([]float64, len(m.Vars))}
	for j, v := range m.Vars {
		root.lb[j], root.ub[j] = v.LB, v.UB
		if v.Type != Continuous {
			root.lb[j], root.ub[j] = math.Ceil(v.LB-e.intTol), math.Floor(v.UB+e.intTol)
		}
		if root.lb[j] > root.ub[j] {
			return e.result(StatusInfeasible), nil
		}
	}

	stack := []bnbNode{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return e.result(StatusLimit), fmt.Errorf("milp: search interrupted: %w", err)
		}
		if b.NodeLimit > 0 && e.nodes >= b.NodeLimit {
			return e.result(StatusLimit), nil
		}
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		e.nodes++

		obj, x, err := e.relax(ctx, node)
		switch {
		case errors.Is(err, errLPInfeasible):
			continue
		case errors.Is(err, errLPUnbounded):
			return e.result(StatusUnbounded), nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return e.result(StatusLimit), fmt.Errorf("milp: search interrupted: %w", err)
		case err != nil:
			return e.result(StatusError), fmt.Errorf("milp: relaxation at node %d: %w", e.nodes, err)
		}
		if obj >= e.bestObj-e.gap() {
			continue
		}

		j := e.branchVar(x)
		if j < 0 {
			for k, v := range e.m.Vars {
				if v.Type != Continuous {
					x[k] = math.Round(x[k])
				}
			}
			e.best, e.bestObj = x, e.objective(x)
			continue
		}

		down := bnbNode{lb: node.lb, ub: append([]float64(nil), node.ub...)}
		down.ub[j] = math.Floor(x[j])
		up := bnbNode{lb: append([]float64(nil), node.lb...), ub: node.ub}
		up.lb[j] = math.Ceil(x[j])
		// the nearer side is explored first
		if x[j]-math.Floor(x[j]) >= 0.5 {
			stack = append(stack, down, up)
		} else {
			stack = append(stack, up, down)
		}
	}

	if e.best == nil {
		return e.result(StatusInfeasible), nil
	}
	return e.result(StatusOptimal), nil
}

func (e *bnbEngine) objective(x []float64) float64 {
	obj := 0.0
	for j, c := range e.c {
		obj += c * x[j]
	}
	return obj
}

// gap is the pruning slack around the incumbent value.
func (e *bnbEngine) gap() float64 {
	return 1e-9 * math.Max(1, math.Abs(e.bestObj))
}

func (e *bnbEngine) result(s Status) Result {
	r := Result{Status: s, Nodes: e.nodes}
	if e.best != nil {
		r.X = e.best
		r.Objective = e.sign * e.bestObj
	}
	return r
}

// branchVar returns the integer variable whose value is most fractional, or
// -1 if x is integral.
func (e *bnbEngine) branchVar(x []float64) int {
	best, bestFrac := -1, e.intTol
	for j, v := range e.m.Vars {
		if v.Type == Continuous {
			continue
		}
		f := x[j] - math.Floor(x[j])
		if f > 0.5 {
			f = 1 - f
		}
		if f > bestFrac {
			best, bestFrac = j, f
		}
	}
	return best
}

// relax solves the LP relaxation of node and returns the minimization
// objective and a full assignment.
//
// Every variable is shifted by its lower bound and fixed variables are
// substituted. Finite upper bounds become rows. Variables that appear in no
// row are set directly.
func (e *bnbEngine) relax(ctx context.Context, node bnbNode) (float64, []float64, error) {
	m := e.m
	n := len(m.Vars)
	x := make([]float64, n)

	col := make([]int, n) // model variable -> column, -1 if not a column
	for j := range col {
		col[j] = -1
	}
	inRow := make([]bool, n)
	for _, c := range m.Constrs {
		for k, j := range c.Ind {
			if c.Val[k] != 0 {
				inRow[j] = true
			}
		}
	}
	var cols []int
	for j := 0; j < n; j++ {
		x[j] = node.lb[j]
		switch {
		case node.ub[j]-node.lb[j] <= 0:
		case inRow[j]:
			col[j] = len(cols)
			cols = append(cols, j)
		case e.c[j] < 0:
			if math.IsInf(node.ub[j], 1) {
				return 0, nil, errLPUnbounded
			}
			x[j] = node.ub[j]
		}
	}

	var rows []lpRow
	for _, c := range m.Constrs {
		r := lpRow{coef: make(map[int]float64, len(c.Ind)), sense: c.Sense, rhs: c.RHS}
		for k, j := range c.Ind {
			r.rhs -= c.Val[k] * x[j]
			if col[j] >= 0 {
				r.coef[col[j]] += c.Val[k]
			}
		}
		empty := true
		for _, v := range r.coef {
			if v != 0 {
				empty = false
				break
			}
		}
		if !empty {
			rows = append(rows, r)
			continue
		}
		// 0 against rhs
		if (c.Sense != GreaterEqual && r.rhs < -e.lpTol) || (c.Sense != LessEqual && r.rhs > e.lpTol) {
			return 0, nil, errLPInfeasible
		}
	}
	for _, j := range cols {
		if !math.IsInf(node.ub[j], 1) {
			rows = append(rows, lpRow{
				coef:  map[int]float64{col[j]: 1},
				sense: LessEqual,
				rhs:   node.ub[j] - node.lb[j],
			})
		}
	}

	if len(rows) == 0 {
		return e.objective(x), x, nil
	}

	c := make([]float64, len(cols))
	for k, j := range cols {
		c[k] = e.c[j]
	}
	y, err := solveLP(ctx, c, rows, e.lpTol)
	if err != nil {
		return 0, nil, err
	}
	for k, j := range cols {
		x[j] = node.lb[j] + y[k]
	}
	return e.objective(x), x, nil
}
