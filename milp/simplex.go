package milp

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	errLPInfeasible = errors.New("milp: relaxation is infeasible")
	errLPUnbounded  = errors.New("milp: relaxation is unbounded")
	errLPStalled    = errors.New("milp: simplex pivot limit reached")
)

const (
	pivotTol = 1e-9
	// context checks happen once per this many pivots
	pivotCheckMask = 31
)

// lpRow is one constraint of a relaxation over columns y >= 0.
type lpRow struct {
	coef  map[int]float64 // column -> coefficient
	sense Sense
	rhs   float64
}

// tableau is a dense simplex tableau. Row i of t holds the constraint whose
// basic column is basis[i]; its last entry is the right hand side.
type tableau struct {
	t          *mat.Dense
	m, n       int // constraint rows, columns without the right hand side
	basis      []int
	artificial []bool
	d          []float64 // reduced costs
	tol        float64

	pivots, maxPivots int
	degenerate        bool
}

// solveLP minimizes c'y subject to rows and y >= 0 with the two phase
// simplex method. Phase one drives the artificial columns of = and >= rows
// out of the basis. The entering column is the one with the most negative
// reduced cost until a pivot makes no progress; from then on the lowest
// eligible index enters and leaves (Bland) until the objective moves again,
// so the method cannot cycle.
func solveLP(ctx context.Context, c []float64, rows []lpRow, tol float64) ([]float64, error) {
	tb := newTableau(len(c), rows, tol)

	if tb.hasArtificial() {
		cost := make([]float64, tb.n)
		for j, a := range tb.artificial {
			if a {
				cost[j] = 1
			}
		}
		tb.price(cost)
		if err := tb.optimize(ctx, false); err != nil {
			return nil, err
		}
		infeas := 0.0
		for i, j := range tb.basis {
			if tb.artificial[j] {
				infeas += tb.rhs(i)
			}
		}
		if infeas > 1e-7 {
			return nil, errLPInfeasible
		}
		tb.dropArtificial()
	}

	cost := make([]float64, tb.n)
	copy(cost, c)
	tb.price(cost)
	if err := tb.optimize(ctx, true); err != nil {
		return nil, err
	}

	y := make([]float64, len(c))
	for i, j := range tb.basis {
		if j < len(c) {
			y[j] = tb.rhs(i)
		}
	}
	return y, nil
}

func newTableau(nc int, rows []lpRow, tol float64) *tableau {
	var nSlack, nArt int
	senses := make([]Sense, len(rows))
	signs := make([]float64, len(rows))
	for i, r := range rows {
		// rows are negated to get a nonnegative right hand side, and >= rows
		// with a zero one to get a slack basis
		s, sign := r.sense, 1.0
		if r.rhs < 0 || (r.rhs == 0 && s == GreaterEqual) {
			sign = -1
			switch s {
			case LessEqual:
				s = GreaterEqual
			case GreaterEqual:
				s = LessEqual
			}
		}
		senses[i], signs[i] = s, sign
		if s != Equal {
			nSlack++
		}
		if s != LessEqual {
			nArt++
		}
	}

	m, n := len(rows), nc+nSlack+nArt
	tb := &tableau{
		t:          mat.NewDense(m, n+1, nil),
		m:          m,
		n:          n,
		basis:      make([]int, m),
		artificial: make([]bool, n),
		tol:        tol,
		maxPivots:  50 * (m + n),
	}
	slack, art := nc, nc+nSlack
	for i, r := range rows {
		sign := signs[i]
		row := tb.t.RawRowView(i)
		for k, v := range r.coef {
			row[k] = sign * v
		}
		row[n] = sign * r.rhs
		switch senses[i] {
		case LessEqual:
			row[slack] = 1
			tb.basis[i] = slack
			slack++
		case GreaterEqual:
			row[slack] = -1
			slack++
			row[art] = 1
			tb.basis[i], tb.artificial[art] = art, true
			art++
		case Equal:
			row[art] = 1
			tb.basis[i], tb.artificial[art] = art, true
			art++
		}
	}
	return tb
}

func (tb *tableau) hasArtificial() bool {
	for _, j := range tb.basis {
		if tb.artificial[j] {
			return true
		}
	}
	return false
}

func (tb *tableau) rhs(i int) float64 {
	return tb.t.At(i, tb.n)
}

// price sets the reduced costs of cost against the current basis.
func (tb *tableau) price(cost []float64) {
	tb.d = make([]float64, tb.n)
	copy(tb.d, cost)
	for i, j := range tb.basis {
		if cb := cost[j]; cb != 0 {
			floats.AddScaled(tb.d, -cb, tb.t.RawRowView(i)[:tb.n])
		}
	}
}

// dropArtificial pivots artificial columns that are still basic at zero out
// of the basis. A row with no other nonzero entry is redundant and keeps its
// artificial column, which can never enter again.
func (tb *tableau) dropArtificial() {
	for i, j := range tb.basis {
		if !tb.artificial[j] {
			continue
		}
		row := tb.t.RawRowView(i)
		for k := 0; k < tb.n; k++ {
			if !tb.artificial[k] && math.Abs(row[k]) > pivotTol {
				row[tb.n] = 0
				tb.pivot(i, k)
				break
			}
		}
	}
}

func (tb *tableau) optimize(ctx context.Context, skipArtificial bool) error {
	for {
		q := tb.entering(skipArtificial)
		if q < 0 {
			return nil
		}
		p := tb.leaving(q)
		if p < 0 {
			return errLPUnbounded
		}
		tb.degenerate = tb.rhs(p) <= pivotTol
		tb.pivot(p, q)

		tb.pivots++
		if tb.pivots > tb.maxPivots {
			return errLPStalled
		}
		if tb.pivots&pivotCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
}

func (tb *tableau) entering(skipArtificial bool) int {
	best, bestD := -1, -tb.tol
	for j, dj := range tb.d {
		if skipArtificial && tb.artificial[j] {
			continue
		}
		if dj >= bestD {
			continue
		}
		if tb.degenerate {
			return j
		}
		best, bestD = j, dj
	}
	return best
}

// leaving runs the ratio test on column q. Ties go to the row whose basic
// column has the lowest index.
func (tb *tableau) leaving(q int) int {
	best, bestRatio := -1, 0.0
	for i := 0; i < tb.m; i++ {
		a := tb.t.At(i, q)
		if a <= pivotTol {
			continue
		}
		ratio := tb.rhs(i) / a
		switch {
		case best < 0, ratio < bestRatio-pivotTol:
			best, bestRatio = i, ratio
		case ratio <= bestRatio+pivotTol && tb.basis[i] < tb.basis[best]:
			best = i
		}
	}
	return best
}

func (tb *tableau) pivot(p, q int) {
	rp := tb.t.RawRowView(p)
	floats.Scale(1/rp[q], rp)
	rp[q] = 1
	for i := 0; i < tb.m; i++ {
		if i == p {
			continue
		}
		ri := tb.t.RawRowView(i)
		if f := ri[q]; f != 0 {
			floats.AddScaled(ri, -f, rp)
			ri[q] = 0
			if v := ri[tb.n]; v < 0 && v > -pivotTol {
				ri[tb.n] = 0
			}
		}
	}
	if f := tb.d[q]; f != 0 {
		floats.AddScaled(tb.d, -f, rp[:tb.n])
		tb.d[q] = 0
	}
	tb.basis[p] = q
}
