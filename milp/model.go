// Package milp describes mixed integer linear programs and the solvers that
// optimize them.
package milp

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidModel is returned for models that reference unknown variables or
// carry inconsistent bounds.
var ErrInvalidModel = errors.New("milp: invalid model")

type VarType int8

const (
	Continuous VarType = iota
	Binary
	Integer
)

func (t VarType) String() string {
	switch t {
	case Continuous:
		return "continuous"
	case Binary:
		return "binary"
	case Integer:
		return "integer"
	}
	return fmt.Sprintf("VarType(%d)", int8(t))
}

type Sense int8

const (
	LessEqual Sense = iota
	Equal
	GreaterEqual
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case Equal:
		return "="
	case GreaterEqual:
		return ">="
	}
	return fmt.Sprintf("Sense(%d)", int8(s))
}

type ObjSense int8

const (
	Minimize ObjSense = iota
	Maximize
)

// Infinity is the upper bound of an unbounded variable.
var Infinity = math.Inf(1)

// Var is one decision variable. Binary variables always have bounds [0,1].
type Var struct {
	Name string
	Type VarType
	LB   float64
	UB   float64
	Obj  float64
}

// Constr is the linear row sum(Val[k]*x[Ind[k]]) Sense RHS.
type Constr struct {
	Name  string
	Ind   []int
	Val   []float64
	Sense Sense
	RHS   float64
}

// Model is a linear objective over Vars subject to Constrs. Start optionally
// holds a full assignment used as the initial incumbent.
type Model struct {
	Name    string
	Sense   ObjSense
	Vars    []Var
	Constrs []Constr
	Start   []float64
}

func NewModel(name string, sense ObjSense) *Model {
	return &Model{Name: name, Sense: sense}
}

// AddVar appends a variable and returns its index.
func (m *Model) AddVar(name string, typ VarType, lb, ub, obj float64) int {
	if typ == Binary {
		lb, ub = math.Max(lb, 0), math.Min(ub, 1)
	}
	m.Vars = append(m.Vars, Var{Name: name, Type: typ, LB: lb, UB: ub, Obj: obj})
	return len(m.Vars) - 1
}

// AddConstr appends a row and returns its index. ind and val are copied.
func (m *Model) AddConstr(ind []int, val []float64, sense Sense, rhs float64, name string) int {
	m.Constrs = append(m.Constrs, Constr{
		Name:  name,
		Ind:   append([]int(nil), ind...),
		Val:   append([]float64(nil), val...),
		Sense: sense,
		RHS:   rhs,
	})
	return len(m.Constrs) - 1
}

// NumVars returns the number of variables.
func (m *Model) NumVars() int { return len(m.Vars) }

// NumConstrs returns the number of rows.
func (m *Model) NumConstrs() int { return len(m.Constrs) }

// Validate reports structural problems of m.
func (m *Model) Validate() error {
	if len(m.Vars) == 0 {
		return fmt.Errorf("%w: no variables", ErrInvalidModel)
	}
	for i, v := range m.Vars {
		if math.IsNaN(v.LB) || math.IsNaN(v.UB) || math.IsNaN(v.Obj) || math.IsInf(v.Obj, 0) {
			return fmt.Errorf("%w: variable %d (%s) has NaN or infinite data", ErrInvalidModel, i, v.Name)
		}
		if math.IsInf(v.LB, 0) {
			return fmt.Errorf("%w: variable %d (%s) has an infinite lower bound", ErrInvalidModel, i, v.Name)
		}
		if v.LB > v.UB {
			return fmt.Errorf("%w: variable %d (%s) has bounds [%g,%g]", ErrInvalidModel, i, v.Name, v.LB, v.UB)
		}
	}
	for r, c := range m.Constrs {
		if len(c.Ind) != len(c.Val) {
			return fmt.Errorf("%w: row %d (%s) has %d indices and %d values", ErrInvalidModel, r, c.Name, len(c.Ind), len(c.Val))
		}
		if math.IsNaN(c.RHS) || math.IsInf(c.RHS, 0) {
			return fmt.Errorf("%w: row %d (%s) has a non-finite right hand side", ErrInvalidModel, r, c.Name)
		}
		for _, j := range c.Ind {
			if j < 0 || j >= len(m.Vars) {
				return fmt.Errorf("%w: row %d (%s) references variable %d", ErrInvalidModel, r, c.Name, j)
			}
		}
	}
	if m.Start != nil && len(m.Start) != len(m.Vars) {
		return fmt.Errorf("%w: start has %d values for %d variables", ErrInvalidModel, len(m.Start), len(m.Vars))
	}
	return nil
}

// Objective evaluates the objective at x.
func (m *Model) Objective(x []float64) float64 {
	obj := 0.0
	for j, v := range m.Vars {
		obj += v.Obj * x[j]
	}
	return obj
}

// Feasible reports whether x satisfies every bound, row and integrality
// requirement of m within tol.
func (m *Model) Feasible(x []float64, tol float64) bool {
	if len(x) != len(m.Vars) {
		return false
	}
	for j, v := range m.Vars {
		if x[j] < v.LB-tol || x[j] > v.UB+tol {
			return false
		}
		if v.Type != Continuous && math.Abs(x[j]-math.Round(x[j])) > tol {
			return false
		}
	}
	for _, c := range m.Constrs {
		lhs := 0.0
		for k, j := range c.Ind {
			lhs += c.Val[k] * x[j]
		}
		switch c.Sense {
		case LessEqual:
			if lhs > c.RHS+tol {
				return false
			}
		case GreaterEqual:
			if lhs < c.RHS-tol {
				return false
			}
		case Equal:
			if math.Abs(lhs-c.RHS) > tol {
				return false
			}
		}
	}
	return true
}
