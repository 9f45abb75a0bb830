/* Copyright 2021, Arkadiusz Zarychta, arkadiusz.zarychta@h-brs.de */
/* Copyright 2021, Gurobi Optimization, LLC */

//go:build gurobi

// Package grb solves milp models with Gurobi.
package grb

import (
	"context"
	"fmt"

	"git.solver4all.com/azaryc2s/gorobi/gurobi"
	"git.solver4all.com/azaryc2s/twotsp/internal/logging"
	"git.solver4all.com/azaryc2s/twotsp/milp"
)

// Solver hands milp models to a Gurobi environment created per solve.
type Solver struct {
	// LogFile receives the Gurobi log (default "twotsp-gurobi.log").
	LogFile string
	// Threads caps the Gurobi worker threads (0: Gurobi default).
	Threads int
	// WriteModel, if set, is the path the model is written to before solving.
	WriteModel string
	Logger     logging.Logger
}

var _ milp.Solver = (*Solver)(nil)

func vtype(t milp.VarType) int8 {
	switch t {
	case milp.Binary:
		return gurobi.BINARY
	case milp.Integer:
		return gurobi.INTEGER
	default:
		return gurobi.CONTINUOUS
	}
}

func sense(s milp.Sense) int8 {
	switch s {
	case milp.Equal:
		return gurobi.EQUAL
	case milp.GreaterEqual:
		return gurobi.GREATER_EQUAL
	default:
		return gurobi.LESS_EQUAL
	}
}

// Solve implements milp.Solver. The context is only consulted before the
// optimizer starts.
func (s *Solver) Solve(ctx context.Context, m *milp.Model) (milp.Result, error) {
	log := s.Logger
	if log == nil {
		log = logging.Noop()
	}
	if err := m.Validate(); err != nil {
		return milp.Result{Status: milp.StatusError}, err
	}
	logFile := s.LogFile
	if logFile == "" {
		logFile = "twotsp-gurobi.log"
	}

	env, err := gurobi.LoadEnv(logFile)
	if err != nil {
		return milp.Result{Status: milp.StatusError}, fmt.Errorf("grb: load env: %w", err)
	}
	defer env.Free()
	env.SetIntParam("LogToConsole", int32(0))
	if s.Threads > 0 {
		env.SetIntParam(gurobi.INT_PAR_THREADS, int32(s.Threads))
	}

	model, err := env.NewModel(m.Name, 0, nil, nil, nil, nil, nil)
	if err != nil {
		return milp.Result{Status: milp.StatusError}, fmt.Errorf("grb: new model: %w", err)
	}
	defer model.Free()

	for _, v := range m.Vars {
		ub := v.UB
		if ub > 1e100 {
			ub = 1e100
		}
		if err = model.AddVar(nil, nil, v.Obj, v.LB, ub, vtype(v.Type), v.Name); err != nil {
			return milp.Result{Status: milp.StatusError}, fmt.Errorf("grb: add var %s: %w", v.Name, err)
		}
	}

	objSense := int32(gurobi.MINIMIZE)
	if m.Sense == milp.Maximize {
		objSense = int32(gurobi.MAXIMIZE)
	}
	if err = model.SetIntAttr(gurobi.INT_ATTR_MODELSENSE, objSense); err != nil {
		return milp.Result{Status: milp.StatusError}, fmt.Errorf("grb: model sense: %w", err)
	}

	for _, c := range m.Constrs {
		if err = model.AddConstr(gurobi.Int32Slice(c.Ind), c.Val, sense(c.Sense), c.RHS, c.Name); err != nil {
			return milp.Result{Status: milp.StatusError}, fmt.Errorf("grb: add constraint %s: %w", c.Name, err)
		}
	}

	if m.Start != nil {
		if err = model.SetDblAttrArray(gurobi.DBL_ATTR_START, 0, m.Start); err != nil {
			log.Warn(ctx, "could not set the start solution", logging.Error(err))
		}
	}
	if s.WriteModel != "" {
		if err = model.Write(s.WriteModel); err != nil {
			log.Warn(ctx, "could not write model", logging.String("path", s.WriteModel), logging.Error(err))
		}
	}

	if err = ctx.Err(); err != nil {
		return milp.Result{Status: milp.StatusLimit}, fmt.Errorf("grb: %w", err)
	}
	if err = model.Optimize(); err != nil {
		return milp.Result{Status: milp.StatusError}, fmt.Errorf("grb: optimize: %w", err)
	}

	optimstatus, err := model.GetIntAttr(gurobi.INT_ATTR_STATUS)
	if err != nil {
		return milp.Result{Status: milp.StatusError}, fmt.Errorf("grb: status: %w", err)
	}
	log.Debug(ctx, "gurobi finished", logging.Int("status", int(optimstatus)))

	var res milp.Result
	switch optimstatus {
	case gurobi.OPTIMAL:
		res.Status = milp.StatusOptimal
	case gurobi.INF_OR_UNBD:
		res.Status = milp.StatusInfeasible
		return res, nil
	case gurobi.TIME_LIMIT:
		res.Status = milp.StatusLimit
	default:
		res.Status = milp.StatusError
	}

	solcount, err := model.GetIntAttr(gurobi.INT_ATTR_SOLCOUNT)
	if err != nil || solcount == 0 {
		return res, nil
	}
	if res.Objective, err = model.GetDblAttr(gurobi.DBL_ATTR_OBJVAL); err != nil {
		return milp.Result{Status: milp.StatusError}, fmt.Errorf("grb: objective: %w", err)
	}
	if res.X, err = model.GetDblAttrArray(gurobi.DBL_ATTR_X, 0, int32(len(m.Vars))); err != nil {
		return milp.Result{Status: milp.StatusError}, fmt.Errorf("grb: solution: %w", err)
	}
	return res, nil
}
