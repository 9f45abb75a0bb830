//go:build !gurobi

package main

import (
	"errors"

	"git.solver4all.com/azaryc2s/twotsp/internal/logging"
	"git.solver4all.com/azaryc2s/twotsp/milp"
)

var errNoGurobi = errors.New("gurobi backend not compiled in, rebuild with -tags gurobi")

func gurobiBackend(config, logging.Logger) (milp.Solver, error) {
	return nil, errNoGurobi
}
