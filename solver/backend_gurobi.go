/* Copyright 2021, Arkadiusz Zarychta, arkadiusz.zarychta@h-brs.de */
/* Copyright 2021, Gurobi Optimization, LLC */

//go:build gurobi

package main

import (
	"git.solver4all.com/azaryc2s/twotsp/internal/logging"
	"git.solver4all.com/azaryc2s/twotsp/milp"
	"git.solver4all.com/azaryc2s/twotsp/milp/grb"
)

func gurobiBackend(cfg config, logger logging.Logger) (milp.Solver, error) {
	return &grb.Solver{
		LogFile:    cfg.gurobiLog,
		Threads:    cfg.threads,
		WriteModel: cfg.writeModel,
		Logger:     logger,
	}, nil
}
