package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli"

	"git.solver4all.com/azaryc2s/twotsp"
	"git.solver4all.com/azaryc2s/twotsp/input"
	"git.solver4all.com/azaryc2s/twotsp/internal/logging"
	"git.solver4all.com/azaryc2s/twotsp/milp"
)

const (
	FORMAT_JSON   = "json"
	FORMAT_TEXT   = "text"
	FORMAT_TSPLIB = "tsplib"

	BACKEND_BNB    = "bnb"
	BACKEND_GUROBI = "gurobi"
)

type config struct {
	input      string
	output     string
	format     string
	algorithm  string
	backend    string
	objective  string
	depot      int
	depotSet   bool
	timeLimit  time.Duration
	nodeLimit  int
	warmStart  bool
	threads    int
	gurobiLog  string
	writeModel string
	logLevel   string
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Printf("%s\n", err.Error())
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "solver"
	app.Usage = "solve a tour and split it into two depot routes"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "input, i", Value: "input.json", Usage: "Path to the input instance"},
		cli.StringFlag{Name: "output, o", Usage: "Path to the output file. By default a JSON input is overwritten adding the solution"},
		cli.StringFlag{Name: "format, f", Usage: "Input format: json, text or tsplib. Guessed from the extension when empty"},
		cli.StringFlag{Name: "algorithm, a", Value: twotsp.AlgorithmExact, Usage: "Tour algorithm: exact or greedy"},
		cli.StringFlag{Name: "backend, b", Value: BACKEND_BNB, Usage: "MILP backend of the exact algorithm: bnb or gurobi"},
		cli.StringFlag{Name: "objective", Value: twotsp.Bottleneck.String(), Usage: "Split objective: bottleneck or balanced-increase"},
		cli.IntFlag{Name: "depot, d", Usage: "Depot city id. Defaults to the first depot of the instance"},
		cli.DurationFlag{Name: "time-limit", Usage: "Stop the exact search after this long (0: no limit)"},
		cli.IntFlag{Name: "node-limit", Usage: "Branch-and-bound node limit (0: no limit)"},
		cli.BoolFlag{Name: "warm-start", Usage: "Pass the greedy tour to the MILP backend as a start solution"},
		cli.IntFlag{Name: "threads", Usage: "Gurobi threads (0: Gurobi default)"},
		cli.StringFlag{Name: "gurobi-log", Value: "twotsp-gurobi.log", Usage: "Gurobi log file"},
		cli.StringFlag{Name: "write-model", Usage: "Write the Gurobi model to this path before solving"},
		cli.StringFlag{Name: "log-level", Value: "info", EnvVar: "LOG_LEVEL", Usage: "debug, info, warn or error"},
	}
	app.Action = func(c *cli.Context) error {
		return run(configFromContext(c))
	}
	return app
}

func configFromContext(c *cli.Context) config {
	return config{
		input:      c.String("input"),
		output:     c.String("output"),
		format:     c.String("format"),
		algorithm:  c.String("algorithm"),
		backend:    c.String("backend"),
		objective:  c.String("objective"),
		depot:      c.Int("depot"),
		depotSet:   c.IsSet("depot"),
		timeLimit:  c.Duration("time-limit"),
		nodeLimit:  c.Int("node-limit"),
		warmStart:  c.Bool("warm-start"),
		threads:    c.Int("threads"),
		gurobiLog:  c.String("gurobi-log"),
		writeModel: c.String("write-model"),
		logLevel:   c.String("log-level"),
	}
}

func run(cfg config) error {
	logger := logging.New(logging.Config{Level: cfg.logLevel, Format: "text", Output: os.Stderr})
	ctx, _ := logging.EnsureRequestID(context.Background())

	objective, err := twotsp.ParseObjective(cfg.objective)
	if err != nil {
		return err
	}
	doc, err := loadInstance(cfg.input, cfg.format)
	if err != nil {
		return fmt.Errorf("at %s: %w", cfg.input, err)
	}
	inst, err := doc.Instance()
	if err != nil {
		return fmt.Errorf("at %s: %w", cfg.input, err)
	}
	depot := doc.Depot()
	if cfg.depotSet {
		depot = cfg.depot
	}

	planner := &twotsp.Planner{Objective: objective}
	backendName := ""
	if strings.EqualFold(cfg.algorithm, twotsp.AlgorithmExact) {
		backend, err := newBackend(cfg, logger)
		if err != nil {
			return err
		}
		backendName = strings.ToLower(cfg.backend)
		planner.Exact = twotsp.NewExactSolver(backend,
			twotsp.WithWarmStart(cfg.warmStart),
			twotsp.WithLogger(logger))
	}

	if cfg.timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeLimit)
		defer cancel()
	}

	logger.Info(ctx, "solving",
		logging.String("input", cfg.input),
		logging.Int("cities", inst.Len()),
		logging.Int("depot", depot),
		logging.String("algorithm", cfg.algorithm),
		logging.String("objective", objective.String()))
	start := time.Now()
	plan, err := planner.Plan(ctx, inst, depot, cfg.algorithm)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("at %s: %w", cfg.input, err)
	}

	res := plan.Split
	fmt.Printf("Cost = %d + %d\n", res.Route1Length, res.Route2Length)
	fmt.Printf("Tsp = %d\n", res.TourLength)
	fmt.Printf("Route: %s\n", joinIDs(res.Route))

	sol := twotsp.NewSolution(plan.Tour, res)
	sol.Algorithm = plan.Algorithm
	sol.Backend = backendName
	sol.Objective = objective.String()
	sol.Optimal = plan.Optimal
	sol.Time = elapsed.String()
	sol.System = twotsp.CollectSysInfo()
	if !res.Split {
		sol.Comment = "tour too short to split"
	}
	doc.TSPLength = res.TourLength
	doc.Solution = sol

	fileName := outputPath(cfg)
	if err := writeSolution(doc, fileName); err != nil {
		return fmt.Errorf("at %s: %w", fileName, err)
	}
	logger.Info(ctx, "solution written",
		logging.String("output", fileName),
		logging.Int("bottleneck", res.Bottleneck()),
		logging.Duration("elapsed", elapsed))
	return nil
}

func newBackend(cfg config, logger logging.Logger) (milp.Solver, error) {
	switch strings.ToLower(cfg.backend) {
	case BACKEND_BNB, "":
		return &milp.BranchAndBound{NodeLimit: cfg.nodeLimit}, nil
	case BACKEND_GUROBI:
		return gurobiBackend(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.backend)
	}
}

func detectFormat(path, format string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FORMAT_JSON
	case ".tsp":
		return FORMAT_TSPLIB
	default:
		return FORMAT_TEXT
	}
}

func loadInstance(path, format string) (*twotsp.InstanceFile, error) {
	format = detectFormat(path, format)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch format {
	case FORMAT_JSON:
		var doc twotsp.InstanceFile
		if err := json.NewDecoder(f).Decode(&doc); err != nil {
			return nil, err
		}
		return &doc, nil
	case FORMAT_TSPLIB:
		return input.ReadTSPLIB(f)
	case FORMAT_TEXT:
		cities, err := input.ReadCities(f)
		if err != nil {
			return nil, err
		}
		inst, err := twotsp.NewInstance(cities)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return twotsp.NewInstanceFile(name, inst, twotsp.Geo, cities[0].ID), nil
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

func outputPath(cfg config) string {
	if cfg.output != "" {
		return cfg.output
	}
	if detectFormat(cfg.input, cfg.format) == FORMAT_JSON {
		return cfg.input //overwrite the input file
	}
	return strings.TrimSuffix(cfg.input, filepath.Ext(cfg.input)) + ".json"
}

func writeSolution(doc *twotsp.InstanceFile, fileName string) error {
	jsonInst, err := json.MarshalIndent(doc, "", "\t")
	if err != nil {
		return err
	}
	jsonInst = []byte(twotsp.SanitizeJsonArrayLineBreaks(string(jsonInst)))
	return ioutil.WriteFile(fileName, jsonInst, 0644)
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, " -> ")
}
