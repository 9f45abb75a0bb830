package main

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.solver4all.com/azaryc2s/twotsp"
)

func readDoc(t *testing.T, path string) twotsp.InstanceFile {
	t.Helper()
	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	var doc twotsp.InstanceFile
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestGreedyFromText(t *testing.T) {
	out := filepath.Join(t.TempDir(), "burma14.json")
	err := newApp().Run([]string{"solver",
		"--input", "../testdata/burma14.txt",
		"--output", out,
		"--algorithm", "greedy",
		"--log-level", "error",
	})
	require.NoError(t, err)

	doc := readDoc(t, out)
	require.NotNil(t, doc.Solution)
	sol := doc.Solution
	assert.Equal(t, 14, doc.Dimension)
	assert.Equal(t, "greedy", sol.Algorithm)
	assert.Equal(t, "bottleneck", sol.Objective)
	assert.False(t, sol.Optimal)
	assert.GreaterOrEqual(t, sol.TSPLength, 3323)
	assert.Equal(t, sol.TSPLength, doc.TSPLength)
	assert.Equal(t, 1, sol.Route[0])
	assert.Equal(t, 1, sol.Route[len(sol.Route)-1])
	assert.Len(t, sol.Route, 16)
	assert.Equal(t, sol.Bottleneck, max(sol.Route1Length, sol.Route2Length))
}

func TestExactOverwritesJSONInput(t *testing.T) {
	cities := []twotsp.City{
		{ID: 1, X: 16.47, Y: 96.10},
		{ID: 2, X: 16.47, Y: 94.44},
		{ID: 3, X: 20.09, Y: 92.54},
		{ID: 4, X: 22.39, Y: 93.37},
		{ID: 5, X: 25.23, Y: 97.24},
	}
	inst, err := twotsp.NewInstance(cities)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "burma5.json")
	require.NoError(t, writeSolution(twotsp.NewInstanceFile("burma5", inst, twotsp.Geo, 3), path))

	err = newApp().Run([]string{"solver",
		"--input", path,
		"--backend", "bnb",
		"--objective", "balanced",
		"--warm-start",
		"--log-level", "error",
	})
	require.NoError(t, err)

	doc := readDoc(t, path)
	require.NotNil(t, doc.Solution)
	assert.Equal(t, "exact", doc.Solution.Algorithm)
	assert.Equal(t, "bnb", doc.Solution.Backend)
	assert.Equal(t, "balanced-increase", doc.Solution.Objective)
	assert.True(t, doc.Solution.Optimal)
	assert.Equal(t, 3, doc.Solution.Tour[0])
	assert.Equal(t, 3, doc.Solution.Route[0])
}

func TestRunErrors(t *testing.T) {
	base := config{input: "../testdata/burma14.txt", algorithm: "greedy", objective: "bottleneck", logLevel: "error"}

	cfg := base
	cfg.objective = "shortest"
	assert.Error(t, run(cfg))

	cfg = base
	cfg.input = filepath.Join(t.TempDir(), "missing.json")
	assert.Error(t, run(cfg))

	cfg = base
	cfg.algorithm = "exact"
	cfg.backend = "cplex"
	assert.Error(t, run(cfg))

	cfg = base
	cfg.depot, cfg.depotSet = 99, true
	cfg.output = filepath.Join(t.TempDir(), "out.json")
	assert.ErrorIs(t, run(cfg), twotsp.ErrUnknownCity)

	cfg = base
	cfg.algorithm = "exact"
	cfg.backend = "bnb"
	cfg.timeLimit = 50 * time.Millisecond
	cfg.output = filepath.Join(t.TempDir(), "out.json")
	start := time.Now()
	err := run(cfg)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NoFileExists(t, cfg.output)
}

func TestLoadTSPLIB(t *testing.T) {
	doc, err := loadInstance("../testdata/burma14.tsp", "")
	require.NoError(t, err)
	assert.Equal(t, "burma14", doc.Name)
	assert.Equal(t, twotsp.Geo, doc.EdgeWeightType)
	inst, err := doc.Instance()
	require.NoError(t, err)
	assert.Equal(t, 14, inst.Len())
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "a.json", outputPath(config{input: "a.json"}))
	assert.Equal(t, "dir/a.json", outputPath(config{input: "dir/a.tsp"}))
	assert.Equal(t, "b.json", outputPath(config{input: "a.txt", output: "b.json"}))
	assert.Equal(t, "a.json", outputPath(config{input: "a.dat", format: "json"}))
}

func TestJoinIDs(t *testing.T) {
	assert.Equal(t, "1 -> 4 -> 1", joinIDs([]int{1, 4, 1}))
	assert.Equal(t, "", joinIDs(nil))
}
