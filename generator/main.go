package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"math"
	"path/filepath"
	"time"

	"golang.org/x/exp/rand"

	"git.solver4all.com/azaryc2s/twotsp"
	"git.solver4all.com/azaryc2s/twotsp/milp"
)

var nodes twotsp.ArrayIntFlags
var weightTypes twotsp.ArrayStringFlags

type bounds struct {
	xFrom, xTo float64
	yFrom, yTo float64
}

func main() {
	flag.Var(&nodes, "n", "List of number of nodes")
	flag.Var(&weightTypes, "w", "List of EDGE_WEIGHT_TYPEs: GEO (default), EUC_2D or CEIL_2D")
	name := flag.String("name", "twotsp", "Name for the instance")
	count := flag.Int("count", 10, "Number of instances per combination")
	seed := flag.Uint64("seed", 0, "Random seed. 0 seeds from the clock")
	xTo := flag.Int("x", 10000, "Max value on the x-axis for EUC_2D and CEIL_2D")
	yTo := flag.Int("y", 10000, "Max value on the y-axis for EUC_2D and CEIL_2D")
	latFrom := flag.Float64("lat-from", -60, "Lowest latitude in degrees for GEO")
	latTo := flag.Float64("lat-to", 60, "Highest latitude in degrees for GEO")
	lonFrom := flag.Float64("lon-from", -180, "Lowest longitude in degrees for GEO")
	lonTo := flag.Float64("lon-to", 180, "Highest longitude in degrees for GEO")
	calcTSP := flag.Bool("tsp", false, "Whether to calculate the optimal tsp length (branch and bound, only viable for small instances)")
	outDir := flag.String("out", ".", "Directory the instances are written to")

	flag.Parse()

	if len(weightTypes) == 0 {
		weightTypes = twotsp.ArrayStringFlags{twotsp.Geo}
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	r := rand.New(rand.NewSource(*seed))

	for l := 0; l < *count; l++ {
		for _, n := range nodes {
			for _, w := range weightTypes {
				b := bounds{xFrom: 0, xTo: float64(*xTo), yFrom: 0, yTo: float64(*yTo)}
				if w == twotsp.Geo {
					b = bounds{xFrom: *latFrom, xTo: *latTo, yFrom: *lonFrom, yTo: *lonTo}
				}
				instName := fmt.Sprintf("%s_%s_%d_%d", *name, w, n, l)
				doc := generate(r, instName, n, w, b)
				doc.Comment = fmt.Sprintf("%s instance Nr. %d with %d nodes (%s), seed %d", *name, l, n, w, *seed)

				if *calcTSP {
					length, err := optimalLength(doc)
					if err != nil {
						log.Printf("At %s: %s\n", instName, err.Error())
						continue
					}
					doc.TSPLength = length
				}

				jsonInst, err := json.MarshalIndent(doc, "", "\t")
				if err != nil {
					log.Fatal(err)
				}
				jsonInst = []byte(twotsp.SanitizeJsonArrayLineBreaks(string(jsonInst)))
				err = ioutil.WriteFile(filepath.Join(*outDir, instName+".json"), jsonInst, 0644)
				if err != nil {
					log.Fatal(err)
				}
			}
		}
	}
}

// generate draws n random nodes inside b. Depot is node 1.
func generate(r *rand.Rand, name string, n int, w string, b bounds) *twotsp.InstanceFile {
	coordinates := make([][]float64, n)
	ids := make([]int, n)
	for node := 0; node < n; node++ {
		ids[node] = node + 1
		if w == twotsp.Geo {
			coordinates[node] = []float64{geoCoordinate(r, b.xFrom, b.xTo), geoCoordinate(r, b.yFrom, b.yTo)}
			continue
		}
		x := b.xFrom + float64(r.Intn(int(b.xTo-b.xFrom)))
		y := b.yFrom + float64(r.Intn(int(b.yTo-b.yFrom)))
		coordinates[node] = []float64{x, y}
	}
	return &twotsp.InstanceFile{
		Name:            name,
		Type:            "TSP",
		Dimension:       n,
		DisplayDataType: "COORD_DISPLAY",
		EdgeWeightType:  w,
		Depots:          []int{1},
		NodeIDs:         ids,
		NodeCoordinates: coordinates,
	}
}

// geoCoordinate returns a random angle in [from, to) written as DDD.MM.
func geoCoordinate(r *rand.Rand, from, to float64) float64 {
	deg := from + r.Float64()*(to-from)
	whole := math.Trunc(deg)
	minutes := math.Floor(math.Abs(deg-whole) * 60)
	v := math.Abs(whole) + minutes/100
	if deg < 0 {
		v = -v
	}
	return math.Round(v*100) / 100
}

func optimalLength(doc *twotsp.InstanceFile) (int, error) {
	inst, err := doc.Instance()
	if err != nil {
		return 0, err
	}
	solver := twotsp.NewExactSolver(&milp.BranchAndBound{}, twotsp.WithWarmStart(true))
	_, length, err := solver.Solve(context.Background(), inst, doc.Depot())
	return length, err
}
