package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"git.solver4all.com/azaryc2s/twotsp"
)

var header = []string{"Name", "Dimension", "Algorithm", "Objective", "Optimal", "Time", "TSPLength", "Route1", "Route2", "Bottleneck", "Valid", "Comment"}

func main() {
	if len(os.Args) < 2 {
		log.Printf("No arguments passed!")
		return
	}
	dirName := os.Args[1]
	if err := analyzeDir(dirName, os.Stdout); err != nil {
		log.Printf("Couldn't analyze directory %s: %s\n", dirName, err.Error())
	}
}

func analyzeDir(dirName string, w io.Writer) error {
	dir, err := ioutil.ReadDir(dirName)
	if err != nil {
		return err
	}
	out := csv.NewWriter(w)
	if err := out.Write(header); err != nil {
		return err
	}
	for _, f := range dir {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		fileName := filepath.Join(dirName, f.Name())
		inst := twotsp.InstanceFile{}
		instStr, err := ioutil.ReadFile(fileName)
		if err != nil {
			log.Printf("Couldn't read %s: %s\n", f.Name(), err.Error())
			continue
		}
		if err := json.Unmarshal(instStr, &inst); err != nil {
			log.Printf("Couldn't parse %s: %s\n", f.Name(), err.Error())
			continue
		}
		if err := out.Write(analyze(&inst)); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

// analyze returns the CSV record of one document.
func analyze(inst *twotsp.InstanceFile) []string {
	var sol twotsp.Solution
	if inst.Solution != nil {
		sol = *inst.Solution
	}
	valid := true
	comment := sol.Comment
	if err := checkSolution(inst, sol); err != nil {
		valid = false
		comment = strings.TrimSpace(fmt.Sprintf("%s ANALYZER: Error = %s", comment, err.Error()))
	}
	return []string{
		inst.Name,
		strconv.Itoa(inst.Dimension),
		sol.Algorithm,
		sol.Objective,
		strconv.FormatBool(sol.Optimal),
		sol.Time,
		strconv.Itoa(sol.TSPLength),
		strconv.Itoa(sol.Route1Length),
		strconv.Itoa(sol.Route2Length),
		strconv.Itoa(sol.Bottleneck),
		strconv.FormatBool(valid),
		comment,
	}
}

// checkSolution recomputes the routes of sol against the instance: both
// start and end at the depot, together they visit every other city once,
// and the stored lengths match.
func checkSolution(doc *twotsp.InstanceFile, sol twotsp.Solution) error {
	if doc.Solution == nil {
		return errors.New("no solution")
	}
	inst, err := doc.Instance()
	if err != nil {
		return err
	}
	depot := doc.Depot()
	if len(sol.Tour) > 0 && sol.Tour[0] != depot {
		depot = sol.Tour[0]
	}

	length, err := inst.TourLength(sol.Tour)
	if err != nil {
		return err
	}
	if length != sol.TSPLength {
		return fmt.Errorf("tour length %d, stored %d", length, sol.TSPLength)
	}

	visited := make(map[int]bool, inst.Len())
	routes := [][]int{sol.Route1, sol.Route2}
	stored := []int{sol.Route1Length, sol.Route2Length}
	for r, route := range routes {
		if len(route) == 0 {
			continue
		}
		if route[0] != depot || route[len(route)-1] != depot {
			return fmt.Errorf("route %d does not start and end at depot %d", r+1, depot)
		}
		sum := 0
		for i := 0; i+1 < len(route); i++ {
			d, err := inst.Distance(route[i], route[i+1])
			if err != nil {
				return err
			}
			sum += d
			if i == 0 {
				continue
			}
			if route[i] == depot {
				return fmt.Errorf("route %d passes the depot", r+1)
			}
			if visited[route[i]] {
				return fmt.Errorf("node %d visited twice", route[i])
			}
			visited[route[i]] = true
		}
		if sum != stored[r] {
			return fmt.Errorf("route %d length %d, stored %d", r+1, sum, stored[r])
		}
	}
	if len(visited) != inst.Len()-1 {
		return fmt.Errorf("routes visit %d of %d cities", len(visited), inst.Len()-1)
	}
	if max(sol.Route1Length, sol.Route2Length) != sol.Bottleneck {
		return fmt.Errorf("bottleneck %d does not match the routes", sol.Bottleneck)
	}
	return nil
}
