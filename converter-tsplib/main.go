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

	"git.solver4all.com/azaryc2s/twotsp"
	"git.solver4all.com/azaryc2s/twotsp/input"
	"git.solver4all.com/azaryc2s/twotsp/milp"
)

func main() {
	if len(os.Args) < 2 {
		log.Printf("No arguments passed!")
		return
	}
	targetDir := os.Args[1]
	files, err := ioutil.ReadDir(targetDir)
	if err != nil {
		log.Fatal(err)
	}
	var calcTSP string
	if len(os.Args) > 2 {
		calcTSP = os.Args[2]
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".tsp") {
			continue
		}
		fileName := filepath.Join(targetDir, f.Name())
		fmt.Println(fileName)
		if err := convertFile(fileName, calcTSP == "tsp"); err != nil {
			log.Printf("At %s: %s. Skipping file\n", fileName, err.Error())
		}
	}
}

// convertFile writes the JSON document of a TSPLIB file next to it.
func convertFile(fileName string, calcTSP bool) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	doc, err := input.ReadTSPLIB(file)
	if err != nil {
		return err
	}
	inst, err := doc.Instance()
	if err != nil {
		return err
	}
	if len(doc.NodeIDs) == 0 {
		doc.NodeIDs = inst.IDs()
	}
	if len(doc.Depots) == 0 {
		doc.Depots = []int{doc.Depot()}
	}

	if calcTSP {
		solver := twotsp.NewExactSolver(&milp.BranchAndBound{}, twotsp.WithWarmStart(true))
		_, doc.TSPLength, err = solver.Solve(context.Background(), inst, doc.Depot())
		if err != nil {
			return err
		}
	}

	jsonInst, err := json.MarshalIndent(doc, "", "\t")
	if err != nil {
		return err
	}
	jsonInst = []byte(twotsp.SanitizeJsonArrayLineBreaks(string(jsonInst)))
	return ioutil.WriteFile(strings.TrimSuffix(fileName, ".tsp")+".json", jsonInst, 0644)
}
