package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"git.solver4all.com/azaryc2s/twotsp"
)

// ErrUnsupported is returned for TSPLIB files this reader does not handle.
var ErrUnsupported = errors.New("input: unsupported tsplib file")

// ReadTSPLIB reads a TSPLIB TSP file with a NODE_COORD_SECTION (GEO, EUC_2D,
// CEIL_2D) or an EXPLICIT FULL_MATRIX EDGE_WEIGHT_SECTION.
//
// A malformed coordinate record ends the section; the document built from
// the records before it is returned together with an ErrMalformedRecord
// error.
func ReadTSPLIB(r io.Reader) (*twotsp.InstanceFile, error) {
	inst := &twotsp.InstanceFile{Type: "TSP", DisplayDataType: "COORD_DISPLAY"}
	var (
		edgeWeightFormat string
		weights          []int
		section          string
		sectionErr       error
	)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		t := strings.TrimSpace(scanner.Text())
		if t == "" {
			continue
		}
		switch t {
		case "EOF":
			section = "EOF"
			continue
		case "NODE_COORD_SECTION", "EDGE_WEIGHT_SECTION", "DISPLAY_DATA_SECTION", "DEPOT_SECTION":
			section = t
			continue
		}
		if section == "EOF" {
			break
		}

		if strings.Contains(t, ":") && !startsWithNumber(t) {
			section = ""
			lineSplit := strings.SplitN(t, ":", 2)
			key := strings.TrimSpace(lineSplit[0])
			value := strings.TrimSpace(lineSplit[1])
			switch key {
			case "NAME":
				inst.Name = value
			case "COMMENT":
				if inst.Comment != "" {
					inst.Comment += " "
				}
				inst.Comment += value
			case "TYPE":
				if value != "TSP" {
					return nil, fmt.Errorf("%w: type %s", ErrUnsupported, value)
				}
				inst.Type = value
			case "DIMENSION":
				n, err := strconv.Atoi(value)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: dimension %q", ErrMalformedRecord, line, value)
				}
				inst.Dimension = n
			case "EDGE_WEIGHT_TYPE":
				switch value {
				case twotsp.Geo, twotsp.Euc2D, twotsp.Ceil2D, twotsp.Explicit:
					inst.EdgeWeightType = value
				default:
					return nil, fmt.Errorf("%w: edge weight type %s", ErrUnsupported, value)
				}
			case "EDGE_WEIGHT_FORMAT":
				edgeWeightFormat = value
			case "DISPLAY_DATA_TYPE":
				inst.DisplayDataType = value
			}
			continue
		}

		if sectionErr != nil {
			continue
		}
		fields := strings.Fields(t)
		switch section {
		case "NODE_COORD_SECTION":
			c, err := parseCity(fields)
			if err != nil {
				sectionErr = fmt.Errorf("line %d: %w", line, err)
				continue
			}
			inst.NodeIDs = append(inst.NodeIDs, c.ID)
			inst.NodeCoordinates = append(inst.NodeCoordinates, []float64{c.X, c.Y})
		case "EDGE_WEIGHT_SECTION":
			for _, f := range fields {
				w, err := strconv.Atoi(f)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: weight %q", ErrMalformedRecord, line, f)
				}
				weights = append(weights, w)
			}
		case "DEPOT_SECTION":
			for _, f := range fields {
				d, err := strconv.Atoi(f)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: depot %q", ErrMalformedRecord, line, f)
				}
				if d >= 0 {
					inst.Depots = append(inst.Depots, d)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if inst.EdgeWeightType == twotsp.Explicit {
		if edgeWeightFormat != "FULL_MATRIX" {
			return nil, fmt.Errorf("%w: edge weight format %q", ErrUnsupported, edgeWeightFormat)
		}
		n := inst.Dimension
		if n <= 0 || len(weights) != n*n {
			return nil, fmt.Errorf("%w: %d weights for dimension %d", ErrMalformedRecord, len(weights), n)
		}
		inst.DisplayDataType = "NO_DISPLAY"
		inst.EdgeWeights = make([][]int, n)
		for i := 0; i < n; i++ {
			inst.EdgeWeights[i] = weights[i*n : (i+1)*n]
		}
		return inst, nil
	}

	if inst.EdgeWeightType == "" {
		return nil, fmt.Errorf("%w: missing EDGE_WEIGHT_TYPE", ErrUnsupported)
	}
	if sectionErr == nil && inst.Dimension > 0 && len(inst.NodeCoordinates) != inst.Dimension {
		sectionErr = fmt.Errorf("%w: expected %d nodes, got %d", ErrMalformedRecord, inst.Dimension, len(inst.NodeCoordinates))
	}
	inst.Dimension = len(inst.NodeCoordinates)
	return inst, sectionErr
}

func startsWithNumber(s string) bool {
	return s[0] == '-' || s[0] == '+' || s[0] == '.' || (s[0] >= '0' && s[0] <= '9')
}
