package twotsp

import "fmt"

// InstanceFile is the JSON document of an instance, optionally carrying the
// solution written back by the solver.
type InstanceFile struct {
	Name    string `json:"name"`
	Comment string `json:"comment"`
	Type    string `json:"type"`

	Dimension       int         `json:"dimension"`
	DisplayDataType string      `json:"display_data_type"`
	EdgeWeightType  string      `json:"edge_weight_type"`
	Depots          []int       `json:"depots"`
	NodeIDs         []int       `json:"node_ids,omitempty"`
	NodeCoordinates [][]float64 `json:"node_coordinates,omitempty"`
	EdgeWeights     [][]int     `json:"edge_weights,omitempty"`
	TSPLength       int         `json:"tsp_length"`

	Solution *Solution `json:"solution,omitempty"`
}

// IDs returns the node ids of the document, numbering nodes from 1 as
// TSPLIB does when node_ids is absent.
func (f *InstanceFile) IDs() []int {
	if len(f.NodeIDs) > 0 {
		return f.NodeIDs
	}
	n := len(f.NodeCoordinates)
	if f.EdgeWeightType == Explicit {
		n = len(f.EdgeWeights)
	}
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i + 1
	}
	return ids
}

// Depot returns the first depot of the document, or its first node.
func (f *InstanceFile) Depot() int {
	if len(f.Depots) > 0 {
		return f.Depots[0]
	}
	if ids := f.IDs(); len(ids) > 0 {
		return ids[0]
	}
	return 0
}

// Instance builds the in-memory instance described by the document.
func (f *InstanceFile) Instance() (*Instance, error) {
	ids := f.IDs()
	if f.EdgeWeightType == Explicit {
		return NewInstanceFromMatrix(ids, f.EdgeWeights)
	}
	if len(ids) != len(f.NodeCoordinates) {
		return nil, fmt.Errorf("%w: %d node ids for %d coordinates", ErrInvalidInstance, len(ids), len(f.NodeCoordinates))
	}
	metric, err := MetricFor(f.EdgeWeightType)
	if err != nil {
		return nil, err
	}
	cities := make([]City, len(ids))
	for i, c := range f.NodeCoordinates {
		if len(c) < 2 {
			return nil, fmt.Errorf("%w: node %d has %d coordinates", ErrInvalidInstance, ids[i], len(c))
		}
		cities[i] = City{ID: ids[i], X: c[0], Y: c[1]}
	}
	return NewInstanceWithMetric(cities, metric)
}

// NewInstanceFile describes inst as a document of the given edge weight type.
func NewInstanceFile(name string, inst *Instance, edgeWeightType string, depot int) *InstanceFile {
	f := &InstanceFile{
		Name:            name,
		Type:            "TSP",
		Dimension:       inst.Len(),
		DisplayDataType: "COORD_DISPLAY",
		EdgeWeightType:  edgeWeightType,
		Depots:          []int{depot},
		NodeIDs:         inst.IDs(),
	}
	if edgeWeightType == Explicit {
		f.DisplayDataType = "NO_DISPLAY"
		f.EdgeWeights = inst.Matrix()
		return f
	}
	for _, c := range inst.cities {
		f.NodeCoordinates = append(f.NodeCoordinates, []float64{c.X, c.Y})
	}
	return f
}

type Solution struct {
	Algorithm    string `json:"algorithm"`
	Backend      string `json:"backend,omitempty"`
	Objective    string `json:"objective"`
	Optimal      bool   `json:"optimal"`
	TSPLength    int    `json:"tsp_length"`
	Tour         []int  `json:"tour"`
	Route        []int  `json:"route"`
	Route1       []int  `json:"route1"`
	Route2       []int  `json:"route2"`
	Route1Length int    `json:"route1_length"`
	Route2Length int    `json:"route2_length"`
	Bottleneck   int    `json:"bottleneck"`

	Time    string  `json:"time"`
	System  SysInfo `json:"system"`
	Comment string  `json:"comment"`
}

// NewSolution fills the route part of a solution document from a split.
func NewSolution(tour Tour, res SplitResult) *Solution {
	return &Solution{
		TSPLength:    res.TourLength,
		Tour:         append([]int(nil), tour...),
		Route:        res.Route,
		Route1:       res.Route1,
		Route2:       res.Route2,
		Route1Length: res.Route1Length,
		Route2Length: res.Route2Length,
		Bottleneck:   res.Bottleneck(),
	}
}

// SysInfo saves the basic system information
type SysInfo struct {
	Platform string
	CPU      string
	RAM      string
}
