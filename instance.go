package twotsp

import (
	"fmt"
	"math"
)

// Arc is one directed entry of the distance table.
type Arc struct {
	From     int `json:"from"`
	To       int `json:"to"`
	Distance int `json:"distance"`
}

// Instance is an ordered set of cities together with their distance table.
// It is immutable after construction and safe for concurrent use.
type Instance struct {
	cities []City
	index  map[int]int // city id -> position in cities
	dist   [][]int     // by position
}

// NewInstance builds an Instance over cities using the GEO metric.
func NewInstance(cities []City) (*Instance, error) {
	return NewInstanceWithMetric(cities, GeoDistance)
}

// NewInstanceWithMetric builds an Instance over cities using metric. The
// diagonal of the table is always zero.
func NewInstanceWithMetric(cities []City, metric Metric) (*Instance, error) {
	if metric == nil {
		return nil, fmt.Errorf("%w: nil metric", ErrInvalidInstance)
	}
	inst, err := newInstance(cities)
	if err != nil {
		return nil, err
	}
	for i, c := range inst.cities {
		if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsInf(c.X, 0) || math.IsInf(c.Y, 0) {
			return nil, fmt.Errorf("%w: city %d has non-finite coordinates", ErrInvalidInstance, c.ID)
		}
		for j := 0; j < i; j++ {
			d := metric(c, inst.cities[j])
			if d < 0 {
				return nil, fmt.Errorf("%w: negative distance between %d and %d", ErrInvalidInstance, c.ID, inst.cities[j].ID)
			}
			inst.dist[i][j] = d
			inst.dist[j][i] = metric(inst.cities[j], c)
		}
	}
	return inst, nil
}

// NewInstanceFromMatrix builds an Instance from an explicit weight matrix.
// weights[i][j] is the distance from ids[i] to ids[j]; the matrix must be
// square, non-negative and zero on the diagonal.
func NewInstanceFromMatrix(ids []int, weights [][]int) (*Instance, error) {
	cities := make([]City, len(ids))
	for i, id := range ids {
		cities[i] = City{ID: id}
	}
	inst, err := newInstance(cities)
	if err != nil {
		return nil, err
	}
	n := len(ids)
	if len(weights) != n {
		return nil, fmt.Errorf("%w: %d ids but %d matrix rows", ErrInvalidInstance, n, len(weights))
	}
	for i := 0; i < n; i++ {
		if len(weights[i]) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrInvalidInstance, i, len(weights[i]), n)
		}
		if weights[i][i] != 0 {
			return nil, fmt.Errorf("%w: non-zero diagonal at %d", ErrInvalidInstance, ids[i])
		}
		for j := 0; j < n; j++ {
			if weights[i][j] < 0 {
				return nil, fmt.Errorf("%w: negative distance between %d and %d", ErrInvalidInstance, ids[i], ids[j])
			}
			inst.dist[i][j] = weights[i][j]
		}
	}
	return inst, nil
}

func newInstance(cities []City) (*Instance, error) {
	n := len(cities)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 cities, got %d", ErrInvalidInstance, n)
	}
	inst := &Instance{
		cities: make([]City, n),
		index:  make(map[int]int, n),
		dist:   make([][]int, n),
	}
	copy(inst.cities, cities)
	for i, c := range inst.cities {
		if _, dup := inst.index[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate city id %d", ErrInvalidInstance, c.ID)
		}
		inst.index[c.ID] = i
		inst.dist[i] = make([]int, n)
	}
	return inst, nil
}

// Len returns the number of cities.
func (inst *Instance) Len() int { return len(inst.cities) }

// Cities returns a copy of the cities in instance order.
func (inst *Instance) Cities() []City {
	out := make([]City, len(inst.cities))
	copy(out, inst.cities)
	return out
}

// IDs returns the city ids in instance order.
func (inst *Instance) IDs() []int {
	out := make([]int, len(inst.cities))
	for i, c := range inst.cities {
		out[i] = c.ID
	}
	return out
}

// City returns the city with the given id.
func (inst *Instance) City(id int) (City, bool) {
	i, ok := inst.index[id]
	if !ok {
		return City{}, false
	}
	return inst.cities[i], true
}

// Index returns the position of city id in instance order.
func (inst *Instance) Index(id int) (int, bool) {
	i, ok := inst.index[id]
	return i, ok
}

// Distance returns the table entry from city a to city b.
func (inst *Instance) Distance(a, b int) (int, error) {
	i, ok := inst.index[a]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCity, a)
	}
	j, ok := inst.index[b]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCity, b)
	}
	return inst.dist[i][j], nil
}

// at is the position based lookup used by the solvers.
func (inst *Instance) at(i, j int) int { return inst.dist[i][j] }

// Arcs returns every ordered pair of distinct cities with its distance,
// row-major in instance order.
func (inst *Instance) Arcs() []Arc {
	n := len(inst.cities)
	arcs := make([]Arc, 0, n*(n-1))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			arcs = append(arcs, Arc{From: inst.cities[i].ID, To: inst.cities[j].ID, Distance: inst.dist[i][j]})
		}
	}
	return arcs
}

// Matrix returns a copy of the distance table in instance order.
func (inst *Instance) Matrix() [][]int {
	out := make([][]int, len(inst.dist))
	for i, row := range inst.dist {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// TourLength returns the length of the closed cycle described by t.
func (inst *Instance) TourLength(t Tour) (int, error) {
	if err := t.Validate(inst); err != nil {
		return 0, err
	}
	return inst.pathLength(t, true), nil
}

// pathLength sums consecutive distances of ids, closing the cycle when asked.
// ids must be known to inst.
func (inst *Instance) pathLength(ids []int, closed bool) int {
	length := 0
	for k := 0; k+1 < len(ids); k++ {
		length += inst.dist[inst.index[ids[k]]][inst.index[ids[k+1]]]
	}
	if closed && len(ids) > 1 {
		length += inst.dist[inst.index[ids[len(ids)-1]]][inst.index[ids[0]]]
	}
	return length
}
