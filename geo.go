package twotsp

import (
	"fmt"
	"math"
)

// EarthRadius is the idealized sphere radius (km) of the TSPLIB GEO metric.
const EarthRadius = 6378.388

// Edge weight types understood by MetricFor and the instance documents.
const (
	Geo      = "GEO"
	Euc2D    = "EUC_2D"
	Ceil2D   = "CEIL_2D"
	Explicit = "EXPLICIT"
)

// City is a point of an instance. For GEO instances X holds the latitude and
// Y the longitude in TSPLIB notation: the integer part is whole degrees and
// the fractional part is minutes/100 (DDD.MM).
type City struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Metric converts two cities into an integer travel distance.
type Metric func(a, b City) int

// Latitude returns the latitude of c in radians.
func (c City) Latitude() float64 { return geoRadians(c.X) }

// Longitude returns the longitude of c in radians.
func (c City) Longitude() float64 { return geoRadians(c.Y) }

func geoRadians(deg float64) float64 {
	whole := math.Trunc(deg)
	return math.Pi * (whole + 5*(deg-whole)/3) / 180
}

// GeoDistance is the TSPLIB GEO distance between a and b.
//
// The result is truncated and then incremented by one, which is what the
// published TSPLIB optima are computed with. Two cities at the same
// coordinates are at distance 0.
func GeoDistance(a, b City) int {
	if a.X == b.X && a.Y == b.Y {
		return 0
	}
	latA, lonA := a.Latitude(), a.Longitude()
	latB, lonB := b.Latitude(), b.Longitude()

	q1 := math.Cos(lonA - lonB)
	q2 := math.Cos(latA - latB)
	q3 := math.Cos(latA + latB)

	arg := 0.5 * ((1+q1)*q2 - (1-q1)*q3)
	// nearby points can push the argument a few ulps past 1
	if arg > 1 {
		arg = 1
	} else if arg < -1 {
		arg = -1
	}
	return int(EarthRadius*math.Acos(arg) + 1)
}

// EuclideanDistance is the TSPLIB EUC_2D distance (rounded to nearest).
func EuclideanDistance(a, b City) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return int(math.Sqrt(dx*dx+dy*dy) + 0.5)
}

// CeilDistance is the TSPLIB CEIL_2D distance (rounded up).
func CeilDistance(a, b City) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return int(math.Ceil(math.Sqrt(dx*dx + dy*dy)))
}

// MetricFor returns the metric for a coordinate based edge weight type.
func MetricFor(edgeWeightType string) (Metric, error) {
	switch edgeWeightType {
	case Geo:
		return GeoDistance, nil
	case Euc2D:
		return EuclideanDistance, nil
	case Ceil2D:
		return CeilDistance, nil
	default:
		return nil, fmt.Errorf("%w: unsupported edge weight type %q", ErrInvalidInstance, edgeWeightType)
	}
}
