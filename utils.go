package twotsp

import (
	"fmt"
	"regexp"
)

// GetArcIndex returns the position of the directed arc (i,j), i != j, in a
// block of n*(n-1) arc variables starting at start. Arcs are ordered by tail
// and then by head, skipping the diagonal.
func GetArcIndex(i, j, n, start int) int {
	if j > i {
		j--
	}
	return start + i*(n-1) + j
}

// CalcEdgeDist builds the full distance matrix of coordinates under
// distType (GEO, EUC_2D or CEIL_2D).
func CalcEdgeDist(coordinates [][]float64, distType string) ([][]int, error) {
	metric, err := MetricFor(distType)
	if err != nil {
		return nil, err
	}
	n := len(coordinates)
	cities := make([]City, n)
	for node, c := range coordinates {
		if len(c) < 2 {
			return nil, fmt.Errorf("%w: node %d has %d coordinates", ErrInvalidInstance, node, len(c))
		}
		cities[node] = City{ID: node, X: c[0], Y: c[1]}
	}
	result := make([][]int, n)
	for node := 0; node < n; node++ {
		result[node] = make([]int, n)
		for node2 := 0; node2 < node; node2++ {
			distance := metric(cities[node], cities[node2])
			result[node][node2] = distance
			result[node2][node] = distance
		}
	}
	return result, nil
}

var (
	jsonNumbers  = regexp.MustCompile(`\s*([-]?[0-9]+(\.[0-9]+)?),\s+([-]?[0-9]+(\.[0-9]+)?)(,)?`)
	jsonBrackets = regexp.MustCompile(`\[(([-]?[0-9]+(\.[0-9]+)?,)+[-]?[0-9]+(\.[0-9]+)?)\s+\](,?)(\s+)`)
	jsonSingle   = regexp.MustCompile(`\[\s+([-]?[0-9]+(\.[0-9]+)?)\s+\]`)
)

// SanitizeJsonArrayLineBreaks puts number arrays of indented JSON back on a
// single line.
func SanitizeJsonArrayLineBreaks(json string) string {
	res := json
	for jsonNumbers.MatchString(res) {
		res = jsonNumbers.ReplaceAllString(res, "$1,$3$5")
	}
	for jsonBrackets.MatchString(res) {
		res = jsonBrackets.ReplaceAllString(res, "[$1]$5$6")
	}
	return jsonSingle.ReplaceAllString(res, "[$1]")
}
