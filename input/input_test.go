package input

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.solver4all.com/azaryc2s/twotsp"
)

func TestReadCities(t *testing.T) {
	cities, err := ReadCities(strings.NewReader("3\n0 16.47 96.10\n1  16.47 94.44\n\n2 20.09 92.54\n"))
	require.NoError(t, err)
	assert.Equal(t, []twotsp.City{
		{ID: 0, X: 16.47, Y: 96.10},
		{ID: 1, X: 16.47, Y: 94.44},
		{ID: 2, X: 20.09, Y: 92.54},
	}, cities)
}

func TestReadCitiesKeepsRecordsBeforeMalformedOne(t *testing.T) {
	cities, err := ReadCities(strings.NewReader("4\n0 1 2\n1 3 4\n2 x 5\n3 6 7\n"))
	require.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "line 4")
	assert.Equal(t, []twotsp.City{{ID: 0, X: 1, Y: 2}, {ID: 1, X: 3, Y: 4}}, cities)
}

func TestReadCitiesErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		keep  int
	}{
		{"empty", "", 0},
		{"bad count", "many\n", 0},
		{"too few fields", "2\n1 2\n", 0},
		{"truncated", "3\n1 2 3\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cities, err := ReadCities(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrMalformedRecord)
			assert.Len(t, cities, tt.keep)
		})
	}
}

func TestReadCitiesSample(t *testing.T) {
	f, err := os.Open("../testdata/burma14.txt")
	require.NoError(t, err)
	defer f.Close()

	cities, err := ReadCities(f)
	require.NoError(t, err)
	require.Len(t, cities, 14)
	assert.Equal(t, twotsp.City{ID: 14, X: 20.09, Y: 94.55}, cities[13])
}

func TestReadTSPLIB(t *testing.T) {
	f, err := os.Open("../testdata/burma14.tsp")
	require.NoError(t, err)
	defer f.Close()

	doc, err := ReadTSPLIB(f)
	require.NoError(t, err)
	assert.Equal(t, "burma14", doc.Name)
	assert.Equal(t, twotsp.Geo, doc.EdgeWeightType)
	assert.Equal(t, 14, doc.Dimension)
	assert.Equal(t, []float64{16.47, 96.10}, doc.NodeCoordinates[0])

	inst, err := doc.Instance()
	require.NoError(t, err)
	d, err := inst.Distance(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 153, d)
	assert.Equal(t, 1, doc.Depot())
}

func TestReadTSPLIBExplicit(t *testing.T) {
	src := `NAME: tiny
TYPE: TSP
DIMENSION: 3
EDGE_WEIGHT_TYPE: EXPLICIT
EDGE_WEIGHT_FORMAT: FULL_MATRIX
EDGE_WEIGHT_SECTION
0 1 2
1 0 3
2 3 0
EOF
`
	doc, err := ReadTSPLIB(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2}, {1, 0, 3}, {2, 3, 0}}, doc.EdgeWeights)

	inst, err := doc.Instance()
	require.NoError(t, err)
	d, err := inst.Distance(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, d)
}

func TestReadTSPLIBPartial(t *testing.T) {
	src := "NAME: broken\nTYPE: TSP\nDIMENSION: 3\nEDGE_WEIGHT_TYPE: EUC_2D\nNODE_COORD_SECTION\n1 0 0\n2 3 oops\n3 1 1\nEOF\n"
	doc, err := ReadTSPLIB(strings.NewReader(src))
	require.ErrorIs(t, err, ErrMalformedRecord)
	require.NotNil(t, doc)
	assert.Equal(t, []int{1}, doc.NodeIDs)
	assert.Equal(t, 1, doc.Dimension)
}

func TestReadTSPLIBUnsupported(t *testing.T) {
	_, err := ReadTSPLIB(strings.NewReader("NAME: x\nTYPE: TSP\nEDGE_WEIGHT_TYPE: ATT\n"))
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = ReadTSPLIB(strings.NewReader("NAME: x\nTYPE: CVRP\n"))
	assert.ErrorIs(t, err, ErrUnsupported)
}
