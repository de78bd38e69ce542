// Package testutil provides road-graph fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/courierround/core"
)

// IslandID is the intersection added by GridWithIsland; nothing connects to it.
const IslandID = "island"

// TwoWay returns the two directed sections of a two-way street.
func TwoWay(a, b, name string, length float64) []core.Section {
	return []core.Section{
		{Origin: a, Destination: b, Name: name, Length: length},
		{Origin: b, Destination: a, Name: name, Length: length},
	}
}

// GridID names the intersection at row r, column c of a Grid.
func GridID(r, c int) string { return fmt.Sprintf("r%dc%d", r, c) }

// Grid builds a rows×cols two-way street grid with the given block length.
// Horizontal streets are named "Row <r>", vertical ones "Col <c>".
// Coordinates grow with r and c so geographic partitioning is meaningful.
func Grid(t testing.TB, rows, cols int, block float64) *core.RoadGraph {
	t.Helper()
	g, err := core.NewRoadGraph(gridParts(rows, cols, block))
	require.NoError(t, err)

	return g
}

// GridWithIsland is Grid plus one intersection without any section.
func GridWithIsland(t testing.TB, rows, cols int, block float64) *core.RoadGraph {
	t.Helper()
	its, secs := gridParts(rows, cols, block)
	its = append(its, core.Intersection{ID: IslandID, Latitude: -1, Longitude: -1})
	g, err := core.NewRoadGraph(its, secs)
	require.NoError(t, err)

	return g
}

func gridParts(rows, cols int, block float64) ([]core.Intersection, []core.Section) {
	its := make([]core.Intersection, 0, rows*cols)
	var secs []core.Section
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			its = append(its, core.Intersection{
				ID:        GridID(r, c),
				Latitude:  45.0 + float64(r)*0.001,
				Longitude: 4.0 + float64(c)*0.001,
			})
			if c+1 < cols {
				secs = append(secs, TwoWay(GridID(r, c), GridID(r, c+1), fmt.Sprintf("Row %d", r), block)...)
			}
			if r+1 < rows {
				secs = append(secs, TwoWay(GridID(r, c), GridID(r+1, c), fmt.Sprintf("Col %d", c), block)...)
			}
		}
	}

	return its, secs
}

// Asymmetric builds the one-way triangle D, A, B:
//
//	D->A 2, A->B 3, B->D 2, D->B 6, B->A 3, A->D 2
//
// Shortest D->B is 5 (through A); the best closed tour is D->A->B->D = 7.
func Asymmetric(t testing.TB) *core.RoadGraph {
	t.Helper()
	g, err := core.NewRoadGraph(
		[]core.Intersection{
			{ID: "D", Latitude: 0, Longitude: 0},
			{ID: "A", Latitude: 0, Longitude: 1},
			{ID: "B", Latitude: 1, Longitude: 1},
		},
		[]core.Section{
			{Origin: "D", Destination: "A", Name: "Depot St", Length: 2},
			{Origin: "A", Destination: "B", Name: "Alpha Ave", Length: 3},
			{Origin: "B", Destination: "D", Name: "Bravo Blvd", Length: 2},
			{Origin: "D", Destination: "B", Name: "Long Rd", Length: 6},
			{Origin: "B", Destination: "A", Name: "Alpha Ave", Length: 3},
			{Origin: "A", Destination: "D", Name: "Depot St", Length: 2},
		},
	)
	require.NoError(t, err)

	return g
}
