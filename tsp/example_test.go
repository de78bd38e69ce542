package tsp_test

import (
	"fmt"

	"github.com/katalvlaran/courierround/matrix"
	"github.com/katalvlaran/courierround/tsp"
)

// ExampleBranchAndBound solves the depot/A/B instance where the one-way
// D→B arc (6) is a trap: D→A→B→D costs 7, D→B→A→D costs 11.
func ExampleBranchAndBound() {
	m, _ := matrix.NewDenseFrom([][]float64{
		{0, 2, 6},
		{2, 0, 3},
		{2, 3, 0},
	})
	res, err := tsp.BranchAndBound(m, tsp.DefaultOptions())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Tour, res.Cost, res.Status)
	// Output:
	// [0 1 2 0] 7 optimal
}

// ExampleNewStrategy picks the solver from configuration.
func ExampleNewStrategy() {
	kind, _ := tsp.ParseKind("heuristic")
	s, _ := tsp.NewStrategy(kind, tsp.DefaultOptions())

	m, _ := matrix.NewDenseFrom([][]float64{
		{0, 4},
		{4, 0},
	})
	res, _ := s.Solve(m)
	fmt.Println(s.Name(), res.Tour, res.Cost)
	// Output:
	// heuristic [0 1 0] 8
}
