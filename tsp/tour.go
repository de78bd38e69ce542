package tsp

// ValidateTour enforces the closed-permutation invariants of a Result tour:
//
//	len(tour) == n+1, tour[0] == tour[n] == 0,
//	each vertex v∈[0..n-1] appears exactly once in positions [0..n-1].
//
// n == 1 is the depot-only tour [0, 0].
//
// Complexity: O(n) time, O(n) space.
func ValidateTour(tour []int, n int) error {
	if n <= 0 || len(tour) != n+1 {
		return ErrInvalidTour
	}
	if tour[0] != 0 || tour[n] != 0 {
		return ErrInvalidTour
	}
	seen := make([]bool, n)
	var (
		i, v int
	)
	for i = 0; i < n; i++ {
		v = tour[i]
		if v < 0 || v >= n || seen[v] {
			return ErrInvalidTour
		}
		seen[v] = true
	}

	return nil
}

// trivialRing returns 0,1,…,n−1,0.
func trivialRing(n int) []int {
	t := make([]int, n+1)
	var i int
	for i = 0; i < n; i++ {
		t[i] = i
	}
	t[n] = 0

	return t
}

// reverseArcInPlace reverses tour[i..k] (inclusive).
func reverseArcInPlace(tour []int, i, k int) {
	for i < k {
		tour[i], tour[k] = tour[k], tour[i]
		i++
		k--
	}
}

// CopyTour returns an independent copy of tour.
func CopyTour(tour []int) []int {
	if tour == nil {
		return nil
	}

	return append([]int(nil), tour...)
}

// trivialResult answers n ≤ 2, where only one cycle exists.
func trivialResult(w []float64, n int) (Result, error) {
	t := trivialRing(n)
	c := tourCostFlat(w, n, t)
	if isInf(c) {
		return Result{}, ErrIncompleteGraph
	}

	return Result{Tour: t, Cost: round1e9(c), Status: StatusOptimal}, nil
}
