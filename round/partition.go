package round

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/courierround/core"
)

// Partitioner splits delivery requests among couriers. Partition returns
// exactly couriers groups of indexes into requests; a group may be empty.
type Partitioner interface {
	Name() string
	Partition(g *core.RoadGraph, requests []DeliveryRequest, couriers int) ([][]int, error)
}

// ParsePartition returns the policy registered under name ("" = contiguous).
func ParsePartition(name string) (Partitioner, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "contiguous":
		return Contiguous{}, nil
	case "kmeans", "k-means":
		return KMeans{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPartition, name)
	}
}

// Contiguous splits the request list by position into groups whose sizes
// differ by at most one; earlier couriers take the extra requests.
type Contiguous struct{}

func (Contiguous) Name() string { return "contiguous" }

// Partition implements Partitioner.
func (Contiguous) Partition(_ *core.RoadGraph, requests []DeliveryRequest, couriers int) ([][]int, error) {
	if couriers < 1 {
		return nil, &InvalidCourierCountError{Count: couriers, Deliveries: len(requests)}
	}
	var (
		n      = len(requests)
		base   = n / couriers
		extra  = n % couriers
		groups = make([][]int, couriers)
		next   int
		c, i   int
		size   int
	)
	for c = 0; c < couriers; c++ {
		size = base
		if c < extra {
			size++
		}
		groups[c] = make([]int, 0, size)
		for i = 0; i < size; i++ {
			groups[c] = append(groups[c], next)
			next++
		}
	}

	return groups, nil
}

// defaultKMeansIters caps Lloyd iterations when KMeans.MaxIter is 0.
const defaultKMeansIters = 50

// KMeans clusters requests on intersection coordinates into
// min(couriers, len(requests)) groups. Seeding is deterministic: the first
// request, then repeatedly the request farthest from every chosen seed.
type KMeans struct {
	MaxIter int
}

func (KMeans) Name() string { return "kmeans" }

// Partition implements Partitioner.
func (k KMeans) Partition(g *core.RoadGraph, requests []DeliveryRequest, couriers int) ([][]int, error) {
	if couriers < 1 {
		return nil, &InvalidCourierCountError{Count: couriers, Deliveries: len(requests)}
	}
	groups := make([][]int, couriers)
	n := len(requests)
	if n == 0 {
		return groups, nil
	}

	pts := make([][2]float64, n)
	for i, r := range requests {
		it, err := g.Intersection(r.Address)
		if err != nil {
			return nil, err
		}
		pts[i] = [2]float64{it.Latitude, it.Longitude}
	}

	clusters := couriers
	if n < clusters {
		clusters = n
	}
	centers := seedCenters(pts, clusters)
	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}

	iters := k.MaxIter
	if iters <= 0 {
		iters = defaultKMeansIters
	}
	for it := 0; it < iters; it++ {
		changed := false
		for i, p := range pts {
			best := nearest(centers, p)
			if best != assign[i] {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
		centers = recenter(pts, assign, centers)
	}

	for i, c := range assign {
		groups[c] = append(groups[c], i)
	}

	return groups, nil
}

func seedCenters(pts [][2]float64, k int) [][2]float64 {
	centers := [][2]float64{pts[0]}
	minD := make([]float64, len(pts))
	for i, p := range pts {
		minD[i] = sqDist(p, pts[0])
	}
	for len(centers) < k {
		far := 0
		for i := range pts {
			if minD[i] > minD[far] {
				far = i
			}
		}
		centers = append(centers, pts[far])
		for i, p := range pts {
			if d := sqDist(p, pts[far]); d < minD[i] {
				minD[i] = d
			}
		}
	}

	return centers
}

func recenter(pts [][2]float64, assign []int, prev [][2]float64) [][2]float64 {
	sum := make([][2]float64, len(prev))
	cnt := make([]int, len(prev))
	for i, c := range assign {
		sum[c][0] += pts[i][0]
		sum[c][1] += pts[i][1]
		cnt[c]++
	}
	out := make([][2]float64, len(prev))
	for c := range out {
		if cnt[c] == 0 {
			out[c] = prev[c]
			continue
		}
		out[c] = [2]float64{sum[c][0] / float64(cnt[c]), sum[c][1] / float64(cnt[c])}
	}

	return out
}

func nearest(centers [][2]float64, p [2]float64) int {
	best, bestD := 0, math.Inf(1)
	for c, ctr := range centers {
		if d := sqDist(p, ctr); d < bestD {
			best, bestD = c, d
		}
	}

	return best
}

func sqDist(a, b [2]float64) float64 {
	dx, dy := a[0]-b[0], a[1]-b[1]

	return dx*dx + dy*dy
}
