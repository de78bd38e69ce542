package round

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/courierround/internal/obs"
	"github.com/katalvlaran/courierround/matrix"
	"github.com/katalvlaran/courierround/tsp"
)

// Assembler turns a Round into per-courier tours.
//
// Couriers are solved in parallel (at most MaxParallel at once, 0 means
// GOMAXPROCS). Each courier gets its own distance matrix and solver state.
type Assembler struct {
	Strategy    tsp.Strategy
	Partition   Partitioner
	Cache       matrix.DistanceCache
	Timing      Timing
	MaxParallel int
}

// NewAssembler returns an Assembler with the contiguous partition and
// default timing.
func NewAssembler(strategy tsp.Strategy) *Assembler {
	return &Assembler{
		Strategy:  strategy,
		Partition: Contiguous{},
		Timing:    DefaultTiming(),
	}
}

// WithStrategy returns a shallow copy using s.
func (a *Assembler) WithStrategy(s tsp.Strategy) *Assembler {
	cp := *a
	cp.Strategy = s

	return &cp
}

// ComputeRound partitions r's requests, solves one tour per courier and
// stores the result in r (tours replaced wholesale, request couriers updated).
//
// Failure policy:
//   - Invalid courier count, missing depot: returned before any matrix work; r untouched.
//   - Matrix errors (unreachable or unknown point) fail that courier only:
//     other tours are stored and the returned error joins one *CourierError per failure.
//   - Solver errors and context cancellation abort the call; r is untouched.
func (a *Assembler) ComputeRound(ctx context.Context, r *Round) (tours map[int]*DeliveryTour, err error) {
	defer obs.Time(ctx, "round.compute")(&err)

	if err = a.check(r); err != nil {
		return nil, err
	}
	groups, err := a.partition().Partition(r.Graph, r.Requests, len(r.Couriers))
	if err != nil {
		return nil, err
	}

	var (
		results  = make([]*DeliveryTour, len(groups))
		failures = make([]error, len(groups))
		start    = time.Now()
	)
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(a.parallelism())
	for c := range groups {
		reqs := make([]DeliveryRequest, len(groups[c]))
		for i, idx := range groups[c] {
			reqs[i] = r.Requests[idx]
		}
		eg.Go(func() error {
			t, err := a.solveCourier(egctx, r, c, reqs)
			var ce *CourierError
			if errors.As(err, &ce) {
				failures[c] = err
				return nil
			}
			results[c] = t

			return err
		})
	}
	if err = eg.Wait(); err != nil {
		return nil, err
	}

	tours = make(map[int]*DeliveryTour, len(groups))
	var courierErrs []error
	for c := range groups {
		if failures[c] != nil {
			courierErrs = append(courierErrs, failures[c])
			continue
		}
		tours[c] = results[c]
	}
	r.SetTours(tours)
	log.Printf("[ROUND] computed %d/%d tours for %d deliveries (%s, %s) in %v",
		len(tours), len(groups), len(r.Requests), a.Strategy.Name(), a.partition().Name(), time.Since(start))

	return tours, errors.Join(courierErrs...)
}

// solveCourier returns the tour of courier c. A *CourierError fails only
// this courier; any other error aborts the round.
func (a *Assembler) solveCourier(ctx context.Context, r *Round, c int, reqs []DeliveryRequest) (*DeliveryTour, error) {
	points := make([]string, 0, len(reqs)+1)
	points = append(points, r.Depot)
	for _, q := range reqs {
		points = append(points, q.Address)
	}

	dm, err := a.buildMatrix(ctx, r, points)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("[ROUND] courier %d: %v", c, err)

		return nil, &CourierError{Courier: c, Err: err}
	}

	res, err := a.Strategy.Solve(dm)
	if err != nil {
		return nil, fmt.Errorf("round: courier %d: %w", c, err)
	}
	log.Printf("[ROUND] courier %d: %d deliveries, %.1f m, %s, %d nodes",
		c, len(reqs), res.Cost, res.Status, res.Nodes)

	ordered := make([]DeliveryRequest, 0, len(reqs))
	for _, idx := range res.Tour[1 : len(res.Tour)-1] {
		ordered = append(ordered, reqs[idx-1])
	}
	t, err := a.simulate(dm, c, res.Tour, ordered)
	if err != nil {
		return nil, &CourierError{Courier: c, Err: err}
	}
	t.Status = res.Status

	return t, nil
}

func (a *Assembler) buildMatrix(ctx context.Context, r *Round, points []string) (*matrix.DistanceMatrix, error) {
	var opts []matrix.BuildOption
	if a.Cache != nil {
		opts = append(opts, matrix.WithCache(a.Cache))
	}
	dm, err := matrix.Build(ctx, r.Graph, points, opts...)
	if err != nil {
		return nil, err
	}
	if dm.CacheErr != nil {
		log.Printf("[CACHE] distance cache unavailable: %v", dm.CacheErr)
	}

	return dm, nil
}

// simulate walks order (matrix indexes, closed at 0) and times every stop.
// reqs are the delivery requests in visiting order.
func (a *Assembler) simulate(dm *matrix.DistanceMatrix, courier int, order []int, reqs []DeliveryRequest) (*DeliveryTour, error) {
	tm := a.Timing
	t := &DeliveryTour{
		Courier:  courier,
		Requests: reqs,
		Stops:    make([]Stop, 0, len(reqs)),
		Arrivals: make(map[string]time.Time, len(reqs)),
		Start:    tm.StartTime(),
	}
	var (
		clock   = t.Start
		dayEnd  = t.Start.Add(tm.Workday)
		k, stop int
	)
	for k = 0; k+1 < len(order); k++ {
		from, to := order[k], order[k+1]
		if from == to {
			continue
		}
		cost, sections, err := dm.Path(from, to)
		if err != nil {
			return nil, err
		}
		t.Legs = append(t.Legs, Leg{From: dm.Points[from], To: dm.Points[to], Length: cost, Sections: sections})
		t.Route = append(t.Route, sections...)
		t.Length += cost
		clock = clock.Add(tm.Travel(cost))
		if to == 0 {
			continue
		}

		req := reqs[stop]
		stop++
		s := Stop{RequestID: req.ID, Address: req.Address, Arrival: clock}
		clock = clock.Add(tm.Service)
		s.Departure = clock
		s.Late = s.Arrival.After(dayEnd)
		t.Stops = append(t.Stops, s)
		if _, seen := t.Arrivals[req.Address]; !seen {
			t.Arrivals[req.Address] = s.Arrival
		}
	}
	t.End = clock

	return t, nil
}

func (a *Assembler) check(r *Round) error {
	if r == nil || r.Graph == nil {
		return ErrNilGraph
	}
	if a.Strategy == nil {
		return fmt.Errorf("round: %w", tsp.ErrUnknownStrategy)
	}
	if r.Depot == "" {
		return ErrNoDepot
	}
	if n := len(r.Couriers); n < 1 || n > len(r.Requests) {
		return &InvalidCourierCountError{Count: n, Deliveries: len(r.Requests)}
	}

	return nil
}

func (a *Assembler) partition() Partitioner {
	if a.Partition == nil {
		return Contiguous{}
	}

	return a.Partition
}

// Waves returns how many rounds of parallel solves ComputeRound needs for
// the given courier count.
func (a *Assembler) Waves(couriers int) int {
	if couriers < 1 {
		return 0
	}
	p := a.parallelism()

	return (couriers + p - 1) / p
}

func (a *Assembler) parallelism() int {
	if a.MaxParallel > 0 {
		return a.MaxParallel
	}

	return runtime.GOMAXPROCS(0)
}
