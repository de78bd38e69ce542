package round

import (
	"context"
	"fmt"
	"log"

	"github.com/katalvlaran/courierround/tsp"
)

// InsertIntoTour adds req to the live tour of courier at the cheapest
// position, keeping the visiting order of every other stop. Other couriers'
// tours are left as they are. The updated tour is stored in r and returned.
//
// req must already be in r.Requests. The result carries tsp.StatusHeuristic:
// an insertion does not preserve optimality.
func (a *Assembler) InsertIntoTour(ctx context.Context, r *Round, courier int, req DeliveryRequest) (t *DeliveryTour, err error) {
	if r == nil || r.Graph == nil {
		return nil, ErrNilGraph
	}
	if !r.hasCourier(courier) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCourier, courier)
	}
	prev, ok := r.Tours[courier]
	if !ok {
		return nil, fmt.Errorf("%w: courier %d has no tour", ErrUnknownCourier, courier)
	}

	points := make([]string, 0, len(prev.Requests)+2)
	points = append(points, r.Depot)
	points = append(points, prev.Addresses()...)
	points = append(points, req.Address)

	dm, err := a.buildMatrix(ctx, r, points)
	if err != nil {
		return nil, &CourierError{Courier: courier, Err: err}
	}

	k := len(prev.Requests)
	order := make([]int, 0, k+2)
	for i := 0; i <= k; i++ {
		order = append(order, i)
	}
	order = append(order, 0)

	pos, delta, err := tsp.CheapestInsertion(dm, order, k+1)
	if err != nil {
		return nil, &CourierError{Courier: courier, Err: err}
	}
	order = append(order[:pos], append([]int{k + 1}, order[pos:]...)...)

	reqs := make([]DeliveryRequest, 0, k+1)
	reqs = append(reqs, prev.Requests[:pos-1]...)
	reqs = append(reqs, req)
	reqs = append(reqs, prev.Requests[pos-1:]...)

	if t, err = a.simulate(dm, courier, order, reqs); err != nil {
		return nil, &CourierError{Courier: courier, Err: err}
	}
	t.Status = tsp.StatusHeuristic

	tours := make(map[int]*DeliveryTour, len(r.Tours))
	for c, other := range r.Tours {
		tours[c] = other
	}
	tours[courier] = t
	r.SetTours(tours)
	log.Printf("[ROUND] courier %d: inserted %s at stop %d (+%.1f m)", courier, req.Address, pos, delta)

	return t, nil
}
