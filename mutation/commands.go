package mutation

import (
	"context"
	"fmt"

	"github.com/katalvlaran/courierround/round"
)

// Recomputer refreshes tours after an edit. *round.Assembler implements it.
type Recomputer interface {
	ComputeRound(ctx context.Context, r *round.Round) (map[int]*round.DeliveryTour, error)
	InsertIntoTour(ctx context.Context, r *round.Round, courier int, req round.DeliveryRequest) (*round.DeliveryTour, error)
}

// Env is what a command may touch.
type Env struct {
	Round      *round.Round
	Recomputer Recomputer
}

// Command is one reversible edit of the delivery-request set.
//
// Do and Undo report handled == true when they left the round's tours
// consistent themselves; otherwise the log recomputes when tours are live.
// Do may be called again after Undo (redo) and must reproduce the same edit.
type Command interface {
	Name() string
	Do(ctx context.Context, env Env) (handled bool, err error)
	Undo(ctx context.Context, env Env) (handled bool, err error)
}

// AddDelivery adds a delivery request for Address.
//
// With Courier set (not round.NoCourier) and that courier's tour live, the
// request is inserted into it at the cheapest position and the other tours
// are kept; undo restores the previous tours as long as nothing replaced the
// inserted tour since. Otherwise Courier is a hint only: the request joins the
// pool and the partitioner assigns it on the next solve.
type AddDelivery struct {
	Address string
	Courier int

	req       round.DeliveryRequest
	pos       int
	done      bool
	prevTours map[int]*round.DeliveryTour
	inserted  *round.DeliveryTour
}

// Add returns a plain AddDelivery.
func Add(address string) *AddDelivery {
	return &AddDelivery{Address: address, Courier: round.NoCourier}
}

// AddToCourier returns an AddDelivery targeting courier.
func AddToCourier(address string, courier int) *AddDelivery {
	return &AddDelivery{Address: address, Courier: courier}
}

func (c *AddDelivery) Name() string {
	if c.Courier != round.NoCourier {
		return fmt.Sprintf("add %s to courier %d", c.Address, c.Courier)
	}

	return "add " + c.Address
}

// Request returns the request created by the first Do.
func (c *AddDelivery) Request() round.DeliveryRequest { return c.req }

// Do implements Command.
func (c *AddDelivery) Do(ctx context.Context, env Env) (bool, error) {
	r := env.Round
	if c.Courier != round.NoCourier && (c.Courier < 0 || c.Courier >= len(r.Couriers)) {
		return false, fmt.Errorf("%w: %d", round.ErrUnknownCourier, c.Courier)
	}
	if !c.done {
		req, err := r.AddRequest(c.Address)
		if err != nil {
			return false, err
		}
		c.req, c.pos, c.done = req, len(r.Requests)-1, true
	} else {
		r.InsertRequest(c.pos, c.req)
	}

	c.prevTours, c.inserted = nil, nil
	if c.Courier == round.NoCourier || env.Recomputer == nil {
		return false, nil
	}
	// No tour for the courier (none computed yet, or it failed last solve):
	// the log recomputes when other tours are live.
	if _, ok := r.Tours[c.Courier]; !ok {
		return false, nil
	}
	prev := snapshotTours(r)
	t, err := env.Recomputer.InsertIntoTour(ctx, r, c.Courier, c.req)
	if err != nil {
		_, _, _ = r.RemoveRequest(c.req.ID)
		return false, err
	}
	c.prevTours, c.inserted = prev, t

	return true, nil
}

// Undo implements Command.
func (c *AddDelivery) Undo(_ context.Context, env Env) (bool, error) {
	if _, _, err := env.Round.RemoveRequest(c.req.ID); err != nil {
		return false, err
	}
	if !c.restorable(env.Round) {
		return false, nil
	}
	env.Round.SetTours(c.prevTours)

	return true, nil
}

// restorable reports whether the tours saved by Do still fit r: the inserted
// tour is the one in place and every saved courier still exists.
func (c *AddDelivery) restorable(r *round.Round) bool {
	if c.prevTours == nil || c.inserted == nil || r.Tours[c.Courier] != c.inserted {
		return false
	}
	for id := range c.prevTours {
		if id < 0 || id >= len(r.Couriers) {
			return false
		}
	}

	return true
}

// DeleteDelivery removes the request with RequestID.
type DeleteDelivery struct {
	RequestID int

	req round.DeliveryRequest
	pos int
}

// Delete returns a DeleteDelivery for id.
func Delete(id int) *DeleteDelivery { return &DeleteDelivery{RequestID: id} }

func (c *DeleteDelivery) Name() string { return fmt.Sprintf("delete #%d", c.RequestID) }

// Do implements Command.
func (c *DeleteDelivery) Do(_ context.Context, env Env) (bool, error) {
	pos, req, err := env.Round.RemoveRequest(c.RequestID)
	if err != nil {
		return false, err
	}
	req.Courier = round.NoCourier
	c.pos, c.req = pos, req

	return false, nil
}

// Undo implements Command.
func (c *DeleteDelivery) Undo(_ context.Context, env Env) (bool, error) {
	env.Round.InsertRequest(c.pos, c.req)

	return false, nil
}

// SetDepot moves the depot to Address.
type SetDepot struct {
	Address string

	prev string
}

// Depot returns a SetDepot for address.
func Depot(address string) *SetDepot { return &SetDepot{Address: address} }

func (c *SetDepot) Name() string { return "set depot " + c.Address }

// Do implements Command.
func (c *SetDepot) Do(_ context.Context, env Env) (bool, error) {
	prev, err := env.Round.SetDepot(c.Address)
	if err != nil {
		return false, err
	}
	c.prev = prev

	return false, nil
}

// Undo implements Command.
func (c *SetDepot) Undo(_ context.Context, env Env) (bool, error) {
	env.Round.Depot = c.prev

	return false, nil
}

func snapshotTours(r *round.Round) map[int]*round.DeliveryTour {
	out := make(map[int]*round.DeliveryTour, len(r.Tours))
	for c, t := range r.Tours {
		out[c] = t
	}

	return out
}
