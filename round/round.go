package round

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/courierround/core"
)

// Round is the session state of one delivery day: the map, the depot,
// the couriers, the delivery requests and the last computed tours.
//
// Round is not safe for concurrent use; the session layer serializes access.
type Round struct {
	Graph    *core.RoadGraph       `json:"-"`
	Depot    string                `json:"depot"`
	Couriers []Courier             `json:"couriers"`
	Requests []DeliveryRequest     `json:"requests"`
	Tours    map[int]*DeliveryTour `json:"tours,omitempty"`
	NextID   int                   `json:"nextId"`
}

// New returns an empty round over g with one courier.
func New(g *core.RoadGraph) (*Round, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	return &Round{Graph: g, Couriers: []Courier{{ID: 0}}, NextID: 1}, nil
}

// LoadDeliveries replaces the depot and every request, and drops computed tours.
// All addresses must exist on the map.
func (r *Round) LoadDeliveries(depot string, addresses []string) error {
	if err := r.checkAddress(depot); err != nil {
		return err
	}
	for _, a := range addresses {
		if err := r.checkAddress(a); err != nil {
			return err
		}
	}
	r.Depot = depot
	r.Requests = make([]DeliveryRequest, 0, len(addresses))
	r.NextID = 1
	for _, a := range addresses {
		r.Requests = append(r.Requests, DeliveryRequest{ID: r.NextID, Address: a, Courier: NoCourier})
		r.NextID++
	}
	r.Tours = nil

	return nil
}

// SetCourierCount replaces the courier list with n couriers (ids 0..n-1).
// The upper bound is checked at solve time, when the request count is known.
func (r *Round) SetCourierCount(n int) error {
	if n < 1 {
		return &InvalidCourierCountError{Count: n, Deliveries: len(r.Requests)}
	}
	r.Couriers = make([]Courier, n)
	for i := range r.Couriers {
		r.Couriers[i] = Courier{ID: i}
	}

	return nil
}

// AddRequest appends a request for address and returns it.
func (r *Round) AddRequest(address string) (DeliveryRequest, error) {
	if err := r.checkAddress(address); err != nil {
		return DeliveryRequest{}, err
	}
	req := DeliveryRequest{ID: r.NextID, Address: address, Courier: NoCourier}
	r.NextID++
	r.Requests = append(r.Requests, req)

	return req, nil
}

// InsertRequest puts req back at position pos (clamped to the list).
func (r *Round) InsertRequest(pos int, req DeliveryRequest) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(r.Requests) {
		pos = len(r.Requests)
	}
	r.Requests = append(r.Requests, DeliveryRequest{})
	copy(r.Requests[pos+1:], r.Requests[pos:])
	r.Requests[pos] = req
	if req.ID >= r.NextID {
		r.NextID = req.ID + 1
	}
}

// RemoveRequest deletes the request with id and returns it with its position.
func (r *Round) RemoveRequest(id int) (int, DeliveryRequest, error) {
	pos := r.indexOf(id)
	if pos < 0 {
		return -1, DeliveryRequest{}, fmt.Errorf("%w: %d", ErrUnknownRequest, id)
	}
	req := r.Requests[pos]
	r.Requests = append(r.Requests[:pos], r.Requests[pos+1:]...)

	return pos, req, nil
}

// Request returns the request with id.
func (r *Round) Request(id int) (DeliveryRequest, bool) {
	if pos := r.indexOf(id); pos >= 0 {
		return r.Requests[pos], true
	}

	return DeliveryRequest{}, false
}

// SetDepot changes the depot and returns the previous one.
func (r *Round) SetDepot(address string) (string, error) {
	if err := r.checkAddress(address); err != nil {
		return "", err
	}
	prev := r.Depot
	r.Depot = address

	return prev, nil
}

// HasTours reports whether a computed attribution is live.
func (r *Round) HasTours() bool { return len(r.Tours) > 0 }

// ClearTours drops every tour and courier attribution.
func (r *Round) ClearTours() {
	r.Tours = nil
	for i := range r.Requests {
		r.Requests[i].Courier = NoCourier
	}
}

// SetTours replaces the attribution wholesale and updates request couriers.
func (r *Round) SetTours(tours map[int]*DeliveryTour) {
	r.Tours = tours
	owner := make(map[int]int)
	for c, t := range tours {
		for _, req := range t.Requests {
			owner[req.ID] = c
		}
	}
	for i := range r.Requests {
		if c, ok := owner[r.Requests[i].ID]; ok {
			r.Requests[i].Courier = c
		} else {
			r.Requests[i].Courier = NoCourier
		}
	}
}

// CourierIDs returns courier ids with a tour, ascending.
func (r *Round) CourierIDs() []int {
	ids := make([]int, 0, len(r.Tours))
	for c := range r.Tours {
		ids = append(ids, c)
	}
	sort.Ints(ids)

	return ids
}

// Addresses returns the request addresses in list order.
func (r *Round) Addresses() []string {
	out := make([]string, len(r.Requests))
	for i, req := range r.Requests {
		out[i] = req.Address
	}

	return out
}

// Clone returns a copy that shares only the immutable graph and tours.
func (r *Round) Clone() *Round {
	cp := *r
	cp.Couriers = append([]Courier(nil), r.Couriers...)
	cp.Requests = append([]DeliveryRequest(nil), r.Requests...)
	if r.Tours != nil {
		cp.Tours = make(map[int]*DeliveryTour, len(r.Tours))
		for c, t := range r.Tours {
			cp.Tours[c] = t
		}
	}

	return &cp
}

func (r *Round) hasCourier(id int) bool { return id >= 0 && id < len(r.Couriers) }

func (r *Round) indexOf(id int) int {
	for i := range r.Requests {
		if r.Requests[i].ID == id {
			return i
		}
	}

	return -1
}

func (r *Round) checkAddress(id string) error {
	if r.Graph == nil {
		return ErrNilGraph
	}
	_, err := r.Graph.MustIndex(id)

	return err
}
