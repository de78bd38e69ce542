package api

import (
	"github.com/katalvlaran/courierround/core"
	"github.com/katalvlaran/courierround/round"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// SessionResponse describes a freshly created session.
type SessionResponse struct {
	ID string `json:"id"`
	core.Stats
}

// CourierCountRequest sets the number of couriers.
type CourierCountRequest struct {
	Count int `json:"count" validate:"required,min=1"`
}

// ComputeRequest selects the strategy and budget of a solve.
type ComputeRequest struct {
	Strategy    string `json:"strategy" validate:"omitempty,oneof=exact heuristic"`
	TimeLimitMs int    `json:"timeLimitMs" validate:"gte=0,lte=120000"`
}

// MutationRequest is one edit of the delivery requests.
//
//	{"kind": "add", "address": "r1c1"}
//	{"kind": "add", "address": "r1c1", "courier": 0}
//	{"kind": "delete", "requestId": 3}
//	{"kind": "depot", "address": "r0c0"}
type MutationRequest struct {
	Kind      string `json:"kind" validate:"required,oneof=add delete depot"`
	Address   string `json:"address" validate:"required_unless=Kind delete"`
	RequestID int    `json:"requestId" validate:"required_if=Kind delete"`
	Courier   *int   `json:"courier" validate:"omitempty,gte=0"`
}

// RestoreRequest names the session whose map the restored round uses.
type RestoreRequest struct {
	Session string `json:"session" validate:"required,uuid"`
}

// CourierFailure reports a courier whose tour could not be computed.
type CourierFailure struct {
	Courier int    `json:"courier"`
	Message string `json:"message"`
}

// RoundResponse is the state of a session's round.
type RoundResponse struct {
	Session  string                      `json:"session"`
	Depot    string                      `json:"depot"`
	Couriers int                         `json:"couriers"`
	Requests []round.DeliveryRequest     `json:"requests"`
	Tours    map[int]*round.DeliveryTour `json:"tours,omitempty"`
	Failures []CourierFailure            `json:"failures,omitempty"`
}

// PathResponse is a shortest path between two intersections.
type PathResponse struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Length   float64        `json:"length"`
	Sections []core.Section `json:"sections"`
}
