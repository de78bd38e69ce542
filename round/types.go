package round

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/courierround/core"
	"github.com/katalvlaran/courierround/tsp"
)

// NoCourier marks a delivery request that is not attributed to any tour.
const NoCourier = -1

var (
	// ErrNilGraph indicates a Round without a road graph.
	ErrNilGraph = errors.New("round: road graph is nil")

	// ErrNoDepot indicates a solve or edit that needs a depot before one is defined.
	ErrNoDepot = errors.New("round: depot not defined")

	// ErrInvalidCourierCount is matched by every *InvalidCourierCountError.
	ErrInvalidCourierCount = errors.New("round: invalid courier count")

	// ErrUnknownRequest indicates a delivery request id that is not in the round.
	ErrUnknownRequest = errors.New("round: unknown delivery request")

	// ErrUnknownCourier indicates a courier id outside the courier list.
	ErrUnknownCourier = errors.New("round: unknown courier")

	// ErrUnknownPartition indicates an unrecognized partition policy name.
	ErrUnknownPartition = errors.New("round: unknown partition policy")
)

// InvalidCourierCountError rejects a courier count below 1 or above the
// number of delivery requests.
type InvalidCourierCountError struct {
	Count      int
	Deliveries int
}

func (e *InvalidCourierCountError) Error() string {
	if e.Count < 1 {
		return fmt.Sprintf("round: courier count %d must be at least 1", e.Count)
	}

	return fmt.Sprintf("round: %d couriers for %d deliveries", e.Count, e.Deliveries)
}

// Is makes errors.Is(err, ErrInvalidCourierCount) hold.
func (e *InvalidCourierCountError) Is(target error) bool { return target == ErrInvalidCourierCount }

// CourierError is the failure of one courier's tour. Other couriers of the
// same round are unaffected.
type CourierError struct {
	Courier int
	Err     error
}

func (e *CourierError) Error() string { return fmt.Sprintf("round: courier %d: %v", e.Courier, e.Err) }
func (e *CourierError) Unwrap() error { return e.Err }

// Courier is identified by its position in the courier list.
type Courier struct {
	ID int `json:"id"`
}

// DeliveryRequest is one address to serve.
type DeliveryRequest struct {
	ID      int    `json:"id"`
	Address string `json:"address"`
	Courier int    `json:"courier"`
}

// Stop is one delivery in visiting order.
type Stop struct {
	RequestID int       `json:"requestId"`
	Address   string    `json:"address"`
	Arrival   time.Time `json:"arrival"`
	Departure time.Time `json:"departure"`
	Late      bool      `json:"late,omitempty"`
}

// Leg is the shortest path between two consecutive points of a tour.
type Leg struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Length   float64        `json:"length"`
	Sections []core.Section `json:"sections"`
}

// DeliveryTour is the computed tour of one courier. It is replaced as a
// whole on every recompute.
type DeliveryTour struct {
	Courier  int                  `json:"courier"`
	Requests []DeliveryRequest    `json:"requests"`
	Stops    []Stop               `json:"stops"`
	Legs     []Leg                `json:"legs"`
	Route    []core.Section       `json:"route"`
	Arrivals map[string]time.Time `json:"arrivalTimes"`
	Start    time.Time            `json:"startTime"`
	End      time.Time            `json:"endTime"`
	Length   float64              `json:"length"`
	Status   tsp.Status           `json:"status"`
}

// Late reports whether any stop falls after the end of the workday.
func (t *DeliveryTour) Late() bool {
	for _, s := range t.Stops {
		if s.Late {
			return true
		}
	}

	return false
}

// Addresses returns the delivery addresses in visiting order.
func (t *DeliveryTour) Addresses() []string {
	out := make([]string, len(t.Requests))
	for i, r := range t.Requests {
		out[i] = r.Address
	}

	return out
}

// Timing holds the constants of the arrival-time simulation.
type Timing struct {
	// SpeedKmh is the constant courier speed.
	SpeedKmh float64
	// Service is spent at each delivery before leaving.
	Service time.Duration
	// DayStart is the departure time as an offset from midnight.
	DayStart time.Duration
	// Workday bounds on-time deliveries, counted from DayStart.
	Workday time.Duration
	// Date is the day of the round; zero means today (local time).
	Date time.Time
}

// DefaultTiming: 15 km/h, 5 minutes per delivery, 08:00 start, 8 h workday.
func DefaultTiming() Timing {
	return Timing{
		SpeedKmh: 15,
		Service:  5 * time.Minute,
		DayStart: 8 * time.Hour,
		Workday:  8 * time.Hour,
	}
}

// StartTime is the departure from the depot.
func (t Timing) StartTime() time.Time {
	d := t.Date
	if d.IsZero() {
		d = time.Now()
	}
	y, m, day := d.Date()

	return time.Date(y, m, day, 0, 0, 0, 0, d.Location()).Add(t.DayStart)
}

// Travel returns the time needed to cover meters at SpeedKmh.
func (t Timing) Travel(meters float64) time.Duration {
	sec := meters * 3600 / (t.SpeedKmh * 1000)

	return time.Duration(math.Round(sec * float64(time.Second)))
}
