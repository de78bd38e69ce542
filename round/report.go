package round

import (
	"fmt"
	"strings"
)

const clockLayout = "15:04"

// Report renders a tour as a plain-text itinerary: consecutive sections of
// the same street are merged, stops show arrival and departure times.
func Report(t *DeliveryTour) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Courier %d: %d deliveries, %.0f m, %s -> %s (%s)\n",
		t.Courier, len(t.Stops), t.Length, t.Start.Format(clockLayout), t.End.Format(clockLayout), t.Status)

	// Leg i ends at stop i; the last leg returns to the depot.
	for i, leg := range t.Legs {
		for _, st := range streets(leg) {
			fmt.Fprintf(&sb, "  follow %s for %.0f m\n", st.name, st.length)
		}
		if i < len(t.Stops) {
			s := t.Stops[i]
			late := ""
			if s.Late {
				late = " LATE"
			}
			fmt.Fprintf(&sb, "  %s deliver #%d at %s, leave %s%s\n",
				s.Arrival.Format(clockLayout), s.RequestID, s.Address, s.Departure.Format(clockLayout), late)
		}
	}
	fmt.Fprintf(&sb, "  %s back at depot\n", t.End.Format(clockLayout))

	return sb.String()
}

// ReportRound concatenates the reports of every tour in courier order.
func ReportRound(r *Round) string {
	var sb strings.Builder
	for _, c := range r.CourierIDs() {
		sb.WriteString(Report(r.Tours[c]))
	}

	return sb.String()
}

type street struct {
	name   string
	length float64
}

// streets merges consecutive sections of one leg that share a street name.
func streets(leg Leg) []street {
	var out []street
	for _, s := range leg.Sections {
		name := s.Name
		if name == "" {
			name = "unnamed street"
		}
		if n := len(out); n > 0 && out[n-1].name == name {
			out[n-1].length += s.Length
			continue
		}
		out = append(out, street{name: name, length: s.Length})
	}

	return out
}
