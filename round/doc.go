// Package round assembles a delivery round: it splits delivery requests
// among couriers, solves one closed tour per courier from the depot, expands
// each visiting order into road sections and simulates arrival times.
//
// Overview:
//
//   - Round holds the session state (map, depot, couriers, requests, tours).
//   - Partitioner chooses which courier serves which request: Contiguous
//     (default, balanced split by list position) or KMeans (geographic).
//   - Assembler.ComputeRound solves couriers in parallel. An unreachable
//     delivery point fails its courier only (*CourierError); solver errors
//     fail the whole call.
//   - Assembler.InsertIntoTour adds one request to an existing tour at the
//     cheapest position without re-solving.
//   - Report renders a text itinerary grouped by street name.
//
// Timing defaults: 15 km/h, departure 08:00, 5 minutes per delivery,
// 8 hour workday. Deliveries arriving after the workday are flagged Late.
package round
