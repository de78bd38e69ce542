// Package courierround plans the daily delivery rounds of a courier
// company over a city road map.
//
// The module is organized as flat library packages plus a service shell:
//
//	core/      - immutable road graph: intersections, one-way sections, fingerprint
//	dijkstra/  - single-source shortest paths with path reconstruction
//	matrix/    - Matrix interface, Dense, and the per-courier DistanceMatrix builder
//	tsp/       - exact Branch-and-Bound, heuristic strategy, insertion and local search
//	round/     - Round aggregate, partitioning, parallel tour assembly, timing, report
//	mutation/  - undoable edits of the delivery requests with tour refresh
//	session/   - lock-protected Round + history per loaded map, session manager
//	internal/  - XML ingestion, configuration, SQL store, HTTP API, timing logs
//	cmd/server - composition root
//
// A typical solve:
//
//	g, _ := ingest.LoadMap(mapFile)
//	s, _ := sessions.Create(g)
//	_ = s.LoadDeliveries(depot, points)
//	_ = s.SetCourierCount(3)
//	tours, err := s.ComputeRound(ctx, 20*time.Second, tsp.KindExact)
//
// err joins one *round.CourierError per courier whose points cannot be
// reached; the tours of the other couriers are still returned.
package courierround
