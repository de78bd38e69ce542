// Package dijkstra provides single-source shortest paths over a core.RoadGraph
// and the path reconstruction the delivery planner needs to turn a visiting
// order back into real road sections.
//
// Overview:
//
//   - Dijkstra(g, src, opts...) returns a Tree with dense Dist/Prev slices.
//   - Tree.PathTo(dst) expands Prev into []core.Section (cost, sections).
//   - ShortestPath / ShortestDistance answer one pair and stop at the target.
//   - ShortestPathByID is the same on intersection IDs (diagnostics, previews).
//
// Unreachable destinations yield cost +Inf, an empty path, and an
// *UnreachablePointError (errors.Is(err, ErrUnreachable) holds).
//
// Thread safety:
//
//   - RoadGraph is immutable; any number of goroutines may run Dijkstra on it.
//   - Each call owns its runner state; nothing is shared between calls.
package dijkstra
