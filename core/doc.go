// Package core holds the road network model shared by every other package.
//
// A RoadGraph G = (V, E) is built once per map load from parsed
// intersections (V) and directed sections (E, weighted by length in meters):
//
//   - Immutable after NewRoadGraph: no locks, safe for concurrent readers.
//   - Dense indexing: every intersection ID maps to exactly one index in
//     [0, NumVertices) and back (Index / ID).
//   - Deterministic adjacency: ForEachOut walks sections in input order, so
//     shortest-path tie-breaks do not depend on map iteration.
//   - Fingerprint: a short content hash used to namespace persisted caches.
//
// Complexity:
//
//	NewRoadGraph  O(V + E)
//	Index / ID    O(1)
//	ForEachOut    O(outdeg(u))
//
// Errors are package sentinels (see types.go) matched with errors.Is.
package core
