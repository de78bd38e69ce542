// Package mutation records reversible edits of a round's delivery requests
// (add, add to a courier, delete, move the depot) on an undo/redo log.
//
// When tours are live, every Apply, Undo and Redo leaves them consistent
// with the edited request set: either the command updates them itself
// (insertion into one courier's tour and its exact undo) or the log
// recomputes the round. If that is impossible the stale tours are dropped
// and the Outcome carries a StaleTourWarning.
package mutation
