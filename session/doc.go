// Package session binds a Round, its undo log and a solver configuration
// into one lock-protected unit per loaded map, and keeps the live sessions
// of the process in a Manager.
//
// Lifecycle: Manager.Create on map load, LoadDeliveries resets the round
// and its history, Manager.Delete tears the session down. Sessions are
// in-memory; Snapshot and Restore let the service layer persist a round.
package session
