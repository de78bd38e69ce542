package mutation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/katalvlaran/courierround/round"
)

var (
	// ErrNothingToUndo is returned by Undo on an empty undo stack; nothing changes.
	ErrNothingToUndo = errors.New("mutation: nothing to undo")

	// ErrNothingToRedo is returned by Redo on an empty redo stack; nothing changes.
	ErrNothingToRedo = errors.New("mutation: nothing to redo")

	// ErrNilCommand is returned by Apply(nil).
	ErrNilCommand = errors.New("mutation: nil command")
)

// StaleTourWarning tells the caller that tours computed before an edit could
// not be refreshed. Affected tours have been dropped; recompute before
// trusting arrival times again.
type StaleTourWarning struct {
	// Couriers lists couriers whose tour is missing after the edit; empty
	// when every tour was dropped.
	Couriers []int  `json:"couriers,omitempty"`
	Reason   string `json:"reason"`
}

func (w *StaleTourWarning) String() string {
	if len(w.Couriers) == 0 {
		return "tours are stale: " + w.Reason
	}
	ids := make([]string, len(w.Couriers))
	for i, c := range w.Couriers {
		ids[i] = fmt.Sprint(c)
	}

	return fmt.Sprintf("tours of couriers %s are stale: %s", strings.Join(ids, ","), w.Reason)
}

// Outcome describes the round after Apply, Undo or Redo.
type Outcome struct {
	Command    string                      `json:"command"`
	Tours      map[int]*round.DeliveryTour `json:"tours,omitempty"`
	Recomputed bool                        `json:"recomputed"`
	Warning    *StaleTourWarning           `json:"warning,omitempty"`
}

type entry struct {
	cmd      Command
	hadTours bool
}

// Log is the undo/redo history of one round. It is not safe for concurrent
// use; the session serializes calls.
type Log struct {
	env  Env
	undo []entry
	redo []entry
}

// NewLog returns an empty log over r. rc may be nil: live tours are then
// dropped with a warning instead of recomputed.
func NewLog(r *round.Round, rc Recomputer) *Log {
	return &Log{env: Env{Round: r, Recomputer: rc}}
}

// Apply runs cmd, pushes it on the undo stack and clears the redo stack.
// A failing cmd leaves both stacks and the round unchanged.
func (l *Log) Apply(ctx context.Context, cmd Command) (Outcome, error) {
	if cmd == nil {
		return Outcome{}, ErrNilCommand
	}
	hadTours := l.env.Round.HasTours()
	handled, err := cmd.Do(ctx, l.env)
	if err != nil {
		return Outcome{}, err
	}
	l.undo = append(l.undo, entry{cmd: cmd, hadTours: hadTours})
	l.redo = nil
	log.Printf("[MUTATION] apply %s (undo=%d)", cmd.Name(), len(l.undo))

	return l.refresh(ctx, cmd, hadTours, handled), nil
}

// Undo reverts the last applied command.
func (l *Log) Undo(ctx context.Context) (Outcome, error) {
	if len(l.undo) == 0 {
		return Outcome{}, ErrNothingToUndo
	}
	e := l.undo[len(l.undo)-1]
	live := e.hadTours || l.env.Round.HasTours()
	handled, err := e.cmd.Undo(ctx, l.env)
	if err != nil {
		return Outcome{}, err
	}
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, e)
	log.Printf("[MUTATION] undo %s (undo=%d redo=%d)", e.cmd.Name(), len(l.undo), len(l.redo))

	return l.refresh(ctx, e.cmd, live, handled), nil
}

// Redo re-applies the last undone command.
func (l *Log) Redo(ctx context.Context) (Outcome, error) {
	if len(l.redo) == 0 {
		return Outcome{}, ErrNothingToRedo
	}
	e := l.redo[len(l.redo)-1]
	live := e.hadTours || l.env.Round.HasTours()
	handled, err := e.cmd.Do(ctx, l.env)
	if err != nil {
		return Outcome{}, err
	}
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, e)
	log.Printf("[MUTATION] redo %s (undo=%d redo=%d)", e.cmd.Name(), len(l.undo), len(l.redo))

	return l.refresh(ctx, e.cmd, live, handled), nil
}

// Reset forgets the whole history (map or delivery reload).
func (l *Log) Reset() {
	l.undo, l.redo = nil, nil
}

// CanUndo reports whether Undo has something to revert.
func (l *Log) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether Redo has something to re-apply.
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// History returns the names of undoable commands, oldest first.
func (l *Log) History() []string {
	out := make([]string, len(l.undo))
	for i, e := range l.undo {
		out[i] = e.cmd.Name()
	}

	return out
}

// refresh brings tours in line with the edited request set.
func (l *Log) refresh(ctx context.Context, cmd Command, live, handled bool) Outcome {
	r := l.env.Round
	out := Outcome{Command: cmd.Name()}
	if !live || handled {
		out.Tours = r.Tours
		return out
	}
	if l.env.Recomputer == nil {
		r.ClearTours()
		out.Warning = &StaleTourWarning{Reason: "no solver configured"}
		return out
	}

	tours, err := l.env.Recomputer.ComputeRound(ctx, r)
	out.Recomputed = true
	if err == nil {
		out.Tours = tours
		return out
	}

	var ce *round.CourierError
	if tours != nil && errors.As(err, &ce) {
		// Partial: the failing couriers have no tour, the others are fresh.
		out.Tours = tours
		out.Warning = &StaleTourWarning{Couriers: failedCouriers(err), Reason: err.Error()}
		log.Printf("[MUTATION] %s", out.Warning)

		return out
	}
	r.ClearTours()
	out.Warning = &StaleTourWarning{Reason: err.Error()}
	log.Printf("[MUTATION] %s", out.Warning)

	return out
}

func failedCouriers(err error) []int {
	var ids []int
	var walk func(error)
	walk = func(e error) {
		if ce, ok := e.(*round.CourierError); ok {
			ids = append(ids, ce.Courier)
			return
		}
		if j, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range j.Unwrap() {
				walk(inner)
			}
		}
	}
	walk(err)

	return ids
}
