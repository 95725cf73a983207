package control

import shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"

type State string

const (
	StateStopped State = "stopped"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// Resolve derives the canonical line state from the latest shift and the
// latest pause recorded against it. Unstarted and finalized shifts both read
// as stopped.
func Resolve(shift *shiftdomain.Shift, latestPause *shiftdomain.Pause) State {
	if !shift.Active() {
		return StateStopped
	}
	if latestPause != nil && latestPause.ShiftID == shift.ID && latestPause.Open() {
		return StatePaused
	}
	return StateRunning
}
