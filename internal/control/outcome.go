package control

import "errors"

var (
	ErrNoShift            = errors.New("no_shift")
	ErrNoActiveShift      = errors.New("no_active_shift")
	ErrAlreadyTerminal    = errors.New("already_terminal")
	ErrPreconditionNotMet = errors.New("precondition_not_met")
)

type Action string

const (
	ActionStartOrResume Action = "start_or_resume"
	ActionPause         Action = "pause"
	ActionFinalize      Action = "finalize"
)

// Result is the outcome of a transition. A refused transition is a normal
// result with OK false, not an error.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	State   State  `json:"state"`

	// Refusal is one of the sentinel errors when OK is false.
	Refusal error `json:"-"`
}

// refusal aborts the transaction of a transition whose precondition failed.
type refusal struct {
	reason  error
	message string
}

func (r *refusal) Error() string { return r.message }

func (r *refusal) Unwrap() error { return r.reason }

func refuse(reason error, message string) error {
	return &refusal{reason: reason, message: message}
}

var errGateClosed = errors.New("gate_closed")
