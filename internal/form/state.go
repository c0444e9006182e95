package form

import "github.com/spigell/jd-match/internal/view"

// Phase is a step of the submission lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseRendering
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseRendering:
		return "rendering"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of everything the user can see.
type State struct {
	Phase          Phase
	ErrorVisible   bool
	ErrorMessage   string
	LoadingVisible bool
	SubmitEnabled  bool
	ResultsVisible bool
	// Results keeps the last rendered view, also while it is hidden.
	Results *view.View
}

func initialState() State {
	return State{Phase: PhaseIdle, SubmitEnabled: true}
}

// Display receives every state transition.
type Display interface {
	Show(State)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(State)

func (f DisplayFunc) Show(s State) { f(s) }
