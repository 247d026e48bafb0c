package model

import "fmt"

// State is a step of a single extraction/narration run.
type State string

const (
	StateIdle            State = "idle"
	StateLoaded          State = "loaded"
	StatePerPage         State = "per_page"
	StateTranscriptReady State = "transcript_ready"
	StateSynthesizing    State = "synthesizing"
	StateAudioReady      State = "audio_ready"
	StateFailed          State = "failed"
)

var transitions = map[State][]State{
	StateIdle:            {StateLoaded, StateFailed},
	StateLoaded:          {StatePerPage, StateFailed},
	StatePerPage:         {StatePerPage, StateTranscriptReady, StateFailed},
	StateTranscriptReady: {StateSynthesizing},
	StateSynthesizing:    {StateAudioReady, StateFailed},
}

// Terminal reports whether no further transition is possible from s.
// TranscriptReady is a successful end state but may still move to Synthesizing.
func (s State) Terminal() bool {
	return s == StateFailed || s == StateAudioReady
}

// CanTransition reports whether the run may move from s to next.
func (s State) CanTransition(next State) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Run tracks the state of one run and the page currently being processed.
type Run struct {
	state State
	page  int
}

// NewRun returns a run in StateIdle.
func NewRun() *Run {
	return &Run{state: StateIdle}
}

// NewRunAt returns a run that starts in s, e.g. a narration of an existing
// transcript starting at StateTranscriptReady.
func NewRunAt(s State) *Run {
	return &Run{state: s}
}

// State returns the current state.
func (r *Run) State() State { return r.state }

// Page returns the last page (1-based) entered via StatePerPage.
func (r *Run) Page() int { return r.page }

// Advance moves the run to next, or returns an error if the transition is not allowed.
func (r *Run) Advance(next State) error {
	if !r.state.CanTransition(next) {
		return fmt.Errorf("invalid state transition %s -> %s", r.state, next)
	}
	r.state = next
	return nil
}

// EnterPage moves the run to StatePerPage for the given 1-based page.
func (r *Run) EnterPage(page int) error {
	if err := r.Advance(StatePerPage); err != nil {
		return err
	}
	r.page = page
	return nil
}

// Fail moves the run to StateFailed when allowed. It returns false if the
// current state has no failure edge (e.g. already failed).
func (r *Run) Fail() bool {
	return r.Advance(StateFailed) == nil
}
