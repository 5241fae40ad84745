// Package stepper owns the navigation state of a running show: which
// slide and step are displayed, whether the display is blanked, and the
// address the show was navigated to, if any. All movement goes through
// the operations defined here, which replace the state as a whole and
// notify listeners of accepted changes.
package stepper

import (
	"fmt"
	"slices"
)

// State is the complete navigation state. Slide and Step are indices
// into the show and into the slide's timeline respectively.
// PendingAddress holds the address a Show call navigated to, or "" when
// navigation was not address-driven.
type State struct {
	Slide          int
	Step           int
	Blanked        bool
	PendingAddress string
}

// Listener receives the new and previous state after every accepted,
// state-altering operation. Listeners run in subscription order.
type Listener func(now, was State)

// Stepper is a single-owner state machine. It is not safe for
// concurrent use; drive it from one goroutine.
type Stepper struct {
	stepCounts []int
	state      State
	listeners  []Listener
}

// New creates a Stepper over a show with the given per-slide step
// counts, positioned at the given slide and step. An out-of-range
// initial coordinate silently resets to the start of the show. A show
// with no slides, or a slide with no steps, cannot be displayed at all,
// so New panics on either.
func New(stepCounts []int, slide, step int) *Stepper {
	if len(stepCounts) == 0 {
		panic("stepper: a show needs at least one slide")
	}
	for i, count := range stepCounts {
		if count < 1 {
			panic(fmt.Sprintf("stepper: slide %d has no steps", i))
		}
	}
	if slide < 0 || slide >= len(stepCounts) || step < 0 || step >= stepCounts[slide] {
		slide, step = 0, 0
	}
	return &Stepper{
		stepCounts: slices.Clone(stepCounts),
		state:      State{Slide: slide, Step: step},
	}
}

// OnChange registers a listener for state changes.
func (s *Stepper) OnChange(fn Listener) {
	s.listeners = append(s.listeners, fn)
}

// State returns the current navigation state.
func (s *Stepper) State() State {
	return s.state
}

// SlideCount returns the number of slides in the show.
func (s *Stepper) SlideCount() int {
	return len(s.stepCounts)
}

// StepCount returns the number of steps of the given slide.
func (s *Stepper) StepCount(slide int) int {
	return s.stepCounts[slide]
}

// apply installs next as the current state and notifies listeners,
// unless it equals the current state, in which case nothing happens.
func (s *Stepper) apply(next State) {
	if next == s.state {
		return
	}
	was := s.state
	s.state = next
	for _, fn := range s.listeners {
		fn(next, was)
	}
}

// move carries the shared discipline of the relative operations: while
// blanked a movement only lifts the blanking and stays put, otherwise
// the state moves to the given coordinate, and an actual coordinate
// change drops any pending address.
func (s *Stepper) move(slide, step int) {
	next := s.state
	if next.Blanked {
		next.Blanked = false
		s.apply(next)
		return
	}
	next.Slide, next.Step = slide, step
	if next.Slide != s.state.Slide || next.Step != s.state.Step {
		next.PendingAddress = ""
	}
	s.apply(next)
}

// Show jumps directly to the given slide and step, recording the
// address which caused the jump ("" when there was none). The request
// is rejected, with no state change and no notification, when the
// coordinate is out of range. An accepted Show always clears blanking
// and replaces the pending address, and returns true even when the
// resulting state is identical to the current one; only an actual
// change notifies listeners.
func (s *Stepper) Show(slide, step int, address string) bool {
	if slide < 0 || slide >= len(s.stepCounts) || step < 0 || step >= s.stepCounts[slide] {
		return false
	}
	s.apply(State{Slide: slide, Step: step, PendingAddress: address})
	return true
}

// NextStep advances one step within the current slide, stopping at the
// last step. While blanked it only lifts the blanking.
func (s *Stepper) NextStep() {
	s.move(s.state.Slide, min(s.state.Step+1, s.stepCounts[s.state.Slide]-1))
}

// PreviousStep retreats one step within the current slide, stopping at
// the first step. While blanked it only lifts the blanking.
func (s *Stepper) PreviousStep() {
	s.move(s.state.Slide, max(s.state.Step-1, 0))
}

// NextSlide moves to the first step of the following slide, clamped to
// the last slide. While blanked it only lifts the blanking.
func (s *Stepper) NextSlide() {
	s.move(min(s.state.Slide+1, len(s.stepCounts)-1), 0)
}

// PreviousSlide moves to the first step of the preceding slide, not to
// the first step of the current one, clamped to the first slide. While
// blanked it only lifts the blanking.
func (s *Stepper) PreviousSlide() {
	s.move(max(s.state.Slide-1, 0), 0)
}

// Start jumps to the first step of the first slide. While blanked it
// only lifts the blanking.
func (s *Stepper) Start() {
	s.move(0, 0)
}

// End jumps to the last step of the last slide. While blanked it only
// lifts the blanking.
func (s *Stepper) End() {
	last := len(s.stepCounts) - 1
	s.move(last, s.stepCounts[last]-1)
}

// ToggleBlank flips the blanked flag. It never moves the current
// position and never touches the pending address.
func (s *Stepper) ToggleBlank() {
	next := s.state
	next.Blanked = !next.Blanked
	s.apply(next)
}
