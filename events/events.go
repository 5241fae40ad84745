// Package events projects navigation state changes into per-slide
// notifications, so that slide-local behaviors can react to their slide
// being entered, left, stepped through, blanked or unblanked without
// watching the whole navigation state.
package events

import (
	"fmt"
	"slices"

	"sdv/stepper"
)

// Kind names a per-slide notification.
type Kind int

const (
	SlideEnter Kind = iota
	SlideLeave
	StepChange
	SlideBlank
	SlideUnblank
)

func (k Kind) String() string {
	switch k {
	case SlideEnter:
		return "slideenter"
	case SlideLeave:
		return "slideleave"
	case StepChange:
		return "stepchange"
	case SlideBlank:
		return "slideblank"
	case SlideUnblank:
		return "slideunblank"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is one notification delivered to a slide. Step, Number and Tags
// describe the step the notification concerns: for SlideLeave the step
// the slide was left at, for everything else the step now displayed.
type Event struct {
	Kind   Kind
	Slide  int
	Step   int
	Number int
	Tags   []string
}

// Handler receives the events of one slide.
type Handler func(Event)

// Bridge turns stepper state transitions into per-slide events. Create
// one per loaded show and hook Feed into the stepper:
//
//	bridge := events.NewBridge(index.StepNumbers, index.Tags)
//	st.OnChange(bridge.Feed)
//
// The tables must describe the same show the stepper navigates.
type Bridge struct {
	stepNumbers [][]int
	tags        []map[string][]int
	handlers    map[int][]Handler
}

// NewBridge creates a Bridge over the show described by the per-slide
// step number lists and tag tables.
func NewBridge(stepNumbers [][]int, tags []map[string][]int) *Bridge {
	return &Bridge{
		stepNumbers: stepNumbers,
		tags:        tags,
		handlers:    make(map[int][]Handler),
	}
}

// OnSlide registers a handler for the events of one slide.
func (b *Bridge) OnSlide(slide int, fn Handler) {
	b.handlers[slide] = append(b.handlers[slide], fn)
}

// Feed translates one state transition into events. Departure events
// fire before arrival events: a transition which both moves and
// unblanks delivers SlideLeave on the old slide, then SlideEnter and
// SlideUnblank on the new one. Transitions which change neither
// position nor blanking, such as an address-only change, produce no
// events.
func (b *Bridge) Feed(now, was stepper.State) {
	if now.Slide != was.Slide {
		b.dispatch(b.event(SlideLeave, was.Slide, was.Step))
		b.dispatch(b.event(SlideEnter, now.Slide, now.Step))
	} else if now.Step != was.Step {
		b.dispatch(b.event(StepChange, now.Slide, now.Step))
	}
	if now.Blanked != was.Blanked {
		kind := SlideUnblank
		if now.Blanked {
			kind = SlideBlank
		}
		b.dispatch(b.event(kind, now.Slide, now.Step))
	}
}

func (b *Bridge) event(kind Kind, slide, step int) Event {
	return Event{
		Kind:   kind,
		Slide:  slide,
		Step:   step,
		Number: b.stepNumbers[slide][step],
		Tags:   b.stepTags(slide, step),
	}
}

// stepTags returns the names bound to the given step index, sorted.
func (b *Bridge) stepTags(slide, step int) []string {
	var names []string
	for name, steps := range b.tags[slide] {
		if slices.Contains(steps, step) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func (b *Bridge) dispatch(ev Event) {
	for _, fn := range b.handlers[ev.Slide] {
		fn(ev)
	}
}
