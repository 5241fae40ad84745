// Package show assembles slide documents into an ordered deck and builds
// the lookup index navigation runs on.
package show

import (
	"fmt"

	"sdv/svg"
)

// Slide is one processed deck entry.
type Slide struct {
	// Doc is the loaded document with build annotations applied and
	// magic and note text removed.
	Doc *svg.Document

	// FileName is the slide's base name within the deck source.
	FileName string

	// Number is the numeric filename prefix the deck is ordered by.
	Number int

	// ID is the declared slide ID, "" when the slide declares none.
	ID string

	// Steps is the slide's resolved build structure.
	Steps *svg.BuildSteps

	// Notes holds the slide's speaker notes in document order.
	Notes []svg.Note

	// Meta holds the slide's metadata fields.
	Meta svg.Metadata

	// Magic holds the magic blocks remaining after the known keys were
	// consumed, for host shells with their own extensions.
	Magic map[string][]svg.Magic
}

// DuplicateIDError reports a slide ID declared by two slides.
type DuplicateIDError struct {
	ID     string
	First  string
	Second string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("slide id %q is declared by both %s and %s", e.ID, e.First, e.Second)
}

// Show is an ordered deck with its lookup index. The index is built once
// and never updated: when the slide set changes the whole Show is rebuilt.
type Show struct {
	// Slides in presentation order.
	Slides []*Slide

	// Title, Author and Date describe the deck as a whole. Each is taken
	// from the first slide that defines it.
	Title  string
	Author string
	Date   string

	ids         map[string]int
	stepCounts  []int
	stepNumbers [][]int
	tags        []map[string][]int
}

// New indexes an ordered list of processed slides. Loaders other than
// Load may use it to assemble a Show from slides of their own making.
func New(slides []*Slide) (*Show, error) {
	s := &Show{
		Slides:      slides,
		ids:         make(map[string]int),
		stepCounts:  make([]int, len(slides)),
		stepNumbers: make([][]int, len(slides)),
		tags:        make([]map[string][]int, len(slides)),
	}

	for i, sl := range slides {
		s.stepCounts[i] = sl.Steps.Result.StepCount()
		s.stepNumbers[i] = sl.Steps.Result.Timeline
		s.tags[i] = sl.Steps.Result.Tags

		if sl.ID != "" {
			if at, ok := s.ids[sl.ID]; ok {
				return nil, &DuplicateIDError{ID: sl.ID, First: slides[at].FileName, Second: sl.FileName}
			}
			s.ids[sl.ID] = i
		}

		if s.Title == "" {
			s.Title = sl.Meta.Title
		}
		if s.Author == "" {
			s.Author = sl.Meta.Author
		}
		if s.Date == "" {
			s.Date = sl.Meta.Date
		}
	}

	return s, nil
}

// StepCounts returns the per-slide step counts in presentation order.
func (s *Show) StepCounts() []int { return s.stepCounts }

// StepNumbers returns the per-slide step number timelines.
func (s *Show) StepNumbers() [][]int { return s.stepNumbers }

// Tags returns the per-slide tag tables.
func (s *Show) Tags() []map[string][]int { return s.tags }

// IDs maps declared slide IDs to slide positions. Slides without an ID
// are absent.
func (s *Show) IDs() map[string]int { return s.ids }
