package svg

import "encoding/json"

// notePrefix marks a text element as a speaker note.
const notePrefix = "###\n"

// Note is one speaker note extracted from a slide.
type Note struct {
	// StepNumbers lists the resolved step numbers the note applies to,
	// taken from the nearest enclosing annotated layer. It is nil for
	// notes outside any annotated layer, which apply to every step.
	StepNumbers []int

	// Text is the note body with the marker line removed, verbatim.
	Text string
}

// ExtractNotes finds and removes all speaker notes in the document, in
// document order.
func ExtractNotes(a *Arena, steps *BuildSteps) []Note {
	var notes []Note

	for _, found := range a.FindTextWithPrefix(notePrefix) {
		var numbers []int
		if layer := steps.ElementSteps(found.Node); layer != nil {
			numbers = layer.Numbers
		}
		notes = append(notes, Note{StepNumbers: numbers, Text: found.Text})
		a.RemoveNode(found.Node)
	}

	return notes
}

// EmbedNotes appends the extracted notes back to the document as a
// dedicated structure under the root element:
//
//	<sdv:notes>
//	    <sdv:note>...</sdv:note>
//	    <sdv:note steps="[1,2,3]">...</sdv:note>
//	</sdv:notes>
//
// Notes tied to build steps carry a steps attribute holding the JSON
// step number list.
func EmbedNotes(a *Arena, notes []Note) {
	a.ensurePrefix()

	container := a.Nodes[0].El.CreateElement(nsPrefix + ":notes")
	for _, note := range notes {
		el := container.CreateElement(nsPrefix + ":note")
		el.SetText(note.Text)
		if note.StepNumbers != nil {
			steps, _ := json.Marshal(note.StepNumbers)
			el.CreateAttr("steps", string(steps))
		}
	}
}
