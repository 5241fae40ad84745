package svg

import (
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestExtractNotes(t *testing.T) {
	d := load(t, `<svg xmlns="http://www.w3.org/2000/svg"
	                   xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
		<g inkscape:groupmode="layer" inkscape:label="Bullets &lt;2-3>">
			<text><tspan>###</tspan><tspan>mention the figures</tspan></text>
		</g>
		<text><tspan>###</tspan><tspan>welcome everyone</tspan></text>
	</svg>`)

	steps, err := AnnotateBuildSteps(d.Arena, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("AnnotateBuildSteps: %v", err)
	}

	notes := ExtractNotes(d.Arena, steps)
	if len(notes) != 2 {
		t.Fatalf("notes = %d, want 2", len(notes))
	}

	if !slices.Equal(notes[0].StepNumbers, []int{2, 3}) {
		t.Errorf("layer note steps = %v", notes[0].StepNumbers)
	}
	if notes[0].Text != "mention the figures" {
		t.Errorf("layer note text = %q", notes[0].Text)
	}

	if notes[1].StepNumbers != nil {
		t.Errorf("free note steps = %v, want nil", notes[1].StepNumbers)
	}
	if notes[1].Text != "welcome everyone" {
		t.Errorf("free note text = %q", notes[1].Text)
	}

	out, err := d.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if strings.Contains(string(out), "###") {
		t.Errorf("note elements left in the document:\n%s", out)
	}
}

func TestEmbedNotes(t *testing.T) {
	d := load(t, `<svg xmlns="http://www.w3.org/2000/svg"/>`)

	EmbedNotes(d.Arena, []Note{
		{StepNumbers: nil, Text: "always"},
		{StepNumbers: []int{1, 2}, Text: "later"},
	})

	out, err := d.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	doc := string(out)

	for _, fragment := range []string{
		"<sdv:notes>",
		"<sdv:note>always</sdv:note>",
		`<sdv:note steps="[1,2]">later</sdv:note>`,
	} {
		if !strings.Contains(doc, fragment) {
			t.Errorf("output missing %q:\n%s", fragment, doc)
		}
	}
}
