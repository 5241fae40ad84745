package svg

import (
	"slices"
	"testing"
)

const layersDoc = `<svg xmlns="http://www.w3.org/2000/svg"
                        xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
	<g inkscape:groupmode="layer" inkscape:label="Background"/>
	<g inkscape:groupmode="layer" inkscape:label="Content">
		<g inkscape:groupmode="layer" inkscape:label="Nested Bottom"/>
		<g inkscape:groupmode="layer" inkscape:label="Nested Top"/>
	</g>
	<g id="plain-group">
		<g inkscape:groupmode="layer" inkscape:label="Floating"/>
	</g>
</svg>`

func TestLayersPanelOrder(t *testing.T) {
	d := load(t, layersDoc)

	layers := Layers(d.Arena)

	var names []string
	for _, l := range layers {
		names = append(names, l.Label)
	}
	// Later in the document means drawn on top, which the panel lists
	// first. The layer inside the plain group surfaces at top level.
	if want := []string{"Floating", "Content", "Background"}; !slices.Equal(names, want) {
		t.Fatalf("top level layers = %v, want %v", names, want)
	}

	var content *Layer
	for _, l := range layers {
		if l.Label == "Content" {
			content = l
		}
	}
	var nested []string
	for _, l := range content.Children {
		nested = append(nested, l.Label)
	}
	if want := []string{"Nested Top", "Nested Bottom"}; !slices.Equal(nested, want) {
		t.Errorf("nested layers = %v, want %v", nested, want)
	}
}

func TestFlatten(t *testing.T) {
	d := load(t, layersDoc)

	var names []string
	for _, l := range Flatten(Layers(d.Arena)) {
		names = append(names, l.Label)
	}

	want := []string{"Floating", "Content", "Nested Top", "Nested Bottom", "Background"}
	if !slices.Equal(names, want) {
		t.Errorf("flattened order = %v, want %v", names, want)
	}
}

func TestIsLayer(t *testing.T) {
	d := load(t, `<svg xmlns="http://www.w3.org/2000/svg"
	                   xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
		<g inkscape:groupmode="layer"/>
		<g inkscape:label="labelled group"/>
	</svg>`)
	a := d.Arena

	children := a.Children(0)
	if !a.IsLayer(children[0]) {
		t.Errorf("groupmode=layer not recognized as a layer")
	}
	if a.LayerLabel(children[0]) != "" {
		t.Errorf("unlabelled layer label = %q", a.LayerLabel(children[0]))
	}
	if a.IsLayer(children[1]) {
		t.Errorf("plain group with a label mistaken for a layer")
	}
	if a.IsLayer(0) {
		t.Errorf("root mistaken for a layer")
	}
}
