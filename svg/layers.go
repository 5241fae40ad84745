package svg

import "slices"

// Layer is an Inkscape layer. Inkscape represents layers as svg:g
// elements with inkscape:groupmode="layer"; any other grouping is
// invisible to the layers panel and to us.
type Layer struct {
	Node     int
	Label    string
	Children []*Layer
}

// IsLayer reports whether node i is an Inkscape layer.
func (a *Arena) IsLayer(i int) bool {
	if !a.Is(i, NSSVG, "g") {
		return false
	}
	mode, _ := a.Attr(i, NSInkscape, "groupmode")
	return mode == "layer"
}

// LayerLabel returns the label of a layer node, or "" when the layer
// has none.
func (a *Arena) LayerLabel(i int) string {
	label, _ := a.Attr(i, NSInkscape, "label")
	return label
}

// Layers enumerates the document's layer hierarchy in panel order: the
// nesting and top-to-bottom order shown in Inkscape's layers panel,
// which is the reverse of document order at every level. Elements that
// are not layers do not appear but layers nested inside them do, under
// the nearest enclosing layer.
func Layers(a *Arena) []*Layer {
	root := &Layer{Node: -1}

	type item struct {
		parent *Layer
		node   int
	}
	queue := []item{{root, 0}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		parent := it.parent
		if a.IsLayer(it.node) {
			layer := &Layer{Node: it.node, Label: a.LayerLabel(it.node)}
			parent.Children = slices.Insert(parent.Children, 0, layer)
			parent = layer
		}
		for _, child := range a.Children(it.node) {
			queue = append(queue, item{parent, child})
		}
	}

	return root.Children
}

// Flatten lists a layer hierarchy depth first, each layer before its
// children. Applied to Layers output this matches the top-to-bottom
// reading order of the expanded layers panel.
func Flatten(layers []*Layer) []*Layer {
	var out []*Layer
	var walk func([]*Layer)
	walk = func(ls []*Layer) {
		for _, l := range ls {
			out = append(out, l)
			walk(l.Children)
		}
	}
	walk(layers)
	return out
}
