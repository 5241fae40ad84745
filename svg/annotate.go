package svg

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"sdv/builds"
)

// BuildSteps binds a document's resolved build structure to its arena.
type BuildSteps struct {
	// Result is the slide's resolved build structure.
	Result *builds.Result

	// Layers is the flattened layer hierarchy in panel order, parallel
	// to Result.Layers.
	Layers []*Layer

	arena  *Arena
	byNode map[int]int // layer node index to position in Layers
}

// AnnotateBuildSteps resolves the build specification of every layer
// and writes the outcome onto the annotated layer elements as NSSdv
// steps (JSON step number list) and tags (space separated names)
// attributes.
func AnnotateBuildSteps(a *Arena, log *zap.Logger) (*BuildSteps, error) {
	flat := Flatten(Layers(a))

	labels := make([]string, len(flat))
	for i, layer := range flat {
		labels[i] = layer.Label
	}

	result, err := builds.Evaluate(labels, log)
	if err != nil {
		return nil, err
	}

	b := &BuildSteps{
		Result: result,
		Layers: flat,
		arena:  a,
		byNode: make(map[int]int, len(flat)),
	}
	for i, layer := range flat {
		b.byNode[layer.Node] = i

		resolved := &result.Layers[i]
		if !resolved.Annotated() {
			continue
		}
		steps, _ := json.Marshal(resolved.Numbers)
		a.SetNodeAttr(layer.Node, "steps", string(steps))
		if len(resolved.Tags) > 0 {
			a.SetNodeAttr(layer.Node, "tags", strings.Join(resolved.Tags, " "))
		}
	}

	return b, nil
}

// LayerSteps returns the resolution outcome of the layer at node, or
// nil when node is not a layer.
func (b *BuildSteps) LayerSteps(node int) *builds.LayerSteps {
	if i, ok := b.byNode[node]; ok {
		return &b.Result.Layers[i]
	}
	return nil
}

// ElementSteps returns the resolved steps governing the visibility of
// node: those of its nearest enclosing annotated layer. It returns nil
// when every enclosing layer is unannotated and the node is visible on
// every step.
func (b *BuildSteps) ElementSteps(node int) *builds.LayerSteps {
	for i := node; i != -1; i = b.arena.Parent(i) {
		if layer := b.LayerSteps(i); layer != nil && layer.Annotated() {
			return layer
		}
	}
	return nil
}
