package builds

import (
	"errors"
	"slices"

	"go.uber.org/zap"
)

// LayerSteps is the outcome of build resolution for a single layer.
type LayerSteps struct {
	// Label is the raw layer name the annotation was parsed from.
	Label string

	// Tags lists the tag names the layer defines, in order of first
	// appearance in the label.
	Tags []string

	// Numbers holds the resolved step numbers during which the layer is
	// visible, ascending and free of duplicates. It is nil when the label
	// carries no specification (the layer is always visible); a layer
	// which is never visible ("<>") has an empty, non-nil list.
	Numbers []int

	// Indices maps Numbers onto positions in the slide timeline.
	Indices []int
}

// Annotated reports whether the layer's label carried a parsable build
// specification.
func (l *LayerSteps) Annotated() bool { return l.Numbers != nil }

// Result is the resolved build structure of one slide.
type Result struct {
	// Layers holds per-layer resolution results, in the order the labels
	// were given.
	Layers []LayerSteps

	// Timeline is the ascending list of distinct step numbers the slide
	// steps through. It is never empty: a slide without annotated layers
	// has the single implicit step number zero.
	Timeline []int

	// Tags maps each tag name defined by any layer to the ascending step
	// indices of the annotated layers carrying it. A tag defined only on
	// layers without a specification maps to an empty list.
	Tags map[string][]int
}

// StepCount returns the number of steps the slide builds through.
func (r *Result) StepCount() int { return len(r.Timeline) }

// StepIndex returns the timeline position of a step number.
func (r *Result) StepIndex(number int) (int, bool) {
	at := slices.Index(r.Timeline, number)
	if at < 0 {
		return 0, false
	}
	return at, true
}

// Evaluate parses and resolves the build specifications of a slide's
// layers. Labels must be given in the order the layers are presented to
// the user, outermost first, since relative steps ('+' and '.') refer to
// the previous layer in that order.
//
// A label with unparsable bracket syntax is downgraded to "no
// specification" with a logged warning. References to undefined tags and
// cyclic tag dependencies fail with *UnknownTagError or *TagCycleError.
func Evaluate(labels []string, log *zap.Logger) (*Result, error) {
	specs := make([]Spec, len(labels))
	tags := make([][]string, len(labels))
	for i, label := range labels {
		spec, err := ParseSpec(label)
		if err != nil {
			log.Warn("Unparsable build specification in layer name, treating layer as always visible",
				zap.String("layer", label), zap.Error(err))
			spec = nil
		}
		specs[i] = spec
		tags[i] = ParseTags(label)
	}

	// Layers without a specification take part in resolution as the full
	// range "<->": tags defined on them resolve to every step, and the
	// expanded range keeps the timeline contiguous.
	defaulted := make([]Spec, len(labels))
	for i, spec := range specs {
		if spec == nil {
			defaulted[i] = Spec{Span(Start(), End())}
		} else {
			defaulted[i] = spec
		}
	}

	resolved, err := resolveTags(tags, resolveAutos(defaulted))
	if err != nil {
		var unknown *UnknownTagError
		var cycle *TagCycleError
		switch {
		case errors.As(err, &unknown):
			unknown.Name = labels[unknown.Layer]
		case errors.As(err, &cycle):
			for _, i := range cycle.Layers {
				cycle.Names = append(cycle.Names, labels[i])
			}
		}
		return nil, err
	}
	numbers := normalise(resolveRanges(resolveBounds(resolved)))

	var timeline []int
	for _, steps := range numbers {
		timeline = append(timeline, steps...)
	}
	slices.Sort(timeline)
	timeline = slices.Compact(timeline)
	if len(timeline) == 0 {
		timeline = []int{0}
	}

	result := &Result{
		Layers:   make([]LayerSteps, len(labels)),
		Timeline: timeline,
		Tags:     make(map[string][]int),
	}
	for i, label := range labels {
		layer := LayerSteps{Label: label, Tags: tags[i]}
		if specs[i] != nil {
			layer.Numbers = numbers[i]
			if layer.Numbers == nil {
				layer.Numbers = []int{}
			}
			layer.Indices = make([]int, len(layer.Numbers))
			for j, n := range layer.Numbers {
				layer.Indices[j] = slices.Index(timeline, n)
			}
		}
		for _, tag := range layer.Tags {
			if _, ok := result.Tags[tag]; !ok {
				result.Tags[tag] = []int{}
			}
			result.Tags[tag] = append(result.Tags[tag], layer.Indices...)
		}
		result.Layers[i] = layer
	}
	for tag, indices := range result.Tags {
		slices.Sort(indices)
		result.Tags[tag] = slices.Compact(indices)
	}
	return result, nil
}
