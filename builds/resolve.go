package builds

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Specs resolve in four stages, each eliminating one kind of atom:
//
//  1. '+' and '.' become numbers relative to the previous layer
//  2. tag references are replaced by the referenced layers' steps
//  3. start/end bounds become the slide's first/last step number
//  4. ranges expand into individual step numbers
//
// After stage 4 every spec is a plain list of integers.

// UnknownTagError reports a specification referencing a tag which no layer
// defines.
type UnknownTagError struct {
	Tag   string
	Layer int    // index of the referencing layer
	Name  string // label of the referencing layer, filled by Evaluate
}

func (e *UnknownTagError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("tag @%s referenced by layer %q is not defined by any layer", e.Tag, e.Name)
	}
	return fmt.Sprintf("tag @%s referenced by layer %d is not defined by any layer", e.Tag, e.Layer)
}

// TagCycleError reports tag references forming a dependency cycle. Layers
// lists the indices along the cycle with the first layer repeated last.
type TagCycleError struct {
	Layers []int
	Names  []string // labels of those layers, filled by Evaluate
}

func (e *TagCycleError) Error() string {
	if len(e.Names) > 0 {
		quoted := make([]string, len(e.Names))
		for i, name := range e.Names {
			quoted[i] = fmt.Sprintf("%q", name)
		}
		return "tag references form a cycle: " + strings.Join(quoted, " -> ")
	}
	return fmt.Sprintf("tag references form a cycle through layers %v", e.Layers)
}

// Stage 1: automatic numbering.

func resolveAtomAuto(a Atom, last int) Atom {
	switch a.Kind {
	case AtomPlus:
		return Number(last + 1)
	case AtomDot:
		return Number(last)
	default:
		return a
	}
}

func resolveItemAuto(it Item, last int) Item {
	if it.To == nil {
		return Step(resolveAtomAuto(it.From, last))
	}
	return Span(resolveAtomAuto(it.From, last), resolveAtomAuto(*it.To, last))
}

// firstNumericStep returns the first explicitly numbered step in a spec,
// by position rather than value. Range endpoints count, the start taking
// precedence over the end.
func firstNumericStep(spec Spec) (int, bool) {
	for _, it := range spec {
		switch {
		case it.From.Kind == AtomNumber:
			return it.From.Number, true
		case it.To != nil && it.To.Kind == AtomNumber:
			return it.To.Number, true
		}
	}
	return 0, false
}

// resolveAutos rewrites '+' and '.' atoms into concrete numbers, threading
// the previous layer's first numeric step through the layers in order. Both
// markers in one layer see the same previous value; a layer without a
// numeric step leaves the accumulator untouched.
func resolveAutos(specs []Spec) []Spec {
	out := make([]Spec, len(specs))
	last := 0
	for i, spec := range specs {
		next := make(Spec, len(spec))
		for j, it := range spec {
			next[j] = resolveItemAuto(it, last)
		}
		out[i] = next
		if n, ok := firstNumericStep(next); ok {
			last = n
		}
	}
	return out
}

// Stage 2: tag references.

// referencedTags lists the tags referenced by a spec, in order of first
// appearance.
func referencedTags(spec Spec) []string {
	var tags []string
	add := func(a Atom) {
		if a.Kind == AtomTag && !slices.Contains(tags, a.Tag) {
			tags = append(tags, a.Tag)
		}
	}
	for _, it := range spec {
		add(it.From)
		if it.To != nil {
			add(*it.To)
		}
	}
	return tags
}

// tagResolutionOrder returns layer indices ordered so that every layer is
// visited after the layers defining the tags it references.
func tagResolutionOrder(layerTags [][]string, layerRefs [][]string) ([]int, error) {
	tagToLayers := make(map[string][]int)
	for i, tags := range layerTags {
		for _, tag := range tags {
			if !slices.Contains(tagToLayers[tag], i) {
				tagToLayers[tag] = append(tagToLayers[tag], i)
			}
		}
	}

	deps := make([][]int, len(layerRefs))
	for i, refs := range layerRefs {
		set := make(map[int]bool)
		for _, tag := range refs {
			layers, ok := tagToLayers[tag]
			if !ok {
				return nil, &UnknownTagError{Tag: tag, Layer: i}
			}
			for _, l := range layers {
				set[l] = true
			}
		}
		for l := range set {
			deps[i] = append(deps[i], l)
		}
		slices.Sort(deps[i])
	}

	var ordering []int
	var resolve func(i int, visited []int) error
	resolve = func(i int, visited []int) error {
		if slices.Contains(ordering, i) {
			return nil
		}
		if at := slices.Index(visited, i); at >= 0 {
			cycle := append(slices.Clone(visited[at:]), i)
			return &TagCycleError{Layers: cycle}
		}
		inner := append(slices.Clone(visited), i)
		for _, dep := range deps[i] {
			if err := resolve(dep, inner); err != nil {
				return err
			}
		}
		ordering = append(ordering, i)
		return nil
	}
	for i := range layerRefs {
		if err := resolve(i, nil); err != nil {
			return nil, err
		}
	}
	return ordering, nil
}

// compareAtoms orders atoms with the start bound before any number and the
// end bound after. Only numbers and bounds reach this comparison.
func compareAtoms(a, b Atom) int {
	switch {
	case a.Kind == b.Kind && a.Kind != AtomNumber:
		return 0
	case a.Kind == AtomStart:
		return -1
	case b.Kind == AtomStart:
		return 1
	case a.Kind == AtomEnd:
		return 1
	case b.Kind == AtomEnd:
		return -1
	default:
		return cmp.Compare(a.Number, b.Number)
	}
}

// resolveSuffix reduces a tag's resolved spec to the single atom selected
// by a suffix. Reports false when the referenced spec is empty.
func resolveSuffix(spec Spec, suffix TagSuffix) (Atom, bool) {
	if len(spec) == 0 {
		return Atom{}, false
	}
	var flat []Atom
	for _, it := range spec {
		flat = append(flat, it.From)
		if it.To != nil {
			flat = append(flat, *it.To)
		}
	}
	low := slices.MinFunc(flat, compareAtoms)
	high := slices.MaxFunc(flat, compareAtoms)
	switch suffix {
	case SuffixStart:
		return low, true
	case SuffixEnd:
		return high, true
	case SuffixBefore:
		if low.Kind == AtomNumber {
			return Number(low.Number - 1), true
		}
		return low, true
	case SuffixAfter:
		if high.Kind == AtomNumber {
			return Number(high.Number + 1), true
		}
		return high, true
	default:
		panic(fmt.Sprintf("unexpected tag suffix %d", suffix))
	}
}

// resolveEndpoint resolves one end of a range. A bare tag reference takes
// the implied suffix for its position: start on the left, end on the right.
func resolveEndpoint(a Atom, byTag map[string]Spec, implied TagSuffix) (Atom, bool) {
	if a.Kind != AtomTag {
		return a, true
	}
	suffix := a.Suffix
	if suffix == SuffixNone {
		suffix = implied
	}
	return resolveSuffix(byTag[a.Tag], suffix)
}

// resolveItemTag rewrites one item, substituting tag references. A bare
// tag splices in the full referenced spec; a suffixed tag contributes a
// single atom; a range whose endpoint resolves to nothing is dropped
// entirely.
func resolveItemTag(it Item, byTag map[string]Spec) Spec {
	if it.To == nil {
		a := it.From
		if a.Kind != AtomTag {
			return Spec{it}
		}
		if a.Suffix == SuffixNone {
			return slices.Clone(byTag[a.Tag])
		}
		if atom, ok := resolveSuffix(byTag[a.Tag], a.Suffix); ok {
			return Spec{Step(atom)}
		}
		return nil
	}
	from, okFrom := resolveEndpoint(it.From, byTag, SuffixStart)
	to, okTo := resolveEndpoint(*it.To, byTag, SuffixEnd)
	if okFrom && okTo {
		return Spec{Span(from, to)}
	}
	return nil
}

// resolveTags substitutes every tag reference with the steps of the layers
// defining that tag. Layers are processed in dependency order; a tag
// defined on several layers accumulates all of their steps.
func resolveTags(layerTags [][]string, specs []Spec) ([]Spec, error) {
	refs := make([][]string, len(specs))
	for i, spec := range specs {
		refs[i] = referencedTags(spec)
	}
	order, err := tagResolutionOrder(layerTags, refs)
	if err != nil {
		return nil, err
	}

	resolved := make([]Spec, len(specs))
	byTag := make(map[string]Spec)
	for _, idx := range order {
		var spec Spec
		for _, it := range specs[idx] {
			spec = append(spec, resolveItemTag(it, byTag)...)
		}
		resolved[idx] = spec
		for _, tag := range layerTags[idx] {
			byTag[tag] = append(byTag[tag], spec...)
		}
	}
	return resolved, nil
}

// Stage 3: bounds.

// resolveBounds replaces start/end bound atoms with the slide's first and
// last step numbers. Step zero always counts towards the bounds, even when
// no layer names it.
func resolveBounds(specs []Spec) []Spec {
	start, end := 0, 0
	visit := func(a Atom) {
		if a.Kind == AtomNumber {
			start = min(start, a.Number)
			end = max(end, a.Number)
		}
	}
	for _, spec := range specs {
		for _, it := range spec {
			visit(it.From)
			if it.To != nil {
				visit(*it.To)
			}
		}
	}

	substitute := func(a Atom) Atom {
		switch a.Kind {
		case AtomStart:
			return Number(start)
		case AtomEnd:
			return Number(end)
		default:
			return a
		}
	}
	out := make([]Spec, len(specs))
	for i, spec := range specs {
		next := make(Spec, len(spec))
		for j, it := range spec {
			if it.To == nil {
				next[j] = Step(substitute(it.From))
			} else {
				next[j] = Span(substitute(it.From), substitute(*it.To))
			}
		}
		out[i] = next
	}
	return out
}

// Stage 4: ranges.

// resolveRanges expands inclusive ranges into individual numbers. A
// reversed range expands to nothing.
func resolveRanges(specs []Spec) [][]int {
	out := make([][]int, len(specs))
	for i, spec := range specs {
		var steps []int
		for _, it := range spec {
			if it.To == nil {
				steps = append(steps, it.From.Number)
				continue
			}
			for n := it.From.Number; n <= it.To.Number; n++ {
				steps = append(steps, n)
			}
		}
		out[i] = steps
	}
	return out
}

// normalise sorts each step list and removes duplicates.
func normalise(layerSteps [][]int) [][]int {
	out := make([][]int, len(layerSteps))
	for i, steps := range layerSteps {
		if steps == nil {
			continue
		}
		sorted := slices.Clone(steps)
		slices.Sort(sorted)
		out[i] = slices.Compact(sorted)
	}
	return out
}
