// Package builds parses and resolves the build annotations embedded in a
// slide's layer names. A layer name may carry a bracketed specification
// listing the steps during which the layer is visible ("Bullet <1, 3-5>")
// and tag definitions ("@results") which other layers may reference.
package builds

import (
	"strconv"
	"strings"
)

// AtomKind enumerates the forms a single step atom can take.
type AtomKind int

const (
	// AtomNumber is an explicit non-negative step number.
	AtomNumber AtomKind = iota
	// AtomStart references the first step of the slide.
	AtomStart
	// AtomEnd references the last step of the slide.
	AtomEnd
	// AtomPlus is '+', one past the previous layer's step number.
	AtomPlus
	// AtomDot is '.', a repeat of the previous layer's step number.
	AtomDot
	// AtomTag references the steps of layers carrying a tag.
	AtomTag
)

// TagSuffix selects which part of a referenced tag's steps to use.
type TagSuffix int

const (
	SuffixNone TagSuffix = iota
	SuffixStart
	SuffixEnd
	SuffixBefore
	SuffixAfter
)

func (s TagSuffix) String() string {
	switch s {
	case SuffixStart:
		return "start"
	case SuffixEnd:
		return "end"
	case SuffixBefore:
		return "before"
	case SuffixAfter:
		return "after"
	default:
		return ""
	}
}

// Atom is a single non-range element of a build specification.
type Atom struct {
	Kind   AtomKind
	Number int       // valid for AtomNumber
	Tag    string    // valid for AtomTag
	Suffix TagSuffix // valid for AtomTag
}

// Number returns an explicit step number atom.
func Number(n int) Atom { return Atom{Kind: AtomNumber, Number: n} }

// Start returns the first-step bound atom.
func Start() Atom { return Atom{Kind: AtomStart} }

// End returns the last-step bound atom.
func End() Atom { return Atom{Kind: AtomEnd} }

// Plus returns the '+' automatic numbering atom.
func Plus() Atom { return Atom{Kind: AtomPlus} }

// Dot returns the '.' automatic numbering atom.
func Dot() Atom { return Atom{Kind: AtomDot} }

// Tag returns a tag reference atom, optionally anchored by a suffix.
func Tag(name string, suffix TagSuffix) Atom {
	return Atom{Kind: AtomTag, Tag: name, Suffix: suffix}
}

func (a Atom) String() string {
	switch a.Kind {
	case AtomNumber:
		return strconv.Itoa(a.Number)
	case AtomStart:
		return "start"
	case AtomEnd:
		return "end"
	case AtomPlus:
		return "+"
	case AtomDot:
		return "."
	case AtomTag:
		if a.Suffix != SuffixNone {
			return "@" + a.Tag + "." + a.Suffix.String()
		}
		return "@" + a.Tag
	default:
		return "?"
	}
}

// Item is one comma-separated entry of a specification: a single atom, or
// an inclusive range between two atoms when To is not nil.
type Item struct {
	From Atom
	To   *Atom
}

// Span returns an inclusive range item between two atoms.
func Span(from, to Atom) Item { return Item{From: from, To: &to} }

// Step returns a single-atom item.
func Step(a Atom) Item { return Item{From: a} }

func (it Item) String() string {
	if it.To == nil {
		return it.From.String()
	}
	// Bound markers in range positions render in the omitted form used by
	// the annotation syntax itself ("-3", "1-", "-").
	from := it.From.String()
	if it.From.Kind == AtomStart {
		from = ""
	}
	to := it.To.String()
	if it.To.Kind == AtomEnd {
		to = ""
	}
	return from + "-" + to
}

// Spec is the parsed contents of the bracketed parts of a layer name. A nil
// Spec means the name carried no brackets at all; an empty non-nil Spec
// ("<>") belongs to a layer which is never visible.
type Spec []Item

func (s Spec) String() string {
	parts := make([]string, len(s))
	for i, it := range s {
		parts[i] = it.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}
