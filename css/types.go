// Package css decides the static visibility of slide elements. Inkscape
// hides a layer by writing display:none into its style attribute, and hand
// edited documents sometimes do the same through a stylesheet rule or a
// presentation attribute. The scanner reads all three sources so that later
// checks can tell when a layer could never become visible no matter what
// its build annotation says.
package css

import (
	"maps"
	"strconv"
	"strings"
)

// Value is a single parsed property value.
type Value struct {
	Raw     string  // value text as written
	Keyword string  // lowercased identifier when the value is one
	Value   float64 // numeric component of a number, percentage or dimension
	Unit    string  // dimension unit, "%" for percentages
	Numeric bool    // set when Value carries a parsed number
}

// Properties is a declaration block keyed by lowercased property name.
type Properties map[string]Value

// Merge overlays other on top of p. Later declarations win, matching the
// cascade order for rules of equal specificity.
func (p Properties) Merge(other Properties) {
	maps.Copy(p, other)
}

// set parses a bare presentation attribute value. Unlike a declaration list
// there is no property syntax here, just the value text.
func (p Properties) set(name, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	v := Value{Raw: raw}
	if f, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64); err == nil {
		v.Value = f
		v.Numeric = true
		if strings.HasSuffix(raw, "%") {
			v.Unit = "%"
		}
	} else {
		v.Keyword = strings.ToLower(raw)
	}
	p[name] = v
}

// Stylesheet is the part of a parsed stylesheet the scanner cares about:
// declaration blocks of rules which target a single element by id.
type Stylesheet struct {
	Rules    map[string]Properties
	Warnings []string
}

// Visibility is the static visibility of an element before any runtime
// changes apply.
type Visibility struct {
	Hidden bool // display:none or visibility:hidden/collapse
	Dimmed bool // opacity below one
}

// Visibility applies the display, visibility and opacity properties.
func (p Properties) Visibility() Visibility {
	var vis Visibility
	if v, ok := p["display"]; ok && v.Keyword == "none" {
		vis.Hidden = true
	}
	if v, ok := p["visibility"]; ok && (v.Keyword == "hidden" || v.Keyword == "collapse") {
		vis.Hidden = true
	}
	if v, ok := p["opacity"]; ok && v.Numeric {
		opacity := v.Value
		if v.Unit == "%" {
			opacity /= 100
		}
		if opacity < 1 {
			vis.Dimmed = true
		}
	}
	return vis
}

// Element carries the attributes of a single element relevant to its
// static visibility.
type Element struct {
	ID         string
	Style      string // style attribute text
	Display    string // display presentation attribute
	Visibility string // visibility presentation attribute
	Opacity    string // opacity presentation attribute
}
