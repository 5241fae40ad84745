// Package links resolves and renders the compact addresses used to point
// at a particular slide and step, for example "#12", "#intro@recap" or
// "#3<-1>".
package links

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
)

// An address names a slide, either by 1-based number or by declared ID,
// followed by at most one step selector: a second 1-based position
// segment, a literal step number in angle brackets, or a tag reference.
// Submatch layout: 1 slide number, 2 slide ID, 3 step position, 4 step
// number, 5 step tag.
var addressPattern = regexp.MustCompile(
	`^#(?:([0-9]+)|([^0-9#@<][^#@<]*))?(?:#([0-9]+)|<([-+]?[0-9]+)>|@([^\s<>.@]+))?$`,
)

// Slide IDs must not be mistakable for a slide number and must not
// contain the characters which delimit the step part of an address.
var idPattern = regexp.MustCompile(`^[^0-9#@<][^@#<]*$`)

// ValidID reports whether s can serve as a slide ID within an address.
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}

// Encode renders the address of the given slide and step index. The
// slide is always present as a 1-based number. The step appears as a
// second 1-based segment only when it is not the first step, keeping
// addresses of slide starts short.
func Encode(slide, step int) string {
	if step > 0 {
		return fmt.Sprintf("#%d#%d", slide+1, step+1)
	}
	return fmt.Sprintf("#%d", slide+1)
}

// Resolve parses an address and returns the slide and step index it
// refers to.
//
// Slides are looked up in ids when addressed by ID; an unknown ID makes
// the whole address unresolvable. A slide addressed by number is
// returned as given, 0-based, without a range check, so callers decide
// what an out-of-range slide means. When the slide part is absent the
// address is relative to current.
//
// The step selector resolves against stepNumbers (per slide, the
// ascending step numbers of its timeline) and tags (per slide, tag name
// to ascending step indices). A step number or tag which does not
// resolve on the addressed slide degrades to step 0 rather than failing
// the address, as does any selector applied to an out-of-range slide.
func Resolve(link string, ids map[string]int, stepNumbers [][]int, tags []map[string][]int, current int) (slide, step int, ok bool) {
	m := addressPattern.FindStringSubmatch(link)
	if m == nil {
		return 0, 0, false
	}

	slide = current
	switch {
	case m[1] != "":
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, 0, false
		}
		slide = n - 1
	case m[2] != "":
		var known bool
		if slide, known = ids[m[2]]; !known {
			return 0, 0, false
		}
	}

	switch {
	case m[3] != "":
		n, err := strconv.Atoi(m[3])
		if err != nil {
			return 0, 0, false
		}
		step = n - 1
	case m[4] != "":
		n, err := strconv.Atoi(m[4])
		if err != nil {
			return 0, 0, false
		}
		if slide >= 0 && slide < len(stepNumbers) {
			if at := slices.Index(stepNumbers[slide], n); at >= 0 {
				step = at
			}
		}
	case m[5] != "":
		if slide >= 0 && slide < len(tags) {
			if steps := tags[slide][m[5]]; len(steps) > 0 {
				step = steps[0]
			}
		}
	}

	return slide, step, true
}
