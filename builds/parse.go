package builds

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrInvalidStep reports step text inside a bracketed specification
	// which is not a number, '+', '.', a tag reference or an empty range
	// bound.
	ErrInvalidStep = errors.New("invalid build step")

	// ErrUnknownSuffix reports a tag reference suffix other than before,
	// start, end or after.
	ErrUnknownSuffix = errors.New("unknown tag suffix")
)

var (
	bracketRe  = regexp.MustCompile(`<[^>]*>`)
	tagStripRe = regexp.MustCompile(`<[^>]+>`)
	tagDefRe   = regexp.MustCompile(`@([^\s<>.@]+)`)
)

// parseStep parses a single step atom such as "123", "+", "." or
// "@foo.start". When empty is not nil an empty string parses to that atom;
// this is how the omitted bounds of a range ("<1->") are represented.
func parseStep(s string, empty *Atom) (Atom, error) {
	s = strings.TrimSpace(s)
	switch {
	case len(s) > 1 && s[0] == '@' && !strings.ContainsFunc(s[1:], unicode.IsSpace):
		name, suffix, dotted := strings.Cut(s[1:], ".")
		if !dotted {
			return Tag(name, SuffixNone), nil
		}
		switch suffix {
		case "before":
			return Tag(name, SuffixBefore), nil
		case "start":
			return Tag(name, SuffixStart), nil
		case "end":
			return Tag(name, SuffixEnd), nil
		case "after":
			return Tag(name, SuffixAfter), nil
		default:
			return Atom{}, fmt.Errorf("%w %q", ErrUnknownSuffix, s)
		}
	case s == "+":
		return Plus(), nil
	case s == ".":
		return Dot(), nil
	case s == "" && empty != nil:
		return *empty, nil
	case isDigits(s):
		n, err := strconv.Atoi(s)
		if err != nil {
			return Atom{}, fmt.Errorf("%w %q", ErrInvalidStep, s)
		}
		return Number(n), nil
	default:
		return Atom{}, fmt.Errorf("%w %q", ErrInvalidStep, s)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseSpec extracts the build specification from a layer name. All
// bracketed groups in the name are parsed and their steps concatenated.
// Returns nil (and no error) when the name contains no brackets.
func ParseSpec(label string) (Spec, error) {
	var spec Spec
	found := false
	for _, match := range bracketRe.FindAllString(label, -1) {
		found = true
		body := strings.TrimSpace(match[1 : len(match)-1])
		if body == "" {
			continue
		}
		for _, part := range strings.Split(body, ",") {
			if from, to, ranged := strings.Cut(part, "-"); ranged {
				start := Start()
				end := End()
				fromAtom, err := parseStep(from, &start)
				if err != nil {
					return nil, err
				}
				toAtom, err := parseStep(to, &end)
				if err != nil {
					return nil, err
				}
				spec = append(spec, Span(fromAtom, toAtom))
			} else {
				atom, err := parseStep(part, nil)
				if err != nil {
					return nil, err
				}
				spec = append(spec, Step(atom))
			}
		}
	}
	if !found {
		return nil, nil
	}
	if spec == nil {
		spec = Spec{}
	}
	return spec, nil
}

// ParseTags extracts the tag names defined by a layer name, in order of
// first appearance. Bracketed specifications are ignored since the tag
// references inside them do not define tags. A tag runs from '@' to the
// next whitespace, '@' or end of name; names containing '.', '<' or '>'
// are not valid tags.
func ParseTags(label string) []string {
	stripped := tagStripRe.ReplaceAllString(label, "")
	var tags []string
	var seen map[string]bool
	for _, m := range tagDefRe.FindAllStringSubmatchIndex(stripped, -1) {
		if end := m[1]; end < len(stripped) {
			r, _ := utf8.DecodeRuneInString(stripped[end:])
			if r != '@' && !unicode.IsSpace(r) {
				continue
			}
		}
		name := stripped[m[2]:m[3]]
		if seen[name] {
			continue
		}
		if seen == nil {
			seen = make(map[string]bool)
		}
		seen[name] = true
		tags = append(tags, name)
	}
	return tags
}
