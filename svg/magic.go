package svg

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
)

// magicPrefix marks a text element as magic text. The remainder of the
// element is a TOML document defining exactly one top-level value whose
// key names the invoked functionality.
const magicPrefix = "@@@\n"

// Magic is one parsed magic text block. The text element itself has
// been removed from the document by the time a Magic is returned.
type Magic struct {
	Key   string
	Value any

	// Node is the removed text element, usable for locating the block
	// in error messages.
	Node int
	// Text is the literal block text, for error reporting.
	Text string
}

// MagicErrorLocation pins an error to a magic text block. It is
// embedded in every magic error type.
type MagicErrorLocation struct {
	// Layers are the labels of the layers enclosing the block,
	// outermost first.
	Layers []string
	// Text is the literal block text.
	Text string
}

func (l MagicErrorLocation) String() string {
	text := "    @@@\n" + indentLines(strings.TrimRightFunc(l.Text, unicode.IsSpace), "    ")
	if len(l.Layers) > 0 {
		return fmt.Sprintf("on %s in:\n%s", strings.Join(l.Layers, " > "), text)
	}
	return "in:\n" + text
}

// indentLines prefixes every line containing something other than
// whitespace.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// MagicSyntaxError reports a magic text block which is not valid TOML.
type MagicSyntaxError struct {
	MagicErrorLocation
	Err error
}

func (e *MagicSyntaxError) Error() string {
	return fmt.Sprintf("%s\n%s", e.MagicErrorLocation, e.Err)
}

func (e *MagicSyntaxError) Unwrap() error {
	return e.Err
}

// NotEnoughMagicError reports a magic text block defining no values.
type NotEnoughMagicError struct {
	MagicErrorLocation
}

func (e *NotEnoughMagicError) Error() string {
	return fmt.Sprintf("%s\nExpected a value to be defined.", e.MagicErrorLocation)
}

// TooMuchMagicError reports a magic text block defining more than one
// top-level value.
type TooMuchMagicError struct {
	MagicErrorLocation
	Keys []string
}

func (e *TooMuchMagicError) Error() string {
	quoted := make([]string, len(e.Keys))
	for i, key := range e.Keys {
		quoted[i] = fmt.Sprintf("%q", key)
	}
	return fmt.Sprintf("%s\nExactly one value must be defined (got %s)",
		e.MagicErrorLocation, strings.Join(quoted, ", "))
}

// ExtractMagic finds, parses and removes all magic text in the
// document. Blocks are grouped by key, in document order within each
// key.
func ExtractMagic(a *Arena) (map[string][]Magic, error) {
	out := make(map[string][]Magic)

	for _, found := range a.FindTextWithPrefix(magicPrefix) {
		a.RemoveNode(found.Node)
		loc := MagicErrorLocation{Layers: a.LayerChain(found.Node), Text: found.Text}

		var parsed map[string]any
		if err := toml.Unmarshal([]byte(found.Text), &parsed); err != nil {
			return nil, &MagicSyntaxError{MagicErrorLocation: loc, Err: err}
		}

		if len(parsed) == 0 {
			return nil, &NotEnoughMagicError{loc}
		}
		if len(parsed) > 1 {
			return nil, &TooMuchMagicError{
				MagicErrorLocation: loc,
				Keys:               slices.Sorted(maps.Keys(parsed)),
			}
		}

		for key, value := range parsed {
			out[key] = append(out[key], Magic{Key: key, Value: value, Node: found.Node, Text: found.Text})
		}
	}

	return out, nil
}
