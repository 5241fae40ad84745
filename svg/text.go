package svg

import (
	"strings"

	"github.com/beevik/etree"
)

// MultilineText renders the readable text of a text element. Text
// before the first child and each direct tspan child become one line
// each; tspans nested deeper are styled runs within their line and
// contribute their text to it.
func (a *Arena) MultilineText(i int) string {
	el := a.Nodes[i].El

	var lines []string
	if t := el.Text(); t != "" {
		lines = append(lines, t)
	}
	for _, child := range el.ChildElements() {
		ci, ok := a.byEl[child]
		if !ok || !a.Is(ci, NSSVG, "tspan") {
			continue
		}
		lines = append(lines, charData(child))
	}

	return strings.Join(lines, "\n")
}

// Stylesheets returns the text of the document's svg:style elements in
// document order.
func Stylesheets(a *Arena) []string {
	var sheets []string
	for i := 0; i < a.Len(); i++ {
		if a.Is(i, NSSVG, "style") {
			sheets = append(sheets, charData(a.Element(i)))
		}
	}
	return sheets
}

// charData concatenates every piece of character data within el.
func charData(el *etree.Element) string {
	var sb strings.Builder
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			sb.WriteString(charData(t))
		}
	}
	return sb.String()
}

// PrefixedText is a text element whose content begins with a searched
// for prefix.
type PrefixedText struct {
	Node int
	// Text is the element's text with the prefix removed.
	Text string
}

// FindTextWithPrefix returns every text element whose content starts
// with prefix, in document order. Only SVG namespace containers are
// searched, so text inside embedded foreign content is left alone.
func (a *Arena) FindTextWithPrefix(prefix string) []PrefixedText {
	var out []PrefixedText

	var walk func(i int)
	walk = func(i int) {
		if a.Nodes[i].NS != NSSVG {
			return
		}
		if a.Nodes[i].Local == "text" {
			if text := a.MultilineText(i); strings.HasPrefix(text, prefix) {
				out = append(out, PrefixedText{Node: i, Text: strings.TrimPrefix(text, prefix)})
			}
			return
		}
		for _, child := range a.Children(i) {
			walk(child)
		}
	}
	walk(0)

	return out
}
