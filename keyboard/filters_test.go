package keyboard

import (
	"strings"
	"testing"

	"sdv/svg"
)

// filterDoc embeds the interactive content variants the filters must
// recognize. Each interesting element carries a data-test attribute
// naming it.
const filterDoc = `<svg xmlns="http://www.w3.org/2000/svg"
                        xmlns:xlink="http://www.w3.org/1999/xlink">
	<a xlink:href="#2"><text data-test="svg-link-text">next</text></a>
	<a><text data-test="svg-bare-anchor">not a link</text></a>
	<g role="Button"><rect data-test="role-button-rect"/></g>
	<rect data-test="plain-rect"/>
	<foreignObject>
		<div xmlns="http://www.w3.org/1999/xhtml">
			<a href="https://example.com"><span data-test="html-link-span">docs</span></a>
			<button><span data-test="html-button-span">go</span></button>
			<input type="submit" data-test="submit-input"/>
			<input type="checkbox" data-test="checkbox-input"/>
			<input data-test="bare-input"/>
			<input type="Search" data-test="search-input"/>
			<textarea data-test="textarea"/>
			<div contenteditable=""><p data-test="editable-p">note</p></div>
			<div contenteditable="false"><p data-test="uneditable-p">frozen</p></div>
			<div tabindex="0"><span data-test="focusable-span">widget</span></div>
			<p data-test="plain-p">prose</p>
		</div>
	</foreignObject>
</svg>`

func loadFilterDoc(t *testing.T) (*svg.Arena, map[string]int) {
	t.Helper()

	d, err := svg.Load(strings.NewReader(filterDoc), "filters.svg")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	nodes := make(map[string]int)
	for i := range d.Arena.Nodes {
		if name, ok := d.Arena.Attr(i, "", "data-test"); ok {
			nodes[name] = i
		}
	}
	return d.Arena, nodes
}

func TestIsHyperlinkOrButton(t *testing.T) {
	a, nodes := loadFilterDoc(t)

	for name, want := range map[string]bool{
		"svg-link-text":    true,
		"svg-bare-anchor":  false,
		"role-button-rect": true,
		"plain-rect":       false,
		"html-link-span":   true,
		"html-button-span": true,
		"submit-input":     true,
		"checkbox-input":   false,
		"bare-input":       false,
		"plain-p":          false,
	} {
		if got := IsHyperlinkOrButton(a, nodes[name]); got != want {
			t.Errorf("IsHyperlinkOrButton(%s) = %v, want %v", name, got, want)
		}
	}
}

func TestIsTextEntry(t *testing.T) {
	a, nodes := loadFilterDoc(t)

	for name, want := range map[string]bool{
		"bare-input":     true,
		"search-input":   true,
		"submit-input":   false,
		"checkbox-input": false,
		"textarea":       true,
		"editable-p":     true,
		"uneditable-p":   false,
		"plain-p":        false,
		"svg-link-text":  false,
	} {
		if got := IsTextEntry(a, nodes[name]); got != want {
			t.Errorf("IsTextEntry(%s) = %v, want %v", name, got, want)
		}
	}
}

func TestInterferesWithKeyboard(t *testing.T) {
	a, nodes := loadFilterDoc(t)

	enter := KeyEvent{Key: "Enter"}
	space := KeyEvent{Key: " "}
	letter := KeyEvent{Key: "x"}

	for _, tc := range []struct {
		name  string
		node  string
		event KeyEvent
		want  bool
	}{
		{"enter on link", "svg-link-text", enter, true},
		{"space on button", "html-button-span", space, true},
		{"letter on link passes", "svg-link-text", letter, false},
		{"enter on tabindex host", "focusable-span", enter, true},
		{"enter on plain content", "plain-p", enter, false},
		{"any key in text entry", "textarea", letter, true},
		{"any key while editable", "editable-p", letter, true},
		{"space on plain content", "plain-rect", space, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := InterferesWithKeyboard(a, nodes[tc.node], tc.event); got != tc.want {
				t.Errorf("InterferesWithKeyboard = %v, want %v", got, tc.want)
			}
		})
	}
}
