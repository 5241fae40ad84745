package keyboard

import (
	"strings"

	"sdv/svg"
)

// Input-conflict filters. The host shell resolves an event target to an
// arena node and asks here whether global handling would fight native
// element behaviour. Slides may embed HTML content via foreignObject,
// so both the SVG and HTML vocabularies are recognized.

var buttonInputKinds = map[string]bool{
	"button": true,
	"submit": true,
	"reset":  true,
	"image":  true,
}

// textInputKinds holds the input types which receive typed text. The
// empty entry covers inputs without a type attribute, which default to
// text.
var textInputKinds = map[string]bool{
	"":         true,
	"text":     true,
	"search":   true,
	"url":      true,
	"tel":      true,
	"email":    true,
	"password": true,
	"number":   true,
}

// IsHyperlinkOrButton reports whether node or any of its ancestors
// activates on click: an SVG or HTML link with an href, a button, an
// input of a button kind, or an element with an explicit link or
// button role. Such targets keep their native activation, so
// click-to-advance must stand down.
func IsHyperlinkOrButton(a *svg.Arena, node int) bool {
	for i := node; i != -1; i = a.Parent(i) {
		if activatesOnClick(a, i) {
			return true
		}
	}
	return false
}

func activatesOnClick(a *svg.Arena, i int) bool {
	switch {
	case a.Is(i, svg.NSSVG, "a"):
		if _, ok := a.Attr(i, svg.NSXLink, "href"); ok {
			return true
		}
		_, ok := a.Attr(i, "", "href")
		return ok
	case a.Is(i, svg.NSXHTML, "a"):
		_, ok := a.Attr(i, "", "href")
		return ok
	case a.Is(i, svg.NSXHTML, "button"):
		return true
	case a.Is(i, svg.NSXHTML, "input"):
		kind, _ := a.Attr(i, "", "type")
		return buttonInputKinds[strings.ToLower(kind)]
	}

	if role, ok := a.Attr(i, "", "role"); ok {
		switch strings.ToLower(role) {
		case "link", "button":
			return true
		}
	}
	return false
}

// IsTextEntry reports whether node receives typed text: a text-like
// input, a textarea, or an element inside a content-editable host.
// Global shortcuts must not fire while such an element has focus.
func IsTextEntry(a *svg.Arena, node int) bool {
	if a.Is(node, svg.NSXHTML, "input") {
		kind, _ := a.Attr(node, "", "type")
		return textInputKinds[strings.ToLower(kind)]
	}
	if a.Is(node, svg.NSXHTML, "textarea") {
		return true
	}

	// contenteditable is established by the nearest element declaring
	// it, and may be switched off again further in.
	for i := node; i != -1; i = a.Parent(i) {
		if v, ok := a.Attr(i, "", "contenteditable"); ok {
			return v == "" || strings.EqualFold(v, "true") || strings.EqualFold(v, "plaintext-only")
		}
	}
	return false
}

// activationKeys trigger the default action of a focused interactive
// element.
var activationKeys = map[string]bool{
	"Enter": true,
	"Space": true,
}

// InterferesWithKeyboard reports whether handling the event globally
// would fight the focused element: any key interferes with a text
// entry, activation keys interfere with focusable interactive
// elements.
func InterferesWithKeyboard(a *svg.Arena, node int, e KeyEvent) bool {
	if IsTextEntry(a, node) {
		return true
	}
	if !activationKeys[normalizeKey(e.Key)] {
		return false
	}
	return isFocusable(a, node)
}

// isFocusable reports whether node or an ancestor takes keyboard focus:
// interactive elements do, and tabindex makes anything focusable.
func isFocusable(a *svg.Arena, node int) bool {
	for i := node; i != -1; i = a.Parent(i) {
		if activatesOnClick(a, i) {
			return true
		}
		if _, ok := a.Attr(i, "", "tabindex"); ok {
			return true
		}
	}
	return false
}
