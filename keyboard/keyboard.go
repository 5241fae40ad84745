// Package keyboard decides whether global navigation shortcuts apply to
// an incoming key event and maps matching events to navigation actions.
// Event delivery itself belongs to the host UI shell; this package only
// supplies the table and the decision logic.
package keyboard

import (
	"strings"
	"unicode/utf8"

	"sdv/common"
)

// KeyEvent carries the fields of a host key event the matcher needs.
// Key follows the W3C KeyboardEvent.key names ("a", "ArrowRight",
// "Enter"); the space bar may be given as " ", "Space" or "Spacebar".
type KeyEvent struct {
	Key   string
	Alt   bool
	Ctrl  bool
	Meta  bool
	Shift bool
}

// normalizeKey canonicalizes the space bar aliases.
func normalizeKey(key string) string {
	switch key {
	case " ", "Spacebar":
		return "Space"
	}
	return key
}

// MatchesKey reports whether the event's key is one of keys. Single
// letters compare case insensitively, so bindings keep working with
// shift or caps lock held; named keys compare exactly. Any held alt,
// ctrl or meta modifier forces a non-match regardless of key (shift
// does not: it is how some keys are typed at all).
func (e KeyEvent) MatchesKey(keys []string) bool {
	if e.Alt || e.Ctrl || e.Meta {
		return false
	}

	key := normalizeKey(e.Key)
	single := utf8.RuneCountInString(key) == 1

	for _, candidate := range keys {
		candidate = normalizeKey(candidate)
		if single && utf8.RuneCountInString(candidate) == 1 {
			if strings.EqualFold(key, candidate) {
				return true
			}
			continue
		}
		if key == candidate {
			return true
		}
	}
	return false
}

// Binding ties a navigation action to the keys which trigger it.
type Binding struct {
	Action common.Action
	Keys   []string
}

// Shortcuts is an ordered shortcut table. The first binding matching an
// event wins.
type Shortcuts []Binding

// Lookup returns the action bound to the event's key.
func (s Shortcuts) Lookup(e KeyEvent) (common.Action, bool) {
	for _, b := range s {
		if e.MatchesKey(b.Keys) {
			return b.Action, true
		}
	}
	return 0, false
}

// Keys returns the key list bound to an action, nil when the action is
// not bound.
func (s Shortcuts) Keys(action common.Action) []string {
	for _, b := range s {
		if b.Action == action {
			return b.Keys
		}
	}
	return nil
}

// Defaults returns the built-in shortcut table. The configuration file
// may replace any of these bindings.
func Defaults() Shortcuts {
	return Shortcuts{
		{common.ActionNextStep, []string{"ArrowRight", "ArrowDown", "PageDown", "Space"}},
		{common.ActionPreviousStep, []string{"ArrowLeft", "ArrowUp", "PageUp", "Backspace"}},
		{common.ActionNextSlide, []string{"n"}},
		{common.ActionPreviousSlide, []string{"p"}},
		{common.ActionStart, []string{"Home"}},
		{common.ActionEnd, []string{"End"}},
		{common.ActionBlank, []string{"z", "b"}},
	}
}
