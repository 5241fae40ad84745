package svg

import (
	"fmt"

	"sdv/links"
)

// MultipleIDsError reports a slide declaring more than one ID.
type MultipleIDsError struct {
	MagicErrorLocation
}

func (e *MultipleIDsError) Error() string {
	return fmt.Sprintf("%s\n'id' redefined again elsewhere.", e.MagicErrorLocation)
}

// InvalidIDError reports a slide ID which cannot be used in links.
type InvalidIDError struct {
	MagicErrorLocation
	ID string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("%s\n%q is not a valid ID.", e.MagicErrorLocation, e.ID)
}

// AnnotateSlideID reads the slide ID declared by an "id" magic, records
// it as an NSSdv id attribute on the root element and returns it. The
// "id" key is consumed from magic. Slides without the magic return ""
// with no annotation.
func AnnotateSlideID(a *Arena, magic map[string][]Magic) (string, error) {
	defs := magic["id"]
	delete(magic, "id")

	if len(defs) == 0 {
		return "", nil
	}

	loc := MagicErrorLocation{Layers: a.LayerChain(defs[0].Node), Text: defs[0].Text}

	if len(defs) > 1 {
		return "", &MultipleIDsError{loc}
	}

	id, ok := defs[0].Value.(string)
	if !ok {
		return "", &InvalidIDError{MagicErrorLocation: loc, ID: fmt.Sprint(defs[0].Value)}
	}
	if !links.ValidID(id) {
		return "", &InvalidIDError{MagicErrorLocation: loc, ID: id}
	}

	a.SetRootAttr("id", id)
	return id, nil
}
