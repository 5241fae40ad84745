package svg

import (
	"fmt"
	"strings"
)

// metadataFields are the recognized metadata fields, in the order they
// are resolved.
var metadataFields = [...]string{"title", "author", "date"}

// Metadata holds the slide metadata fields. Absent fields are "".
type Metadata struct {
	Title  string
	Author string
	Date   string
}

// field returns a pointer to the struct field named by name.
func (m *Metadata) field(name string) *string {
	switch name {
	case "title":
		return &m.Title
	case "author":
		return &m.Author
	case "date":
		return &m.Date
	}
	panic("unknown metadata field " + name)
}

// MetadataValueError reports a metadata magic whose value is not a
// string, for example a TOML native date.
type MetadataValueError struct {
	MagicErrorLocation
	Field string
}

func (e *MetadataValueError) Error() string {
	return fmt.Sprintf("%s\n%s must be a string (quote the value if needed).",
		e.MagicErrorLocation, e.Field)
}

// MultipleDefinitionsError reports a metadata field defined in more
// than one place within a slide.
type MultipleDefinitionsError struct {
	Field string
	// Sources describe each location defining the field.
	Sources []string
}

func (e *MultipleDefinitionsError) Error() string {
	return fmt.Sprintf("%s defined multiple times:\n* %s",
		e.Field, strings.Join(e.Sources, "\n* "))
}

// AnnotateMetadata resolves the title, author and date of a slide and
// records each defined field as an NSSdv attribute on the root element.
// A field may be declared either by a magic of the same name or by a
// text element whose XML id is the field name; text elements stay in
// the document so the value remains visible on the slide. The magic
// keys are consumed from magic.
func AnnotateMetadata(a *Arena, magic map[string][]Magic) (Metadata, error) {
	var meta Metadata

	for _, field := range metadataFields {
		defs := magic[field]
		delete(magic, field)

		var values, sources []string
		for _, m := range defs {
			loc := MagicErrorLocation{Layers: a.LayerChain(m.Node), Text: m.Text}
			s, ok := m.Value.(string)
			if !ok {
				return meta, &MetadataValueError{MagicErrorLocation: loc, Field: field}
			}
			values = append(values, s)
			sources = append(sources, loc.String())
		}

		for _, node := range a.findTextWithID(field) {
			values = append(values, a.MultilineText(node))
			sources = append(sources, fmt.Sprintf("%s %q", a.DescribeNode(node), a.MultilineText(node)))
		}

		switch len(values) {
		case 0:
		case 1:
			a.SetRootAttr(field, values[0])
			*meta.field(field) = values[0]
		default:
			return meta, &MultipleDefinitionsError{Field: field, Sources: sources}
		}
	}

	return meta, nil
}

// findTextWithID lists the text elements anywhere in the document whose
// unnamespaced id attribute equals id, in document order.
func (a *Arena) findTextWithID(id string) []int {
	var out []int

	var walk func(i int)
	walk = func(i int) {
		if a.Is(i, NSSVG, "text") {
			if v, ok := a.Attr(i, "", "id"); ok && v == id {
				out = append(out, i)
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
