// Package svg loads slide documents and extracts the structures buried
// in them: Inkscape layers, build annotations, magic text blocks,
// speaker notes and metadata.
package svg

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/h2non/filetype"
	"golang.org/x/net/html/charset"
)

// Document is a single loaded slide.
type Document struct {
	// Name identifies the source in error messages, usually the file
	// name the document was read from.
	Name string

	Tree  *etree.Document
	Root  *etree.Element
	Arena *Arena
}

// Load reads an SVG document, transparently decompressing gzip (svgz)
// input. Anything without an svg root element is rejected.
func Load(r io.Reader, name string) (*Document, error) {

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", name, err)
	}

	if filetype.Is(data, "gz") {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("unable to decompress %s: %w", name, err)
		}
		if data, err = io.ReadAll(gz); err != nil {
			return nil, fmt.Errorf("unable to decompress %s: %w", name, err)
		}
	}

	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{CanonicalText: true, CanonicalAttrVal: true}
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		ValidateInput: false,
		Permissive:    true,
	}

	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", name, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("unable to parse %s: document has no root element", name)
	}

	arena := NewArena(root)
	if !arena.Is(0, NSSVG, "svg") {
		return nil, fmt.Errorf("%s is not an SVG document (root is <%s>)", name, root.FullTag())
	}

	return &Document{Name: name, Tree: doc, Root: root, Arena: arena}, nil
}

// LoadFile reads an SVG document from a file.
func LoadFile(path string) (*Document, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	return Load(f, filepath.Base(path))
}

// WriteTo serializes the document, including any annotations added to
// it since loading.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.Tree.WriteTo(w)
}

// Bytes serializes the document to memory.
func (d *Document) Bytes() ([]byte, error) {
	return d.Tree.WriteToBytes()
}
