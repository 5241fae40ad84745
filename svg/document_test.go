package svg

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	d, err := Load(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"><g/></svg>`), "slide.svg")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Name != "slide.svg" {
		t.Errorf("name = %q", d.Name)
	}
	if d.Root == nil || !d.Arena.Is(0, NSSVG, "svg") {
		t.Errorf("root not resolved")
	}
}

func TestLoadGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"><text>packed</text></svg>`)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	d, err := Load(&buf, "slide.svgz")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := d.Arena.MultilineText(textNode(t, d.Arena)); got != "packed" {
		t.Errorf("text = %q", got)
	}
}

func TestLoadRejectsNonSVG(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
	}{
		{"html", `<html xmlns="http://www.w3.org/1999/xhtml"><body/></html>`},
		{"unnamespaced", `<svg><g/></svg>`},
		{"not xml", "PK\x03\x04 this is not markup at all"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tc.doc), "bad.svg"); err == nil {
				t.Errorf("Load accepted %s input", tc.name)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "00100 - intro.svg")
	if err := os.WriteFile(path, []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	d, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if d.Name != "00100 - intro.svg" {
		t.Errorf("name = %q", d.Name)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.svg")); err == nil {
		t.Errorf("LoadFile accepted a missing file")
	}
}
