package show_test

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/ianaindex"

	"sdv/show"
	"sdv/svg"
)

const plainSlide = `<svg xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`

const introSlide = `<svg xmlns="http://www.w3.org/2000/svg"
                         xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
	<text><tspan>@@@</tspan><tspan>id = "intro"</tspan></text>
	<text><tspan>@@@</tspan><tspan>title = "A Show"</tspan></text>
</svg>`

const buildsSlide = `<svg xmlns="http://www.w3.org/2000/svg"
                          xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
	<g inkscape:groupmode="layer" inkscape:label="Bullets &lt;1-&gt;">
		<text><tspan>###</tspan><tspan>remember the demo</tspan></text>
	</g>
	<g inkscape:groupmode="layer" inkscape:label="Chart &lt;2&gt; @chart"/>
</svg>`

func writeDeck(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
	}
	return dir
}

func TestLoadDirectory(t *testing.T) {
	dir := writeDeck(t, map[string]string{
		"00200_builds.svg": buildsSlide,
		"00100_intro.svg":  introSlide,
		"00150_middle.svg": plainSlide,
		"README.md":        "not a slide",
		"noprefix.svg":     plainSlide,
	})

	s, err := show.Load(context.Background(), dir, show.Options{Log: zaptest.NewLogger(t)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var names []string
	for _, sl := range s.Slides {
		names = append(names, sl.FileName)
	}
	want := []string{"00100_intro.svg", "00150_middle.svg", "00200_builds.svg"}
	if !slices.Equal(names, want) {
		t.Fatalf("slide order = %v, want %v", names, want)
	}

	if !slices.Equal(s.StepCounts(), []int{1, 1, 2}) {
		t.Errorf("step counts = %v", s.StepCounts())
	}
	if got := s.StepNumbers()[2]; !slices.Equal(got, []int{1, 2}) {
		t.Errorf("builds timeline = %v", got)
	}
	if got := s.Tags()[2]["chart"]; !slices.Equal(got, []int{1}) {
		t.Errorf("chart tag = %v", got)
	}
	if at, ok := s.IDs()["intro"]; !ok || at != 0 {
		t.Errorf("intro id = %d, %v", at, ok)
	}
	if s.Title != "A Show" {
		t.Errorf("deck title = %q", s.Title)
	}

	// The note landed on the annotated layer's steps.
	notes := s.Slides[2].Notes
	if len(notes) != 1 || !slices.Equal(notes[0].StepNumbers, []int{1, 2}) {
		t.Errorf("notes = %+v", notes)
	}
}

func TestLoadNaturalTieBreak(t *testing.T) {
	dir := writeDeck(t, map[string]string{
		"0010b_two.svg": plainSlide,
		"0010a_one.svg": plainSlide,
		"0002_z.svg":    plainSlide,
	})

	s, err := show.Load(context.Background(), dir, show.Options{Log: zaptest.NewLogger(t)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var names []string
	for _, sl := range s.Slides {
		names = append(names, sl.FileName)
	}
	want := []string{"0002_z.svg", "0010a_one.svg", "0010b_two.svg"}
	if !slices.Equal(names, want) {
		t.Errorf("slide order = %v, want %v", names, want)
	}
}

func writeZip(t *testing.T, entries map[string]string, nonUTF8 ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
		if slices.Contains(nonUTF8, name) {
			hdr.NonUTF8 = true
		}
		out, err := w.CreateHeader(hdr)
		if err != nil {
			t.Fatalf("CreateHeader(%s): %v", name, err)
		}
		if _, err := out.Write([]byte(content)); err != nil {
			t.Fatalf("Write(%s): %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func TestLoadZip(t *testing.T) {
	path := writeZip(t, map[string]string{
		"00200_b.svg":        plainSlide,
		"deck/00100_a.svg":   introSlide,
		"deck/00300_c.svg":   buildsSlide,
		"deck/thumbnail.png": "PNG",
	})

	s, err := show.Load(context.Background(), path, show.Options{Log: zaptest.NewLogger(t)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var names []string
	for _, sl := range s.Slides {
		names = append(names, sl.FileName)
	}
	want := []string{"00100_a.svg", "00200_b.svg", "00300_c.svg"}
	if !slices.Equal(names, want) {
		t.Errorf("slide order = %v, want %v", names, want)
	}
}

func TestLoadZipLegacyNames(t *testing.T) {
	// "тест" in windows-1251
	name := "00100_\xf2\xe5\xf1\xf2.svg"
	path := writeZip(t, map[string]string{name: plainSlide}, name)

	cp, err := ianaindex.IANA.Encoding("windows-1251")
	if err != nil {
		t.Fatalf("Encoding: %v", err)
	}

	s, err := show.Load(context.Background(), path, show.Options{CodePage: cp, Log: zaptest.NewLogger(t)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := s.Slides[0].FileName; got != "00100_тест.svg" {
		t.Errorf("decoded name = %q", got)
	}
}

func TestLoadRejectsOtherSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("just text, definitely not an archive"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := show.Load(context.Background(), path, show.Options{Log: zaptest.NewLogger(t)}); err == nil ||
		!strings.Contains(err.Error(), "neither a directory nor a zip archive") {
		t.Errorf("Load error = %v", err)
	}

	if _, err := show.Load(context.Background(), filepath.Join(dir, "absent"), show.Options{}); err == nil {
		t.Errorf("Load accepted a missing source")
	}
}

func TestLoadEmptyDeck(t *testing.T) {
	dir := writeDeck(t, map[string]string{"README.md": "empty deck"})

	if _, err := show.Load(context.Background(), dir, show.Options{Log: zaptest.NewLogger(t)}); err == nil ||
		!strings.Contains(err.Error(), "no slides found") {
		t.Errorf("Load error = %v", err)
	}
}

func TestLoadCancelled(t *testing.T) {
	dir := writeDeck(t, map[string]string{"00100_a.svg": plainSlide})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := show.Load(ctx, dir, show.Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load error = %v, want context.Canceled", err)
	}
}

func TestLoadDuplicateIDs(t *testing.T) {
	dir := writeDeck(t, map[string]string{
		"00100_a.svg": introSlide,
		"00200_b.svg": introSlide,
	})

	_, err := show.Load(context.Background(), dir, show.Options{Log: zaptest.NewLogger(t)})
	var dup *show.DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("Load error = %v, want DuplicateIDError", err)
	}
	if dup.ID != "intro" || dup.First != "00100_a.svg" || dup.Second != "00200_b.svg" {
		t.Errorf("DuplicateIDError = %+v", dup)
	}
}

func TestLoadBadSlideNamesFile(t *testing.T) {
	dir := writeDeck(t, map[string]string{
		"00100_good.svg": plainSlide,
		"00200_bad.svg":  "this is not markup at all",
	})

	_, err := show.Load(context.Background(), dir, show.Options{Log: zaptest.NewLogger(t)})
	if err == nil || !strings.Contains(err.Error(), "00200_bad.svg") {
		t.Errorf("Load error = %v, want mention of the bad slide", err)
	}
}

func TestProcessKeepsLeftoverMagic(t *testing.T) {
	doc, err := svg.Load(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg">
		<text><tspan>@@@</tspan><tspan>video.url = "intro.mp4"</tspan></text>
	</svg>`), "slide.svg")
	if err != nil {
		t.Fatalf("svg.Load: %v", err)
	}

	sl, err := show.Process(doc, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(sl.Magic["video"]) != 1 {
		t.Errorf("leftover magic = %+v", sl.Magic)
	}
	if sl.ID != "" {
		t.Errorf("ID = %q, want none", sl.ID)
	}
}
