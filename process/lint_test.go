package process

import (
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"

	"sdv/common"
)

const badSpecSlide = `<svg xmlns="http://www.w3.org/2000/svg"
                           xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
	<g inkscape:groupmode="layer" inkscape:label="Broken &lt;1.2&gt;"/>
</svg>`

const unknownTagSlide = `<svg xmlns="http://www.w3.org/2000/svg"
                              xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
	<g inkscape:groupmode="layer" inkscape:label="After &lt;@missing&gt;"/>
</svg>`

const hiddenLayerSlide = `<svg xmlns="http://www.w3.org/2000/svg"
                               xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
	<g inkscape:groupmode="layer" inkscape:label="Pop &lt;2&gt;" style="display:none"/>
	<g inkscape:groupmode="layer" inkscape:label="Base &lt;1-&gt;"/>
</svg>`

const sheetHiddenSlide = `<svg xmlns="http://www.w3.org/2000/svg"
                               xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
	<style>#popup { display: none; }</style>
	<g id="popup" inkscape:groupmode="layer" inkscape:label="Popup &lt;1&gt;"/>
</svg>`

const scratchLayerSlide = `<svg xmlns="http://www.w3.org/2000/svg"
                                xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
	<g inkscape:groupmode="layer" inkscape:label="Scratch" style="display:none"/>
</svg>`

const dimmedLayerSlide = `<svg xmlns="http://www.w3.org/2000/svg"
                               xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
	<g inkscape:groupmode="layer" inkscape:label="Ghost &lt;1&gt;" style="opacity:0.5"/>
	<g inkscape:groupmode="layer" inkscape:label="Base &lt;-&gt;"/>
</svg>`

const sameIDSlide = `<svg xmlns="http://www.w3.org/2000/svg"
                          xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
	<text><tspan>@@@</tspan><tspan>id = "same"</tspan></text>
</svg>`

func lintCommand() *cli.Command {
	return &cli.Command{
		Name:   "lint",
		Action: Lint,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose"},
		},
	}
}

func TestLintCleanDeck(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	dir := writeDeck(t, map[string]string{
		"00100_intro.svg":  introSlide,
		"00200_builds.svg": buildsSlide,
	})

	if err := runCommand(ctx, lintCommand(), dir); err != nil {
		t.Fatalf("Lint: %v", err)
	}
}

func TestLintAggregatesErrors(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	dir := writeDeck(t, map[string]string{
		"00100_first.svg":  sameIDSlide,
		"00200_second.svg": sameIDSlide,
		"00300_tags.svg":   unknownTagSlide,
		"00400_hidden.svg": hiddenLayerSlide,
		"00500_spec.svg":   badSpecSlide,
	})

	err := runCommand(ctx, lintCommand(), dir)
	if err == nil {
		t.Fatal("Lint passed a broken deck")
	}

	// the duplicate id, the unknown tag and the hidden annotated layer
	// are errors, the unparsable specification only warns
	if errs := multierr.Errors(err); len(errs) != 3 {
		t.Fatalf("Lint aggregated %d errors (%v), want 3", len(errs), errs)
	}
	if !strings.Contains(err.Error(), "already declared") {
		t.Errorf("missing duplicate id finding: %v", err)
	}
	if !strings.Contains(err.Error(), "@missing") {
		t.Errorf("missing unknown tag finding: %v", err)
	}
	if !strings.Contains(err.Error(), "statically hidden") {
		t.Errorf("missing hidden layer finding: %v", err)
	}
}

func TestLintWarningsDoNotFail(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	dir := writeDeck(t, map[string]string{
		"00100_spec.svg": badSpecSlide,
	})

	if err := runCommand(ctx, lintCommand(), dir); err != nil {
		t.Fatalf("Lint failed on warnings alone: %v", err)
	}
}

func TestLintDuplicatePrefix(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	dir := writeDeck(t, map[string]string{
		"00100_a.svg": introSlide,
		"00100_b.svg": buildsSlide,
	})

	err := runCommand(ctx, lintCommand(), dir)
	if err == nil || !strings.Contains(err.Error(), "numeric prefix") {
		t.Fatalf("Lint = %v, want duplicate prefix error", err)
	}
}

func TestLintEmptyDeck(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	dir := writeDeck(t, map[string]string{"README.md": "no slides here"})

	err := runCommand(ctx, lintCommand(), dir)
	if err == nil || !strings.Contains(err.Error(), "no slides found") {
		t.Fatalf("Lint = %v, want empty deck error", err)
	}
}

func findingsBySeverity(fs []finding, severity common.Severity) []finding {
	var out []finding
	for _, f := range fs {
		if f.severity == severity {
			out = append(out, f)
		}
	}
	return out
}

func TestCheckSlideHiddenAnnotatedLayer(t *testing.T) {
	_, fs := checkSlide("s.svg", 1, strings.NewReader(hiddenLayerSlide), false)

	errors := findingsBySeverity(fs, common.SeverityError)
	if len(errors) != 1 || !strings.Contains(errors[0].message, "statically hidden") {
		t.Fatalf("findings = %+v, want one hidden layer error", fs)
	}
	if !strings.Contains(errors[0].message, "Pop") {
		t.Errorf("error does not name the layer: %s", errors[0].message)
	}
}

func TestCheckSlideStylesheetHiddenLayer(t *testing.T) {
	_, fs := checkSlide("s.svg", 1, strings.NewReader(sheetHiddenSlide), false)

	errors := findingsBySeverity(fs, common.SeverityError)
	if len(errors) != 1 || !strings.Contains(errors[0].message, "statically hidden") {
		t.Fatalf("findings = %+v, want one hidden layer error", fs)
	}
}

func TestCheckSlideDimmedAnnotatedLayer(t *testing.T) {
	_, fs := checkSlide("s.svg", 1, strings.NewReader(dimmedLayerSlide), false)

	warnings := findingsBySeverity(fs, common.SeverityWarning)
	if len(warnings) != 1 || !strings.Contains(warnings[0].message, "dimmed") {
		t.Fatalf("findings = %+v, want one dimmed layer warning", fs)
	}
	if len(findingsBySeverity(fs, common.SeverityError)) != 0 {
		t.Errorf("findings = %+v, dimming is not an error", fs)
	}
}

func TestCheckSlideVerboseHints(t *testing.T) {
	if _, fs := checkSlide("s.svg", 1, strings.NewReader(scratchLayerSlide), false); len(fs) != 0 {
		t.Fatalf("quiet findings = %+v, want none", fs)
	}

	_, fs := checkSlide("s.svg", 1, strings.NewReader(scratchLayerSlide), true)
	hints := findingsBySeverity(fs, common.SeverityHint)
	if len(hints) != 1 || !strings.Contains(hints[0].message, "statically hidden") {
		t.Fatalf("verbose findings = %+v, want one hint", fs)
	}
}

func TestCheckSlideReportsID(t *testing.T) {
	id, fs := checkSlide("s.svg", 1, strings.NewReader(sameIDSlide), false)
	if id != "same" {
		t.Errorf("id = %q, want same", id)
	}
	if len(fs) != 0 {
		t.Errorf("findings = %+v, want none", fs)
	}
}

func TestCheckSlideBrokenDocument(t *testing.T) {
	_, fs := checkSlide("s.svg", 1, strings.NewReader("not svg at all"), false)

	errors := findingsBySeverity(fs, common.SeverityError)
	if len(errors) != 1 {
		t.Fatalf("findings = %+v, want one error", fs)
	}
}
