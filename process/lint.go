package process

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sdv/builds"
	"sdv/common"
	"sdv/css"
	"sdv/show"
	"sdv/state"
	"sdv/svg"
)

// finding is a single lint diagnosis tied to a slide.
type finding struct {
	severity common.Severity
	file     string
	number   int
	message  string
}

// Lint runs every deck check and reports all findings together: broken
// slides do not hide problems in the rest of the deck. The run fails
// only when at least one finding is an error.
func Lint(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("lint")

	src, err := sourceArgument(cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	captureSource(env, log, src)
	verbose := cmd.Bool("verbose")

	log.Info("Linting deck", zap.String("source", src))
	defer func(start time.Time) {
		log.Info("Lint completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	var findings []finding
	seenIDs := make(map[string]string)
	seenNumbers := make(map[int]string)
	slides := 0

	err = show.Walk(ctx, src, deckOptions(env, log), func(name string, number int, r io.Reader) error {
		slides++

		id, found := checkSlide(name, number, r, verbose)
		findings = append(findings, found...)

		if first, ok := seenNumbers[number]; ok {
			findings = append(findings, finding{
				severity: common.SeverityError,
				file:     name,
				number:   number,
				message:  fmt.Sprintf("numeric prefix %d is already used by %s, deck order is ambiguous", number, first),
			})
		} else {
			seenNumbers[number] = name
		}

		if id != "" {
			if first, ok := seenIDs[id]; ok {
				findings = append(findings, finding{
					severity: common.SeverityError,
					file:     name,
					number:   number,
					message:  fmt.Sprintf("slide id %q is already declared by %s", id, first),
				})
			} else {
				seenIDs[id] = name
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if slides == 0 {
		return fmt.Errorf("no slides found in %s", src)
	}

	slices.SortStableFunc(findings, func(a, b finding) int {
		if a.number != b.number {
			return cmp.Compare(a.number, b.number)
		}
		switch {
		case a.file == b.file:
			return 0
		case natural.Less(a.file, b.file):
			return -1
		default:
			return 1
		}
	})

	var errs error
	counts := make(map[common.Severity]int)
	for _, f := range findings {
		counts[f.severity]++
		fmt.Fprintf(os.Stdout, "%s: %s: %s\n", f.severity, f.file, f.message)
		if f.severity.Fails() {
			errs = multierr.Append(errs, fmt.Errorf("%s: %s", f.file, f.message))
		}
	}

	log.Info("Deck checked",
		zap.Int("slides", slides),
		zap.Int("errors", counts[common.SeverityError]),
		zap.Int("warnings", counts[common.SeverityWarning]),
		zap.Int("hints", counts[common.SeverityHint]))

	return errs
}

// checkSlide runs the per slide checks, reporting the slide's declared
// ID (when it has a usable one) for deck level duplicate detection.
func checkSlide(name string, number int, r io.Reader, verbose bool) (string, []finding) {
	var fs []finding
	add := func(severity common.Severity, format string, args ...any) {
		fs = append(fs, finding{
			severity: severity,
			file:     name,
			number:   number,
			message:  fmt.Sprintf(format, args...),
		})
	}

	doc, err := svg.Load(r, name)
	if err != nil {
		add(common.SeverityError, "%s", err)
		return "", fs
	}

	// lenient recovery path: an unparsable specification leaves the layer
	// always visible, authors should know
	for _, layer := range svg.Flatten(svg.Layers(doc.Arena)) {
		if _, err := builds.ParseSpec(layer.Label); err != nil {
			add(common.SeverityWarning, "layer %q: %s, layer will always be visible", layer.Label, err)
		}
	}

	steps, err := svg.AnnotateBuildSteps(doc.Arena, zap.NewNop())
	if err != nil {
		add(common.SeverityError, "%s", err)
		return "", fs
	}

	magic, err := svg.ExtractMagic(doc.Arena)
	if err != nil {
		add(common.SeverityError, "%s", err)
		return "", fs
	}

	id, err := svg.AnnotateSlideID(doc.Arena, magic)
	if err != nil {
		add(common.SeverityError, "%s", err)
	}
	if _, err := svg.AnnotateMetadata(doc.Arena, magic); err != nil {
		add(common.SeverityError, "%s", err)
	}

	scanner := css.NewScanner(zap.NewNop())
	for i, sheet := range svg.Stylesheets(doc.Arena) {
		scanner.AddStylesheet([]byte(sheet), fmt.Sprintf("%s style %d", name, i+1))
	}
	for i, layer := range steps.Layers {
		vis := scanner.Scan(layerElement(doc.Arena, layer.Node))
		annotated := steps.Result.Layers[i].Annotated()
		switch {
		case vis.Hidden && annotated:
			add(common.SeverityError, "layer %q has build steps but is statically hidden and will never show", layer.Label)
		case vis.Hidden && verbose:
			add(common.SeverityHint, "layer %q is statically hidden", layer.Label)
		case vis.Dimmed && annotated:
			add(common.SeverityWarning, "layer %q has build steps but is dimmed by its opacity", layer.Label)
		case vis.Dimmed && verbose:
			add(common.SeverityHint, "layer %q is dimmed by its opacity", layer.Label)
		}
	}
	for _, warning := range scanner.Warnings() {
		add(common.SeverityWarning, "%s", warning)
	}

	return id, fs
}

// layerElement collects the attributes static visibility is decided by.
func layerElement(a *svg.Arena, node int) css.Element {
	attr := func(name string) string {
		value, _ := a.Attr(node, "", name)
		return value
	}
	return css.Element{
		ID:         attr("id"),
		Style:      attr("style"),
		Display:    attr("display"),
		Visibility: attr("visibility"),
		Opacity:    attr("opacity"),
	}
}
