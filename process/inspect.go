package process

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"sdv/show"
	"sdv/state"
	"sdv/utils/debug"
)

// report is the machine readable deck description.
type report struct {
	Source string        `json:"source"`
	Title  string        `json:"title,omitempty"`
	Author string        `json:"author,omitempty"`
	Date   string        `json:"date,omitempty"`
	Slides []slideReport `json:"slides"`
}

type slideReport struct {
	File   string           `json:"file"`
	Number int              `json:"number"`
	ID     string           `json:"id,omitempty"`
	Title  string           `json:"title,omitempty"`
	Steps  []int            `json:"steps"`
	Layers []layerReport    `json:"layers,omitempty"`
	Tags   map[string][]int `json:"tags,omitempty"`
	Notes  int              `json:"notes,omitempty"`
}

type layerReport struct {
	Label     string   `json:"label"`
	Annotated bool     `json:"annotated"`
	Steps     []int    `json:"steps,omitempty"`
	Indices   []int    `json:"indices,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Inspect loads a deck and prints its resolved structure, as an indented
// tree for reading or as JSON for tooling.
func Inspect(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("inspect")

	src, err := sourceArgument(cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	captureSource(env, log, src)

	log.Info("Inspecting deck", zap.String("source", src))
	defer func(start time.Time) {
		log.Info("Inspection completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	sh, err := show.Load(ctx, src, deckOptions(env, log))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		data, err := json.MarshalIndent(describe(src, sh), "", "  ")
		if err != nil {
			return fmt.Errorf("unable to serialize deck description: %w", err)
		}
		_, err = fmt.Fprintf(os.Stdout, "%s\n", data)
		return err
	}

	_, err = os.Stdout.WriteString(renderTree(src, sh))
	return err
}

func describe(src string, sh *show.Show) report {
	rep := report{
		Source: src,
		Title:  sh.Title,
		Author: sh.Author,
		Date:   sh.Date,
		Slides: make([]slideReport, 0, len(sh.Slides)),
	}
	for _, sl := range sh.Slides {
		sr := slideReport{
			File:   sl.FileName,
			Number: sl.Number,
			ID:     sl.ID,
			Title:  sl.Meta.Title,
			Steps:  sl.Steps.Result.Timeline,
			Tags:   sl.Steps.Result.Tags,
			Notes:  len(sl.Notes),
		}
		for _, layer := range sl.Steps.Result.Layers {
			sr.Layers = append(sr.Layers, layerReport{
				Label:     layer.Label,
				Annotated: layer.Annotated(),
				Steps:     layer.Numbers,
				Indices:   layer.Indices,
				Tags:      layer.Tags,
			})
		}
		rep.Slides = append(rep.Slides, sr)
	}
	return rep
}

func renderTree(src string, sh *show.Show) string {
	tree := debug.NewTree()

	deck := tree.Root("deck %s (%d slides)", src, len(sh.Slides))
	if sh.Title != "" {
		deck.Text("title", sh.Title)
	}
	if sh.Author != "" {
		deck.Text("author", sh.Author)
	}
	if sh.Date != "" {
		deck.Text("date", sh.Date)
	}

	for i, sl := range sh.Slides {
		slide := deck.Child("slide %d: %s", i+1, sl.FileName)
		slide.Child("number: %d", sl.Number)
		if sl.ID != "" {
			slide.Child("id: %s", sl.ID)
		}
		if sl.Meta.Title != "" {
			slide.Text("title", sl.Meta.Title)
		}
		slide.Child("steps: %d, numbers %v", sl.Steps.Result.StepCount(), sl.Steps.Result.Timeline)
		for _, layer := range sl.Steps.Result.Layers {
			extra := ""
			if len(layer.Tags) > 0 {
				extra = fmt.Sprintf(" tags %v", layer.Tags)
			}
			if layer.Annotated() {
				slide.Child("layer %q steps %v%s", layer.Label, layer.Numbers, extra)
			} else {
				slide.Child("layer %q always visible%s", layer.Label, extra)
			}
		}
		for _, tag := range sortedTags(sl.Steps.Result.Tags) {
			slide.Child("tag @%s -> indices %v", tag, sl.Steps.Result.Tags[tag])
		}
		if len(sl.Notes) > 0 {
			slide.Child("notes: %d", len(sl.Notes))
		}
	}

	return tree.String()
}

// sortedTags orders tag names naturally so numbered tags list the way a
// human expects.
func sortedTags(tags map[string][]int) []string {
	keys := make([]string, 0, len(tags))
	for tag := range tags {
		keys = append(keys, tag)
	}
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case natural.Less(a, b):
			return -1
		default:
			return 1
		}
	})
	return keys
}
