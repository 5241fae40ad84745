package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"sdv/numbering"
	"sdv/state"
)

// Move renumbers a slide file into a new deck position, or computes the
// number for a slide about to be added there, renaming neighbours when
// the target gap has no free number. The rename plan is printed before
// anything is touched.
func Move(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("mv")

	insert := cmd.String("insert")
	moving := len(insert) == 0

	var src, position string
	if moving {
		src, position = cmd.Args().Get(0), cmd.Args().Get(1)
		if cmd.Args().Len() > 2 {
			log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
		}
	} else {
		src, position = insert, cmd.Args().Get(0)
		if cmd.Args().Len() > 1 {
			log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
		}
	}
	if len(src) == 0 {
		return errors.New("no slide has been specified")
	}
	if len(position) == 0 {
		return errors.New("no deck position has been specified")
	}
	pos, err := strconv.Atoi(position)
	if err != nil {
		return fmt.Errorf("bad deck position %q: %w", position, err)
	}

	if src, err = filepath.Abs(src); err != nil {
		return err
	}
	dir, base := filepath.Split(src)

	log.Info("Renumbering deck", zap.String("deck", dir), zap.String("slide", base), zap.Int("position", pos))
	defer func(start time.Time) {
		log.Info("Renumbering completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	// the deck is about to be reshuffled, keep its before state
	captureSource(env, log, dir)

	files, err := deckFiles(dir, env.Cfg.Document.SlideExtensions)
	if err != nil {
		return err
	}

	srcNumber := 0
	if moving {
		if _, err := os.Stat(src); err != nil {
			return fmt.Errorf("unable to access slide: %w", err)
		}
		if srcNumber, err = numbering.ExtractPrefix(base); err != nil {
			return fmt.Errorf("slide cannot be moved: %w", err)
		}
		if name, ok := files[srcNumber]; !ok || name != base {
			return fmt.Errorf("%s is not one of the deck's slide files", base)
		}
	} else if n, err := numbering.ExtractPrefix(base); err == nil {
		if name, ok := files[n]; ok && name == base {
			return fmt.Errorf("%s is already part of the deck, move it instead", base)
		}
	}

	// the moved slide leaves the number line before its new spot is chosen
	numbers := make([]int, 0, len(files))
	for number, name := range files {
		if moving && number == srcNumber && name == base {
			continue
		}
		numbers = append(numbers, number)
	}
	slices.Sort(numbers)

	allowNegative := cmd.Bool("allow-negative")
	if !allowNegative {
		for _, n := range numbers {
			if n < 0 {
				allowNegative = true
				break
			}
		}
	}

	number, renames, err := numbering.Insert(numbers, pos, allowNegative, env.Cfg.Document.NumberingStep)
	if err != nil {
		return err
	}

	digits := env.Cfg.Document.NumberingDigits

	type step struct{ from, to string }
	plan := make([]step, 0, len(renames))
	for _, r := range renames {
		from := files[r.From]
		to, err := numbering.ReplacePrefix(from, r.To, digits)
		if err != nil {
			return err
		}
		plan = append(plan, step{from: from, to: to})
	}

	final := ""
	if moving {
		if final, err = numbering.ReplacePrefix(base, number, digits); err != nil {
			return err
		}
	} else {
		final = insertName(base, number, digits)
	}

	for _, s := range plan {
		fmt.Fprintf(os.Stdout, "%s -> %s\n", s.from, s.to)
	}
	if moving {
		fmt.Fprintf(os.Stdout, "%s -> %s\n", base, final)
	} else {
		fmt.Fprintln(os.Stdout, final)
	}

	if cmd.Bool("dry-run") {
		log.Info("Dry run, nothing renamed", zap.Int("renames", len(plan)))
		return nil
	}

	// free the moved slide's number first: a plan target may need it
	tmpName := ""
	if moving && len(plan) > 0 {
		tmpName = filepath.Join(dir, ".sdv-mv-"+base)
		if err := os.Rename(src, tmpName); err != nil {
			return fmt.Errorf("unable to rename %s: %w", base, err)
		}
	}

	for _, s := range plan {
		if err := os.Rename(filepath.Join(dir, s.from), filepath.Join(dir, s.to)); err != nil {
			return fmt.Errorf("unable to rename %s: %w", s.from, err)
		}
	}

	if moving {
		from := src
		if tmpName != "" {
			from = tmpName
		}
		if err := os.Rename(from, filepath.Join(dir, final)); err != nil {
			return fmt.Errorf("unable to rename %s: %w", base, err)
		}
	}

	log.Info("Deck renumbered", zap.Int("number", number), zap.Int("renames", len(plan)))
	return nil
}

// deckFiles enumerates the numbered slide files of a deck directory by
// base name, keyed by their numeric prefix.
func deckFiles(dir string, exts []string) (map[int]string, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to scan deck directory: %w", err)
	}

	files := make(map[int]string)
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		name := item.Name()
		matched := false
		for _, ext := range exts {
			if strings.EqualFold(filepath.Ext(name), ext) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		number, err := numbering.ExtractPrefix(name)
		if err != nil {
			continue
		}
		if other, ok := files[number]; ok {
			return nil, fmt.Errorf("numeric prefix %d is used by both %s and %s, fix the deck first", number, other, name)
		}
		files[number] = name
	}
	return files, nil
}

// insertName prefixes a new slide name with its assigned number,
// replacing any numeric prefix the name already carries.
func insertName(base string, number, digits int) string {
	if renamed, err := numbering.ReplacePrefix(base, number, digits); err == nil {
		return renamed
	}
	return fmt.Sprintf("%0*d-%s", digits, number, base)
}
