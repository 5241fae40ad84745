package show

import (
	"archive/zip"
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/h2non/filetype"
	"github.com/maruel/natural"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"sdv/archive"
	"sdv/numbering"
	"sdv/svg"
)

// DefaultExtensions are the file suffixes recognized as slides when the
// configuration does not say otherwise.
var DefaultExtensions = []string{".svg", ".svgz"}

// Options adjust deck scanning.
type Options struct {
	// Extensions overrides the recognized slide suffixes.
	Extensions []string

	// CodePage decodes zip entry names not marked as UTF-8. Without it
	// such names are used as stored.
	CodePage encoding.Encoding

	// Log receives scanning warnings and processing diagnostics.
	Log *zap.Logger
}

func (o Options) extensions() []string {
	if len(o.Extensions) > 0 {
		return o.Extensions
	}
	return DefaultExtensions
}

func (o Options) log() *zap.Logger {
	if o.Log != nil {
		return o.Log
	}
	return zap.NewNop()
}

// Load assembles a deck from a directory of slide files or a zip archive
// of them. Slides are processed one at a time and the load stops on the
// first failing slide or when ctx is cancelled.
func Load(ctx context.Context, source string, opts Options) (*Show, error) {
	log := opts.log()

	var slides []*Slide
	err := Walk(ctx, source, opts, func(name string, number int, r io.Reader) error {
		doc, err := svg.Load(r, name)
		if err != nil {
			return err
		}
		sl, err := Process(doc, log)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		sl.FileName = name
		sl.Number = number
		slides = append(slides, sl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("no slides found in %s", source)
	}

	SortSlides(slides)
	return New(slides)
}

// Process runs the slide pipeline on a loaded document: build step
// resolution first so the note association sees resolved layers, then
// speaker note extraction, magic text, slide ID and metadata.
func Process(doc *svg.Document, log *zap.Logger) (*Slide, error) {
	steps, err := svg.AnnotateBuildSteps(doc.Arena, log)
	if err != nil {
		return nil, err
	}

	notes := svg.ExtractNotes(doc.Arena, steps)
	if len(notes) > 0 {
		svg.EmbedNotes(doc.Arena, notes)
	}

	magic, err := svg.ExtractMagic(doc.Arena)
	if err != nil {
		return nil, err
	}

	id, err := svg.AnnotateSlideID(doc.Arena, magic)
	if err != nil {
		return nil, err
	}

	meta, err := svg.AnnotateMetadata(doc.Arena, magic)
	if err != nil {
		return nil, err
	}

	return &Slide{
		Doc:   doc,
		ID:    id,
		Steps: steps,
		Notes: notes,
		Meta:  meta,
		Magic: magic,
	}, nil
}

// SortSlides orders slides by ascending numeric prefix, ties broken by
// natural comparison of the file name.
func SortSlides(slides []*Slide) {
	slices.SortStableFunc(slides, func(a, b *Slide) int {
		if a.Number != b.Number {
			return cmp.Compare(a.Number, b.Number)
		}
		switch {
		case a.FileName == b.FileName:
			return 0
		case natural.Less(a.FileName, b.FileName):
			return -1
		default:
			return 1
		}
	})
}

// Walk enumerates the slide files of a deck source, calling fn for each
// with its decoded base name, numeric prefix, and content. Files without
// a recognized suffix or a numeric prefix are skipped with a warning.
// Enumeration follows storage order, not deck order; callers wanting deck
// order sort afterwards. Cancellation is checked between files, and a
// non-nil error from fn stops the walk.
func Walk(ctx context.Context, source string, opts Options, fn func(name string, number int, r io.Reader) error) error {
	fi, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("unable to access deck source: %w", err)
	}
	if fi.IsDir() {
		return walkDir(ctx, source, opts, fn)
	}
	return walkZip(ctx, source, opts, fn)
}

func walkDir(ctx context.Context, dir string, opts Options, fn func(string, int, io.Reader) error) error {
	log := opts.log()

	items, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("unable to scan deck directory: %w", err)
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if item.IsDir() {
			continue
		}
		name := item.Name()
		number, ok := slideNumber(name, opts.extensions(), log)
		if !ok {
			continue
		}
		if err := func() error {
			f, err := os.Open(filepath.Join(dir, name))
			if err != nil {
				return fmt.Errorf("unable to open slide: %w", err)
			}
			defer f.Close()
			return fn(name, number, f)
		}(); err != nil {
			return err
		}
	}
	return nil
}

func walkZip(ctx context.Context, source string, opts Options, fn func(string, int, io.Reader) error) error {
	log := opts.log()

	head, err := fileHead(source)
	if err != nil {
		return err
	}
	if !filetype.Is(head, "zip") {
		return fmt.Errorf("%s is neither a directory nor a zip archive", source)
	}

	return archive.Walk(ctx, source, func(f *zip.File) error {
		name := path.Base(entryName(f, opts.CodePage, log))
		number, ok := slideNumber(name, opts.extensions(), log)
		if !ok {
			return nil
		}
		r, err := f.Open()
		if err != nil {
			return fmt.Errorf("unable to open %s in %s: %w", f.Name, source, err)
		}
		defer r.Close()
		return fn(name, number, r)
	})
}

// slideNumber extracts the ordering prefix of a slide file name,
// reporting false for names scanning should skip.
func slideNumber(name string, exts []string, log *zap.Logger) (int, bool) {
	matched := false
	for _, ext := range exts {
		if strings.EqualFold(filepath.Ext(name), ext) {
			matched = true
			break
		}
	}
	if !matched {
		log.Warn("Skipping file without a slide extension", zap.String("file", name))
		return 0, false
	}
	number, err := numbering.ExtractPrefix(name)
	if err != nil {
		log.Warn("Skipping file without a numeric prefix", zap.String("file", name))
		return 0, false
	}
	return number, true
}

// entryName decodes an archive entry name stored in a legacy encoding.
func entryName(f *zip.File, cp encoding.Encoding, log *zap.Logger) string {
	name := f.FileHeader.Name
	if cp == nil || !f.FileHeader.NonUTF8 {
		return name
	}
	if decoded, err := cp.NewDecoder().String(name); err == nil {
		return decoded
	} else {
		n, _ := ianaindex.IANA.Name(cp)
		log.Warn("Unable to convert archive name from specified encoding",
			zap.String("charset", n), zap.String("path", name), zap.Error(err))
	}
	return name
}

func fileHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open deck source: %w", err)
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("unable to read deck source: %w", err)
	}
	return head[:n], nil
}
