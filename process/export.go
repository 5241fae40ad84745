package process

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	fixzip "github.com/hidez8891/zip"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"
	"gopkg.in/yaml.v3"

	"sdv/common"
	"sdv/config"
	"sdv/show"
	"sdv/state"
)

const manifestName = "manifest.yaml"

// Values is a struct that holds variables we make available for name
// template expansion.
type Values struct {
	Context string
	Title   string
	Date    string
	UUID    string
}

// manifest describes an exported deck.
type manifest struct {
	UUID   string          `yaml:"uuid"`
	Title  string          `yaml:"title,omitempty"`
	Author string          `yaml:"author,omitempty"`
	Date   string          `yaml:"date,omitempty"`
	Slides []manifestSlide `yaml:"slides"`
}

type manifestSlide struct {
	File  string           `yaml:"file"`
	ID    string           `yaml:"id,omitempty"`
	Steps []int            `yaml:"steps,flow"`
	Tags  map[string][]int `yaml:"tags,omitempty"`
	Notes []manifestNote   `yaml:"notes,omitempty"`
}

type manifestNote struct {
	Steps []int  `yaml:"steps,flow,omitempty"`
	Text  string `yaml:"text"`
}

// Export writes the processed deck, every slide document with its build
// annotations applied, to a directory or a zip archive together with a
// manifest describing the deck.
func Export(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("export")

	src, err := sourceArgument(cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	captureSource(env, log, src)

	env.Overwrite = cmd.Bool("overwrite") || env.Cfg.Export.Overwrite
	env.Format = env.Cfg.Export.Format
	if cmd.Bool("zip") {
		env.Format = common.ExportFmtZip
	}

	// Since zip "standard" does not define file name encoding we may need
	// to force archaic code page for old archives
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		if env.CodePage = zipEncoding(cp, log); env.CodePage != nil {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	sh, err := show.Load(ctx, src, deckOptions(env, log))
	if err != nil {
		return err
	}

	deckID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("unable to mint deck UUID: %w", err)
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		dst = destinationName(src, sh, deckID.String(), env)
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}

	log.Info("Exporting deck", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", env.Format))
	defer func(start time.Time) {
		log.Info("Export completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	if _, err := os.Stat(dst); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output already exists: %s", dst)
		}
		log.Warn("Overwriting existing output", zap.String("path", dst))
		if err = os.RemoveAll(dst); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	desc, err := deckManifest(sh, deckID.String())
	if err != nil {
		return err
	}

	if env.Format == common.ExportFmtZip {
		return writeZip(ctx, sh, dst, desc, log)
	}
	return writeDir(ctx, sh, dst, desc, log)
}

// destinationName builds the output name from the configured template,
// falling back to a name derived from the source when the template does
// not work out.
func destinationName(src string, sh *show.Show, id string, env *state.Env) string {
	defaultName := config.CleanFileName(strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))) + env.Format.Ext()

	expanded, err := expandNameTemplate(env.Cfg.Export.NameTemplate, sh, id)
	if err != nil {
		env.Log.Warn("Unable to prepare output name", zap.Error(err))
		return defaultName
	}
	return assembleDestination(expanded, env.Format.Ext(), defaultName)
}

func expandNameTemplate(field string, sh *show.Show, id string) (string, error) {
	tmpl, err := template.New(string(config.ExportNameTemplateFieldName)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", config.ExportNameTemplateFieldName, err)
	}

	values := Values{
		Context: string(config.ExportNameTemplateFieldName),
		Title:   slug.Make(sh.Title),
		Date:    sh.Date,
		UUID:    id,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// assembleDestination cleans each path segment of an expanded name and
// appends the format extension. Degenerate expansions, a deck without a
// title leaves little behind, fall back to the default name.
func assembleDestination(expanded, ext, fallback string) string {
	segments := strings.Split(filepath.ToSlash(expanded), "/")
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		// CleanFileName substitutes a placeholder for unusable names, so
		// degenerate segments have to go before it runs
		if strings.Trim(segment, "-_. ") == "" {
			continue
		}
		parts = append(parts, config.CleanFileName(segment))
	}
	if len(parts) == 0 {
		return fallback
	}
	name := filepath.Join(parts...)
	if strings.Trim(name, "-_. ") == "" {
		return fallback
	}
	return name + ext
}

func deckManifest(sh *show.Show, id string) ([]byte, error) {
	m := manifest{
		UUID:   id,
		Title:  sh.Title,
		Author: sh.Author,
		Date:   sh.Date,
		Slides: make([]manifestSlide, 0, len(sh.Slides)),
	}
	for _, sl := range sh.Slides {
		ms := manifestSlide{
			File:  exportedName(sl.FileName),
			ID:    sl.ID,
			Steps: sl.Steps.Result.Timeline,
			Tags:  sl.Steps.Result.Tags,
		}
		for _, note := range sl.Notes {
			ms.Notes = append(ms.Notes, manifestNote{Steps: note.StepNumbers, Text: note.Text})
		}
		m.Slides = append(m.Slides, ms)
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize deck manifest: %w", err)
	}
	return data, nil
}

// exportedName is the slide's name in the output: documents are written
// decompressed, so a .svgz source becomes .svg.
func exportedName(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".svgz") {
		return strings.TrimSuffix(name, filepath.Ext(name)) + ".svg"
	}
	return name
}

func writeDir(ctx context.Context, sh *show.Show, dst string, desc []byte, log *zap.Logger) error {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	for _, sl := range sh.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := sl.Doc.Bytes()
		if err != nil {
			return fmt.Errorf("unable to serialize %s: %w", sl.FileName, err)
		}
		name := exportedName(sl.FileName)
		if err := os.WriteFile(filepath.Join(dst, name), data, 0644); err != nil {
			return fmt.Errorf("unable to write %s: %w", name, err)
		}
		log.Debug("Slide written", zap.String("file", name))
	}

	if err := os.WriteFile(filepath.Join(dst, manifestName), desc, 0644); err != nil {
		return fmt.Errorf("unable to write %s: %w", manifestName, err)
	}
	return nil
}

func writeZip(ctx context.Context, sh *show.Show, dst string, desc []byte, log *zap.Logger) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	defer tmp.Close()

	zw := zip.NewWriter(tmp)
	defer zw.Close()

	for _, sl := range sh.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := sl.Doc.Bytes()
		if err != nil {
			return fmt.Errorf("unable to serialize %s: %w", sl.FileName, err)
		}
		name := exportedName(sl.FileName)
		w, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("unable to add %s to archive: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("unable to write %s: %w", name, err)
		}
		log.Debug("Slide written", zap.String("file", name))
	}

	w, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("unable to add %s to archive: %w", manifestName, err)
	}
	if _, err := w.Write(desc); err != nil {
		return fmt.Errorf("unable to write %s: %w", manifestName, err)
	}

	// make sure buffers are flushed before rewriting entries
	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to close output archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}

	return copyZipWithoutDataDescriptors(tmpName, dst)
}

// copyZipWithoutDataDescriptors rewrites archive entries so readers that
// cannot handle data descriptors, streaming consumers mostly, accept the
// output.
func copyZipWithoutDataDescriptors(from, to string) error {

	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	return nil
}
