// Package process implements the deck facing commands: inspect, lint,
// export and mv.
package process

import (
	"errors"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"sdv/show"
	"sdv/state"
)

// deckOptions assembles deck scanning options from the configuration and
// the command line state collected in env.
func deckOptions(env *state.Env, log *zap.Logger) show.Options {
	opts := show.Options{
		Extensions: env.Cfg.Document.SlideExtensions,
		CodePage:   env.CodePage,
		Log:        log,
	}
	if opts.CodePage == nil {
		opts.CodePage = zipEncoding(env.Cfg.Document.ZipNamesEncoding, log)
	}
	return opts
}

// zipEncoding resolves an IANA character set name. Unknown names are
// ignored with a warning so a stale configuration does not stop deck
// scanning.
func zipEncoding(name string, log *zap.Logger) encoding.Encoding {
	if len(name) == 0 {
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", name), zap.Error(err))
		return nil
	}
	return enc
}

// sourceArgument returns the absolute path of the deck source argument.
func sourceArgument(cmd *cli.Command) (string, error) {
	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return "", errors.New("no deck source has been specified")
	}
	return filepath.Abs(src)
}

// captureSource snapshots the deck source into the debug report, so a
// problematic deck travels together with the troubleshooting data.
func captureSource(env *state.Env, log *zap.Logger, src string) {
	if env.Rpt == nil {
		return
	}
	if err := env.Rpt.StoreCopy("source", src); err != nil {
		log.Warn("Unable to snapshot deck source for the debug report", zap.String("source", src), zap.Error(err))
	}
}
