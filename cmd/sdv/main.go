package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sdv/config"
	"sdv/misc"
	"sdv/process"
	"sdv/state"
)

// setupEnv fills the context environment once the command line is
// parsed: configuration first, then the optional debug report, then
// logging on top of both.
func setupEnv(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		// no command, help output only
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	var err error
	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}

	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		if len(configFile) > 0 {
			// the report wants the effective values, not the file text
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData("config/"+filepath.Base(configFile), data)
			}
		}
	}

	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started",
		zap.Strings("args", os.Args),
		zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()),
		zap.String("hash", misc.GetGitHash()))
	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

// teardownEnv closes logging and the debug report. It also runs when
// setupEnv bailed out early, so everything here copes with a partly
// initialized environment.
func teardownEnv(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()

	// the log is synced now, from here problems go to stderr directly
	var errs error
	if err := env.Rpt.Close(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("unable to close debug report: %w", err))
	}
	return multierr.Append(errs, dropEmptyPanicLog(env.Cfg))
}

// dropEmptyPanicLog removes the crash capture file when nothing crashed.
func dropEmptyPanicLog(cfg *config.Config) error {
	if cfg == nil || len(cfg.Logging.FileLogger.Destination) == 0 {
		return nil
	}
	debug.SetCrashOutput(nil, debug.CrashOptions{})

	fname := filepath.Join(filepath.Dir(cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
	if fi, err := os.Stat(fname); err == nil && fi.Size() == 0 {
		if err := os.Remove(fname); err != nil {
			return fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, err)
		}
	}
	return nil
}

// Subcommand errors are logged while logging is still up, main only
// prints what nobody reported yet. cli.Exit codes are not used, the
// subcommands return plain errors.
var errLogged bool

func logCommandError(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)
	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errLogged = true
	}
}

func passUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// reported by logCommandError or by main on exit
	return err
}

func unknownCommand(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

const sourceHelp = `
SOURCE:
    deck to process, either of:
        path to a directory with slide files ("00100-intro.svg", ...)
        path to a zip archive of such files

    Files without a recognized slide extension or a numeric name prefix
    are skipped. Slides are ordered by their numeric prefix.
`

func main() {

	// interrupts cancel the context so a long deck walk stops cleanly
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "inspects, checks and packages Inkscape slide decks",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          setupEnv,
		After:           teardownEnv,
		OnUsageError:    passUsageError,
		ExitErrHandler:  logCommandError,
		CommandNotFound: unknownCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "inspect",
				Usage:        "Shows the deck structure with resolved build steps",
				OnUsageError: passUsageError,
				Action:       process.Inspect,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "emit the structure as JSON for tooling"},
				},
				ArgsUsage:          "SOURCE",
				CustomHelpTemplate: fmt.Sprintf("%s%s", cli.CommandHelpTemplate, sourceHelp),
			},
			{
				Name:         "lint",
				Usage:        "Checks the deck for annotation and structure problems",
				OnUsageError: passUsageError,
				Action:       process.Lint,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "also report hidden layers without build annotations"},
				},
				ArgsUsage: "SOURCE",
				CustomHelpTemplate: fmt.Sprintf(`%s%s
All checks run on every slide and all findings are reported together,
ordered by deck position. The command fails only when at least one
finding is an error, warnings and hints never change the exit code.
`, cli.CommandHelpTemplate, sourceHelp),
			},
			{
				Name:         "export",
				Usage:        "Writes the processed deck with a manifest",
				OnUsageError: passUsageError,
				Action:       process.Export,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
					&cli.BoolFlag{Name: "zip", Usage: "write a zip archive instead of a directory"},
					&cli.StringFlag{Name: "force-zip-cp",
						Usage: "Force `ENCODING` for ALL non UTF-8 file names in processed archives (see IANA.org for character set names)"},
				},
				ArgsUsage: "SOURCE [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s%s
DESTINATION:
    a directory, or with --zip a file, to write the deck to
    if absent - derived from the configured name template
`, cli.CommandHelpTemplate, sourceHelp),
			},
			{
				Name:         "mv",
				Usage:        "Renumbers a slide into a new deck position",
				OnUsageError: passUsageError,
				Action:       process.Move,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "insert", Usage: "compute a numbered name for new slide `FILE` instead of moving one"},
					&cli.BoolFlag{Name: "dry-run", Usage: "print the rename plan without touching any file"},
					&cli.BoolFlag{Name: "allow-negative", Usage: "permit negative numeric prefixes"},
				},
				ArgsUsage: "SOURCE POSITION",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    the slide file to move, its directory is the deck

POSITION:
    the new place among the deck's other slides, counted from 0
    the number of remaining slides means "after the last one"

The smallest possible set of neighbouring slides is renamed when the
requested position has no free number. The rename plan is always
printed; with --insert the computed file name is printed instead of
moving anything.
`, cli.CommandHelpTemplate),
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: passUsageError,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

The actual configuration is the composition of built-in defaults and the
values given in the configuration file. Use --default to see the
built-in defaults alone.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit at the end of main sets the exit code, nothing may
	// defer after this point
	defer func() {
		stop()
		if err != nil {
			if !errLogged {
				// logging is either not up yet or closed already
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		data  []byte
		err   error
		which = "actual"
	)
	if cmd.Bool("default") {
		which = "default"
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	out := os.Stdout
	if len(fname) > 0 {
		if out, err = os.Create(fname); err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	} else {
		fname = "STDOUT"
	}
	env.Log.Info("Writing configuration", zap.String("state", which), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
