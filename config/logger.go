package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"sdv/misc"
)

type LoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	Mode        string `yaml:"mode,omitempty" validate:"omitempty,oneof=append overwrite"`
}

type LoggingConfig struct {
	FileLogger    LoggerConfig `yaml:"file"`
	ConsoleLogger LoggerConfig `yaml:"console"`
}

// Prepare builds the program logger: console cores split between stdout
// and stderr at the configured level, plus an optional file core. With
// an active debug report the file logger is forced to full detail and
// its output ends up in the report.
func (conf *LoggingConfig) Prepare(rpt *Report) (*zap.Logger, error) {
	low, high := consoleCores(conf.ConsoleLogger.Level)

	sink, redirected, err := fileCore(&conf.FileLogger, rpt)
	if err != nil {
		return nil, err
	}

	log := zap.New(zapcore.NewTee(high, low, sink), zap.AddCaller()).Named(misc.GetAppName())
	if len(redirected) != 0 {
		log.Warn("Log file was redirected to new location", zap.String("location", redirected))
	}
	return log, nil
}

// consoleCores splits console output so pipelines can separate it:
// levels below error go to stdout, errors to stderr. Color is decided
// per stream, a redirected one stays plain.
func consoleCores(level string) (low, high zapcore.Core) {
	var min zapcore.Level
	switch level {
	case "normal":
		min = zapcore.InfoLevel
	case "debug":
		min = zapcore.DebugLevel
	default:
		return zapcore.NewNopCore(), zapcore.NewNopCore()
	}

	low = zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig(os.Stdout)),
		zapcore.Lock(os.Stdout),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return min <= lvl && lvl < zapcore.ErrorLevel
		}))
	high = zapcore.NewCore(
		newShortErrorEncoder(consoleEncoderConfig(os.Stderr)),
		zapcore.Lock(os.Stderr),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.ErrorLevel
		}))
	return low, high
}

func consoleEncoderConfig(stream *os.File) zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if EnableColorOutput(stream) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return ec
}

// openLog opens a log destination honouring the append/overwrite mode.
func openLog(fname, mode string) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if mode == "append" {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(fname, flags, 0644)
}

// fileCore builds the file logging core. An active debug report forces
// a fresh file at full detail and stores the log in the report. When
// the configured destination cannot be opened the log falls back to a
// temporary file whose name is returned so the caller can announce it.
func fileCore(conf *LoggerConfig, rpt *Report) (zapcore.Core, string, error) {
	level, mode := conf.Level, conf.Mode
	if rpt != nil {
		level, mode = "debug", "overwrite"
	}

	var min zapcore.Level
	switch level {
	case "debug":
		min = zap.DebugLevel
	case "normal":
		min = zap.InfoLevel
	default:
		return zapcore.NewNopCore(), "", nil
	}

	capturePanics(conf.Destination, mode, rpt)

	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	f, err := openLog(conf.Destination, mode)
	if err == nil {
		rpt.Store("final.log", f.Name())
		return zapcore.NewCore(enc, zapcore.Lock(f), zap.NewAtomicLevelAt(min)), "", nil
	}
	if f, err = os.CreateTemp("", misc.GetAppName()+".*.log"); err == nil {
		rpt.Store("final.log", f.Name())
		return zapcore.NewCore(enc, zapcore.Lock(f), zap.NewAtomicLevelAt(min)), f.Name(), nil
	}
	return nil, "", fmt.Errorf("unable to access file log destination (%s): %w", conf.Destination, err)
}

// capturePanics redirects runtime crash output next to the log file so
// a panic leaves a trace even when the process dies mid write.
func capturePanics(dest, mode string, rpt *Report) {
	f, err := openLog(filepath.Join(filepath.Dir(dest), misc.GetAppName()+"-panic.log"), mode)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-panic.*.log"); err != nil {
			// nowhere to put crash output, keep going without it
			return
		}
	}
	debug.SetCrashOutput(f, debug.CrashOptions{})
	rpt.Store("panic.log", f.Name())
	f.Close()
}

// Console errors carry the terse message only. The verbose error chain
// stays in the file log where there is room for it.

type shortErrorEncoder struct {
	zapcore.Encoder
}

func newShortErrorEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return shortErrorEncoder{zapcore.NewConsoleEncoder(cfg)}
}

func (c shortErrorEncoder) Clone() zapcore.Encoder {
	return shortErrorEncoder{c.Encoder.Clone()}
}

func (c shortErrorEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	out := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			f.Interface = errors.New(f.Interface.(error).Error())
		}
		out = append(out, f)
	}
	return c.Encoder.EncodeEntry(ent, out)
}
