// Package state carries per run program state through the context.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"sdv/common"
	"sdv/config"
)

type envKey struct{}

// Env is the single place everything a command needs lives in: parsed
// configuration, logging, the optional debug report and the few knobs
// collected from command line flags.
type Env struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// export destination settings, consulted by the export command
	Overwrite bool
	Format    common.ExportFmt
	CodePage  encoding.Encoding

	start         time.Time
	restoreStdLog func()
}

// ContextWithEnv seeds ctx with a fresh environment.
func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &Env{start: time.Now()})
}

// EnvFromContext pulls the environment out of ctx. The program puts it
// there on startup, a context without one is a programming error.
func EnvFromContext(ctx context.Context) *Env {
	env, ok := ctx.Value(envKey{}).(*Env)
	if !ok {
		panic("no environment in context")
	}
	return env
}

// Uptime reports how long ago the environment was created.
func (e *Env) Uptime() time.Duration {
	return time.Since(e.start)
}

// RedirectStdLog routes the standard library's global logger into ours
// so log output of third party packages lands in the same sinks.
func (e *Env) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

// RestoreStdLog undoes RedirectStdLog and flushes the logger.
func (e *Env) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
