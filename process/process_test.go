package process

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"sdv/config"
	"sdv/state"
)

const plainSlide = `<svg xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`

const introSlide = `<svg xmlns="http://www.w3.org/2000/svg"
                         xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
	<text><tspan>@@@</tspan><tspan>id = "intro"</tspan></text>
	<text><tspan>@@@</tspan><tspan>title = "A Show"</tspan></text>
	<text><tspan>@@@</tspan><tspan>date = "2026-08-24"</tspan></text>
</svg>`

const buildsSlide = `<svg xmlns="http://www.w3.org/2000/svg"
                          xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
	<g inkscape:groupmode="layer" inkscape:label="Bullets &lt;1-&gt;">
		<text><tspan>###</tspan><tspan>remember the demo</tspan></text>
	</g>
	<g inkscape:groupmode="layer" inkscape:label="Chart &lt;2&gt; @chart"/>
</svg>`

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.Env) {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	return ctx, env
}

func writeDeck(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
	}
	return dir
}

func deckNames(t *testing.T, dir string) []string {
	t.Helper()
	items, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name())
	}
	return names
}

// runCommand wires sub into a root command the way main does and runs it.
func runCommand(ctx context.Context, sub *cli.Command, args ...string) error {
	// a non-nil ExitErrHandler (as cmd/sdv installs) keeps cli's default
	// handler from calling os.Exit on aggregated errors
	root := &cli.Command{
		Name:           "sdv",
		Commands:       []*cli.Command{sub},
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	return root.Run(ctx, append([]string{"sdv", sub.Name}, args...))
}
