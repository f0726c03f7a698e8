package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tickgraph/internal/app"
	"github.com/specialistvlad/tickgraph/internal/hcl"
	"github.com/specialistvlad/tickgraph/internal/registry"
)

// HarnessResult holds the outcomes of an app run.
type HarnessResult struct {
	LogOutput string
	Reports   []app.SessionReport
	Err       error
	App       *app.App
}

// RunApp writes files into a temporary directory and runs an app over it.
// The config defaults to debug text logging, 1000 ticks per second and a
// budget of 100 ticks; tune adjusts it before validation. Startup errors are
// returned in the result, not failed on.
func RunApp(ctx context.Context, t *testing.T, files map[string]string, tune func(*app.Config), modules ...registry.Module) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	raw := app.Config{
		Paths:     []string{dir},
		LogLevel:  "debug",
		LogFormat: "text",
		TickRate:  1000,
		MaxTicks:  100,
	}
	if tune != nil {
		tune(&raw)
	}
	cfg, err := app.NewConfig(raw)
	require.NoError(t, err)

	logs := &SafeBuffer{}
	testApp, err := app.NewApp(ctx, logs, cfg, hcl.NewLoader(), modules...)
	if err != nil {
		return &HarnessResult{LogOutput: logs.String(), Err: err}
	}
	t.Cleanup(func() { _ = testApp.Close() })

	reports, err := testApp.Run(ctx)
	if os.Getenv("TICKGRAPH_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}
	return &HarnessResult{
		LogOutput: logs.String(),
		Reports:   reports,
		Err:       err,
		App:       testApp,
	}
}
