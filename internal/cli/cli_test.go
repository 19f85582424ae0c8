package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/model"
)

// writeConfig saves a config whose database lives in a temp dir.
func writeConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	cfg := model.DefaultAppConfig()
	cfg.Database.Path = filepath.Join(dir, "tasks.db")
	cfg.Logging.Output = "file"
	cfg.Logging.File = filepath.Join(dir, "taskboard.log")

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, model.SaveConfig(path, cfg))
	return path
}

func run(args ...string) (int, string, string) {
	var out, errOut bytes.Buffer
	code := Run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestSeedCommand(t *testing.T) {
	cfgPath := writeConfig(t)

	code, out, errOut := run("-config", cfgPath, "seed")
	require.Equal(t, Success, code, errOut)
	assert.Equal(t, "added 3 sample tasks\n", out)

	code, out, _ = run("-config", cfgPath, "seed")
	require.Equal(t, Success, code)
	assert.Contains(t, out, "nothing seeded")
}

func TestUnknownCommand(t *testing.T) {
	code, _, errOut := run("-config", writeConfig(t), "launch")

	assert.Equal(t, UserError, code)
	assert.Contains(t, errOut, "unknown command: launch")
}

func TestBadFlags(t *testing.T) {
	code, _, _ := run("-nope")
	assert.Equal(t, UserError, code)

	code, _, errOut := run("-config", writeConfig(t), "seed", "extra")
	assert.Equal(t, UserError, code)
	assert.Contains(t, errOut, `unexpected argument "extra"`)

	code, _, _ = run("-config", writeConfig(t), "serve", "-port", "1")
	assert.Equal(t, UserError, code)
}

func TestHelp(t *testing.T) {
	code, out, _ := run("help")
	assert.Equal(t, Success, code)
	assert.Contains(t, out, "usage: taskboard")

	code, out, _ = run("-h")
	assert.Equal(t, Success, code)
	assert.Contains(t, out, "commands:")
}

func TestServeStopsOnCancel(t *testing.T) {
	cfgPath := writeConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	code := Run(ctx, []string{"-config", cfgPath, "serve", "-addr", "127.0.0.1:0"}, &out, &errOut)
	assert.Equal(t, Success, code, errOut.String())
}
