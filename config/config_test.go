package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points config discovery at an empty directory
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("PIGMENT_CONFIG", "")
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1000, cfg.Image.Width)
	assert.Equal(t, 200, cfg.Image.Height)
	assert.Equal(t, 2*time.Second, cfg.UI.CopiedDuration)
}

func TestBuilders(t *testing.T) {
	cfg := DefaultConfig().
		WithOutputDir("/tmp/out").
		WithImageSize(300, 60).
		WithLabels(true).
		WithLogLevel("debug")

	assert.Equal(t, "/tmp/out", cfg.Output.Dir)
	assert.Equal(t, 300, cfg.Image.Width)
	assert.Equal(t, 60, cfg.Image.Height)
	assert.True(t, cfg.Image.Labels)
	assert.Equal(t, "debug", cfg.Log.Level)

	opts := cfg.RenderOptions()
	assert.Equal(t, 300, opts.Width)
	assert.True(t, opts.Labels)
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "pigment.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[image]
width = 640
labels = true

[schedule]
spec = "*/5 * * * *"

[ui]
copied_duration = "3s"
`), 0o644))
	t.Setenv("PIGMENT_CONFIG", path)
	t.Setenv("PIGMENT_IMAGE_HEIGHT", "64")
	t.Setenv("PIGMENT_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Image.Width)
	assert.Equal(t, 64, cfg.Image.Height)
	assert.True(t, cfg.Image.Labels)
	assert.Equal(t, "*/5 * * * *", cfg.Schedule.Spec)
	assert.Equal(t, 3*time.Second, cfg.UI.CopiedDuration)
	assert.Equal(t, "warn", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	t.Setenv("PIGMENT_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Image.Width = 0
	cfg.Output.Format = "svg"
	cfg.Log.Level = "loud"
	cfg.Schedule.Spec = "whenever"
	cfg.Schedule.Timezone = "Mars/Olympus"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"image size", "svg", "loud", "whenever", "Mars/Olympus"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Schedule.Timezone = "Nowhere/Special"
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Schedule.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())
}
