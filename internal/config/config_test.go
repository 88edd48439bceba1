package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	carouselerrors "github.com/BillMorio/LinkedIn-Carousel/pkg/errors"
)

// isolate runs the test in an empty directory with no CAROUSEL_* overrides
// for the given keys.
func isolate(t *testing.T, keys ...string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t, "CAROUSEL_LOGGING_LEVEL", "CAROUSEL_SERVER_ADDR")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.HumanReadable())
	assert.Equal(t, "execution-steps", cfg.Project.Theme)
	assert.Equal(t, "portrait", cfg.Project.AspectRatio)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 4, cfg.Images.Concurrency)
	assert.InDelta(t, 2.0, cfg.Export.PixelRatio, 0.0001)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := isolate(t, "CAROUSEL_LOGGING_LEVEL")
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: warn
  format: json
server:
  addr: ":7000"
images:
  fetch_timeout: 5s
  concurrency: 2
`), 0o600))
	t.Setenv("CAROUSEL_SERVER_ADDR", ":9999")
	t.Setenv("CAROUSEL_IMAGES_CONCURRENCY", "8")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.HumanReadable())
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Images.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Images.FetchTimeout)
}

func TestLoadDiscoversFileInWorkingDir(t *testing.T) {
	dir := isolate(t, "CAROUSEL_PROJECT_THEME")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "carousel.yaml"), []byte("project:\n  theme: playground\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "playground", cfg.Project.Theme)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t, "CAROUSEL_EXPORT_DIR")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CAROUSEL_EXPORT_DIR=out/slides\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "out/slides", cfg.Export.Dir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolate(t)
	t.Setenv("CAROUSEL_LOGGING_LEVEL", "verbose")

	_, err := Load("")
	require.Error(t, err)

	var validationErr *carouselerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "logging.level", validationErr.Field)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
}
