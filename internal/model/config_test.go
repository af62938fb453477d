package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
photos:
  root: /srv/photos
scrub:
  stable_seconds: 30
  on_duplicate: move
watch:
  debounce_sec: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/photos", cfg.Photos.Root)
	assert.Equal(t, 30, cfg.Scrub.StableSeconds)
	assert.Equal(t, DuplicateMove, cfg.Scrub.OnDuplicate)
	assert.Equal(t, 0.5, cfg.Watch.DebounceSec)
	// Untouched sections keep their defaults.
	assert.Equal(t, 60, cfg.Watch.ScanIntervalSec)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SCRUBEXIF_PHOTOS_ROOT", "/mnt/uploads")
	t.Setenv("SCRUBEXIF_ON_DUPLICATE", "move")
	t.Setenv("SCRUBEXIF_STABLE_SECONDS", "45")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "/mnt/uploads", cfg.Photos.Root)
	assert.Equal(t, DuplicateMove, cfg.Scrub.OnDuplicate)
	assert.Equal(t, 45, cfg.Scrub.StableSeconds)
}

func TestApplyEnvRejectsBadStableSeconds(t *testing.T) {
	t.Setenv("SCRUBEXIF_STABLE_SECONDS", "-3")
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, 0, cfg.Scrub.StableSeconds)

	t.Setenv("SCRUBEXIF_STABLE_SECONDS", "soon")
	cfg.ApplyEnv()
	assert.Equal(t, 0, cfg.Scrub.StableSeconds)
}

func TestResolveDirs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Photos.Root = "/data"
	cfg.Photos.Output = "/elsewhere/out"
	cfg.ResolveDirs()

	assert.Equal(t, "/data/input", cfg.Photos.Input)
	assert.Equal(t, "/elsewhere/out", cfg.Photos.Output, "explicit roles win over derivation")
	assert.Equal(t, "/data/processed", cfg.Photos.Processed)
	assert.Equal(t, "/data/errors", cfg.Photos.Errors)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Scrub.OnDuplicate = "archive"
	assert.Error(t, cfg.Validate())

	cfg.Scrub.OnDuplicate = DuplicateMove
	cfg.Scrub.StableSeconds = -1
	assert.Error(t, cfg.Validate())
}
