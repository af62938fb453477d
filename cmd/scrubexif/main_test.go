package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrubexif/internal/exiftool"
	"scrubexif/internal/model"
)

// captureStdout swaps os.Stdout for a pipe around fn and returns everything
// written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	old := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestRunVersion(t *testing.T) {
	assert.Equal(t, 0, run([]string{"--version"}))
	assert.Equal(t, 0, run([]string{"-v"}))
}

func TestRunUnknownFlag(t *testing.T) {
	assert.Equal(t, 1, run([]string{"--no-such-flag"}))
}

func TestRunInvalidDuplicatePolicy(t *testing.T) {
	t.Setenv("ALLOW_ROOT", "1")
	assert.Equal(t, 1, run([]string{"--on-duplicate", "archive", "--state-file", "disabled"}))
}

func TestRunInvalidShowTags(t *testing.T) {
	t.Setenv("ALLOW_ROOT", "1")
	assert.Equal(t, 1, run([]string{"--show-tags", "during"}))
}

func TestRunPreviewNeedsExactlyOneFile(t *testing.T) {
	t.Setenv("ALLOW_ROOT", "1")
	t.Setenv("SCRUBEXIF_PHOTOS_ROOT", t.TempDir())
	assert.Equal(t, 1, run([]string{"--preview", "--state-file", "disabled"}))
	assert.Equal(t, 1, run([]string{"--preview", "--state-file", "disabled", "a.jpg", "b.jpg"}))
}

func TestRunQuietSuppressesSuccessOutput(t *testing.T) {
	t.Setenv("ALLOW_ROOT", "1")
	t.Setenv("SCRUBEXIF_PHOTOS_ROOT", t.TempDir())

	var code int
	output := captureStdout(t, func() {
		code = run([]string{"-q", "--dry-run", "--state-file", "disabled"})
	})
	assert.Equal(t, 0, code)
	assert.Empty(t, output, "quiet mode emits nothing on success")
}

func TestRunDefaultOutputNotSuppressed(t *testing.T) {
	t.Setenv("ALLOW_ROOT", "1")
	t.Setenv("SCRUBEXIF_PHOTOS_ROOT", t.TempDir())

	var code int
	output := captureStdout(t, func() {
		code = run([]string{"--dry-run", "--state-file", "disabled"})
	})
	assert.Equal(t, 0, code)
	assert.Contains(t, output, "State path: disabled")
	assert.Contains(t, output, model.SummaryPrefix)
}

func TestRunDebugOverridesLogLevel(t *testing.T) {
	t.Setenv("ALLOW_ROOT", "1")
	t.Setenv("SCRUBEXIF_PHOTOS_ROOT", t.TempDir())

	output := captureStdout(t, func() {
		run([]string{"--debug", "--log-level", "error", "--dry-run", "--state-file", "disabled"})
	})
	assert.Contains(t, output, "Debug logging enabled")
}

func TestBuildStampTruncates(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := log.New(buf, "", 0)

	sc := model.ScrubConfig{
		Artist:    "Photographer",
		Copyright: strings.Repeat("c", exiftool.MaxCopyrightBytes+10),
		Comment:   "short",
	}
	stamp := buildStamp(sc, logger)

	assert.Equal(t, "Photographer", stamp.Artist)
	assert.Equal(t, "short", stamp.Comment)
	assert.Len(t, stamp.Copyright, exiftool.MaxCopyrightBytes)
	assert.Contains(t, buf.String(), "truncating --copyright")
	assert.NotContains(t, buf.String(), "--artist")
}
