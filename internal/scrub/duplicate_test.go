package scrub

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrubexif/internal/model"
)

type dupEnv struct {
	input  string
	outDir string
	errDir string
}

func newDupEnv(t *testing.T) dupEnv {
	t.Helper()
	dir := t.TempDir()
	env := dupEnv{
		input:  filepath.Join(dir, "input", "photo.jpg"),
		outDir: filepath.Join(dir, "output"),
		errDir: filepath.Join(dir, "errors"),
	}
	require.NoError(t, os.Mkdir(filepath.Dir(env.input), 0o755))
	require.NoError(t, os.Mkdir(env.outDir, 0o755))
	require.NoError(t, os.Mkdir(env.errDir, 0o755))
	writeFile(t, env.input, []byte("new upload"))
	writeFile(t, filepath.Join(env.outDir, "photo.jpg"), []byte("previous scrub result"))
	return env
}

func TestDuplicateDeletePolicy(t *testing.T) {
	env := newDupEnv(t)
	runner := &stubRunner{}
	s := newTestScrubber(runner, Options{OnDuplicate: model.DuplicateDelete, ErrorsDir: env.errDir})

	result := s.File(context.Background(), env.input, env.outDir)
	require.Equal(t, model.StatusDuplicate, result.Status)
	assert.Empty(t, result.DuplicatePath)
	assert.NoFileExists(t, env.input)
	assert.Empty(t, runner.calls, "duplicate short-circuits the executor")

	// The previous scrub result is never overwritten.
	data, err := os.ReadFile(filepath.Join(env.outDir, "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "previous scrub result", string(data))
}

func TestDuplicateDeleteAlreadyGone(t *testing.T) {
	env := newDupEnv(t)
	s := newTestScrubber(&stubRunner{}, Options{OnDuplicate: model.DuplicateDelete})

	// A second resolver pass after the input vanished raises nothing.
	result := s.resolveDuplicate(env.input, filepath.Join(env.outDir, "photo.jpg"))
	require.Equal(t, model.StatusDuplicate, result.Status)
	result = s.resolveDuplicate(env.input, filepath.Join(env.outDir, "photo.jpg"))
	assert.Equal(t, model.StatusDuplicate, result.Status)
}

func TestDuplicateMovePolicyDisambiguates(t *testing.T) {
	env := newDupEnv(t)
	runner := &stubRunner{}
	s := newTestScrubber(runner, Options{OnDuplicate: model.DuplicateMove, ErrorsDir: env.errDir})

	// First re-appearance lands under the original name.
	result := s.File(context.Background(), env.input, env.outDir)
	require.Equal(t, model.StatusDuplicate, result.Status)
	assert.Equal(t, filepath.Join(env.errDir, "photo.jpg"), result.DuplicatePath)
	assert.FileExists(t, result.DuplicatePath)
	assert.NoFileExists(t, env.input)

	// Second and third re-appearances get numeric suffixes instead of
	// overwriting earlier quarantine entries.
	writeFile(t, env.input, []byte("again"))
	result = s.File(context.Background(), env.input, env.outDir)
	require.Equal(t, model.StatusDuplicate, result.Status)
	assert.Equal(t, filepath.Join(env.errDir, "photo_1.jpg"), result.DuplicatePath)

	writeFile(t, env.input, []byte("and again"))
	result = s.File(context.Background(), env.input, env.outDir)
	require.Equal(t, model.StatusDuplicate, result.Status)
	assert.Equal(t, filepath.Join(env.errDir, "photo_2.jpg"), result.DuplicatePath)

	assert.Empty(t, runner.calls)
}

func TestDuplicateDryRunTouchesNothing(t *testing.T) {
	env := newDupEnv(t)
	s := newTestScrubber(&stubRunner{}, Options{OnDuplicate: model.DuplicateMove, ErrorsDir: env.errDir, DryRun: true})

	result := s.File(context.Background(), env.input, env.outDir)
	require.Equal(t, model.StatusDuplicate, result.Status)
	assert.Empty(t, result.DuplicatePath)
	assert.FileExists(t, env.input)

	entries, err := os.ReadDir(env.errDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDisambiguate(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  string
	}{
		{"photo.jpg", 1, "photo_1.jpg"},
		{"photo.jpg", 12, "photo_12.jpg"},
		{"archive.tar.gz", 1, "archive.tar_1.gz"},
		{"noext", 3, "noext_3"},
	}
	for _, tt := range tests {
		if got := disambiguate(tt.name, tt.count); got != tt.want {
			t.Errorf("disambiguate(%q, %d) = %q, want %q", tt.name, tt.count, got, tt.want)
		}
	}
}
