package gate

import (
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrubexif/internal/model"
	"scrubexif/internal/state"
)

func newLedger(t *testing.T, path string) *state.Ledger {
	t.Helper()
	l := state.New(path, log.New(os.Stderr, "", 0), model.LogLevelError)
	l.Load()
	return l
}

func makeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o644))
	when := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, when, when))
	return path
}

func TestVanishedPathIsUnstable(t *testing.T) {
	dir := t.TempDir()
	l := newLedger(t, filepath.Join(dir, "state.json"))
	assert.False(t, IsStable(filepath.Join(dir, "gone.jpg"), l, 0, time.Now()))
}

func TestYoungFileIsUnstable(t *testing.T) {
	dir := t.TempDir()
	l := newLedger(t, filepath.Join(dir, "state.json"))
	path := makeAged(t, dir, "fresh.jpg", 0)

	assert.False(t, IsStable(path, l, 300*time.Second, time.Now()))
}

func TestAgedFileIsStable(t *testing.T) {
	dir := t.TempDir()
	l := newLedger(t, filepath.Join(dir, "state.json"))
	path := makeAged(t, dir, "old.jpg", 120*time.Second)

	assert.True(t, IsStable(path, l, 60*time.Second, time.Now()))
}

func TestZeroThresholdSkipsAgeCheck(t *testing.T) {
	dir := t.TempDir()
	l := newLedger(t, filepath.Join(dir, "state.json"))
	path := makeAged(t, dir, "fresh.jpg", 0)

	assert.True(t, IsStable(path, l, 0, time.Now()))
}

func TestMonotonicityAcrossObservations(t *testing.T) {
	// For a file whose mtime never changes, the gate flips from false to
	// true exactly when age crosses the threshold, regardless of how many
	// observations happened in between.
	dir := t.TempDir()
	l := newLedger(t, filepath.Join(dir, "state.json"))
	path := makeAged(t, dir, "photo.jpg", 30*time.Second)
	threshold := 60 * time.Second

	now := time.Now()
	for i := 0; i < 5; i++ {
		assert.False(t, Observe(path, l, threshold, now), "observation %d: still too young", i)
	}
	_, tracked := l.Lookup(path)
	assert.True(t, tracked, "every observation records the fingerprint")

	later := now.Add(45 * time.Second)
	assert.True(t, Observe(path, l, threshold, later))
}

func TestChangedSizeIsUnstableEvenWhenOld(t *testing.T) {
	dir := t.TempDir()
	l := newLedger(t, filepath.Join(dir, "state.json"))
	path := makeAged(t, dir, "photo.jpg", 600*time.Second)

	now := time.Now()
	require.True(t, Observe(path, l, 60*time.Second, now))

	// Rewritten in place, then mtime forced back: age alone would pass.
	require.NoError(t, os.WriteFile(path, []byte("jpeg plus more"), 0o644))
	when := now.Add(-600 * time.Second)
	require.NoError(t, os.Chtimes(path, when, when))

	assert.False(t, IsStable(path, l, 60*time.Second, now))
}

func TestDisabledLedgerIsAgeOnly(t *testing.T) {
	dir := t.TempDir()
	l := state.New("", log.New(os.Stderr, "", 0), model.LogLevelError)
	l.Load()
	require.True(t, l.Disabled())

	path := makeAged(t, dir, "photo.jpg", 120*time.Second)
	assert.True(t, IsStable(path, l, 60*time.Second, time.Now()))
	assert.False(t, IsStable(path, l, 300*time.Second, time.Now()))
}
