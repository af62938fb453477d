package lock

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryLockRecordsPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.lock")
	fl := NewFileLock(path)
	require.NoError(t, fl.TryLock())
	defer fl.Unlock()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), strings.TrimSpace(string(data)))
}

func TestTryLockRefusesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.lock")
	first := NewFileLock(path)
	require.NoError(t, first.TryLock())
	defer first.Unlock()

	second := NewFileLock(path)
	err := second.TryLock()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "another watcher may be running")
}

func TestUnlockReleasesAndRemoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.lock")
	fl := NewFileLock(path)
	require.NoError(t, fl.TryLock())
	require.NoError(t, fl.Unlock())
	assert.NoFileExists(t, path)

	// Freed lock is acquirable again, including by the same process.
	again := NewFileLock(path)
	require.NoError(t, again.TryLock())
	require.NoError(t, again.Unlock())
}

func TestUnlockWithoutLockIsNoop(t *testing.T) {
	fl := NewFileLock(filepath.Join(t.TempDir(), "watch.lock"))
	assert.NoError(t, fl.Unlock())
}
