package state

import (
	"os"
	"path/filepath"
)

// DisabledSentinel is the --state-file value that forces mtime-only mode.
const DisabledSentinel = "disabled"

// EnvStatePath names the environment override for the state file location.
const EnvStatePath = "SCRUBEXIF_STATE"

const defaultStatePath = "/var/lib/scrubexif/state.json"

// Resolve picks the state file location. Priority: the explicit override,
// then $SCRUBEXIF_STATE, then the primary default, then a temp-dir fallback.
// Each candidate is validated by actually creating and deleting a probe file
// in its parent directory; the first writable candidate wins. Returns ""
// when every candidate fails or the explicit override is the disabled
// sentinel, which disables persistence entirely.
func Resolve(explicit string) string {
	if explicit == DisabledSentinel {
		return ""
	}
	candidates := []string{
		explicit,
		os.Getenv(EnvStatePath),
		defaultStatePath,
		filepath.Join(os.TempDir(), ".scrubexif_state.json"),
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if parentWritable(c) {
			return c
		}
	}
	return ""
}

// parentWritable creates the parent directory if needed and probes it with a
// throwaway temp file.
func parentWritable(path string) bool {
	parent := filepath.Dir(path)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return false
	}
	probe, err := os.CreateTemp(parent, ".scrubexif-probe-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return true
}
