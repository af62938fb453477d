// Package gate decides whether a watched file has been sitting unchanged
// long enough to be safely processed.
package gate

import (
	"os"
	"time"

	"scrubexif/internal/state"
)

// IsStable reports whether path is old enough and unchanged since the last
// observation recorded in the ledger.
//
// This is a heuristic, not a guarantee: a writer that preserves mtime while
// mutating content defeats it. When ledger persistence is disabled the
// fingerprint comparison is skipped and stability is mtime-age-only.
func IsStable(path string, ledger *state.Ledger, threshold time.Duration, now time.Time) bool {
	info, err := os.Stat(path)
	if err != nil {
		// Vanished between enumeration and stat: the writer still owns it.
		return false
	}

	if threshold > 0 && now.Sub(info.ModTime()) < threshold {
		return false
	}

	if !ledger.Disabled() {
		if rec, ok := ledger.Lookup(path); ok {
			// Old enough, but rewritten in place or mtime jumped backward
			// since the last sighting.
			if rec.Size != info.Size() || rec.MTime != state.UnixFloat(info.ModTime()) {
				return false
			}
		}
	}
	return true
}

// Observe applies the stability rule and records the observation either way,
// so the next sweep has fresh comparison data. This coupling is the point:
// an unstable file today is tomorrow's stable file only if its fingerprint
// was written down.
func Observe(path string, ledger *state.Ledger, threshold time.Duration, now time.Time) bool {
	stable := IsStable(path, ledger, threshold, now)
	ledger.MarkSeen(path, now)
	return stable
}
