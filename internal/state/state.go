// Package state persists per-file stability fingerprints between sweeps.
//
// The ledger is a flat JSON object keyed by absolute path. It is loaded once
// per sweep, mutated in memory, and written back atomically at the end. Any
// read failure degrades to an empty ledger; any write failure permanently
// disables persistence for the remainder of the process, after which the
// stability gate falls back to an mtime-age-only rule.
package state

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"scrubexif/internal/model"
)

// Record is one ledger entry: the fingerprint of a path at last observation.
type Record struct {
	Size  int64   `json:"size"`
	MTime float64 `json:"mtime"`
	Seen  float64 `json:"seen"`
}

// Ledger holds the path→Record mapping and its storage location. A nil or
// disabled Ledger is safe to use: every mutation becomes a no-op.
type Ledger struct {
	path     string
	disabled bool
	warned   bool
	records  map[string]Record

	logger   *log.Logger
	logLevel model.LogLevel
}

// New creates a ledger bound to path. An empty path disables persistence
// from the start.
func New(path string, logger *log.Logger, level model.LogLevel) *Ledger {
	return &Ledger{
		path:     path,
		disabled: path == "",
		records:  make(map[string]Record),
		logger:   logger,
		logLevel: level,
	}
}

// Path returns the storage location, or "disabled".
func (l *Ledger) Path() string {
	if l.disabled {
		return "disabled"
	}
	return l.path
}

// Disabled reports whether persistence is unavailable. The gate downgrades
// to age-only stability when true.
func (l *Ledger) Disabled() bool {
	return l.disabled
}

// Load reads the persisted mapping. Missing or corrupt files yield an empty
// mapping and are never fatal: the file may be hand-edited or stale across
// upgrades.
func (l *Ledger) Load() {
	l.records = make(map[string]Record)
	if l.disabled {
		return
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.log(model.LogLevelWarn, "state read failed, starting empty: %v", err)
		}
		return
	}
	var m map[string]Record
	if err := json.Unmarshal(data, &m); err != nil {
		l.log(model.LogLevelWarn, "state file unparsable, starting empty: %v", err)
		return
	}
	l.records = m
}

// Prune drops entries whose path no longer exists on disk.
func (l *Ledger) Prune() {
	for path := range l.records {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			delete(l.records, path)
		}
	}
}

// Lookup returns the record for path, if any.
func (l *Ledger) Lookup(path string) (Record, bool) {
	r, ok := l.records[path]
	return r, ok
}

// MarkSeen upserts the entry for path with its current size, mtime and the
// wall clock. A path that vanished between observation and recording is a
// tolerated race with the concurrent writer; the entry is left untouched.
func (l *Ledger) MarkSeen(path string, now time.Time) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	l.records[path] = Record{
		Size:  info.Size(),
		MTime: UnixFloat(info.ModTime()),
		Seen:  UnixFloat(now),
	}
}

// Forget drops the entry for path. Called when a file leaves the input tree
// so a later file arriving under the same name is not compared against the
// old fingerprint.
func (l *Ledger) Forget(path string) {
	delete(l.records, path)
}

// Len returns the number of tracked paths.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Save serializes the mapping atomically. The first failure disables
// persistence for the rest of the process lifetime and warns exactly once;
// later calls are cheap no-ops.
func (l *Ledger) Save() {
	if l.disabled {
		return
	}
	content, err := json.Marshal(l.records)
	if err != nil {
		l.disable(fmt.Errorf("marshal state: %w", err))
		return
	}
	if err := atomicWriteJSON(l.path, content); err != nil {
		l.disable(err)
	}
}

func (l *Ledger) disable(err error) {
	l.disabled = true
	if !l.warned {
		l.warned = true
		l.log(model.LogLevelWarn,
			"state persistence unavailable, falling back to mtime-only stability: %v", err)
	}
}

func (l *Ledger) log(level model.LogLevel, format string, args ...any) {
	if l.logger == nil || level < l.logLevel {
		return
	}
	l.logger.Printf("[%s] "+format, append([]any{level.String()}, args...)...)
}

// UnixFloat converts t to fractional Unix seconds, the ledger's on-disk
// timestamp representation.
func UnixFloat(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
