// Package auto implements the unattended directory sweep: enumerate the
// input directory, drop temp and unstable files, route survivors through the
// scrubber, and reconcile originals into processed/ afterwards.
//
// A sweep tolerates a concurrent writer dropping files into the input tree
// and concurrent re-invocation: every per-file operation tolerates "already
// gone", the stability gate delays files still being written, and the ledger
// is written atomically once per sweep.
package auto

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"scrubexif/internal/gate"
	"scrubexif/internal/model"
	"scrubexif/internal/scan"
	"scrubexif/internal/scrub"
	"scrubexif/internal/state"
)

// Sweeper drives one full pass over the input directory.
type Sweeper struct {
	Cfg      model.Config
	Scrubber *scrub.Scrubber
	Ledger   *state.Ledger

	MaxFiles       int
	DryRun         bool
	DeleteOriginal bool

	Out      io.Writer
	Logger   *log.Logger
	LogLevel model.LogLevel
}

// Run executes one sweep. A returned error is a fatal configuration or
// safety problem found before any file was touched; per-file failures are
// absorbed into the summary instead.
func (s *Sweeper) Run(ctx context.Context) (*model.Summary, error) {
	dirs := s.Cfg.Photos
	fmt.Fprintf(s.Out, "🚀 Auto mode: Scrubbing JPEGs in %s\n", dirs.Input)

	if err := CheckDirSafety(dirs.Input, "Input"); err != nil {
		return nil, err
	}
	if err := CheckDirSafety(dirs.Output, "Output"); err != nil {
		return nil, err
	}
	if err := CheckDirSafety(dirs.Processed, "Processed"); err != nil {
		return nil, err
	}
	if s.Cfg.Scrub.OnDuplicate == model.DuplicateMove {
		if err := CheckDirSafety(dirs.Errors, "Errors"); err != nil {
			return nil, err
		}
	}

	s.Ledger.Load()
	s.Ledger.Prune()

	summary := model.NewSummary()
	threshold := time.Duration(s.Cfg.Scrub.StableSeconds) * time.Second

	candidates, err := scan.FindJPEGs(dirs.Input)
	if err != nil {
		return nil, fmt.Errorf("enumerate input: %w", err)
	}
	if s.MaxFiles > 0 && len(candidates) > s.MaxFiles {
		candidates = candidates[:s.MaxFiles]
	}
	if len(candidates) == 0 {
		fmt.Fprintln(s.Out, "⚠️ No JPEGs found — nothing to do.")
		summary.Finish()
		s.Ledger.Save()
		return summary, nil
	}

	// Filter: temp artifacts and files still settling. Skips count toward
	// the total, and every observation feeds the ledger.
	now := time.Now()
	var eligible []scan.Candidate
	for _, c := range candidates {
		if scan.IsProbablyTemp(c.Name) {
			s.log(model.LogLevelInfo, "skip temp/partial file=%s", c.Name)
			summary.Update(model.Skipped(c.Path, "temp"))
			s.Ledger.MarkSeen(c.Path, now)
			continue
		}
		if !gate.Observe(c.Path, s.Ledger, threshold, now) {
			s.log(model.LogLevelInfo, "skip unstable file=%s", c.Name)
			summary.Update(model.Skipped(c.Path, "unstable"))
			continue
		}
		eligible = append(eligible, c)
	}

	for _, c := range eligible {
		result := s.Scrubber.File(ctx, c.Path, dirs.Output)
		summary.Update(result)
		s.reconcile(c.Path, result)
		if _, err := os.Lstat(c.Path); os.IsNotExist(err) {
			s.Ledger.Forget(c.Path)
		} else {
			s.Ledger.MarkSeen(c.Path, time.Now())
		}
	}

	// One write, after all candidates: a single file's failure never skips
	// the ledger persist.
	s.Ledger.Save()
	summary.Finish()
	return summary, nil
}

// reconcile moves or deletes the original according to its outcome. Failed
// files go to processed/ too, for operator inspection, so they cannot jam
// every future sweep.
func (s *Sweeper) reconcile(input string, result model.ScrubResult) {
	if s.DryRun {
		return
	}

	switch result.Status {
	case model.StatusScrubbed:
		if s.DeleteOriginal {
			if err := os.Remove(input); err != nil && !os.IsNotExist(err) {
				s.log(model.LogLevelWarn, "delete original failed file=%s err=%v", input, err)
			}
			return
		}
		s.moveToProcessed(input)

	case model.StatusError:
		s.moveToProcessed(input)

	case model.StatusDuplicate, model.StatusSkipped:
		// Resolver already handled the file, or it was never touched.
	}
}

func (s *Sweeper) moveToProcessed(input string) {
	dst := filepath.Join(s.Cfg.Photos.Processed, filepath.Base(input))

	if _, err := os.Lstat(input); os.IsNotExist(err) {
		s.log(model.LogLevelInfo, "original already gone file=%s", input)
		return
	}
	if info, err := os.Lstat(dst); err == nil && info.Mode()&os.ModeSymlink != 0 {
		s.log(model.LogLevelWarn, "refusing to move onto symlink dst=%s", dst)
		return
	}
	if sameDestination(input, dst) {
		s.log(model.LogLevelDebug, "skip move: source and destination are the same file=%s", input)
		return
	}

	if err := scrub.MoveFile(input, dst); err != nil {
		s.log(model.LogLevelWarn, "move to processed failed file=%s err=%v", input, err)
		return
	}
	fmt.Fprintf(s.Out, "📦 Moved original to %s\n", dst)
}

func sameDestination(a, b string) bool {
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		return false
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		return false
	}
	return ra == rb
}

func (s *Sweeper) log(level model.LogLevel, format string, args ...any) {
	if s.Logger == nil || level < s.LogLevel {
		return
	}
	s.Logger.Printf("[%s] "+format, append([]any{level.String()}, args...)...)
}
