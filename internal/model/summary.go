package model

import (
	"fmt"
	"io"
	"time"
)

// SummaryPrefix starts the machine-readable summary line. The line format is
// the only contractually stable console output.
const SummaryPrefix = "SCRUBEXIF_SUMMARY"

// Summary accumulates per-run counters. Created fresh for every sweep,
// never persisted.
type Summary struct {
	Total             int
	Scrubbed          int
	Skipped           int
	DuplicatesDeleted int
	DuplicatesMoved   int
	Errors            int

	started time.Time
	elapsed time.Duration
}

func NewSummary() *Summary {
	return &Summary{started: time.Now()}
}

// Update folds one result into the counters.
func (s *Summary) Update(r ScrubResult) {
	s.Total++
	switch r.Status {
	case StatusScrubbed:
		s.Scrubbed++
	case StatusSkipped:
		s.Skipped++
	case StatusDuplicate:
		if r.DuplicatePath != "" {
			s.DuplicatesMoved++
		} else {
			s.DuplicatesDeleted++
		}
	case StatusError:
		s.Errors++
	}
}

// Finish freezes the elapsed wall time.
func (s *Summary) Finish() {
	s.elapsed = time.Since(s.started)
}

// Duration returns the elapsed wall time, freezing it on first use.
func (s *Summary) Duration() time.Duration {
	if s.elapsed == 0 {
		s.Finish()
	}
	return s.elapsed
}

// Render writes the human-readable report.
func (s *Summary) Render(w io.Writer) {
	fmt.Fprintln(w, "📊 Summary:")
	fmt.Fprintf(w, "  Total JPEGs found     : %d\n", s.Total)
	fmt.Fprintf(w, "  Successfully scrubbed : %d\n", s.Scrubbed)
	fmt.Fprintf(w, "  Skipped (errors)      : %d\n", s.Errors)
	fmt.Fprintf(w, "  Skipped (unstable/temp)  : %d\n", s.Skipped)
	if s.DuplicatesDeleted > 0 {
		fmt.Fprintf(w, "  Duplicates deleted    : %d\n", s.DuplicatesDeleted)
	}
	if s.DuplicatesMoved > 0 {
		fmt.Fprintf(w, "  Duplicates moved      : %d\n", s.DuplicatesMoved)
	}
	fmt.Fprintf(w, "  Duration              : %.2fs\n", s.Duration().Seconds())
}

// Line renders the machine-readable one-liner.
func (s *Summary) Line() string {
	return fmt.Sprintf(
		"%s total=%d scrubbed=%d skipped=%d errors=%d duplicates_deleted=%d duplicates_moved=%d duration=%.2f",
		SummaryPrefix, s.Total, s.Scrubbed, s.Skipped, s.Errors,
		s.DuplicatesDeleted, s.DuplicatesMoved, s.Duration().Seconds(),
	)
}
