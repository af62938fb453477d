// Package scrub routes one file through the duplicate check and the external
// metadata tool, producing a structured outcome per file.
package scrub

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"scrubexif/internal/exiftool"
	"scrubexif/internal/inspect"
	"scrubexif/internal/model"
)

// ShowTags modes accepted by --show-tags.
const (
	ShowTagsBefore = "before"
	ShowTagsAfter  = "after"
	ShowTagsBoth   = "both"
)

// Options configures per-file behavior shared across a whole run.
type Options struct {
	DryRun      bool
	Paranoia    bool
	Verify      bool
	ShowTags    string
	OnDuplicate string
	Stamp       exiftool.Stamp

	// ErrorsDir quarantines duplicates under the move policy.
	ErrorsDir string

	// PhotosRoot shortens paths in console output when set.
	PhotosRoot string
}

// Scrubber invokes the metadata tool for one file at a time.
type Scrubber struct {
	Runner exiftool.Runner
	Opts   Options
	Out    io.Writer

	Logger   *log.Logger
	LogLevel model.LogLevel
}

func New(runner exiftool.Runner, opts Options, out io.Writer, logger *log.Logger, level model.LogLevel) *Scrubber {
	if out == nil {
		out = os.Stdout
	}
	return &Scrubber{Runner: runner, Opts: opts, Out: out, Logger: logger, LogLevel: level}
}

// File scrubs input. With outputDir set the result lands there under the
// original name and input is left for the caller to reconcile; with
// outputDir empty the file is rewritten in place.
func (s *Scrubber) File(ctx context.Context, input, outputDir string) model.ScrubResult {
	outputFile := input
	if outputDir != "" {
		outputFile = filepath.Join(outputDir, filepath.Base(input))
	}

	// Output already present from an earlier run: duplicate, not collision.
	if outputDir != "" && exists(outputFile) && !sameFile(input, outputFile) {
		return s.resolveDuplicate(input, outputFile)
	}

	if s.Opts.DryRun {
		s.showTags(input, "before")
		if s.wantTags(ShowTagsAfter) {
			fmt.Fprintln(s.Out, "⚠️  Cannot show tags *after* scrub in dry-run mode (no scrub performed).")
		}
		fmt.Fprintf(s.Out, "🔍 Dry run: would scrub %s\n", s.display(input))
		return model.Scrubbed(input, outputFile)
	}

	// Never read from or write through a symlink.
	if isSymlink(input) {
		return model.Errored(input, fmt.Sprintf("input is a symbolic link: %s", input))
	}
	if isSymlink(outputFile) {
		return model.Errored(input, fmt.Sprintf("destination is a symbolic link: %s", outputFile))
	}

	inPlace := outputDir == "" || resolvedEqual(outputDir, filepath.Dir(input))
	toolOutput := outputFile
	if inPlace {
		toolOutput = ""
	}

	args := exiftool.ScrubArgs(input, toolOutput, inPlace, s.Opts.Paranoia, s.Opts.Stamp)
	s.log(model.LogLevelDebug, "running exiftool %s", strings.Join(args, " "))

	s.showTags(input, "before")

	_, stderr, err := s.Runner.Run(ctx, args)
	if err != nil {
		if !inPlace {
			_ = os.Remove(outputFile)
		}
		msg := exiftool.FirstStderrLine(stderr)
		fmt.Fprintf(s.Out, "❌ Failed to scrub %s: %s\n", filepath.Base(input), msg)
		return model.Errored(input, msg)
	}

	if s.Opts.Verify {
		if err := inspect.VerifyNoGPS(outputFile); err != nil {
			if !inPlace {
				_ = os.Remove(outputFile)
			}
			fmt.Fprintf(s.Out, "❌ Verification failed for %s: %v\n", filepath.Base(input), err)
			return model.Errored(input, err.Error())
		}
	}

	s.showTags(outputFile, "after")
	fmt.Fprintf(s.Out, "✅ Saved scrubbed file to %s\n", s.display(outputFile))

	return model.Scrubbed(input, outputFile)
}

func (s *Scrubber) wantTags(mode string) bool {
	return s.Opts.ShowTags == mode || s.Opts.ShowTags == ShowTagsBoth
}

func (s *Scrubber) showTags(path, label string) {
	want := ShowTagsBefore
	if label == "after" {
		want = ShowTagsAfter
	}
	if s.wantTags(want) {
		inspect.PrintTags(s.Out, path, label)
	}
}

// display shortens a path relative to the photos root for console output.
func (s *Scrubber) display(path string) string {
	if s.Opts.PhotosRoot == "" {
		return path
	}
	rel, err := filepath.Rel(s.Opts.PhotosRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func (s *Scrubber) log(level model.LogLevel, format string, args ...any) {
	if s.Logger == nil || level < s.LogLevel {
		return
	}
	s.Logger.Printf("[%s] "+format, append([]any{level.String()}, args...)...)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// resolvedEqual compares two directories after symlink resolution.
func resolvedEqual(a, b string) bool {
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
