package scrub

import (
	"context"
	"fmt"
	"io"
	"os"

	"scrubexif/internal/exiftool"
	"scrubexif/internal/inspect"
)

// Preview scrubs a throwaway copy of path and shows before/after tags. The
// original is never modified.
func (s *Scrubber) Preview(ctx context.Context, path string) error {
	tmp, err := os.CreateTemp("", "scrubexif-preview-*.jpg")
	if err != nil {
		return fmt.Errorf("create preview copy: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	src, err := os.Open(path)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("open original: %w", err)
	}
	_, err = io.Copy(tmp, src)
	src.Close()
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("copy original: %w", err)
	}

	previewOut := tmpName + ".scrubbed.jpg"
	defer os.Remove(previewOut)

	args := exiftool.ScrubArgs(tmpName, previewOut, false, s.Opts.Paranoia, s.Opts.Stamp)
	_, stderr, err := s.Runner.Run(ctx, args)
	if err != nil {
		return fmt.Errorf("preview scrub failed: %s", exiftool.FirstStderrLine(stderr))
	}

	inspect.PrintTags(s.Out, path, "before")
	inspect.PrintTags(s.Out, previewOut, "after")
	fmt.Fprintln(s.Out, "📊 Preview complete — original file was not modified.")
	return nil
}
