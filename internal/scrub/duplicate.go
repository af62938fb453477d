package scrub

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"scrubexif/internal/model"
)

// resolveDuplicate handles an input whose output already exists. The
// re-appearance of an already-produced output means this exact file was
// processed before (a client re-uploading), so the previous scrub result is
// never overwritten; the policy only decides what happens to the new input.
func (s *Scrubber) resolveDuplicate(input, output string) model.ScrubResult {
	if isSymlink(output) {
		return model.Errored(input, fmt.Sprintf("duplicate destination is a symbolic link: %s", output))
	}

	if s.Opts.DryRun {
		fmt.Fprintf(s.Out, "🚫 [dry-run] Would detect duplicate: %s\n", filepath.Base(input))
		return model.Duplicate(input, "")
	}

	switch s.Opts.OnDuplicate {
	case model.DuplicateMove:
		target := filepath.Join(s.Opts.ErrorsDir, filepath.Base(input))
		for count := 1; exists(target); count++ {
			target = filepath.Join(s.Opts.ErrorsDir, disambiguate(filepath.Base(input), count))
		}
		if err := MoveFile(input, target); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// Vanished under us; the duplicate resolved itself.
				return model.Duplicate(input, "")
			}
			return model.Errored(input, fmt.Sprintf("move duplicate: %v", err))
		}
		fmt.Fprintf(s.Out, "📦 Moved duplicate to: %s\n", s.display(target))
		return model.Duplicate(input, target)

	default: // model.DuplicateDelete
		if err := os.Remove(input); err != nil && !os.IsNotExist(err) {
			return model.Errored(input, fmt.Sprintf("delete duplicate: %v", err))
		}
		fmt.Fprintf(s.Out, "🗑️  Duplicate detected — deleting %s\n", filepath.Base(input))
		return model.Duplicate(input, "")
	}
}

// disambiguate appends a numeric suffix before the extension:
// photo.jpg → photo_1.jpg, photo_2.jpg, ...
func disambiguate(name string, count int) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%d%s", stem, count, ext)
}
