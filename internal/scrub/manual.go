package scrub

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"scrubexif/internal/model"
	"scrubexif/internal/scan"
)

// ResolveWithinRoot anchors a CLI path under the photos root. Relative paths
// are joined onto root; anything that resolves outside root, and any symlink,
// is rejected before it can be touched.
func ResolveWithinRoot(root, path string) (string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, abs)
	}
	abs = filepath.Clean(abs)

	cleanRoot := filepath.Clean(root)
	if abs != cleanRoot && !strings.HasPrefix(abs, cleanRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s escapes allowed root %s", path, root)
	}
	if isSymlink(abs) {
		return "", fmt.Errorf("path %s is a symbolic link (not allowed)", path)
	}
	return abs, nil
}

// Manual scrubs explicitly named files and directories in place. Unlike auto
// mode there is no gate and no post-move: the caller named the files, so
// they are processed where they sit.
func (s *Scrubber) Manual(ctx context.Context, root string, paths []string, recursive bool, maxFiles int) (*model.Summary, error) {
	summary := model.NewSummary()

	if len(paths) == 0 {
		if !recursive {
			fmt.Fprintln(s.Out, "⚠️ No files provided and --recursive not set.")
			return summary, nil
		}
		paths = []string{root}
	}

	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := ResolveWithinRoot(root, p)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, abs)
	}

	targets, err := scan.CollectJPEGs(resolved, recursive)
	if err != nil {
		return nil, fmt.Errorf("collect targets: %w", err)
	}
	if len(targets) == 0 {
		fmt.Fprintln(s.Out, "⚠️ No JPEGs matched.")
		return summary, nil
	}
	if maxFiles > 0 && len(targets) > maxFiles {
		targets = targets[:maxFiles]
	}

	for _, target := range targets {
		result := s.File(ctx, target, "")
		summary.Update(result)
	}
	summary.Finish()
	return summary, nil
}
