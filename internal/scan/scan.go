package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Candidate is one path observed in the input directory at enumeration time.
// Recomputed every sweep, never persisted.
type Candidate struct {
	Path  string
	Name  string
	Size  int64
	MTime time.Time
}

func isJPEG(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

// FindJPEGs lists the immediate JPEG children of dir in name order. Symbolic
// links are skipped unconditionally; entries that vanish between listing and
// stat are skipped silently (the concurrent writer owns them).
func FindJPEGs(dir string) ([]Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []Candidate
	for _, entry := range entries {
		if entry.IsDir() || entry.Type()&fs.ModeSymlink != 0 {
			continue
		}
		if !isJPEG(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Candidate{
			Path:  filepath.Join(dir, entry.Name()),
			Name:  entry.Name(),
			Size:  info.Size(),
			MTime: info.ModTime(),
		})
	}
	return out, nil
}

// CollectJPEGs expands files and directories into a flat list of JPEG paths
// for manual mode. Directories are searched one level deep, or fully when
// recursive is set. Symlinks are never followed.
func CollectJPEGs(paths []string, recursive bool) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Lstat(p)
		if err != nil {
			continue
		}
		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			continue
		case info.Mode().IsRegular():
			if isJPEG(p) {
				out = append(out, p)
			}
		case info.IsDir():
			if recursive {
				err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
					if err != nil {
						return nil
					}
					if d.Type().IsRegular() && isJPEG(path) {
						out = append(out, path)
					}
					return nil
				})
				if err != nil {
					return nil, err
				}
			} else {
				cands, err := FindJPEGs(p)
				if err != nil {
					return nil, err
				}
				for _, c := range cands {
					out = append(out, c.Path)
				}
			}
		}
	}
	return out, nil
}
