// Package scan enumerates JPEG candidates in the input directory and
// classifies temp/partial upload artifacts.
package scan

import (
	"path/filepath"
	"strings"
)

// Filename prefixes used by hidden files, editors and sync clients for
// in-flight artifacts.
var tempPrefixes = []string{".", "~", "#"}

// Extensions used for partial downloads, uploads and lock files. Matched both
// as the exact extension and as a case-insensitive trailing substring, so
// compound names like photo.jpg.part are caught too.
var tempSuffixes = []string{
	".part",
	".partial",
	".crdownload",
	".download",
	".tmp",
	".temp",
	".upload",
	".lock",
	".swp",
}

// IsProbablyTemp reports whether the filename looks like a partial upload or
// other in-flight artifact. Pure function of the name; no I/O.
func IsProbablyTemp(path string) bool {
	name := filepath.Base(path)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return false
	}
	for _, p := range tempPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	lower := strings.ToLower(name)
	ext := filepath.Ext(lower)
	for _, s := range tempSuffixes {
		if ext == s || strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}
