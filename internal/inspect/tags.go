// Package inspect reads metadata back out of JPEG files: tag listings for
// --show-tags and a direct GPS check for --verify.
package inspect

import (
	"fmt"
	"io"
	"sort"

	barasher "github.com/barasher/go-exiftool"
)

// PrintTags writes a sorted tag listing for path, labeled "before" or
// "after". Listing failures are reported inline and never abort a scrub.
func PrintTags(w io.Writer, path, label string) {
	et, err := barasher.NewExiftool()
	if err != nil {
		fmt.Fprintf(w, "❌ Failed to read tags: %v\n", err)
		return
	}
	defer et.Close()

	infos := et.ExtractMetadata(path)
	if len(infos) == 0 {
		fmt.Fprintf(w, "❌ Failed to read tags: no metadata returned\n")
		return
	}
	info := infos[0]
	if info.Err != nil {
		fmt.Fprintf(w, "❌ Failed to read tags: %v\n", info.Err)
		return
	}

	keys := make([]string, 0, len(info.Fields))
	for k := range info.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "\n📸 Tags %s %s:\n", label, path)
	for _, k := range keys {
		fmt.Fprintf(w, "%-32s: %v\n", k, info.Fields[k])
	}
}
