// Package exiftool constructs argument lists for the external exiftool
// binary and runs it as a subprocess.
//
// The pipeline only relies on a narrow slice of exiftool's surface: strip
// everything (-all=), strip GPS explicitly (-gps:all=), re-seed an allow-list
// of tags from the original via -tagsFromFile @, optionally strip the ICC
// profile, and either overwrite in place or write to a new path.
package exiftool

import (
	"fmt"
	"unicode/utf8"
)

// Tags preserved across the scrub: camera/exposure details a photographer
// wants to keep, nothing that can identify a person, place or device serial.
var PreservedTags = []string{
	"ExposureTime",
	"FNumber",
	"ImageSize",
	"Title",
	"FocalLength",
	"ISO",
	"Orientation",
}

// Exiftool bundles that expand to a set of tags.
// https://exiftool.org/forum/index.php?topic=13451.0
var metaTagBundles = []string{"ColorSpaceTags"}

// Groups the preserved tags are copied back from.
var tagGroups = []string{"", "EXIF", "XMP", "XMP-dc", "IPTC"}

// Whole sections that never survive: vendor blobs and free-form containers
// that routinely carry serial numbers and editing history.
var strippedSections = []string{
	"-Photoshop:all=",
	"-MakerNotes:all=",
	"-Comment:all=",
	"-XMP:History=",
}

// Byte limits for stamped values. Oversized values are truncated at a UTF-8
// boundary rather than rejected.
const (
	MaxCopyrightBytes = 256
	MaxCommentBytes   = 1024
	MaxArtistBytes    = 256
)

// Stamp holds optional metadata written onto the scrubbed result after the
// strip.
type Stamp struct {
	Artist    string
	Copyright string
	Comment   string
}

func (s Stamp) empty() bool {
	return s.Artist == "" && s.Copyright == "" && s.Comment == ""
}

// PreserveArgs expands each preserved tag across the metadata groups and
// returns a deduplicated -TAG argument list.
func PreserveArgs(paranoia bool) []string {
	tags := append([]string{}, PreservedTags...)
	if !paranoia {
		tags = append(tags, metaTagBundles...)
	}

	var args []string
	seen := make(map[string]struct{})
	for _, tag := range tags {
		for _, group := range tagGroups {
			key := tag
			if group != "" {
				key = group + ":" + tag
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			args = append(args, "-"+key)
		}
	}
	return args
}

// ScrubArgs builds the full exiftool argument list for one file.
//
// With overwrite set the tool rewrites input in place; otherwise output must
// name the destination path and the input is left untouched. Exiftool itself
// writes elsewhere and renames, so a failed run never leaves a partial file
// at the destination.
func ScrubArgs(input, output string, overwrite, paranoia bool, stamp Stamp) []string {
	args := []string{}
	if overwrite {
		args = append(args, "-overwrite_original")
	}
	args = append(args, "-P", "-m", "-all=", "-gps:all=")
	args = append(args, strippedSections...)
	args = append(args, "-tagsFromFile", "@")
	args = append(args, PreserveArgs(paranoia)...)
	if paranoia {
		args = append(args, "-ICC_Profile:all=")
	}
	args = append(args, StampArgs(stamp)...)
	if output != "" {
		args = append(args, "-o", output)
	}
	return append(args, input)
}

// StampArgs renders the copyright/comment/artist assignments. Values exceeding
// their byte limit are truncated at a rune boundary.
func StampArgs(stamp Stamp) []string {
	if stamp.empty() {
		return nil
	}
	var args []string
	if v := TruncateUTF8(stamp.Artist, MaxArtistBytes); v != "" {
		args = append(args,
			fmt.Sprintf("-IFD0:Artist=%s", v),
			fmt.Sprintf("-XMP-dc:Creator=%s", v),
		)
	}
	if v := TruncateUTF8(stamp.Copyright, MaxCopyrightBytes); v != "" {
		args = append(args,
			fmt.Sprintf("-IFD0:Copyright=%s", v),
			fmt.Sprintf("-XMP-dc:Rights=%s", v),
		)
	}
	if v := TruncateUTF8(stamp.Comment, MaxCommentBytes); v != "" {
		args = append(args,
			fmt.Sprintf("-ExifIFD:UserComment=%s", v),
			fmt.Sprintf("-XMP-dc:Description=%s", v),
		)
	}
	return args
}

// TruncateUTF8 cuts s to at most max bytes without splitting a rune.
func TruncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	b := []byte(s)[:max]
	for len(b) > 0 && !utf8.Valid(b) {
		b = b[:len(b)-1]
	}
	return string(b)
}
