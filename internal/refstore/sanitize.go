package refstore

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxFilenameRunes is the maximum length of a sanitized filename,
// not counting the extension. 150 runes stays well under the 255-byte
// component limit common to Linux and macOS filesystems even when
// every rune needs multiple UTF-8 bytes on disk.
const MaxFilenameRunes = 150

// illegalRuns matches runs of characters that are invalid in filenames
// on at least one supported platform, plus ASCII control characters.
// A run of any length collapses to a single underscore so "Bad/Title::Test"
// becomes "Bad_Title_Test" rather than "Bad_Title__Test".
var illegalRuns = regexp.MustCompile(`[[:cntrl:]\\/:*?"<>|]+`)

// spaceRuns matches runs of whitespace, including tabs and newlines
// that occasionally appear in redirected page titles.
var spaceRuns = regexp.MustCompile(`\s+`)

// SafeFilename converts a page title into a filename that is safe on
// Linux, macOS, and Windows. The title is normalized to NFC first so
// the same visible title always produces the same file name regardless
// of how the API composed its accents.
//
// Titles that sanitize down to nothing (empty or all-whitespace input)
// return "untitled" instead of an empty string.
func SafeFilename(title string) string {
	name := norm.NFC.String(title)
	name = illegalRuns.ReplaceAllString(name, "_")
	name = spaceRuns.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return "untitled"
	}

	// Truncate on rune boundaries to avoid splitting a multibyte character
	runes := []rune(name)
	if len(runes) > MaxFilenameRunes {
		name = strings.TrimRight(string(runes[:MaxFilenameRunes]), " ")
	}
	return name
}
