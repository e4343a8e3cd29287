package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize collapses every whitespace run (newlines included) to a single
// space, trims the ends, and truncates to max characters. Truncation counts
// runes, not bytes, so multi-byte text is never split mid-character. The
// second return reports whether text was cut off, so callers can log it
// without re-running the collapse. Never fails.
func Normalize(raw string, max int) (string, bool) {
	s := whitespaceRun.ReplaceAllString(raw, " ")
	s = strings.TrimSpace(s)
	if max >= 0 && utf8.RuneCountInString(s) > max {
		return string([]rune(s)[:max]), true
	}
	return s, false
}
