// Package strings holds small text helpers shared by the CLI output code.
package strings

import (
	"strings"
)

// DefaultValueMaxLen is the widest a single table cell may get in CLI output.
const DefaultValueMaxLen = 60

// minTruncateLen leaves room for one character plus the ellipsis.
const minTruncateLen = 4

// Truncate collapses all whitespace in s to single spaces and cuts the result
// to maxLen runes, ending in "..." when anything was removed. A maxLen below
// four is raised to four.
func Truncate(s string, maxLen int) string {
	if maxLen < minTruncateLen {
		maxLen = minTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
