// Package strings holds text helpers shared by the console output and the
// templates.
package strings

import (
	"strings"
	"unicode"
)

// MessageMaxLen bounds issue messages in console tables.
const MessageMaxLen = 80

// minTruncateLen leaves room for one character plus the ellipsis.
const minTruncateLen = 4

// Truncate collapses whitespace in s into single spaces and shortens the
// result to maxLen runes, ending in "..." when cut.
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

// Synopsis returns the first sentence of a doc comment: the text up to the
// first period followed by whitespace, or the first paragraph when there
// is none.
func Synopsis(doc string) string {
	doc = strings.TrimSpace(doc)
	if i := strings.Index(doc, "\n\n"); i >= 0 {
		doc = doc[:i]
	}
	doc = strings.Join(strings.Fields(doc), " ")

	runes := []rune(doc)
	for i, r := range runes {
		if r != '.' {
			continue
		}
		if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
			return string(runes[:i+1])
		}
	}
	return doc
}
