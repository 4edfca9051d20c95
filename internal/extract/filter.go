// internal/extract/filter.go
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// A usable comment is 5 to 500 runes after trimming whitespace.
const (
	minCommentRunes = 5
	maxCommentRunes = 500
)

// urlPattern matches full URLs as well as bare domain fragments.
var urlPattern = regexp.MustCompile(`https?://[^\s]+|www\.[^\s]+|\.com|\.net|\.org|\.jp`)

// Accepts reports whether text is worth classifying at all: no links,
// and neither trivially short nor absurdly long.
func Accepts(text string) bool {
	if urlPattern.MatchString(text) {
		return false
	}
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	return n >= minCommentRunes && n <= maxCommentRunes
}
