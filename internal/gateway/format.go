package gateway

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	spaceBeforeMark = regexp.MustCompile(`\s+([.,?!])`)
	quoteReplacer   = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")
)

// FormatReply normalises a model reply for display: single spaces, straight
// quotes, no space before punctuation, and a closing period when the text
// ends mid-sentence on a letter or digit.
func FormatReply(s string) string {
	s = strings.TrimSpace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = quoteReplacer.Replace(s)
	s = spaceBeforeMark.ReplaceAllString(s, "$1")
	if s == "" {
		return s
	}
	last, _ := utf8.DecodeLastRuneInString(s)
	if unicode.IsLetter(last) || unicode.IsDigit(last) {
		s += "."
	}
	return s
}
