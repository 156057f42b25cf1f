package matchers

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MatchesWholeWord returns true if the keyword appears as a complete word in the text.
// Word boundaries are non-letter, non-digit runes or the start/end of the text.
func MatchesWholeWord(text, keyword string) bool {
	if keyword == "" {
		return false
	}

	idx := 0
	for idx <= len(text) {
		pos := strings.Index(text[idx:], keyword)
		if pos == -1 {
			return false
		}
		pos += idx

		before, _ := utf8.DecodeLastRuneInString(text[:pos])
		leftOk := pos == 0 || !isWordChar(before)

		endPos := pos + len(keyword)
		after, _ := utf8.DecodeRuneInString(text[endPos:])
		rightOk := endPos == len(text) || !isWordChar(after)

		if leftOk && rightOk {
			return true
		}

		_, size := utf8.DecodeRuneInString(text[pos:])
		idx = pos + size
	}
	return false
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func MatchesPartially(text, keyword string) bool {
	return strings.Contains(text, keyword)
}
