package output

import "unicode/utf8"

// DefaultCharacterLimit is the largest response text returned unmodified.
const DefaultCharacterLimit = 25000

// TruncationNotice is appended to text cut at the character limit.
const TruncationNotice = "\n\n---\n> ⚠️ Response truncated. Use `limit` or `offset` parameters to narrow results."

// Truncate cuts text to at most limit characters and appends
// TruncationNotice. A non-positive limit disables truncation. The second
// result reports whether text was cut.
func Truncate(text string, limit int) (string, bool) {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text, false
	}

	n := 0
	for i := range text {
		if n == limit {
			return text[:i] + TruncationNotice, true
		}
		n++
	}
	return text, false
}
