package recommend

import "strings"

// CleanText normalizes a title before embedding: drops byte sequences that
// are not valid UTF-8, trims surrounding whitespace and replaces every
// newline and carriage return with a single space. Applying it twice yields
// the same result, so already-clean stored titles pass through unchanged.
func CleanText(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}
