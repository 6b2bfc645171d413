package validators

import (
	"strings"
	"unicode/utf8"
)

// SanitizeString trims and collapses inner whitespace, then truncates to
// maxLen runes. Accented product names must not be cut mid-character.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Join(strings.Fields(input), " ")
	if maxLen <= 0 || utf8.RuneCountInString(cleaned) <= maxLen {
		return cleaned
	}
	runes := []rune(cleaned)
	return strings.TrimSpace(string(runes[:maxLen]))
}
