package ai

import (
	"strings"
	"unicode"
)

// Sanitize prepares user text for embedding in a prompt. Quotes,
// backslashes, control characters and anything outside printable ASCII
// (other than whitespace) are dropped, then the result is trimmed.
func Sanitize(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		switch {
		case r == '"' || r == '\\':
		case r <= 0x1F || (r >= 0x7F && r <= 0x9F):
		case r >= 0x20 && r <= 0x7E:
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
