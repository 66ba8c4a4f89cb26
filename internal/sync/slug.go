package sync

import (
	"strings"
	"unicode"
)

// Slugify converts a display name into a URL-safe slug. Remote product names
// are not guaranteed slug-safe; uniqueness is handled separately by the
// store's UniqueSlug.
func Slugify(name string) string {
	var b strings.Builder
	prevDash := true // suppress a leading dash

	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
