package validation

import "strings"

const (
	minSlugLength = 4
	maxSlugLength = 64
)

// NormalizeSlug lowercases and trims a raw slug. All lookups and writes go
// through the normalized form so that slugs stay case-insensitively unique.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// ValidateSlug checks a normalized slug: 4-64 characters from the URL-safe
// set [a-z0-9_-].
func ValidateSlug(slug string) error {
	if len(slug) < minSlugLength {
		return ErrSlugTooShort
	}
	if len(slug) > maxSlugLength {
		return ErrSlugTooLong
	}
	for _, r := range slug {
		if !isSlugRune(r) {
			return ErrSlugInvalidChars
		}
	}
	return nil
}

func isSlugRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	default:
		return false
	}
}
