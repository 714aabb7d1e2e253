// Package utils provides utility functions for the application.
package utils

import (
	"strings"
	"unicode"
)

// Slugify derives a URL-safe slug from a name: lowercase, spaces collapsed
// into single hyphens, everything outside [a-z0-9-] dropped.
func Slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(lower))
	prevHyphen := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		case unicode.IsSpace(r), r == '-', r == '_':
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// IsValidTagName reports whether every rune of a tag name belongs to the
// accepted set: letters, digits, spaces, hyphens, underscores.
func IsValidTagName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			continue
		}
		return false
	}
	return true
}

// NormalizeTagName lowercases a tag name and collapses runs of whitespace to
// single spaces, so "Go  Lang", "go lang" and "GO LANG" share one tag.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
