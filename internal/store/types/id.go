package types

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// NewID generates an opaque identifier with an entity-kind prefix.
// The store never interprets IDs beyond equality checks, so callers
// may substitute their own generator.
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// Slugify converts a display name into a URL-safe slug: lowercase,
// spaces collapsed to single hyphens, everything else stripped.
func Slugify(name string) string {
	var b strings.Builder

	lastHyphen := true // Suppress leading hyphens
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
