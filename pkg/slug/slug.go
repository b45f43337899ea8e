package slug

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Generate builds a unique URL-safe slug from a display name.
// The taken callback reports whether a candidate is already in use;
// on collision a numeric suffix (-1, -2, ...) is appended until free.
func Generate(name string, taken func(string) bool) string {
	base := Normalize(name)
	if base == "" {
		// Names with no usable characters still need a valid slug.
		base = "plugin-" + uuid.New().String()[:8]
	}

	candidate := base
	for counter := 1; taken(candidate); counter++ {
		candidate = base + "-" + strconv.Itoa(counter)
	}
	return candidate
}

// Normalize lowers a name to [a-z0-9-]: separators collapse to single
// hyphens, anything else is dropped, leading/trailing hyphens trimmed.
// Returns "" when nothing survives.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	prevHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		case r == ' ', r == '-', r == '_', r == '.', r == '/', r == '\t':
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
