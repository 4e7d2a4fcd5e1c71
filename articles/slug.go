package articles

import "strings"

// slugify normalizes a title into a URL-safe slug base: lowercased, with
// every run of non-alphanumeric characters collapsed into a single hyphen
// and leading/trailing hyphens trimmed. Titles with no usable characters
// fall back to "untitled" so the uniqueness probe always has a base.
func slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "untitled"
	}
	return slug
}
