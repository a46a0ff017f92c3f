package task

import (
	"regexp"
	"strings"
)

// idPattern matches valid task identifiers: lowercase hyphenated slugs
// such as "auth-epic" or "fix-login-redirect-2".
var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// IsValidID returns true if id is a well-formed task identifier.
func IsValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Slugify converts an arbitrary title into a valid task identifier.
// Non-alphanumeric runs collapse to single hyphens; leading and trailing
// hyphens are stripped. Returns "" if nothing usable remains.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
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
	return strings.TrimRight(b.String(), "-")
}

// CanonicalFilename returns the filename a task document should use:
// "<id>.md".
func CanonicalFilename(id string) string {
	return id + ".md"
}
