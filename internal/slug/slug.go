// Package slug derives filesystem-safe directory names from company
// display names. One company name must always map to the same slug so
// re-running a batch overwrites the previous artifacts in place.
package slug

import "strings"

// Make lowercases the name, keeps letters, digits, '-' and '_', turns
// runs of spaces into single dashes, and drops everything else. An
// empty result (a name made entirely of dropped runes) becomes
// "unnamed" so the caller always gets a usable directory name.
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
			lastDash = r == '-'
		case r == ' ':
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	s := strings.TrimRight(b.String(), "-")
	if s == "" {
		return "unnamed"
	}
	return s
}
