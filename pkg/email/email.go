package email

import (
	"regexp"
	"strings"
	"unicode"
)

// pattern mirrors the intake rule: some local part, an @, a domain with a dot.
// Deliverability is the signing service's problem, not ours.
var pattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Valid reports whether s looks like an email address worth accepting.
func Valid(s string) bool {
	return pattern.MatchString(strings.TrimSpace(s))
}

// DeriveNameFromEmail guesses a first and last name from the local part.
// Used as a fallback when an agreement needs signer names we never collected.
func DeriveNameFromEmail(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "User", "User"
	}

	first := capitalize(parts[0])
	last := "User"
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
