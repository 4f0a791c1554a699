package shared

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeEmail canonicalizes an email address for lookups: surrounding
// whitespace is trimmed, the string is NFC-normalized and lowercased.
// "Admin@School.com " and "admin@school.com" resolve to the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(email)))
}
