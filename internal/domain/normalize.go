package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal
// whitespace runs. It is used for name normalization across the service.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ValidShorturl reports whether s is an acceptable public short identifier:
// lowercase letters, digits and hyphens, 3..32 characters.
func ValidShorturl(s string) bool {
	if len(s) < 3 || len(s) > 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}
	return true
}
