package entity

import "strings"

// NormalizeSymbol trims and upper-cases a raw symbol and verifies it is
// non-empty ASCII alphanumeric. Anything else (e.g. "BRK.B") is rejected
// with ErrInvalidSymbol before any cache or network access happens.
// Normalization is idempotent.
func NormalizeSymbol(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", ErrInvalidSymbol
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", ErrInvalidSymbol
		}
	}
	return s, nil
}
