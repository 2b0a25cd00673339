package validation

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeUsername case folds a handle so lookups ignore case. A Caser
// holds state, so each call gets its own.
func NormalizeUsername(username string) string {
	return cases.Fold().String(strings.TrimSpace(username))
}

func ValidateUsername(username string) error {
	if len(username) < 3 || len(username) > 30 {
		return errors.New("username must be 3-30 characters")
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return errors.New("username may only contain letters, digits and underscores")
		}
	}
	return nil
}
