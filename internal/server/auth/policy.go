package auth

import (
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

const (
	MinPasswordLength = 8

	// PasswordSymbols is the set a password must draw at least one symbol from.
	PasswordSymbols = `!@#$%^&*(),.?":{}|<>`
)

// ValidatePasswordStrength checks length in characters and the ASCII
// character classes. It returns common.ErrWeakPassword on any violation.
func ValidatePasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return common.ErrWeakPassword
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case 'A' <= r && r <= 'Z':
			upper = true
		case 'a' <= r && r <= 'z':
			lower = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}

	if !upper || !lower || !digit || !symbol {
		return common.ErrWeakPassword
	}
	return nil
}
