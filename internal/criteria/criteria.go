// Package criteria computes the boolean requirement sets that gate the
// onboarding forms. Each set is derived entirely from the current field
// value and is recomputed by the caller after every change, so the checks
// are never partially stale.
package criteria

import (
	"strings"
	"unicode/utf8"

	"github.com/evanli/vaultkeep/internal/strength"
)

// UsernameCriteria is the requirement set for a new username.
type UsernameCriteria struct {
	// Length is true when the username has at least 4 characters.
	Length bool
	// LegalChars is true when the username is non-empty and contains only
	// ASCII letters and digits. The empty string is not legal, so callers
	// must seed their state from ForUsername("") rather than an optimistic
	// default, or the form flashes a false "valid" before the first
	// keystroke.
	LegalChars bool
}

// Satisfied reports whether every username requirement is met.
func (c UsernameCriteria) Satisfied() bool {
	return c.Length && c.LegalChars
}

// PasswordCriteria is the requirement set for a new master password.
type PasswordCriteria struct {
	// Length is true when the password has at least 8 characters.
	Length bool
	// Uppercase is true when the password contains an upper-case letter.
	Uppercase bool
	// Symbol is true when the password contains a character from
	// strength.Symbols.
	Symbol bool
	// Number is true when the password contains a decimal digit.
	Number bool
}

// Satisfied reports whether every password requirement is met.
func (c PasswordCriteria) Satisfied() bool {
	return c.Length && c.Uppercase && c.Symbol && c.Number
}

// ForUsername evaluates the username requirements for value.
func ForUsername(value string) UsernameCriteria {
	legal := value != ""
	for _, r := range value {
		if !isAlphanumeric(r) {
			legal = false
			break
		}
	}
	return UsernameCriteria{
		Length:     utf8.RuneCountInString(value) >= 4,
		LegalChars: legal,
	}
}

// ForPassword evaluates the master-password requirements for value. The
// symbol set is shared with the strength evaluator.
func ForPassword(value string) PasswordCriteria {
	var upper, symbol, number bool
	for _, r := range value {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			number = true
		case strings.ContainsRune(strength.Symbols, r):
			symbol = true
		}
	}
	return PasswordCriteria{
		// Character count, not byte count; multibyte input must not clear
		// the threshold early.
		Length:    utf8.RuneCountInString(value) >= 8,
		Uppercase: upper,
		Symbol:    symbol,
		Number:    number,
	}
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
