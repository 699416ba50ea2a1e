// Package strength scores passwords on a 0-4 scale for display purposes.
// The score never gates an operation; it only annotates entries in the UI.
package strength

import (
	"strings"
	"unicode/utf8"
)

// Label is the human-readable bucket for a strength score.
type Label string

const (
	// VeryWeak is the label for score 0.
	VeryWeak Label = "very-weak"
	// Weak is the label for score 1.
	Weak Label = "weak"
	// Fair is the label for score 2.
	Fair Label = "fair"
	// Good is the label for score 3.
	Good Label = "good"
	// Strong is the label for score 4.
	Strong Label = "strong"
)

// Result holds the capped score and its label.
type Result struct {
	// Score is an integer in [0,4].
	Score int
	// Label is a deterministic function of Score.
	Label Label
}

// Symbols is the punctuation set that counts toward the symbol criterion.
// The same set gates the password checklist in the criteria package.
const Symbols = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"

// labelTable maps a capped score to its label.
var labelTable = [5]Label{VeryWeak, Weak, Fair, Good, Strong}

// Evaluate scores a password by counting satisfied criteria:
//
//	+1 length >= 8
//	+1 length >= 12 (stacks with the previous rule)
//	+1 mixed upper and lower case (one combined criterion)
//	+1 contains a decimal digit
//	+1 contains a symbol from Symbols
//
// Five rules can fire but the score is capped at 4, so a password that
// satisfies everything is indistinguishable at label level from one that
// clears four rules plus the 12-character threshold. Evaluate is pure and
// total; the empty string scores 0 / very-weak.
func Evaluate(password string) Result {
	score := 0

	// Length thresholds count characters, not bytes.
	length := utf8.RuneCountInString(password)
	if length >= 8 {
		score++
	}
	if length >= 12 {
		score++
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(Symbols, r):
			hasSymbol = true
		}
	}

	if hasLower && hasUpper {
		score++
	}
	if hasDigit {
		score++
	}
	if hasSymbol {
		score++
	}

	if score > 4 {
		score = 4
	}

	return Result{Score: score, Label: labelTable[score]}
}
