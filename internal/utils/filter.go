package utils

import (
	"unicode"
)

// every reports whether s is non-empty and pred holds for each rune.
func every(s string, pred func(rune) bool) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	return every(s, unicode.IsDigit)
}

// IsCirclePattern checks if a string is written in circle notation:
// 'O' or 'o' marks a circled position, '_' a blank one.
func IsCirclePattern(s string) bool {
	return every(s, func(r rune) bool {
		return r == 'O' || r == 'o' || r == '_'
	})
}
