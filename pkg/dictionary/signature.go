package dictionary

import (
	"slices"
	"strings"
	"unicode"
)

// Signature returns the canonical letter signature of s: its letters
// uppercased, sorted by code point and concatenated.
// Two strings are anagrams of each other iff their signatures are equal.
func Signature(s string) string {
	runes := []rune(strings.ToUpper(s))
	slices.Sort(runes)
	return string(runes)
}

// Normalize trims and uppercases a raw dictionary line.
// ok is false when the result is not a single unbroken run of letters,
// which rules out empty lines, hyphens, apostrophes, digits and inner whitespace.
func Normalize(raw string) (word string, ok bool) {
	word = strings.ToUpper(strings.TrimSpace(raw))
	if word == "" {
		return "", false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return "", false
		}
	}
	return word, true
}
