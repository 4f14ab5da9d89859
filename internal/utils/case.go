package utils

import (
	"unicode"
	"unicode/utf8"
)

// FirstRuneUpper reports whether the first rune of s is upper-case.
func FirstRuneUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// CapitalizeFirst upper-cases only the first rune of word, leaving the
// remainder untouched.
func CapitalizeFirst(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 {
		return word
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return word
	}
	return string(upper) + word[size:]
}
