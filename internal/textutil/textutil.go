// Package textutil has small token classification and casing helpers shared
// by the spell engine and the correction service.
package textutil

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// HasLetter reports whether the token contains at least one letter.
func HasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// IsAllUpper reports whether every letter in the token is uppercase.
// Tokens like "NASA" or "HTTP2" count; tokens with no letters do not.
func IsAllUpper(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

// StartsUpper reports whether the first rune of the token is uppercase.
func StartsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

// Capitalize uppercases the first letter of a single token.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return titleCaser.String(s)
}
