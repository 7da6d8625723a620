package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Fold returns s case folded for caseless comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Squash removes all whitespace (including non-breaking spaces) and case folds.
func Squash(s string) string {
	return Fold(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}

// CollapseSpace folds case and collapses whitespace runs to a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(Fold(s)), " ")
}

// Alnum lowercases s and keeps only ASCII letters and digits.
func Alnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
