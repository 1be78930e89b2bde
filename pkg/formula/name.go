package formula

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Name is the canonical spelling of a component, e.g. "Soul Eater".
type Name string

// String returns the name as a plain string.
func (n Name) String() string { return string(n) }

// Normalize maps arbitrary text to a lookup key: the text is case-folded and
// every rune that is not a lowercase letter is dropped.
//
//	Normalize(" Steel-Infused ") == "steelinfused"
//
// Normalize is total; the empty string yields the empty key.
func Normalize(text string) string {
	folded := cases.Fold().String(text)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLower(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Names converts plain strings to names, preserving order.
func Names(ss ...string) []Name {
	names := make([]Name, len(ss))
	for i, s := range ss {
		names[i] = Name(s)
	}
	return names
}

// Strings converts names back to plain strings, preserving order.
func Strings(names []Name) []string {
	ss := make([]string, len(names))
	for i, n := range names {
		ss[i] = string(n)
	}
	return ss
}
