package domain

import "strings"

// NormalizeName canonicalizes a name for comparison: lowercased with every
// whitespace character removed, interior ones included. Empty input yields "".
func NormalizeName(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(text)), "")
}

// SameName reports whether two names normalize to the same non-empty value.
// A blank name never matches anything, not even another blank.
func SameName(a, b string) bool {
	na := NormalizeName(a)
	return na != "" && na == NormalizeName(b)
}
