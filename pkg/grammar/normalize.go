package grammar

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer prepares a subject before it is matched.
type Normalizer func(string) string

// NormalizeNFC puts the subject into Unicode normalization form C so that
// precomposed and decomposed spellings match the same patterns.
func NormalizeNFC(s string) string {
	return norm.NFC.String(s)
}

// FoldAccents strips combining marks, turning "Très" into "Tres".
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	clean, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return clean
}

// CollapseSpace trims the subject and replaces every whitespace run with a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Chain applies normalizers left to right.
func Chain(normalizers ...Normalizer) Normalizer {
	return func(s string) string {
		for _, n := range normalizers {
			s = n(s)
		}
		return s
	}
}
