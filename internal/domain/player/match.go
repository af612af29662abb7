package player

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nameFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName strips diacritics, folds case and trims, so "José" and
// " jose " compare equal.
func NormalizeName(name string) string {
	folded, _, err := transform.String(nameFolder, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Matches decides whether a raw player reference is the queried player.
// A numeric id match wins outright; otherwise both names must be non-empty
// and equal after normalization. Two missing names never match.
func Matches(q Query, candidateID *int64, candidateName string) bool {
	if q.ID != nil && candidateID != nil {
		return *q.ID == *candidateID
	}

	want := NormalizeName(q.Name)
	got := NormalizeName(candidateName)
	if want == "" || got == "" {
		return false
	}
	return want == got
}
