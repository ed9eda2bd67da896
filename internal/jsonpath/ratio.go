package jsonpath

import (
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultThreshold is the minimum Ratio a fuzzy match needs by default.
const DefaultThreshold = 0.7

// Ratio returns how similar a and b are, from 0 (nothing in common) to 1
// (identical).
//
// It is the SequenceMatcher ratio 2*M/T computed over runes, where M is the
// number of matched runes and T the total length of both strings.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
