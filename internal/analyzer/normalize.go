package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// legalSuffixes are whole-word tokens dropped from vendor names before
// comparison.
var legalSuffixes = map[string]bool{
	"inc":         true,
	"corp":        true,
	"corporation": true,
	"llc":         true,
	"ltd":         true,
	"limited":     true,
	"co":          true,
	"company":     true,
}

// NormalizeVendorName reduces a vendor name to the key used to detect the
// same underlying vendor: lower case, punctuation removed, legal-entity
// suffix words removed, whitespace collapsed. Garbage input yields "".
// The function is idempotent.
func NormalizeVendorName(name string) string {
	stripped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, name)

	words := strings.Fields(stripped)
	kept := words[:0]
	for _, w := range words {
		if !legalSuffixes[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// LevenshteinDistance returns the rune-level edit distance between a and b.
func LevenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = 1 + min(prev[j-1], curr[j-1], prev[j])
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// StringSimilarity returns 1 - distance/len(longer), in [0,1]. Two empty
// strings are identical.
func StringSimilarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return float64(longest-LevenshteinDistance(a, b)) / float64(longest)
}

// duplicateConfidence averages, over every name, its best similarity to any
// other name, then maps that into [0.5, 0.95].
func duplicateConfidence(names []string) float64 {
	if len(names) < 2 {
		return 0.5
	}

	var sum float64
	for i, name := range names {
		best := 0.0
		for j, other := range names {
			if i == j {
				continue
			}
			if s := StringSimilarity(name, other); s > best {
				best = s
			}
		}
		sum += best
	}

	avg := sum / float64(len(names))
	return min(0.95, 0.5+avg*0.5)
}
