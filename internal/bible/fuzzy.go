package bible

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Fuzzy matching strategy: plain Levenshtein edit distance over every
// registered name and abbreviation. A candidate is accepted when it is
// within maxEditDistance edits of the token; the first candidate with the
// lowest distance wins, scanning books 1..66 and, within a book, the
// English name, the Danish name, then the abbreviations in declared order.
const (
	maxEditDistance = 2
	minFuzzyLength  = 2
)

// Match is a fuzzy-resolved book.
type Match struct {
	Ordinal int
	// Name is the candidate string that matched, not necessarily the
	// canonical name in the caller's language.
	Name string
}

// FindClosest resolves a misspelled book token to the nearest registered
// book. Tokens shorter than two runes never match.
func FindClosest(token string) (Match, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if utf8.RuneCountInString(token) < minFuzzyLength {
		return Match{}, false
	}

	best := Match{}
	bestDistance := maxEditDistance + 1

	consider := func(candidate string, ordinal int) {
		d := levenshtein.ComputeDistance(token, strings.ToLower(candidate))
		if d < bestDistance {
			bestDistance = d
			best = Match{Ordinal: ordinal, Name: candidate}
		}
	}

	for _, b := range Books {
		consider(b.English, b.Ordinal)
		consider(b.Danish, b.Ordinal)
		for _, abbr := range b.Abbreviations {
			consider(abbr, b.Ordinal)
		}
	}

	if bestDistance > maxEditDistance {
		return Match{}, false
	}
	return best, true
}
