package bible

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedReference is the structured form of one free-text citation.
// A zero Chapter marks a book-only partial reference; StartVerse and
// EndVerse are then zero as well. A zero EndVerse means no range suffix
// was present.
type ParsedReference struct {
	BookToken   string
	BookOrdinal int
	Chapter     int
	StartVerse  int
	EndVerse    int
}

// Partial reports whether the reference named a book without a location.
// Consumers default partial references to chapter 1, verse 1.
func (r ParsedReference) Partial() bool {
	return r.Chapter == 0
}

// fullReference matches "<book> <chapter>:<verse>[-<endVerse>]" with an
// optional leading 1-3 on the book token, letters of any alphabet in the
// book words, and either ':' or '.' between chapter and verse.
var fullReference = regexp.MustCompile(`^([1-3]? ?\p{L}+(?: \p{L}+)*) ?(\d+)[:.](\d+)(?:-(\d+))?$`)

// ParseReference turns a raw citation into a ParsedReference, resolving
// the book token exactly first and by fuzzy match as a fallback. It
// returns false when the grammar does not match or when a syntactically
// valid citation names a book that cannot be resolved.
func ParseReference(raw string) (ParsedReference, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ParsedReference{}, false
	}
	lower := strings.ToLower(trimmed)

	if m := fullReference.FindStringSubmatch(lower); m != nil {
		ordinal, ok := resolveBookToken(m[1])
		if !ok {
			return ParsedReference{}, false
		}

		chapter, err := strconv.Atoi(m[2])
		if err != nil || chapter < 1 {
			return ParsedReference{}, false
		}
		startVerse, err := strconv.Atoi(m[3])
		if err != nil || startVerse < 1 {
			return ParsedReference{}, false
		}

		ref := ParsedReference{
			BookToken:   strings.TrimSpace(m[1]),
			BookOrdinal: ordinal,
			Chapter:     chapter,
			StartVerse:  startVerse,
		}
		if m[4] != "" {
			endVerse, err := strconv.Atoi(m[4])
			if err != nil || endVerse < 1 {
				return ParsedReference{}, false
			}
			ref.EndVerse = endVerse
		}
		return ref, true
	}

	// Book-only partial reference: no digits and no chapter/verse
	// punctuation anywhere in the input.
	if strings.ContainsAny(lower, "0123456789:.-") {
		return ParsedReference{}, false
	}
	ordinal, ok := resolveBookToken(lower)
	if !ok {
		return ParsedReference{}, false
	}
	return ParsedReference{BookToken: trimmed, BookOrdinal: ordinal}, true
}

func resolveBookToken(token string) (int, bool) {
	if ordinal, ok := LookupExact(token); ok {
		return ordinal, true
	}
	if match, ok := FindClosest(token); ok {
		return match.Ordinal, true
	}
	return 0, false
}
