package bible

import (
	"errors"
	"fmt"
	"strconv"
)

// Verse IDs are the numeric keys the bulk dataset and the remote source
// share: the bare book ordinal followed by the chapter and verse, each
// zero-padded to three digits. "43003016" is John 3:16.

var ErrInvalidVerseID = errors.New("invalid verse id")

// VerseID encodes a book/chapter/verse triple into its fixed-width key.
func VerseID(ordinal, chapter, verse int) string {
	return fmt.Sprintf("%d%03d%03d", ordinal, chapter, verse)
}

// ChapterRangeID encodes the id range covering every verse of one
// chapter, as the remote source expects for batched chapter fetches:
// "43003000-43003999" covers John chapter 3.
func ChapterRangeID(ordinal, chapter int) string {
	return fmt.Sprintf("%d%03d000-%d%03d999", ordinal, chapter, ordinal, chapter)
}

// ParseVerseID is the inverse of VerseID.
func ParseVerseID(id string) (ordinal, chapter, verse int, err error) {
	// Shortest valid id is book 1..9 + 3 chapter digits + 3 verse digits.
	if len(id) < 7 || len(id) > 8 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidVerseID, id)
	}

	split := len(id) - 6
	ordinal, err = strconv.Atoi(id[:split])
	if err != nil || ordinal < 1 || ordinal > len(Books) {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidVerseID, id)
	}
	chapter, err = strconv.Atoi(id[split : split+3])
	if err != nil || chapter < 1 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidVerseID, id)
	}
	verse, err = strconv.Atoi(id[split+3:])
	if err != nil || verse < 1 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidVerseID, id)
	}
	return ordinal, chapter, verse, nil
}
