// Package store provides the local verse sources: the bulk JSON dataset
// held in memory, and a Postgres-backed alternative.
package store

import (
	"context"
	"errors"
)

var (
	// ErrVerseNotFound means the source loaded fine but has no entry
	// for the requested verse id.
	ErrVerseNotFound = errors.New("verse not found in local store")

	// ErrLoadFailed wraps a bulk dataset load failure. The failure is
	// not cached; the next access retries the load.
	ErrLoadFailed = errors.New("verse dataset load failed")
)

// Store resolves a verse id to plain text for one language.
type Store interface {
	VerseText(ctx context.Context, lang, verseID string) (string, error)
}
