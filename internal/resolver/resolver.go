// Package resolver ties reference parsing, the verse sources and the
// markup cleaner together behind a single lookup call.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Marcoluik/Biblenotes/internal/bible"
	"github.com/Marcoluik/Biblenotes/internal/cache"
	"github.com/Marcoluik/Biblenotes/internal/nwt"
	"github.com/Marcoluik/Biblenotes/internal/store"
)

// Source selects where verse text comes from. The two sources are
// alternatives, not fallbacks: a local miss never triggers a remote
// fetch.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

func ParseSource(s string) (Source, bool) {
	switch Source(s) {
	case SourceLocal, SourceRemote:
		return Source(s), true
	case "":
		return SourceLocal, true
	}
	return "", false
}

// Fetcher is the remote verse source. Satisfied by *nwt.Client.
type Fetcher interface {
	FetchVerseMarkup(ctx context.Context, lang, verseID string) (string, error)
}

// Cleaner reduces fetched markup to plain text. Satisfied by
// *nwt.Cleaner.
type Cleaner interface {
	CleanToPlainText(markup string) string
}

// Result is one resolved reference. Text holds the verse text, or the
// range's verses joined by single spaces in ascending verse order.
type Result struct {
	Reference   string `json:"reference"`
	Book        string `json:"book"`
	BookOrdinal int    `json:"book_ordinal"`
	Chapter     int    `json:"chapter"`
	StartVerse  int    `json:"start_verse"`
	EndVerse    int    `json:"end_verse,omitempty"`
	Text        string `json:"text"`
	Source      Source `json:"source"`

	// Defaulted marks a book-only reference that was filled in with
	// chapter 1, verse 1.
	Defaulted bool `json:"defaulted,omitempty"`
}

type Service struct {
	local   store.Store
	fetcher Fetcher
	cleaner Cleaner
	cache   cache.VerseCache
	logger  *slog.Logger
}

// New builds a Service. cache may be nil, in which case remote fetches
// are simply never cached.
func New(local store.Store, fetcher Fetcher, cleaner Cleaner, verseCache cache.VerseCache, logger *slog.Logger) *Service {
	return &Service{
		local:   local,
		fetcher: fetcher,
		cleaner: cleaner,
		cache:   verseCache,
		logger:  logger,
	}
}

// Resolve parses the raw reference and looks its text up in the chosen
// source. Book-only references default to chapter 1 verse 1; a range
// whose end does not exceed its start is treated as the single start
// verse.
func (s *Service) Resolve(ctx context.Context, raw, lang string, source Source) (*Result, error) {
	ref, ok := bible.ParseReference(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnparseableReference, raw)
	}

	result := &Result{
		BookOrdinal: ref.BookOrdinal,
		Chapter:     ref.Chapter,
		StartVerse:  ref.StartVerse,
		EndVerse:    ref.EndVerse,
		Source:      source,
	}
	if book, ok := bible.ByOrdinal(ref.BookOrdinal); ok {
		result.Book = book.Name(lang)
	}

	if ref.Partial() {
		result.Chapter = 1
		result.StartVerse = 1
		result.Defaulted = true
	}

	if result.EndVerse != 0 && result.EndVerse <= result.StartVerse {
		s.logger.Warn("degenerate verse range, using start verse only",
			"reference", raw, "start", result.StartVerse, "end", result.EndVerse)
		result.EndVerse = 0
	}

	result.Reference = formatReference(result)

	ids := verseIDs(result)
	texts, err := s.lookupAll(ctx, lang, source, ids)
	if err != nil {
		return nil, err
	}
	result.Text = strings.Join(texts, " ")

	return result, nil
}

func formatReference(r *Result) string {
	ref := fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.StartVerse)
	if r.EndVerse != 0 {
		ref += fmt.Sprintf("-%d", r.EndVerse)
	}
	return ref
}

func verseIDs(r *Result) []string {
	end := r.EndVerse
	if end == 0 {
		end = r.StartVerse
	}
	ids := make([]string, 0, end-r.StartVerse+1)
	for v := r.StartVerse; v <= end; v++ {
		ids = append(ids, bible.VerseID(r.BookOrdinal, r.Chapter, v))
	}
	return ids
}

// lookupAll resolves every id of a range, preserving ascending verse
// order. Remote ranges fetch concurrently; local lookups are in-memory
// map hits and stay sequential.
func (s *Service) lookupAll(ctx context.Context, lang string, source Source, ids []string) ([]string, error) {
	texts := make([]string, len(ids))

	if source == SourceLocal || len(ids) == 1 {
		for i, id := range ids {
			text, err := s.lookup(ctx, lang, source, id)
			if err != nil {
				return nil, err
			}
			texts[i] = text
		}
		return texts, nil
	}

	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			texts[i], errs[i] = s.lookup(ctx, lang, source, id)
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return texts, nil
}

func (s *Service) lookup(ctx context.Context, lang string, source Source, verseID string) (string, error) {
	if source == SourceLocal {
		return s.lookupLocal(ctx, lang, verseID)
	}
	return s.lookupRemote(ctx, lang, verseID)
}

func (s *Service) lookupLocal(ctx context.Context, lang, verseID string) (string, error) {
	text, err := s.local.VerseText(ctx, lang, verseID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrVerseNotFound):
			return "", fmt.Errorf("%w: %s", ErrVerseNotFound, verseID)
		case errors.Is(err, store.ErrLoadFailed):
			return "", fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
		}
		return "", err
	}
	return text, nil
}

func (s *Service) lookupRemote(ctx context.Context, lang, verseID string) (string, error) {
	if s.cache != nil {
		if text, ok := s.cache.Get(ctx, lang, verseID); ok {
			return text, nil
		}
	}

	markup, err := s.fetcher.FetchVerseMarkup(ctx, lang, verseID)
	if err != nil {
		var statusErr *nwt.StatusError
		switch {
		case errors.Is(err, nwt.ErrVerseNotFound):
			return "", fmt.Errorf("%w: %s", ErrVerseNotFound, verseID)
		case errors.Is(err, nwt.ErrTimeout):
			return "", ErrUpstreamTimeout
		case errors.As(err, &statusErr):
			return "", fmt.Errorf("%w: status %d", ErrUpstreamFailed, statusErr.Code)
		}
		return "", fmt.Errorf("%w: %v", ErrUpstreamFailed, err)
	}

	text := s.cleaner.CleanToPlainText(markup)
	if text == "" {
		return "", fmt.Errorf("%w: %s", ErrVerseNotFound, verseID)
	}

	if s.cache != nil {
		s.cache.Set(ctx, lang, verseID, text)
	}
	return text, nil
}
