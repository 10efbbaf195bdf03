package resolver

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marcoluik/Biblenotes/internal/nwt"
	"github.com/Marcoluik/Biblenotes/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStore struct {
	verses map[string]string
	err    error
}

func (s *fakeStore) VerseText(_ context.Context, lang, verseID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	text, ok := s.verses[lang+":"+verseID]
	if !ok {
		return "", store.ErrVerseNotFound
	}
	return text, nil
}

type fakeFetcher struct {
	mu      sync.Mutex
	markup  map[string]string
	err     error
	fetches []string
}

func (f *fakeFetcher) FetchVerseMarkup(_ context.Context, lang, verseID string) (string, error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, verseID)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	markup, ok := f.markup[verseID]
	if !ok {
		return "", nwt.ErrVerseNotFound
	}
	return markup, nil
}

// passthroughCleaner skips the HTML machinery so tests control the text
// exactly.
type passthroughCleaner struct{}

func (passthroughCleaner) CleanToPlainText(markup string) string { return markup }

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	sets    int
}

func (c *fakeCache) Get(_ context.Context, lang, verseID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.entries[lang+":"+verseID]
	return text, ok
}

func (c *fakeCache) Set(_ context.Context, lang, verseID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]string)
	}
	c.entries[lang+":"+verseID] = text
	c.sets++
}

func newService(local store.Store, fetcher Fetcher, verseCache *fakeCache) *Service {
	if verseCache == nil {
		return New(local, fetcher, passthroughCleaner{}, nil, discardLogger())
	}
	return New(local, fetcher, passthroughCleaner{}, verseCache, discardLogger())
}

func TestResolveLocalSingleVerse(t *testing.T) {
	local := &fakeStore{verses: map[string]string{
		"en:43003016": "For God loved the world so much",
	}}
	svc := newService(local, &fakeFetcher{}, nil)

	result, err := svc.Resolve(context.Background(), "John 3:16", "en", SourceLocal)
	require.NoError(t, err)

	assert.Equal(t, "John 3:16", result.Reference)
	assert.Equal(t, "John", result.Book)
	assert.Equal(t, 43, result.BookOrdinal)
	assert.Equal(t, 3, result.Chapter)
	assert.Equal(t, 16, result.StartVerse)
	assert.Zero(t, result.EndVerse)
	assert.Equal(t, "For God loved the world so much", result.Text)
	assert.False(t, result.Defaulted)
}

func TestResolvePartialReferenceDefaults(t *testing.T) {
	local := &fakeStore{verses: map[string]string{
		"en:1001001": "In the beginning God created the heavens and the earth.",
	}}
	svc := newService(local, &fakeFetcher{}, nil)

	result, err := svc.Resolve(context.Background(), "Genesis", "en", SourceLocal)
	require.NoError(t, err)

	assert.Equal(t, "Genesis 1:1", result.Reference)
	assert.Equal(t, 1, result.Chapter)
	assert.Equal(t, 1, result.StartVerse)
	assert.True(t, result.Defaulted)
	assert.Equal(t, "In the beginning God created the heavens and the earth.", result.Text)
}

func TestResolveRangeJoinsInOrder(t *testing.T) {
	local := &fakeStore{verses: map[string]string{
		"en:46013004": "Love is patient and kind.",
		"en:46013005": "It does not behave indecently.",
		"en:46013006": "It does not rejoice over unrighteousness.",
		"en:46013007": "It bears all things.",
	}}
	svc := newService(local, &fakeFetcher{}, nil)

	result, err := svc.Resolve(context.Background(), "1 Cor 13:4-7", "en", SourceLocal)
	require.NoError(t, err)

	assert.Equal(t, 4, result.StartVerse)
	assert.Equal(t, 7, result.EndVerse)
	assert.Equal(t, "1 Corinthians 13:4-7", result.Reference)
	assert.Equal(t,
		"Love is patient and kind. It does not behave indecently. It does not rejoice over unrighteousness. It bears all things.",
		result.Text)
}

func TestResolveDegenerateRangeUsesStartVerse(t *testing.T) {
	local := &fakeStore{verses: map[string]string{
		"en:43003016": "For God loved the world so much",
	}}
	svc := newService(local, &fakeFetcher{}, nil)

	result, err := svc.Resolve(context.Background(), "John 3:16-12", "en", SourceLocal)
	require.NoError(t, err)

	assert.Zero(t, result.EndVerse)
	assert.Equal(t, "John 3:16", result.Reference)
	assert.Equal(t, "For God loved the world so much", result.Text)
}

func TestResolveUnparseableReference(t *testing.T) {
	svc := newService(&fakeStore{}, &fakeFetcher{}, nil)

	_, err := svc.Resolve(context.Background(), "Xyzzy 3:16", "en", SourceLocal)
	assert.ErrorIs(t, err, ErrUnparseableReference)
}

func TestResolveLocalMiss(t *testing.T) {
	svc := newService(&fakeStore{}, &fakeFetcher{}, nil)

	_, err := svc.Resolve(context.Background(), "John 3:16", "en", SourceLocal)
	assert.ErrorIs(t, err, ErrVerseNotFound)
}

func TestResolveLocalLoadFailure(t *testing.T) {
	svc := newService(&fakeStore{err: store.ErrLoadFailed}, &fakeFetcher{}, nil)

	_, err := svc.Resolve(context.Background(), "John 3:16", "en", SourceLocal)
	assert.ErrorIs(t, err, ErrDatasetUnavailable)
}

func TestResolveLocalMissDoesNotFetchRemote(t *testing.T) {
	fetcher := &fakeFetcher{markup: map[string]string{
		"43003016": "For God loved the world so much",
	}}
	svc := newService(&fakeStore{}, fetcher, nil)

	_, err := svc.Resolve(context.Background(), "John 3:16", "en", SourceLocal)
	assert.ErrorIs(t, err, ErrVerseNotFound)
	assert.Empty(t, fetcher.fetches)
}

func TestResolveRemoteSingleVerse(t *testing.T) {
	fetcher := &fakeFetcher{markup: map[string]string{
		"43003016": "For God loved the world so much",
	}}
	svc := newService(&fakeStore{}, fetcher, nil)

	result, err := svc.Resolve(context.Background(), "John 3:16", "en", SourceRemote)
	require.NoError(t, err)

	assert.Equal(t, "For God loved the world so much", result.Text)
	assert.Equal(t, SourceRemote, result.Source)
}

func TestResolveRemoteRangeOrderedDespiteConcurrency(t *testing.T) {
	fetcher := &fakeFetcher{markup: map[string]string{
		"46013004": "Love is patient and kind.",
		"46013005": "It does not behave indecently.",
		"46013006": "It does not rejoice over unrighteousness.",
		"46013007": "It bears all things.",
	}}
	svc := newService(&fakeStore{}, fetcher, nil)

	result, err := svc.Resolve(context.Background(), "1 Corinthians 13:4-7", "en", SourceRemote)
	require.NoError(t, err)

	assert.Equal(t,
		"Love is patient and kind. It does not behave indecently. It does not rejoice over unrighteousness. It bears all things.",
		result.Text)
	assert.Len(t, fetcher.fetches, 4)
}

func TestResolveRemoteErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"not found", nwt.ErrVerseNotFound, ErrVerseNotFound},
		{"timeout", nwt.ErrTimeout, ErrUpstreamTimeout},
		{"bad status", &nwt.StatusError{Code: 403}, ErrUpstreamFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(&fakeStore{}, &fakeFetcher{err: tt.err}, nil)

			_, err := svc.Resolve(context.Background(), "John 3:16", "en", SourceRemote)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolveRemoteEmptyCleanedTextIsNotFound(t *testing.T) {
	fetcher := &fakeFetcher{markup: map[string]string{"43003016": ""}}
	svc := newService(&fakeStore{}, fetcher, nil)

	_, err := svc.Resolve(context.Background(), "John 3:16", "en", SourceRemote)
	assert.ErrorIs(t, err, ErrVerseNotFound)
}

func TestResolveRemoteUsesCache(t *testing.T) {
	fetcher := &fakeFetcher{markup: map[string]string{
		"43003016": "For God loved the world so much",
	}}
	verseCache := &fakeCache{}
	svc := newService(&fakeStore{}, fetcher, verseCache)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "John 3:16", "en", SourceRemote)
	require.NoError(t, err)
	require.Len(t, fetcher.fetches, 1)
	assert.Equal(t, 1, verseCache.sets)

	// Second resolve is served from the cache.
	result, err := svc.Resolve(ctx, "John 3:16", "en", SourceRemote)
	require.NoError(t, err)
	assert.Equal(t, "For God loved the world so much", result.Text)
	assert.Len(t, fetcher.fetches, 1)
}

func TestResolveDanishBookName(t *testing.T) {
	local := &fakeStore{verses: map[string]string{
		"da:66021004": "Og han vil tørre hver tåre af deres øjne",
	}}
	svc := newService(local, &fakeFetcher{}, nil)

	result, err := svc.Resolve(context.Background(), "Åbenbaringen 21:4", "da", SourceLocal)
	require.NoError(t, err)

	assert.Equal(t, 66, result.BookOrdinal)
	assert.Equal(t, "Åbenbaringen 21:4", result.Reference)
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		in   string
		want Source
		ok   bool
	}{
		{"local", SourceLocal, true},
		{"remote", SourceRemote, true},
		{"", SourceLocal, true},
		{"both", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSource(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
