package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeLoader struct {
	loads atomic.Int32
	data  map[string][]byte
	err   error
	// delay simulates a slow dataset fetch.
	delay time.Duration
}

func (l *fakeLoader) Load(_ context.Context, lang string) ([]byte, error) {
	l.loads.Add(1)
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.data[lang], nil
}

func TestBulkStoreVerseText(t *testing.T) {
	loader := &fakeLoader{data: map[string][]byte{
		"en": []byte(`{"43003016":"For God loved the world","1001001":"In the beginning"}`),
	}}
	s := NewBulkStore(loader, discardLogger())
	ctx := context.Background()

	text, err := s.VerseText(ctx, "en", "43003016")
	require.NoError(t, err)
	assert.Equal(t, "For God loved the world", text)

	_, err = s.VerseText(ctx, "en", "66022021")
	assert.ErrorIs(t, err, ErrVerseNotFound)

	assert.True(t, s.Loaded("en"))
	assert.False(t, s.Loaded("da"))
}

func TestBulkStoreLoadsOncePerLanguage(t *testing.T) {
	loader := &fakeLoader{
		data:  map[string][]byte{"en": []byte(`{"1001001":"In the beginning"}`)},
		delay: 20 * time.Millisecond,
	}
	s := NewBulkStore(loader, discardLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := s.VerseText(ctx, "en", "1001001")
			assert.NoError(t, err)
			assert.Equal(t, "In the beginning", text)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), loader.loads.Load())
}

func TestBulkStoreFailedLoadIsRetried(t *testing.T) {
	loader := &fakeLoader{err: errors.New("network down")}
	s := NewBulkStore(loader, discardLogger())
	ctx := context.Background()

	_, err := s.VerseText(ctx, "en", "1001001")
	require.ErrorIs(t, err, ErrLoadFailed)

	// The failure must not be cached: fix the loader and try again.
	loader.err = nil
	loader.data = map[string][]byte{"en": []byte(`{"1001001":"In the beginning"}`)}

	text, err := s.VerseText(ctx, "en", "1001001")
	require.NoError(t, err)
	assert.Equal(t, "In the beginning", text)
	assert.GreaterOrEqual(t, loader.loads.Load(), int32(2))
}

func TestBulkStoreMalformedDataset(t *testing.T) {
	loader := &fakeLoader{data: map[string][]byte{"en": []byte(`not json`)}}
	s := NewBulkStore(loader, discardLogger())

	_, err := s.VerseText(context.Background(), "en", "1001001")
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestBulkStoreWaiterContextCancelled(t *testing.T) {
	loader := &fakeLoader{
		data:  map[string][]byte{"en": []byte(`{}`)},
		delay: 200 * time.Millisecond,
	}
	s := NewBulkStore(loader, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.VerseText(ctx, "en", "1001001")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
