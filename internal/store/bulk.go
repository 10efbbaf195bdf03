package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-resty/resty/v2"
)

// Loader fetches the raw bulk dataset for one language: a single JSON
// object mapping verse ids to plain text.
type Loader interface {
	Load(ctx context.Context, lang string) ([]byte, error)
}

// FileLoader reads <dir>/<lang>.json from disk.
type FileLoader struct {
	Dir string
}

func (l FileLoader) Load(_ context.Context, lang string) ([]byte, error) {
	return os.ReadFile(filepath.Join(l.Dir, lang+".json"))
}

// HTTPLoader fetches <baseURL>/<lang>.json, for datasets served as a
// static asset.
type HTTPLoader struct {
	BaseURL string

	client *resty.Client
	once   sync.Once
}

func (l *HTTPLoader) Load(ctx context.Context, lang string) ([]byte, error) {
	l.once.Do(func() {
		l.client = resty.New().SetBaseURL(l.BaseURL)
	})

	resp, err := l.client.R().SetContext(ctx).Get("/" + lang + ".json")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("dataset fetch returned status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

type langLoad struct {
	done   chan struct{}
	verses map[string]string
	err    error
}

// BulkStore lazily loads one language's full dataset on first access and
// keeps it in memory for the process lifetime. Concurrent first accesses
// share a single in-flight load; a failed load is forgotten so the next
// access can retry.
type BulkStore struct {
	loader Loader
	logger *slog.Logger

	mu    sync.Mutex
	langs map[string]*langLoad
}

func NewBulkStore(loader Loader, logger *slog.Logger) *BulkStore {
	return &BulkStore{
		loader: loader,
		logger: logger,
		langs:  make(map[string]*langLoad),
	}
}

// VerseText looks the verse up, triggering the language's dataset load
// if it has not happened yet.
func (s *BulkStore) VerseText(ctx context.Context, lang, verseID string) (string, error) {
	load, err := s.ensureLoaded(ctx, lang)
	if err != nil {
		return "", err
	}

	text, ok := load.verses[verseID]
	if !ok {
		return "", ErrVerseNotFound
	}
	return text, nil
}

// Loaded reports whether the language's dataset is resident.
func (s *BulkStore) Loaded(lang string) bool {
	s.mu.Lock()
	load, ok := s.langs[lang]
	s.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case <-load.done:
		return load.err == nil
	default:
		return false
	}
}

func (s *BulkStore) ensureLoaded(ctx context.Context, lang string) (*langLoad, error) {
	s.mu.Lock()
	load, ok := s.langs[lang]
	if !ok {
		load = &langLoad{done: make(chan struct{})}
		s.langs[lang] = load
		go s.run(load, lang)
	}
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-load.done:
	}

	if load.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, load.err)
	}
	return load, nil
}

// run performs the actual load. It deliberately does not inherit the
// triggering request's context: other requests may be waiting on the
// same load, and the first caller hanging up should not fail them.
func (s *BulkStore) run(load *langLoad, lang string) {
	defer close(load.done)

	raw, err := s.loader.Load(context.Background(), lang)
	if err == nil {
		var verses map[string]string
		if jsonErr := json.Unmarshal(raw, &verses); jsonErr != nil {
			err = jsonErr
		} else {
			load.verses = verses
		}
	}

	if err != nil {
		load.err = err
		s.logger.Error("verse dataset load failed", "lang", lang, "error", err)

		// Forget the failed load so a later access retries.
		s.mu.Lock()
		delete(s.langs, lang)
		s.mu.Unlock()
		return
	}

	s.logger.Info("verse dataset loaded", "lang", lang, "verses", len(load.verses))
}
