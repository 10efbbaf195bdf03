// Package nwt talks to the undocumented study-bible JSON endpoint of the
// upstream website. The endpoint has no public contract; the envelope
// parsing and browser-mimicking headers live here so callers never see
// its shape.
package nwt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Marcoluik/Biblenotes/internal/bible"
)

var (
	// ErrVerseNotFound means the upstream answered but had no content
	// for the requested id.
	ErrVerseNotFound = errors.New("verse not found at source")

	// ErrTimeout means the per-request deadline elapsed before the
	// upstream answered.
	ErrTimeout = errors.New("source request timed out")
)

// StatusError is a non-200 answer from the upstream.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("source returned status %d", e.Code)
}

// The source rejects requests that do not look like a browser.
const (
	defaultBaseURL = "https://www.jw.org"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Config carries the knobs a deployment tunes: the host (overridable for
// tests), and per-language request timeouts. The Danish mirror is slower
// in practice, hence the larger default.
type Config struct {
	BaseURL        string
	EnglishTimeout time.Duration
	DanishTimeout  time.Duration
}

type Client struct {
	http   *resty.Client
	cfg    Config
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.EnglishTimeout == 0 {
		cfg.EnglishTimeout = 10 * time.Second
	}
	if cfg.DanishTimeout == 0 {
		cfg.DanishTimeout = 15 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("Accept", "application/json, text/plain, */*")
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Referer", defaultBaseURL+"/")

	return &Client{http: client, cfg: cfg, logger: logger}
}

// Language-specific path templates. The Danish book segment is kept in
// its URL-encoded form because that is what the source serves.
func versePath(lang string) string {
	if lang == bible.LangDanish {
		return "/da/bibliotek/bibelen/studiebibel/b%C3%B8ger/json/html/"
	}
	return "/en/library/bible/study-bible/books/json/html/"
}

func chapterPath(lang string) string {
	if lang == bible.LangDanish {
		return "/da/bibliotek/bibelen/studiebibel/b%C3%B8ger/json/data/"
	}
	return "/en/library/bible/study-bible/books/json/data/"
}

func (c *Client) timeout(lang string) time.Duration {
	if lang == bible.LangDanish {
		return c.cfg.DanishTimeout
	}
	return c.cfg.EnglishTimeout
}

func acceptLanguage(lang string) string {
	if lang == bible.LangDanish {
		return "da-DK,da;q=0.9,en;q=0.8"
	}
	return "en-US,en;q=0.9"
}

// The envelope shape of the source. Every field is optional in practice;
// check presence before trusting anything.
type envelope struct {
	Ranges map[string]rangeEntry `json:"ranges"`
}

type rangeEntry struct {
	HTML   string       `json:"html"`
	Verses []verseEntry `json:"verses"`
}

type verseEntry struct {
	VsID    string `json:"vsID"`
	Content string `json:"content"`
}

// ChapterVerse is one verse of a batched chapter fetch: the verse id as
// reported by the source and its raw markup.
type ChapterVerse struct {
	ID     string
	Markup string
}

// FetchVerseMarkup retrieves the raw markup of a single verse. The
// request carries its own per-language timeout, layered under any caller
// deadline so a timeout is reported rather than the caller being killed
// mid-flight.
func (c *Client) FetchVerseMarkup(ctx context.Context, lang, verseID string) (string, error) {
	var env envelope
	err := c.get(ctx, lang, versePath(lang)+verseID, &env)
	if err != nil {
		return "", err
	}

	entry, ok := env.Ranges[verseID]
	if !ok {
		return "", ErrVerseNotFound
	}
	if len(entry.Verses) > 0 && entry.Verses[0].Content != "" {
		return entry.Verses[0].Content, nil
	}
	if entry.HTML != "" {
		return entry.HTML, nil
	}
	return "", ErrVerseNotFound
}

// FetchChapter retrieves every verse of one chapter in a single batched
// call, as the offline generator does; far cheaper than per-verse calls.
func (c *Client) FetchChapter(ctx context.Context, lang string, ordinal, chapter int) ([]ChapterVerse, error) {
	rangeID := bible.ChapterRangeID(ordinal, chapter)

	var env envelope
	err := c.get(ctx, lang, chapterPath(lang)+rangeID, &env)
	if err != nil {
		return nil, err
	}

	entry, ok := env.Ranges[rangeID]
	if !ok || len(entry.Verses) == 0 {
		return nil, ErrVerseNotFound
	}

	verses := make([]ChapterVerse, 0, len(entry.Verses))
	for _, v := range entry.Verses {
		if v.VsID == "" {
			c.logger.Warn("chapter verse missing id", "range", rangeID, "lang", lang)
			continue
		}
		verses = append(verses, ChapterVerse{ID: v.VsID, Markup: v.Content})
	}
	return verses, nil
}

func (c *Client) get(ctx context.Context, lang, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout(lang))
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept-Language", acceptLanguage(lang)).
		Get(path)
	if err != nil {
		if isTimeout(err) {
			return ErrTimeout
		}
		return fmt.Errorf("source request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return &StatusError{Code: resp.StatusCode()}
	}

	// Decode from the raw body: the source is not consistent about its
	// Content-Type header, so resty's automatic unmarshalling is skipped.
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("malformed source response: %w", err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
