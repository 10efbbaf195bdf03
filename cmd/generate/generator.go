package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go"

	"github.com/Marcoluik/Biblenotes/internal/bible"
	"github.com/Marcoluik/Biblenotes/internal/mailer"
	"github.com/Marcoluik/Biblenotes/internal/nwt"
)

// chapterFetcher is what the generator needs from the remote client; an
// interface so tests can run without the network.
type chapterFetcher interface {
	FetchChapter(ctx context.Context, lang string, ordinal, chapter int) ([]nwt.ChapterVerse, error)
}

type generator struct {
	cfg     config
	fetcher chapterFetcher
	cleaner *nwt.Cleaner
	logger  *slog.Logger

	// verses is the dataset under construction, keyed by verse id.
	verses map[string]string
}

func newGenerator(cfg config, fetcher chapterFetcher, cleaner *nwt.Cleaner, logger *slog.Logger) *generator {
	return &generator{
		cfg:     cfg,
		fetcher: fetcher,
		cleaner: cleaner,
		logger:  logger,
		verses:  make(map[string]string),
	}
}

func (g *generator) datasetPath() string {
	return filepath.Join(g.cfg.outputDir, g.cfg.lang+".json")
}

// run walks the configured book range chapter by chapter. The dataset
// flushes to disk after every book, so a crash mid-run loses at most
// one book of work.
func (g *generator) run(ctx context.Context) (mailer.RunReport, error) {
	report := mailer.RunReport{
		Lang:      g.cfg.lang,
		StartedAt: time.Now(),
	}

	if err := g.loadExisting(); err != nil {
		return report, err
	}

	for ordinal := g.cfg.startBook; ordinal <= g.cfg.endBook; ordinal++ {
		book, _ := bible.ByOrdinal(ordinal)
		g.logger.Info("processing book", "book", book.Name(g.cfg.lang), "ordinal", ordinal)

		for chapter := 1; chapter <= bible.Chapters(ordinal); chapter++ {
			if ctx.Err() != nil {
				report.Duration = time.Since(report.StartedAt)
				return report, ctx.Err()
			}

			// Resume check: a chapter whose first verse is present was
			// fetched by an earlier run.
			if _, ok := g.verses[bible.VerseID(ordinal, chapter, 1)]; ok {
				report.ChaptersSkipped++
				continue
			}

			verses, err := g.fetchChapter(ctx, ordinal, chapter)
			if err != nil {
				failure := fmt.Sprintf("chapter %d/%d: %v", ordinal, chapter, err)
				report.Failures = append(report.Failures, failure)
				g.logger.Warn("chapter fetch failed", "book", ordinal, "chapter", chapter, "error", err)
				continue
			}

			for _, v := range verses {
				text := g.cleaner.CleanToPlainText(v.Markup)
				if text == "" {
					continue
				}
				g.verses[v.ID] = text
				report.VersesWritten++
			}
			report.ChaptersFetched++

			if err := g.pause(ctx); err != nil {
				report.Duration = time.Since(report.StartedAt)
				return report, err
			}
		}

		if err := g.flush(); err != nil {
			return report, err
		}
		report.BooksProcessed++
	}

	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

// loadExisting reads a previous run's dataset so its chapters are
// skipped. A missing file just means a fresh start.
func (g *generator) loadExisting() error {
	raw, err := os.ReadFile(g.datasetPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := json.Unmarshal(raw, &g.verses); err != nil {
		return fmt.Errorf("existing dataset %s is corrupt: %w", g.datasetPath(), err)
	}

	g.logger.Info("resuming from existing dataset", "verses", len(g.verses))
	return nil
}

func (g *generator) fetchChapter(ctx context.Context, ordinal, chapter int) ([]nwt.ChapterVerse, error) {
	var verses []nwt.ChapterVerse

	err := retry.Do(
		func() error {
			var err error
			verses, err = g.fetcher.FetchChapter(ctx, g.cfg.lang, ordinal, chapter)
			return err
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		// A chapter the source does not have will not appear on retry.
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, nwt.ErrVerseNotFound)
		}),
	)
	return verses, err
}

func (g *generator) pause(ctx context.Context) error {
	if g.cfg.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(g.cfg.delay):
		return nil
	}
}

func (g *generator) marshalDataset() ([]byte, error) {
	return json.Marshal(g.verses)
}

// flush writes the dataset via a temp file and rename so a crash never
// leaves a half-written file where the resume logic will find it.
func (g *generator) flush() error {
	if err := os.MkdirAll(g.cfg.outputDir, 0o755); err != nil {
		return err
	}

	data, err := g.marshalDataset()
	if err != nil {
		return err
	}

	tmp := g.datasetPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, g.datasetPath())
}
