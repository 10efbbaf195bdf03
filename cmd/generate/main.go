// The generate command builds the bulk verse dataset: it walks the
// whole canon chapter by chapter, fetches each chapter from the remote
// source, cleans the markup and writes <lang>.json. Runs resume where
// the last one stopped, so an interrupted run costs nothing but time.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/Marcoluik/Biblenotes/internal/mailer"
	"github.com/Marcoluik/Biblenotes/internal/nwt"
	"github.com/Marcoluik/Biblenotes/internal/s3service"
	"github.com/Marcoluik/Biblenotes/internal/store"
)

type config struct {
	lang      string
	outputDir string
	delay     time.Duration

	startBook int
	endBook   int

	source struct {
		baseURL        string
		englishTimeout time.Duration
		danishTimeout  time.Duration
	}

	s3 struct {
		bucket string
		region string
	}

	db struct {
		dsn string
	}

	smtp struct {
		host      string
		port      int
		username  string
		password  string
		sender    string
		recipient string
	}
}

func main() {
	var cfg config

	flag.StringVar(&cfg.lang, "lang", "en", "Dataset language (en|da)")
	flag.StringVar(&cfg.outputDir, "output-dir", "data", "Directory for the <lang>.json dataset")
	flag.DurationVar(&cfg.delay, "delay", 250*time.Millisecond, "Pause between chapter fetches")

	flag.IntVar(&cfg.startBook, "start-book", 1, "First book ordinal to process")
	flag.IntVar(&cfg.endBook, "end-book", 66, "Last book ordinal to process")

	flag.StringVar(&cfg.source.baseURL, "source-base-url", "", "Remote verse source base URL (default production host)")
	// Chapter batches are bigger than single-verse fetches, so the
	// timeouts run longer than the API's defaults.
	flag.DurationVar(&cfg.source.englishTimeout, "source-en-timeout", 20*time.Second, "Remote fetch timeout, English")
	flag.DurationVar(&cfg.source.danishTimeout, "source-da-timeout", 20*time.Second, "Remote fetch timeout, Danish")

	flag.StringVar(&cfg.s3.bucket, "s3-bucket", "", "Upload the finished dataset to this S3 bucket")
	flag.StringVar(&cfg.s3.region, "s3-region", "us-east-1", "S3 region for the dataset bucket")

	flag.StringVar(&cfg.db.dsn, "db-dsn", "", "Mirror the dataset into this PostgreSQL database")

	flag.StringVar(&cfg.smtp.host, "smtp-host", "", "SMTP host for the run report (empty disables mail)")
	flag.IntVar(&cfg.smtp.port, "smtp-port", 25, "SMTP port")
	flag.StringVar(&cfg.smtp.username, "smtp-username", "", "SMTP username")
	flag.StringVar(&cfg.smtp.password, "smtp-password", "", "SMTP password")
	flag.StringVar(&cfg.smtp.sender, "smtp-sender", "no-reply@biblenotes.net", "SMTP sender")
	flag.StringVar(&cfg.smtp.recipient, "report-recipient", "", "Run report recipient")

	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if cfg.lang != "en" && cfg.lang != "da" {
		logger.Error("invalid lang", "value", cfg.lang)
		os.Exit(1)
	}
	if cfg.startBook < 1 || cfg.endBook > 66 || cfg.startBook > cfg.endBook {
		logger.Error("invalid book range", "start", cfg.startBook, "end", cfg.endBook)
		os.Exit(1)
	}

	// A second interrupt kills the process; the first one lets the
	// current book finish and flush.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := nwt.NewClient(nwt.Config{
		BaseURL:        cfg.source.baseURL,
		EnglishTimeout: cfg.source.englishTimeout,
		DanishTimeout:  cfg.source.danishTimeout,
	}, logger)

	gen := newGenerator(cfg, client, nwt.NewCleaner(logger), logger)

	report, err := gen.run(ctx)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	if err := publish(ctx, cfg, gen, report, logger); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	logger.Info("generation finished",
		"lang", report.Lang,
		"books", report.BooksProcessed,
		"chapters_fetched", report.ChaptersFetched,
		"chapters_skipped", report.ChaptersSkipped,
		"verses_written", report.VersesWritten,
		"failures", len(report.Failures),
		"duration", report.Duration.String())
}

// publish ships the finished dataset to its optional destinations: S3,
// Postgres, and the mailed run report.
func publish(ctx context.Context, cfg config, gen *generator, report mailer.RunReport, logger *slog.Logger) error {
	if cfg.s3.bucket != "" {
		s3Config, err := s3service.NewS3Config(ctx, cfg.s3.bucket, cfg.s3.region)
		if err != nil {
			return err
		}
		dataset, err := gen.marshalDataset()
		if err != nil {
			return err
		}
		key, err := s3service.NewS3DatasetService(s3Config).UploadDataset(ctx, cfg.lang, dataset)
		if err != nil {
			return err
		}
		logger.Info("dataset uploaded", "bucket", cfg.s3.bucket, "key", key)
	}

	if cfg.db.dsn != "" {
		db, err := sql.Open("postgres", cfg.db.dsn)
		if err != nil {
			return err
		}
		defer db.Close()

		err = store.NewPGStore(db).InsertVerses(ctx, cfg.lang, gen.verses)
		if err != nil {
			return err
		}
		logger.Info("dataset mirrored to database", "verses", len(gen.verses))
	}

	if cfg.smtp.host != "" && cfg.smtp.recipient != "" {
		m, err := mailer.New(mailer.Config{
			Host:     cfg.smtp.host,
			Port:     cfg.smtp.port,
			Username: cfg.smtp.username,
			Password: cfg.smtp.password,
			Sender:   cfg.smtp.sender,
		})
		if err != nil {
			return err
		}
		if err := m.SendRunReport(ctx, cfg.smtp.recipient, report); err != nil {
			return err
		}
		logger.Info("run report sent", "recipient", cfg.smtp.recipient)
	}

	return nil
}
