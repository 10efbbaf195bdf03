package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/Marcoluik/Biblenotes/internal/cache"
	"github.com/Marcoluik/Biblenotes/internal/nwt"
	"github.com/Marcoluik/Biblenotes/internal/ratelimit"
	"github.com/Marcoluik/Biblenotes/internal/resolver"
	"github.com/Marcoluik/Biblenotes/internal/s3service"
	"github.com/Marcoluik/Biblenotes/internal/store"
)

var (
	version = "1.0.0"
)

type config struct {
	port int
	env  string

	defaultSource string

	dataset struct {
		dir      string
		url      string
		s3Bucket string
		s3Region string
	}

	db struct {
		dsn string
	}

	source struct {
		baseURL        string
		englishTimeout time.Duration
		danishTimeout  time.Duration
	}

	cache struct {
		ttl time.Duration
	}

	ratelimit struct {
		ipRateLimit int
	}

	redisConfig cache.RedisConfig
}

// verseResolver is what the handlers need from the resolver; an
// interface so handler tests can swap in a stub.
type verseResolver interface {
	Resolve(ctx context.Context, raw, lang string, source resolver.Source) (*resolver.Result, error)
}

type application struct {
	config        config
	logger        *slog.Logger
	resolver      verseResolver
	ipRateLimiter *ratelimit.Limiter
}

func main() {
	var cfg config

	flag.IntVar(&cfg.port, "port", 4000, "API server port")

	flag.StringVar(&cfg.env, "env", "development", "Environment (development|staging|production)")

	flag.StringVar(&cfg.defaultSource, "default-source", "local", "Verse source when the request names none (local|remote)")

	flag.StringVar(&cfg.dataset.dir, "dataset-dir", "data", "Directory holding <lang>.json verse datasets")
	flag.StringVar(&cfg.dataset.url, "dataset-url", "", "Base URL serving <lang>.json verse datasets (overrides dataset-dir)")
	flag.StringVar(&cfg.dataset.s3Bucket, "dataset-s3-bucket", "", "S3 bucket holding verse datasets (overrides dataset-dir and dataset-url)")
	flag.StringVar(&cfg.dataset.s3Region, "dataset-s3-region", "us-east-1", "S3 region for the dataset bucket")

	flag.StringVar(&cfg.db.dsn, "db-dsn", "", "PostgreSQL DSN; serves verses from the database instead of a bulk dataset")

	flag.StringVar(&cfg.source.baseURL, "source-base-url", "", "Remote verse source base URL (default production host)")
	flag.DurationVar(&cfg.source.englishTimeout, "source-en-timeout", 10*time.Second, "Remote fetch timeout, English")
	flag.DurationVar(&cfg.source.danishTimeout, "source-da-timeout", 15*time.Second, "Remote fetch timeout, Danish")

	flag.DurationVar(&cfg.cache.ttl, "cache-ttl", 24*time.Hour, "Remote fetch cache TTL")

	flag.IntVar(&cfg.ratelimit.ipRateLimit, "ip-rate-limit", 30, "IP rate limit per second")

	flag.StringVar(&cfg.redisConfig.Host, "redis-host", "", "Redis Host (empty uses the in-process cache)")
	flag.StringVar(&cfg.redisConfig.Port, "redis-port", "6379", "Redis Port")
	flag.StringVar(&cfg.redisConfig.Password, "redis-password", "", "Redis Password")
	flag.IntVar(&cfg.redisConfig.DB, "redis-db", 0, "Redis DB")
	flag.IntVar(&cfg.redisConfig.PoolSize, "redis-poolsize", 10, "Redis Pool Size")

	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if _, ok := resolver.ParseSource(cfg.defaultSource); !ok {
		logger.Error("invalid default-source", "value", cfg.defaultSource)
		os.Exit(1)
	}

	local, err := openLocalStore(cfg, logger)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	verseCache := openCache(cfg, logger)

	client := nwt.NewClient(nwt.Config{
		BaseURL:        cfg.source.baseURL,
		EnglishTimeout: cfg.source.englishTimeout,
		DanishTimeout:  cfg.source.danishTimeout,
	}, logger)
	cleaner := nwt.NewCleaner(logger)

	app := application{
		config:        cfg,
		logger:        logger,
		resolver:      resolver.New(local, client, cleaner, verseCache, logger),
		ipRateLimiter: ratelimit.New(cfg.ratelimit.ipRateLimit, time.Second),
	}

	err = app.serve()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// openLocalStore picks the local verse source: Postgres when a DSN is
// given, otherwise a lazily-loaded bulk dataset from S3, a URL, or
// disk.
func openLocalStore(cfg config, logger *slog.Logger) (store.Store, error) {
	if cfg.db.dsn != "" {
		db, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("serving verses from database")
		return store.NewPGStore(db), nil
	}

	var loader store.Loader
	switch {
	case cfg.dataset.s3Bucket != "":
		s3Config, err := s3service.NewS3Config(context.Background(), cfg.dataset.s3Bucket, cfg.dataset.s3Region)
		if err != nil {
			return nil, err
		}
		loader = s3service.NewS3DatasetService(s3Config)
		logger.Info("serving verses from S3 dataset", "bucket", cfg.dataset.s3Bucket)
	case cfg.dataset.url != "":
		loader = &store.HTTPLoader{BaseURL: cfg.dataset.url}
		logger.Info("serving verses from remote dataset", "url", cfg.dataset.url)
	default:
		loader = store.FileLoader{Dir: cfg.dataset.dir}
		logger.Info("serving verses from local dataset", "dir", cfg.dataset.dir)
	}

	return store.NewBulkStore(loader, logger), nil
}

func openCache(cfg config, logger *slog.Logger) cache.VerseCache {
	if cfg.redisConfig.Host == "" {
		return cache.NewMemoryCache(cfg.cache.ttl)
	}

	redisCache, err := cache.NewRedisCache(cfg.redisConfig, cfg.cache.ttl, logger)
	if err != nil {
		logger.Error("redis unavailable, falling back to in-process cache", "error", err)
		return cache.NewMemoryCache(cfg.cache.ttl)
	}

	logger.Info("Successful connection to redis")
	return redisCache
}

func openDB(cfg config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
