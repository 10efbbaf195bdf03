package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	PoolSize int
}

// RedisCache is a VerseCache backed by Redis, for deployments where
// several instances should share one fetch cache. Redis errors degrade
// to cache misses; the resolver then just refetches.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(cfg RedisConfig, ttl time.Duration, logger *slog.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: 5,

		// Timeouts
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		// Retry configuration
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) verseKey(lang, verseID string) string {
	return fmt.Sprintf("verse:%s:%s", lang, verseID)
}

func (r *RedisCache) Get(ctx context.Context, lang, verseID string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	text, err := r.client.Get(ctx, r.verseKey(lang, verseID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Error("redis get failed", "error", err)
		}
		return "", false
	}

	return text, true
}

func (r *RedisCache) Set(ctx context.Context, lang, verseID, text string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := r.client.Set(ctx, r.verseKey(lang, verseID), text, r.ttl).Err()
	if err != nil {
		r.logger.Error("redis set failed", "error", err)
	}
}
