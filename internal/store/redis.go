package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vaarthai/vithai/internal/models"
)

const verseTTL = 24 * time.Hour

// RedisStore caches the daily verse so every visitor on the same day sees
// the same one and the provider is called at most once per language.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// verseKey returns the key for a language's verse on day.
func verseKey(lang models.Language, day time.Time) string {
	return fmt.Sprintf("verse:%s:%s", lang, day.Format("2006-01-02"))
}

// GetVerse returns the cached verse, or nil when there is none.
func (s *RedisStore) GetVerse(ctx context.Context, lang models.Language, day time.Time) (*models.DailyVerse, error) {
	data, err := s.client.Get(ctx, verseKey(lang, day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var v models.DailyVerse
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SetVerse caches v for lang on day.
func (s *RedisStore) SetVerse(ctx context.Context, lang models.Language, day time.Time, v models.DailyVerse) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, verseKey(lang, day), data, verseTTL).Err()
}
