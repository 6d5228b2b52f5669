package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"marketplace/internal/models"
	keys "marketplace/internal/utils/cache"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.misses.Add(1)
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	s.hits.Add(1)
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

var feeSettingsKey = keys.GenerateKey(keys.EntitySettings, keys.KeyName, "fees")

// Fee settings caching
func (s *CacheService) CacheFeeSettings(ctx context.Context, settings *models.FeeSettings) error {
	if settings == nil {
		return errors.New("cannot cache nil fee settings")
	}
	return s.Set(ctx, feeSettingsKey, settings)
}

func (s *CacheService) GetFeeSettings(ctx context.Context) (*models.FeeSettings, error) {
	var settings models.FeeSettings
	found, err := s.Get(ctx, feeSettingsKey, &settings)
	if err != nil || !found {
		return nil, err
	}
	return &settings, nil
}

func (s *CacheService) InvalidateFeeSettings(ctx context.Context) error {
	return s.Delete(ctx, feeSettingsKey)
}

// Banned-word list caching. Entries are keyed by list version so a version
// bump makes stale entries unreachable; they expire with the TTL.
func (s *CacheService) CacheBannedWords(ctx context.Context, version int64, words []models.BannedWord) error {
	return s.Set(ctx, keys.GenerateKey(keys.EntityBannedWords, keys.KeyVersion, version), words)
}

func (s *CacheService) GetBannedWords(ctx context.Context, version int64) ([]models.BannedWord, error) {
	var words []models.BannedWord
	found, err := s.Get(ctx, keys.GenerateKey(keys.EntityBannedWords, keys.KeyVersion, version), &words)
	if err != nil || !found {
		return nil, err
	}
	return words, nil
}

// Stats reports hit/miss counters and the Redis pool state.
func (s *CacheService) Stats() map[string]interface{} {
	hits, misses := s.hits.Load(), s.misses.Load()
	ratio := 0.0
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total) * 100
	}
	pool := s.client.PoolStats()
	return map[string]interface{}{
		"hits":        hits,
		"misses":      misses,
		"ratio":       ratio,
		"total_conns": pool.TotalConns,
		"idle_conns":  pool.IdleConns,
		"timeouts":    pool.Timeouts,
	}
}

// Ping checks the Redis connection.
func (s *CacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Flush deletes every key this service owns and resets the hit counters.
// Other keys in the Redis database are left alone. It returns the number of
// deleted keys per entity.
func (s *CacheService) Flush(ctx context.Context) (map[keys.EntityType]int64, error) {
	deleted := make(map[keys.EntityType]int64)
	for _, entity := range []keys.EntityType{keys.EntitySettings, keys.EntityBannedWords} {
		iter := s.client.Scan(ctx, 0, string(entity)+":*", 100).Iterator()
		for iter.Next(ctx) {
			key := iter.Val()
			if err := s.client.Del(ctx, key).Err(); err != nil {
				return deleted, fmt.Errorf("failed to delete cache key %s: %w", key, err)
			}
			if e, _, _, ok := keys.ParseKey(key); ok {
				deleted[e]++
			}
		}
		if err := iter.Err(); err != nil {
			return deleted, fmt.Errorf("failed to scan cache keys: %w", err)
		}
	}
	s.hits.Store(0)
	s.misses.Store(0)
	return deleted, nil
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
