package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CacheService holds short-lived server-side state: token versions and
// request locks. Profiles are never cached here; callers keep their own copy.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
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
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Token versions

func (s *CacheService) GetTokenVersion(ctx context.Context, identityID uuid.UUID) (int, bool, error) {
	val, err := s.client.Get(ctx, GenerateKey(EntityIdentity, KeyTokenVersion, identityID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get token version: %w", err)
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt token version %q: %w", val, err)
	}
	return v, true, nil
}

func (s *CacheService) SetTokenVersion(ctx context.Context, identityID uuid.UUID, version int) error {
	return s.client.Set(ctx, GenerateKey(EntityIdentity, KeyTokenVersion, identityID), version, s.ttl).Err()
}

func (s *CacheService) InvalidateTokenVersion(ctx context.Context, identityID uuid.UUID) error {
	return s.Delete(ctx, GenerateKey(EntityIdentity, KeyTokenVersion, identityID))
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
