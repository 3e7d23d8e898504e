package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"productInfoAgent/business/voice"
	"productInfoAgent/domain"
	"time"

	"github.com/redis/go-redis/v9"
)

// VoiceCacheRepository keeps each session's clips in a hash, with a list
// recording insertion order for eviction. Both keys expire with the session.
type VoiceCacheRepository struct {
	client   *redis.Client
	ttl      time.Duration
	capacity int
}

var _ voice.SessionCache = (*VoiceCacheRepository)(nil)

func NewVoiceCacheRepository(client *redis.Client, ttl time.Duration) *VoiceCacheRepository {
	return &VoiceCacheRepository{
		client:   client,
		ttl:      ttl,
		capacity: voice.MaxEntriesPerSession,
	}
}

func entriesKey(sessionID string) string {
	return fmt.Sprintf("voice:session:%s:entries", sessionID)
}

func orderKey(sessionID string) string {
	return fmt.Sprintf("voice:session:%s:order", sessionID)
}

func (r *VoiceCacheRepository) Get(ctx context.Context, sessionID, key string) (domain.VoiceCacheEntry, bool, error) {
	val, err := r.client.HGet(ctx, entriesKey(sessionID), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.VoiceCacheEntry{}, false, nil
		}
		return domain.VoiceCacheEntry{}, false, fmt.Errorf("failed to get voice entry from Redis: %w", err)
	}

	var entry domain.VoiceCacheEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return domain.VoiceCacheEntry{}, false, fmt.Errorf("failed to unmarshal voice entry: %w", err)
	}

	return entry, true, nil
}

func (r *VoiceCacheRepository) Put(ctx context.Context, sessionID, key string, entry domain.VoiceCacheEntry) error {
	jsonData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal voice entry: %w", err)
	}

	hashKey := entriesKey(sessionID)
	listKey := orderKey(sessionID)

	exists, err := r.client.HExists(ctx, hashKey, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check voice entry: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hashKey, key, jsonData)
		if !exists {
			pipe.RPush(ctx, listKey, key)
		}
		if r.ttl > 0 {
			pipe.Expire(ctx, hashKey, r.ttl)
			pipe.Expire(ctx, listKey, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store voice entry in Redis: %w", err)
	}

	return r.evict(ctx, hashKey, listKey)
}

// evict drops the oldest keys beyond capacity.
func (r *VoiceCacheRepository) evict(ctx context.Context, hashKey, listKey string) error {
	size, err := r.client.LLen(ctx, listKey).Result()
	if err != nil {
		return fmt.Errorf("failed to read voice order: %w", err)
	}
	overflow := size - int64(r.capacity)
	if overflow <= 0 {
		return nil
	}

	stale, err := r.client.LRange(ctx, listKey, 0, overflow-1).Result()
	if err != nil {
		return fmt.Errorf("failed to read voice order: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, hashKey, stale...)
		pipe.LTrim(ctx, listKey, overflow, -1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to evict voice entries: %w", err)
	}

	return nil
}

func (r *VoiceCacheRepository) Delete(ctx context.Context, sessionID, key string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, entriesKey(sessionID), key)
		pipe.LRem(ctx, orderKey(sessionID), 0, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete voice entry: %w", err)
	}
	return nil
}
