package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisRecordStore keeps each key as a Redis string.
type RedisRecordStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisRecordStore constructs a Redis-backed store. The prefix namespaces keys.
func NewRedisRecordStore(client redis.Cmdable, prefix string) *RedisRecordStore {
	return &RedisRecordStore{client: client, prefix: prefix}
}

func (s *RedisRecordStore) redisKey(key Key) string {
	return s.prefix + string(key)
}

func (s *RedisRecordStore) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, true, nil
}

func (s *RedisRecordStore) Set(ctx context.Context, key Key, raw []byte) error {
	if err := s.client.Set(ctx, s.redisKey(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisRecordStore) Delete(ctx context.Context, key Key) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}
