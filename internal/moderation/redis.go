package moderation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisWordSource keeps the banned word list in a Redis set so several API
// instances share it without hitting the database on every read
type RedisWordSource struct {
	client *redis.Client
	key    string
}

// NewRedisWordSource connects to Redis and returns a source backed by the set at key
func NewRedisWordSource(redisURL, key string) (*RedisWordSource, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisWordSource{client: client, key: key}, nil
}

// NewRedisWordSourceWithClient creates a source from an existing Redis client
func NewRedisWordSourceWithClient(client *redis.Client, key string) *RedisWordSource {
	return &RedisWordSource{client: client, key: key}
}

// BannedWords returns the members of the set, sorted
func (s *RedisWordSource) BannedWords(ctx context.Context) ([]string, error) {
	words, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("read banned words: %w", err)
	}
	sort.Strings(words)
	return words, nil
}

// Add puts a word into the set
func (s *RedisWordSource) Add(ctx context.Context, word string) error {
	if err := s.client.SAdd(ctx, s.key, word).Err(); err != nil {
		return fmt.Errorf("add banned word: %w", err)
	}
	return nil
}

// Remove takes a word out of the set
func (s *RedisWordSource) Remove(ctx context.Context, word string) error {
	if err := s.client.SRem(ctx, s.key, word).Err(); err != nil {
		return fmt.Errorf("remove banned word: %w", err)
	}
	return nil
}

// Replace swaps the whole set for words in one MULTI/EXEC block
func (s *RedisWordSource) Replace(ctx context.Context, words []string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(words) > 0 {
			members := make([]interface{}, len(words))
			for i, w := range words {
				members[i] = w
			}
			pipe.SAdd(ctx, s.key, members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace banned words: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (s *RedisWordSource) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisWordSource) Close() error {
	return s.client.Close()
}
