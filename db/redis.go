package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"simple-blog/models"
)

const (
	postsCacheKey      = "posts"
	postsGenerationKey = "posts:gen"
)

type RedisConfig struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	MinIdleConns int
	ReadTimeout  time.Duration
	MaxRetries   int
}

func DefaultRedisConfig(url string) RedisConfig {
	return RedisConfig{
		URL:          url,
		PoolSize:     10,
		DialTimeout:  30 * time.Second,
		MinIdleConns: 5,
		ReadTimeout:  30 * time.Second,
		MaxRetries:   3,
	}
}

func NewRedisClient(ctx context.Context, config RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DialTimeout = config.DialTimeout
	opt.PoolSize = config.PoolSize
	opt.MinIdleConns = config.MinIdleConns
	opt.ReadTimeout = config.ReadTimeout
	opt.MaxRetries = config.MaxRetries

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis server: %w", err)
	}

	log.Println("Redis connection initialized successfully.")
	return client, nil
}

// CachedStore serves the post list from Redis and falls back to the wrapped
// store on a miss. The list is cached under a key tied to a generation
// counter that Create bumps, so a snapshot read before a write can never be
// served after it. Cache failures are logged and never fail the request.
type CachedStore struct {
	next   PostStore
	client *redis.Client
	ttl    time.Duration
}

func NewCachedStore(next PostStore, client *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, client: client, ttl: ttl}
}

func listCacheKey(generation int64) string {
	return fmt.Sprintf("%s:%d", postsCacheKey, generation)
}

func (s *CachedStore) generation(ctx context.Context) (int64, error) {
	generation, err := s.client.Get(ctx, postsGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

func (s *CachedStore) Create(ctx context.Context, title, content string, imagePath *string) (*models.Post, error) {
	post, err := s.next.Create(ctx, title, content, imagePath)
	if err != nil {
		return nil, err
	}

	generation, err := s.client.Incr(ctx, postsGenerationKey).Result()
	if err != nil {
		log.Printf("error invalidating posts cache: %v", err)
		return post, nil
	}
	if err := s.client.Del(ctx, listCacheKey(generation-1)).Err(); err != nil {
		log.Printf("error deleting stale posts cache: %v", err)
	}
	return post, nil
}

func (s *CachedStore) ListAllDescending(ctx context.Context) ([]models.Post, error) {
	generation, err := s.generation(ctx)
	if err != nil {
		log.Printf("error fetching posts cache generation: %v", err)
		return s.next.ListAllDescending(ctx)
	}
	key := listCacheKey(generation)

	cachedData, err := s.client.Get(ctx, key).Bytes()
	if err == nil {
		var posts []models.Post
		decodeErr := json.Unmarshal(cachedData, &posts)
		if decodeErr == nil {
			return posts, nil
		}
		log.Printf("error unmarshalling cached posts data: %v", decodeErr)
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("error fetching posts from Redis cache: %v", err)
	}

	posts, err := s.next.ListAllDescending(ctx)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(posts)
	if err == nil {
		if err := s.client.Set(ctx, key, jsonData, s.ttl).Err(); err != nil {
			log.Printf("error caching posts: %v", err)
		}
	}

	return posts, nil
}

func (s *CachedStore) Close(ctx context.Context) error {
	cacheErr := s.client.Close()
	if err := s.next.Close(ctx); err != nil {
		return err
	}
	return cacheErr
}
