package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"maintenance-prediction-api/config"

	"github.com/redis/go-redis/v9"
)

// LiveChannel carries freshly labeled records for live consumers.
const LiveChannel = "maintenance:live"

// CacheService wraps an optional Redis client. When Redis is unconfigured or
// unreachable every method degrades to a no-op, so callers never branch on
// availability.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(cfg config.RedisConfig) *CacheService {
	if cfg.URL == "" {
		log.Printf("redis not configured, cache and live feed disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		log.Printf("invalid REDIS_URL, skipping redis: %v", err)
		return &CacheService{}
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis ping failed, skipping redis: %v", err)
		client.Close()
		return &CacheService{}
	}

	log.Printf("redis connected: %s", cfg.URL)
	return &CacheService{client: client}
}

func (s *CacheService) Available() bool {
	return s.client != nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if s.client == nil {
		return redis.Nil
	}
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Delete(ctx context.Context, key string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, key).Err()
}

func (s *CacheService) Publish(ctx context.Context, channel string, message interface{}) error {
	if s.client == nil {
		return nil
	}
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, channel, data).Err()
}

func (s *CacheService) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	if s.client == nil {
		return nil
	}
	return s.client.Subscribe(ctx, channel)
}

func (s *CacheService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
