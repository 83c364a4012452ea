package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-agent/backend/internal/metrics"
	"github.com/spec-agent/backend/pkg/logger"
)

type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// SetEvaluation caches a scored specification response under the prompt hash.
func (c *Client) SetEvaluation(ctx context.Context, promptHash string, response interface{}, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation: %w", err)
	}

	err = c.client.Set(ctx, fmt.Sprintf("eval:%s", promptHash), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set evaluation cache: %w", err)
	}

	logger.Debug("Evaluation cached", zap.String("prompt_hash", promptHash), zap.Duration("ttl", ttl))
	return nil
}

func (c *Client) GetEvaluation(ctx context.Context, promptHash string, response interface{}) (bool, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf("eval:%s", promptHash)).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.WithLabelValues("evaluation").Inc()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get evaluation cache: %w", err)
	}

	err = json.Unmarshal(data, response)
	if err != nil {
		return false, fmt.Errorf("failed to unmarshal evaluation: %w", err)
	}

	metrics.CacheHits.WithLabelValues("evaluation").Inc()
	logger.Debug("Evaluation cache hit", zap.String("prompt_hash", promptHash))
	return true, nil
}

// InvalidateEvaluations drops all cached evaluations, e.g. after the scoring
// rubric or rule set changes.
func (c *Client) InvalidateEvaluations(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "eval:*", 0).Iterator()
	for iter.Next(ctx) {
		err := c.client.Del(ctx, iter.Val()).Err()
		if err != nil {
			logger.Warn("Failed to delete cache key", zap.Error(err))
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to iterate cache keys: %w", err)
	}

	logger.Info("Evaluation cache invalidated")
	return nil
}

func (c *Client) IncrementCounter(ctx context.Context, name string) error {
	return c.client.Incr(ctx, fmt.Sprintf("counter:%s", name)).Err()
}

func (c *Client) GetCounter(ctx context.Context, name string) (int64, error) {
	val, err := c.client.Get(ctx, fmt.Sprintf("counter:%s", name)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}
