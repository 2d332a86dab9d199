package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/HanTheDev/recruit-api/internal/llm"
	"github.com/redis/go-redis/v9"
)

// ResponseCache memoizes model responses by exact prompt. Cache failures are
// logged and never fail the generation itself.
type ResponseCache struct {
	next  llm.TextModel
	redis *redis.Client
	ttl   time.Duration
}

func NewResponseCache(next llm.TextModel, client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ResponseCache{
		next:  next,
		redis: client,
		ttl:   ttl,
	}
}

func (rc *ResponseCache) key(prompt string) string {
	return fmt.Sprintf("generation:prompt:%x", sha256.Sum256([]byte(prompt)))
}

func (rc *ResponseCache) GenerateContent(ctx context.Context, prompt string) (string, error) {
	key := rc.key(prompt)

	cached, err := rc.redis.Get(ctx, key).Result()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		log.Printf("Generation cache read failed: %v", err)
	}

	response, err := rc.next.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	if err := rc.redis.Set(ctx, key, response, rc.ttl).Err(); err != nil {
		log.Printf("Generation cache write failed: %v", err)
	}

	return response, nil
}
