package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"cdp-query/internal/domain"
)

// ResultCache guarda resultados del LLM por consulta normalizada.
// Get devuelve ok=false ante un miss; los errores se tratan como miss.
type ResultCache interface {
	Get(ctx context.Context, query string) (domain.RecommendationResult, bool, error)
	Set(ctx context.Context, query string, result domain.RecommendationResult) error
}

// cacheKey: sha256 de la consulta normalizada, para claves acotadas.
func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(normalizeQuery(query))))
	return hex.EncodeToString(sum[:])
}

type memoryEntry struct {
	result    domain.RecommendationResult
	expiresAt time.Time
}

type memoryResultCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]memoryEntry
}

func NewMemoryResultCache(ttl time.Duration) ResultCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &memoryResultCache{
		ttl:   ttl,
		items: make(map[string]memoryEntry),
	}
}

func (c *memoryResultCache) Get(_ context.Context, query string) (domain.RecommendationResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey(query)
	entry, ok := c.items[key]
	if !ok {
		return domain.RecommendationResult{}, false, nil
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(c.items, key)
		return domain.RecommendationResult{}, false, nil
	}
	return entry.result, true, nil
}

func (c *memoryResultCache) Set(_ context.Context, query string, result domain.RecommendationResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	result.Metadata = nil
	c.items[cacheKey(query)] = memoryEntry{
		result:    result,
		expiresAt: time.Now().UTC().Add(c.ttl),
	}
	return nil
}

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type redisResultCache struct {
	client redisKV
	ttl    time.Duration
	prefix string
}

func NewRedisResultCache(client *redis.Client, ttl time.Duration) ResultCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &redisResultCache{
		client: client,
		ttl:    ttl,
		prefix: "cdp:analysis:",
	}
}

func (c *redisResultCache) Get(ctx context.Context, query string) (domain.RecommendationResult, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := c.client.Get(ctx, c.prefix+cacheKey(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RecommendationResult{}, false, nil
	}
	if err != nil {
		return domain.RecommendationResult{}, false, err
	}

	var out domain.RecommendationResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.RecommendationResult{}, false, err
	}
	return out, true, nil
}

func (c *redisResultCache) Set(ctx context.Context, query string, result domain.RecommendationResult) error {
	result.Metadata = nil
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.prefix+cacheKey(query), payload, c.ttl).Err()
}
