// internal/infrastructure/cache/redis/update_dedup.go
package redis

import (
	"context"
	"strconv"
	"sync"
	"time"

	"crypto-exchange-trading-bot/pkg/logger"

	"github.com/go-redis/redis/v8"
)

const updateKeyPrefix = "tradebot:update:"

// UpdateDeduplicator отбрасывает повторно доставленные апдейты Telegram
type UpdateDeduplicator interface {
	// FirstSeen true, если апдейт с таким ID встречается впервые
	FirstSeen(ctx context.Context, updateID int64) bool
}

// RedisDeduplicator хранит ID апдейтов в Redis с TTL
type RedisDeduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeduplicator(client *redis.Client, ttl time.Duration) *RedisDeduplicator {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisDeduplicator{client: client, ttl: ttl}
}

// FirstSeen использует SETNX. Если Redis недоступен, апдейт пропускается дальше.
func (d *RedisDeduplicator) FirstSeen(ctx context.Context, updateID int64) bool {
	key := updateKeyPrefix + strconv.FormatInt(updateID, 10)

	ok, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		logger.Warn("⚠️ Redis dedup недоступен для апдейта %d: %v", updateID, err)
		return true
	}
	return ok
}

// MemoryDeduplicator запасной вариант без Redis
type MemoryDeduplicator struct {
	mu   sync.Mutex
	seen map[int64]time.Time
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryDeduplicator(ttl time.Duration) *MemoryDeduplicator {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &MemoryDeduplicator{
		seen: make(map[int64]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (d *MemoryDeduplicator) FirstSeen(_ context.Context, updateID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for id, at := range d.seen {
		if now.Sub(at) > d.ttl {
			delete(d.seen, id)
		}
	}

	if _, ok := d.seen[updateID]; ok {
		return false
	}
	d.seen[updateID] = now
	return true
}
