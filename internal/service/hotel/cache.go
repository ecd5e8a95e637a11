package hotel

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Redis key 前缀
const hotelKeyPrefix = "hotel:"

// Cache 酒店缓存
// 内存优先，配置 Redis 时同步写入，进程重启后可从 Redis 恢复
type Cache struct {
	mu     sync.RWMutex
	memory map[string]Hotel
	redis  *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewCache 创建酒店缓存，redisClient 可为 nil
func NewCache(redisClient *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{
		memory: make(map[string]Hotel),
		redis:  redisClient,
		ttl:    ttl,
		log:    log,
	}
}

// Put 写入搜索结果中的酒店
func (c *Cache) Put(ctx context.Context, hotels []Hotel) {
	c.mu.Lock()
	for _, h := range hotels {
		if h.HotelID != "" {
			c.memory[h.HotelID] = h
		}
	}
	c.mu.Unlock()

	if c.redis == nil {
		return
	}
	pipe := c.redis.Pipeline()
	for _, h := range hotels {
		if h.HotelID == "" {
			continue
		}
		data, err := json.Marshal(h)
		if err != nil {
			continue
		}
		pipe.Set(ctx, hotelKeyPrefix+h.HotelID, data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn("failed to cache hotels in redis", "error", err)
	}
}

// Get 读取缓存的酒店
func (c *Cache) Get(ctx context.Context, hotelID string) (*Hotel, bool) {
	c.mu.RLock()
	h, ok := c.memory[hotelID]
	c.mu.RUnlock()
	if ok {
		return &h, true
	}

	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, hotelKeyPrefix+hotelID).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("failed to read hotel from redis", "hotel_id", hotelID, "error", err)
		}
		return nil, false
	}
	var cached Hotel
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}

	c.mu.Lock()
	c.memory[hotelID] = cached
	c.mu.Unlock()
	return &cached, true
}
