package utils

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem 包装缓存数据和过期时间
type CacheItem[V any] struct {
	Data      V
	ExpiresAt time.Time
}

// TTLCache 带过期时间的本地 LRU 缓存
type TTLCache[K comparable, V any] struct {
	mu  sync.Mutex
	lru *lru.Cache[K, CacheItem[V]]
	ttl time.Duration
	now func() time.Time
}

// NewTTLCache creates a cache holding at most size entries, each valid for ttl.
func NewTTLCache[K comparable, V any](size int, ttl time.Duration) (*TTLCache[K, V], error) {
	l, err := lru.New[K, CacheItem[V]](size)
	if err != nil {
		return nil, err
	}
	return &TTLCache[K, V]{lru: l, ttl: ttl, now: time.Now}, nil
}

// Set 设置缓存
func (c *TTLCache[K, V]) Set(key K, data V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, CacheItem[V]{Data: data, ExpiresAt: c.now().Add(c.ttl)})
}

// Get 获取缓存，不存在或已过期时 ok 为 false
func (c *TTLCache[K, V]) Get(key K) (data V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.lru.Get(key)
	if !found {
		return data, false
	}
	if c.now().After(item.ExpiresAt) {
		c.lru.Remove(key)
		return data, false
	}
	return item.Data, true
}

// Delete 删除指定缓存
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
}
