// Package cache 保存上传解析结果，键为原始文件字节的 MD5。
// 进程内 LRU 为一级缓存，可选的 Redis 为二级缓存。
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"cv-analysis-go/internal/logger"
	"cv-analysis-go/internal/types"
)

// Store 解析结果缓存。实现需并发安全；取出的结果视为只读。
type Store interface {
	Get(ctx context.Context, key string) (*types.ParsedResume, bool)
	Set(ctx context.Context, key string, value *types.ParsedResume)
	Len() int
}

type entry struct {
	key       string
	value     *types.ParsedResume
	expiresAt time.Time
}

// Memory 带容量上限和过期时间的 LRU 缓存
type Memory struct {
	mu    sync.Mutex
	cap   int
	ttl   time.Duration
	ll    *list.List
	items map[string]*list.Element
	now   func() time.Time
}

// NewMemory 创建进程内缓存；ttl<=0 表示不过期
func NewMemory(capacity int, ttl time.Duration) *Memory {
	if capacity <= 0 {
		capacity = 1
	}
	return &Memory{
		cap:   capacity,
		ttl:   ttl,
		ll:    list.New(),
		items: make(map[string]*list.Element, capacity),
		now:   time.Now,
	}
}

// Get 命中且未过期时返回，并标记为最近使用
func (c *Memory) Get(_ context.Context, key string) (*types.ParsedResume, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if c.expired(e) {
		c.removeElement(el)
		return nil, false
	}
	c.ll.MoveToFront(el)
	return e.value, true
}

// Set 写入或覆盖，超出容量时淘汰最久未使用的条目
func (c *Memory) Set(_ context.Context, key string, value *types.ParsedResume) {
	if value == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Time{}
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = expiresAt
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = el
	for c.ll.Len() > c.cap {
		c.removeElement(c.ll.Back())
	}
}

// Len 当前条目数（含尚未清理的过期条目）
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Purge 清理所有过期条目，返回清理数量
func (c *Memory) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for el := c.ll.Back(); el != nil; {
		prev := el.Prev()
		if c.expired(el.Value.(*entry)) {
			c.removeElement(el)
			removed++
		}
		el = prev
	}
	return removed
}

// StartPurger 按固定间隔清理过期条目，ctx 结束时退出
func (c *Memory) StartPurger(ctx context.Context, interval time.Duration) {
	if interval <= 0 || c.ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := c.Purge(); n > 0 {
					logger.Debug().Int("removed", n).Int("remaining", c.Len()).Msg("清理过期解析缓存")
				}
			}
		}
	}()
}

func (c *Memory) expired(e *entry) bool {
	return !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt)
}

func (c *Memory) removeElement(el *list.Element) {
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
