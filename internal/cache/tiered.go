package cache

import (
	"context"
	"errors"
	"time"

	"cv-analysis-go/internal/logger"
	"cv-analysis-go/internal/types"
)

// ErrMiss 二级缓存未命中
var ErrMiss = errors.New("cache: miss")

// Remote 二级缓存，通常由 Redis 实现
type Remote interface {
	LoadParsedResume(ctx context.Context, key string) (*types.ParsedResume, error)
	SaveParsedResume(ctx context.Context, key string, value *types.ParsedResume, ttl time.Duration) error
}

// Tiered 先查进程内缓存，未命中再查 Redis 并回填。
// Redis 读写失败只记日志，不影响主流程。
type Tiered struct {
	local     *Memory
	remote    Remote
	remoteTTL time.Duration
}

// NewTiered 组合两级缓存；remote 为 nil 时退化为纯内存缓存
func NewTiered(local *Memory, remote Remote, remoteTTL time.Duration) *Tiered {
	return &Tiered{local: local, remote: remote, remoteTTL: remoteTTL}
}

// Get 查询缓存
func (t *Tiered) Get(ctx context.Context, key string) (*types.ParsedResume, bool) {
	if v, ok := t.local.Get(ctx, key); ok {
		return v, true
	}
	if t.remote == nil {
		return nil, false
	}

	v, err := t.remote.LoadParsedResume(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			logger.FromContext(ctx).Warn().Err(err).Str("cache_key", key).Msg("读取Redis缓存失败")
		}
		return nil, false
	}
	if v == nil {
		return nil, false
	}
	t.local.Set(ctx, key, v)
	return v, true
}

// Set 写入两级缓存
func (t *Tiered) Set(ctx context.Context, key string, value *types.ParsedResume) {
	if value == nil {
		return
	}
	t.local.Set(ctx, key, value)
	if t.remote == nil {
		return
	}
	if err := t.remote.SaveParsedResume(ctx, key, value, t.remoteTTL); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("cache_key", key).Msg("写入Redis缓存失败")
	}
}

// Len 进程内缓存条目数
func (t *Tiered) Len() int {
	return t.local.Len()
}
