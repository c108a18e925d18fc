package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"cv-analysis-go/internal/cache"
	"cv-analysis-go/internal/config"
	"cv-analysis-go/internal/constants"
	"cv-analysis-go/internal/tracing"
	"cv-analysis-go/internal/types"
)

// Redis wraps the Redis client
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

var _ cache.Remote = (*Redis)(nil)

// NewRedisAdapter creates a new Redis client connection
func NewRedisAdapter(ctx context.Context, cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,

		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute,
		ConnMaxIdleTime: time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute,
	})

	// 添加OpenTelemetry钩子, 记录所有Redis操作
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return &Redis{Client: client, config: cfg}, nil
}

// Close closes the Redis client connection
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// LoadParsedResume 读取 app:resume:parsed:{md5}，不存在时返回 cache.ErrMiss
func (r *Redis) LoadParsedResume(ctx context.Context, key string) (*types.ParsedResume, error) {
	data, err := r.Client.Get(ctx, fmt.Sprintf(constants.KeyParsedResume, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cache.ErrMiss
		}
		return nil, fmt.Errorf("读取解析结果缓存失败: %w", err)
	}

	var parsed types.ParsedResume
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("解析结果缓存内容损坏 (%s): %w", tracing.SafeRedisKey(key), err)
	}
	return &parsed, nil
}

// SaveParsedResume 写入解析结果，ttl<=0 表示不过期
func (r *Redis) SaveParsedResume(ctx context.Context, key string, value *types.ParsedResume, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("序列化解析结果失败: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}
	return r.Client.Set(ctx, fmt.Sprintf(constants.KeyParsedResume, key), data, ttl).Err()
}

// dedupExpire 返回去重集合的过期时间
func (r *Redis) dedupExpire() time.Duration {
	days := r.config.DedupExpireDays
	if days <= 0 {
		days = 365 // 默认1年
	}
	return time.Duration(days) * 24 * time.Hour
}

// MarkParsed 把文件 MD5 加入去重集合，返回此前是否已存在
func (r *Redis) MarkParsed(ctx context.Context, md5Hex string) (bool, error) {
	var added *redis.IntCmd
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		added = pipe.SAdd(ctx, constants.KeyFileMD5Set, md5Hex)
		pipe.Expire(ctx, constants.KeyFileMD5Set, r.dedupExpire())
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("更新去重集合失败: %w", err)
	}
	return added.Val() == 0, nil
}
