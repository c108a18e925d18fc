// Package storage 封装上传后的外部依赖：Redis 缓存与去重、MinIO 归档、MySQL 记录、RabbitMQ 事件。
// 每个组件独立启用，初始化失败只记日志，对应字段保持 nil。
package storage

import (
	"context"
	"time"

	"cv-analysis-go/internal/config"
	"cv-analysis-go/internal/logger"
)

// 组件状态
const (
	StatusUp       = "up"
	StatusDown     = "down"
	StatusDisabled = "disabled"
)

// Storage 存储管理器，聚合所有存储相关依赖
type Storage struct {
	MinIO    *MinIO
	RabbitMQ *RabbitMQ
	MySQL    *MySQL
	Redis    *Redis
}

// NewStorage 按配置初始化各组件；任何组件失败都不会返回错误
func NewStorage(ctx context.Context, cfg *config.Config) *Storage {
	s := &Storage{}
	log := logger.Logger

	if cfg.Redis.Enabled {
		r, err := NewRedisAdapter(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("初始化Redis失败，二级缓存与去重不可用")
		} else {
			s.Redis = r
			log.Info().Str("address", cfg.Redis.Address).Msg("Redis初始化成功")
		}
	}

	if cfg.MinIO.Enabled {
		m, err := NewMinIO(ctx, &cfg.MinIO)
		if err != nil {
			log.Warn().Err(err).Msg("初始化MinIO失败，简历不会被归档")
		} else {
			s.MinIO = m
			log.Info().Str("endpoint", cfg.MinIO.Endpoint).Str("bucket", cfg.MinIO.BucketName).Msg("MinIO初始化成功")
		}
	}

	if cfg.MySQL.Enabled {
		m, err := NewMySQL(&cfg.MySQL)
		if err != nil {
			log.Warn().Err(err).Msg("初始化MySQL失败，解析记录不会入库")
		} else {
			s.MySQL = m
			log.Info().Str("database", cfg.MySQL.Database).Msg("MySQL初始化成功")
		}
	}

	if cfg.RabbitMQ.Enabled {
		mq, err := NewRabbitMQ(&cfg.RabbitMQ)
		if err != nil {
			log.Warn().Err(err).Msg("初始化RabbitMQ失败，不会发布解析事件")
		} else {
			s.RabbitMQ = mq
		}
	}

	return s
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Status 各组件的连通状态，用于健康检查；nil 接收者视为全部未启用
func (s *Storage) Status(ctx context.Context) map[string]string {
	if s == nil {
		s = &Storage{}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	out := make(map[string]string, 4)
	check := func(name string, enabled bool, p pinger) {
		switch {
		case !enabled:
			out[name] = StatusDisabled
		case p.Ping(ctx) != nil:
			out[name] = StatusDown
		default:
			out[name] = StatusUp
		}
	}
	check("redis", s.Redis != nil, s.Redis)
	check("minio", s.MinIO != nil, s.MinIO)
	check("mysql", s.MySQL != nil, s.MySQL)
	check("rabbitmq", s.RabbitMQ != nil, s.RabbitMQ)
	return out
}

// Close 关闭所有连接
func (s *Storage) Close() {
	log := logger.Logger
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			log.Warn().Err(err).Msg("关闭RabbitMQ连接失败")
		}
	}
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			log.Warn().Err(err).Msg("关闭MySQL连接失败")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("关闭Redis连接失败")
		}
	}
}
