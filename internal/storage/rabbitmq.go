package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"cv-analysis-go/internal/config"
	"cv-analysis-go/internal/logger"
)

// RabbitMQ 事件发布者，只负责发布，不消费
type RabbitMQ struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex // amqp.Channel 不能并发发布
	cfg  *config.RabbitMQConfig
}

// NewRabbitMQ 连接RabbitMQ并声明交换机、队列与绑定
func NewRabbitMQ(cfg *config.RabbitMQConfig) (*RabbitMQ, error) {
	if cfg == nil {
		return nil, fmt.Errorf("RabbitMQ配置不能为空")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("RabbitMQ URL配置不能为空")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("无法连接到RabbitMQ服务器: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("无法创建RabbitMQ通道: %w", err)
	}

	mq := &RabbitMQ{conn: conn, ch: ch, cfg: cfg}
	if err := mq.declareTopology(); err != nil {
		_ = mq.Close()
		return nil, err
	}

	logger.Logger.Info().Str("exchange", cfg.Exchange).Str("routing_key", cfg.ParsedRoutingKey).Msg("成功连接到RabbitMQ")
	return mq, nil
}

func (r *RabbitMQ) declareTopology() error {
	if r.cfg.Exchange == "" {
		return fmt.Errorf("exchange名称不能为空")
	}
	// 交换机类型 topic，持久化
	if err := r.ch.ExchangeDeclare(r.cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("声明exchange失败: %w", err)
	}
	if r.cfg.ParsedQueue == "" {
		return nil
	}
	if _, err := r.ch.QueueDeclare(r.cfg.ParsedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("声明队列失败: %w", err)
	}
	if err := r.ch.QueueBind(r.cfg.ParsedQueue, r.cfg.ParsedRoutingKey, r.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("绑定队列到exchange失败: %w", err)
	}
	return nil
}

// PublishJSON 以持久化消息发布 JSON
func (r *RabbitMQ) PublishJSON(ctx context.Context, routingKey string, data interface{}) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("JSON序列化失败: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	err = r.ch.PublishWithContext(ctx, r.cfg.Exchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("发布消息失败 (routing_key=%s): %w", routingKey, err)
	}
	return nil
}

// PublishResumeParsed 发布解析完成事件
func (r *RabbitMQ) PublishResumeParsed(ctx context.Context, evt *ResumeParsedEvent) error {
	return r.PublishJSON(ctx, r.cfg.ParsedRoutingKey, evt)
}

// Ping 连接是否可用
func (r *RabbitMQ) Ping(context.Context) error {
	if r.conn == nil || r.conn.IsClosed() {
		return fmt.Errorf("RabbitMQ连接已关闭")
	}
	return nil
}

// Close 关闭通道与连接
func (r *RabbitMQ) Close() error {
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
