package ratelimit

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ErrRateLimited 令牌不足时直接拒绝，调用方按软失败处理
var ErrRateLimited = errors.New("LLM调用超过限流，本次跳过")

// RateLimitedLLMModel 对LLM模型的调用进行限流的代理，不做重试
type RateLimitedLLMModel struct {
	original    model.BaseChatModel
	rateLimiter *TokenBucket
}

// NewRateLimitedLLMModel 创建一个新的限流LLM模型代理
func NewRateLimitedLLMModel(original model.BaseChatModel, qpm int) *RateLimitedLLMModel {
	return &RateLimitedLLMModel{
		original:    original,
		rateLimiter: NewTokenBucket(qpm, qpm/2), // 容量设为QPM的一半，允许一定的突发流量
	}
}

// Generate 有令牌时才调用底层模型
func (rl *RateLimitedLLMModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	if !rl.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}
	return rl.original.Generate(ctx, messages, options...)
}

// Stream 有令牌时才调用底层模型
func (rl *RateLimitedLLMModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	if !rl.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}
	return rl.original.Stream(ctx, messages, options...)
}

// NewLLMWithRateLimit 按模型名查找QPM配置并包装限流
func NewLLMWithRateLimit(original model.BaseChatModel, modelName string, cfg map[string]int, customQPM int) model.BaseChatModel {
	qpm := customQPM

	// 找到了模型对应的QPM限制，使用该限制值的90%作为安全值
	if cfg != nil && modelName != "" {
		if modelQPM, ok := cfg[modelName]; ok && modelQPM > 0 {
			qpm = int(float64(modelQPM) * 0.9)
		}
	}

	if qpm <= 0 {
		qpm = 30 // 默认QPM
	}

	return NewRateLimitedLLMModel(original, qpm)
}
