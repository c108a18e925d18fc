package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-analysis-go/pkg/agent"
)

func TestTokenBucketAllow(t *testing.T) {
	tb := NewTokenBucket(60, 2)
	current := time.Now()
	tb.now = func() time.Time { return current }
	tb.lastRefillTime = current

	assert.True(t, tb.Allow(), "初始应有令牌")
	assert.True(t, tb.Allow(), "容量为2时第二次应允许")
	assert.False(t, tb.Allow(), "令牌耗尽后应拒绝")

	// 60 QPM = 每秒1个令牌
	current = current.Add(1100 * time.Millisecond)
	assert.True(t, tb.Allow(), "补充令牌后应允许")
}

func TestRateLimitedModelRejectsWithoutRetry(t *testing.T) {
	mock := agent.NewMockChatClient("ok", nil)

	limited := NewRateLimitedLLMModel(mock, 2) // 容量1
	msgs := []*schema.Message{schema.UserMessage("hi")}

	resp, err := limited.Generate(context.Background(), msgs)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)

	_, err = limited.Generate(context.Background(), msgs)
	assert.ErrorIs(t, err, ErrRateLimited, "令牌不足时应直接拒绝")
	assert.Equal(t, 1, mock.Calls, "被拒绝的调用不应到达底层模型")
}

func TestNewLLMWithRateLimitUsesModelQPM(t *testing.T) {
	mock := agent.NewMockChatClient("", nil)
	m := NewLLMWithRateLimit(mock, "qwen-turbo", map[string]int{"qwen-turbo": 100}, 10)
	limited, ok := m.(*RateLimitedLLMModel)
	require.True(t, ok)
	assert.InDelta(t, 90.0/60.0, limited.rateLimiter.rate, 1e-9, "应使用模型QPM的90%")
}
