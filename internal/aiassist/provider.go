package aiassist

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudwego/eino/components/model"

	"cv-analysis-go/internal/config"
	"cv-analysis-go/pkg/agent"
	"cv-analysis-go/pkg/ratelimit"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewChatModel 按配置创建对话模型并包装限流。
// 未配置密钥时返回 (nil, nil, nil)，调用方据此关闭AI功能。
func NewChatModel(ctx context.Context, cfg config.AIConfig, qpmLimits map[string]int) (model.BaseChatModel, io.Closer, error) {
	if !cfg.Enabled() {
		return nil, nil, nil
	}

	var (
		base   model.BaseChatModel
		closer io.Closer = nopCloser{}
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		gm, err := agent.NewGeminiChatModel(ctx, cfg.APIKey, cfg.Model, cfg.Temperature)
		if err != nil {
			return nil, nil, fmt.Errorf("创建 Gemini 模型失败: %w", err)
		}
		base, closer = gm, gm
	case config.ProviderQwen, "":
		qm, err := agent.NewAliyunQwenChatModel(cfg.APIKey, cfg.Model, cfg.APIURL, agent.WithQwenTemperature(cfg.Temperature))
		if err != nil {
			return nil, nil, fmt.Errorf("创建通义千问模型失败: %w", err)
		}
		base = qm
	default:
		return nil, nil, fmt.Errorf("不支持的AI供应商: %s", cfg.Provider)
	}

	return ratelimit.NewLLMWithRateLimit(base, cfg.Model, qpmLimits, cfg.QPM), closer, nil
}
