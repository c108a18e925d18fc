package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const defaultGeminiModelName = "gemini-1.5-flash"

// GeminiChatModel 通过 generative-ai-go 调用 Gemini，实现 model.BaseChatModel
type GeminiChatModel struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

// NewGeminiChatModel 创建 Gemini 客户端，调用方负责 Close
func NewGeminiChatModel(ctx context.Context, apiKey, modelName string, temperature float32) (*GeminiChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = defaultGeminiModelName
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("创建 Gemini 客户端失败: %w", err)
	}

	log.Info().Str("model", modelName).Msg("使用 Gemini LLM 客户端")
	return &GeminiChatModel{client: client, modelName: modelName, temperature: temperature}, nil
}

// Generate 将系统消息作为 SystemInstruction，其余消息拼接为一次请求
func (g *GeminiChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	m := g.client.GenerativeModel(g.modelName)
	m.SetTemperature(g.temperature)
	m.ResponseMIMEType = "application/json"

	var parts []genai.Part
	for _, msg := range messages {
		if msg == nil || msg.Content == "" {
			continue
		}
		if msg.Role == schema.System {
			m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(msg.Content)}}
			continue
		}
		parts = append(parts, genai.Text(msg.Content))
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("没有可发送的消息")
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("Gemini 生成失败: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("Gemini 返回空结果")
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return schema.AssistantMessage(sb.String(), nil), nil
}

// Stream 未实现
func (g *GeminiChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("GeminiChatModel 的 Stream 方法未实现")
}

// Close 释放底层连接
func (g *GeminiChatModel) Close() error {
	return g.client.Close()
}

var _ model.BaseChatModel = (*GeminiChatModel)(nil)
