package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
)

const (
	// OpenAI-compatible API endpoint for DashScope
	openAICompatibleQwenAPIURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	defaultQwenModelName       = "qwen-turbo"
	defaultQwenHTTPTimeout     = 30 * time.Second
)

// AliyunQwenChatModel 实现了 model.BaseChatModel，通过 DashScope 的 OpenAI 兼容接口调用通义千问
type AliyunQwenChatModel struct {
	apiKey      string
	modelName   string
	apiURL      string
	temperature *float32
	httpClient  *http.Client
}

// QwenOption 千问模型的可选配置
type QwenOption func(*AliyunQwenChatModel)

// WithQwenTemperature 设置采样温度
func WithQwenTemperature(t float32) QwenOption {
	return func(aq *AliyunQwenChatModel) {
		aq.temperature = &t
	}
}

// WithQwenHTTPClient 替换底层 HTTP 客户端（测试中指向 httptest 服务）
func WithQwenHTTPClient(c *http.Client) QwenOption {
	return func(aq *AliyunQwenChatModel) {
		if c != nil {
			aq.httpClient = c
		}
	}
}

// NewAliyunQwenChatModel 创建一个新的 AliyunQwenChatModel 实例。
func NewAliyunQwenChatModel(apiKey string, modelName string, apiURL string, opts ...QwenOption) (*AliyunQwenChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}

	mn := modelName
	if strings.TrimSpace(mn) == "" {
		mn = defaultQwenModelName
	}

	url := apiURL
	if strings.TrimSpace(url) == "" {
		url = openAICompatibleQwenAPIURL
	}

	aq := &AliyunQwenChatModel{
		apiKey:     apiKey,
		modelName:  mn,
		apiURL:     url,
		httpClient: &http.Client{Timeout: defaultQwenHTTPTimeout},
	}
	for _, opt := range opts {
		opt(aq)
	}

	log.Info().Str("api_url", url).Str("model", mn).Msg("使用阿里云通义千问 LLM 客户端")
	return aq, nil
}

// --- OpenAI Compatible Request/Response Structures ---

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []openAIChatMessage `json:"messages"`
	Temperature *float32            `json:"temperature,omitempty"`
}

type openAIResponseMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type openAIChatChoice struct {
	Index        int                   `json:"index"`
	Message      openAIResponseMessage `json:"message"`
	FinishReason string                `json:"finish_reason"`
}

type openAICompletionResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Choices []openAIChatChoice `json:"choices"`
}

// Generate 实现 model.BaseChatModel 接口
func (aq *AliyunQwenChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	reqPayload := openAIChatCompletionRequest{
		Model:       aq.modelName,
		Messages:    make([]openAIChatMessage, 0, len(messages)),
		Temperature: aq.temperature,
	}
	for _, m := range messages {
		if m == nil {
			continue
		}
		reqPayload.Messages = append(reqPayload.Messages, openAIChatMessage{Role: string(m.Role), Content: m.Content})
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, aq.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+aq.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	log.Debug().Str("model", aq.modelName).Int("body_bytes", len(jsonData)).Msg("[阿里云通义千问模型] 发送请求")

	httpResp, err := aq.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送 HTTP 请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API 请求失败，状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	var openAIResp openAICompletionResponse
	if err := json.Unmarshal(bodyBytes, &openAIResp); err != nil {
		return nil, fmt.Errorf("反序列化 API 响应失败: %w", err)
	}
	if len(openAIResp.Choices) == 0 {
		return nil, fmt.Errorf("从 API 收到空选项: %s", string(bodyBytes))
	}

	apiMessage := openAIResp.Choices[0].Message
	responseContent := ""
	if apiMessage.Content != nil {
		responseContent = *apiMessage.Content
	}
	return schema.AssistantMessage(responseContent, nil), nil
}

// Stream 未实现
func (aq *AliyunQwenChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("AliyunQwenChatModel (OpenAI 兼容) 的 Stream 方法未实现")
}

var _ model.BaseChatModel = (*AliyunQwenChatModel)(nil)
