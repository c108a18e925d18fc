// Package aiassist 封装可选的大模型协作者：补全简历字段、评估简历与岗位的匹配度。
// 只在配置了密钥时启用，任何失败都以 error 返回，由调用方降级为规则结果。
package aiassist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"cv-analysis-go/internal/logger"
)

// ErrEmptyResponse 模型返回了空内容
var ErrEmptyResponse = errors.New("模型返回内容为空")

// Request 一次模型调用：系统指令加用户提示（提示中已包含原文）
type Request struct {
	System string
	Prompt string
}

// Collaborator 外部语言模型服务，返回原始文本回复
type Collaborator interface {
	Analyze(ctx context.Context, req Request) (string, error)
}

// ChatCollaborator 基于 eino 对话模型的 Collaborator
type ChatCollaborator struct {
	model model.BaseChatModel
}

// NewChatCollaborator 包装对话模型
func NewChatCollaborator(m model.BaseChatModel) *ChatCollaborator {
	return &ChatCollaborator{model: m}
}

// Analyze 调用模型，只调用一次，不重试
func (c *ChatCollaborator) Analyze(ctx context.Context, req Request) (string, error) {
	if c.model == nil {
		return "", fmt.Errorf("aiassist: 模型未初始化")
	}

	messages := make([]*schema.Message, 0, 2)
	if req.System != "" {
		messages = append(messages, schema.SystemMessage(req.System))
	}
	messages = append(messages, schema.UserMessage(req.Prompt))

	logger.FromContext(ctx).Debug().Int("prompt_runes", len([]rune(req.Prompt))).Msg("调用大模型")

	resp, err := c.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("aiassist: 模型调用失败: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Content, nil
}
