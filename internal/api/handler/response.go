package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.opentelemetry.io/otel/trace"

	"cv-analysis-go/internal/logger"
	"cv-analysis-go/internal/processor"
	"cv-analysis-go/internal/tracing"
)

// 成功提示
const (
	MsgUploadOK = "简历解析成功"
	MsgMatchOK  = "匹配分析完成"
	MsgHealthOK = "简历分析 API 服务运行正常"
)

// msgInternal 500 时返回给调用方的通用提示，具体原因只写日志
const msgInternal = "服务器内部错误，请稍后重试"

// Response 统一响应结构
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c *app.RequestContext, message string, data any) {
	c.JSON(consts.StatusOK, Response{Success: true, Message: message, Data: data})
}

// StatusFor 错误到HTTP状态码的映射
func StatusFor(err error) int {
	switch {
	case errors.Is(err, processor.ErrTooLittleText):
		return consts.StatusUnprocessableEntity
	case processor.IsInputError(err), errors.Is(err, processor.ErrExtractFailed):
		return consts.StatusBadRequest
	default:
		return consts.StatusInternalServerError
	}
}

// publicMessage 只暴露业务错误本身，不带缓存键等内部细节
func publicMessage(err error, status int) string {
	if status >= consts.StatusInternalServerError {
		return msgInternal
	}
	var ae *processor.AnalysisError
	if errors.As(err, &ae) {
		return ae.BaseErr.Error()
	}
	return err.Error()
}

func fail(ctx context.Context, c *app.RequestContext, err error) {
	status := StatusFor(err)
	tracing.RecordHTTPError(trace.SpanFromContext(ctx), err, status)

	event := logger.FromContext(ctx).Warn()
	if status >= consts.StatusInternalServerError {
		event = logger.FromContext(ctx).Error()
	}
	event.Err(err).Int("status", status).Str("path", string(c.Path())).Msg("请求处理失败")

	c.JSON(status, Response{Success: false, Error: publicMessage(err, status)})
}
