package router

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"github.com/hertz-contrib/keyauth"

	"cv-analysis-go/internal/api/handler"
	"cv-analysis-go/internal/logger"
)

// HeaderRequestID 请求ID头
const HeaderRequestID = "X-Request-ID"

var errInvalidAPIKey = errors.New("API Key 无效")

// RequestLogger 为每个请求生成ID并把带 request_id 的 logger 放入上下文
func RequestLogger() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		reqID := string(c.GetHeader(HeaderRequestID))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Response.Header.Set(HeaderRequestID, reqID)

		l := logger.Logger.With().Str("request_id", reqID).Logger()
		ctx = l.WithContext(ctx)

		start := time.Now()
		c.Next(ctx)

		l.Info().
			Str("method", string(c.Method())).
			Str("path", string(c.Path())).
			Int("status", c.Response.StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("请求完成")
	}
}

// APIKeyAuth Authorization: Bearer <key> 鉴权
func APIKeyAuth(keys []string) app.HandlerFunc {
	return keyauth.New(
		keyauth.WithKeyLookUp("header:Authorization", "Bearer"),
		keyauth.WithValidator(func(_ context.Context, _ *app.RequestContext, key string) (bool, error) {
			for _, k := range keys {
				if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
					return true, nil
				}
			}
			return false, errInvalidAPIKey
		}),
		keyauth.WithErrorHandler(func(ctx context.Context, c *app.RequestContext, err error) {
			logger.FromContext(ctx).Warn().Err(err).Str("path", string(c.Path())).Msg("API Key 鉴权失败")
			c.AbortWithStatusJSON(consts.StatusUnauthorized, handler.Response{Success: false, Error: "未授权：缺少或无效的 API Key"})
		}),
	)
}
