package router

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"

	"cv-analysis-go/internal/api/handler"
	appconfig "cv-analysis-go/internal/config"
)

// NewServer 创建带恢复与链路追踪中间件的 Hertz 服务
func NewServer(cfg *appconfig.Config, extra ...config.Option) *server.Hertz {
	tracer, tracerCfg := hertztracing.NewServerTracer()

	opts := []config.Option{
		server.WithHostPorts(cfg.Server.Address),
		server.WithMaxRequestBodySize(cfg.MaxBodyBytes()),
		server.WithHandleMethodNotAllowed(true),
		tracer,
	}
	h := server.Default(append(opts, extra...)...)
	h.Use(hertztracing.ServerMiddleware(tracerCfg))
	return h
}

// RegisterRoutes 注册 API 路由；apiKeys 非空时上传与匹配接口需要鉴权，健康检查始终开放
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler, healthHandler *handler.HealthHandler, apiKeys []string) {
	h.Use(RequestLogger())

	var auth []app.HandlerFunc
	if len(apiKeys) > 0 {
		auth = append(auth, APIKeyAuth(apiKeys))
	}
	guarded := func(hf app.HandlerFunc) []app.HandlerFunc {
		return append(append([]app.HandlerFunc{}, auth...), hf)
	}

	api := h.Group("/api/v1")
	api.GET("/health", healthHandler.HandleHealth)
	api.POST("/resume/upload", guarded(resumeHandler.HandleUpload)...)
	api.POST("/resume/match", guarded(resumeHandler.HandleMatch)...)

	// 兼容旧路径
	h.GET("/", healthHandler.HandleHealth)
	h.GET("/health", healthHandler.HandleHealth)
	h.POST("/upload", guarded(resumeHandler.HandleUpload)...)
	h.POST("/match", guarded(resumeHandler.HandleMatch)...)
}
