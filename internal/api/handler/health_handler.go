package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"cv-analysis-go/internal/constants"
)

// CacheSizer 暴露缓存条目数
type CacheSizer interface {
	CacheSize() int
}

// StatusReporter 暴露外部组件状态
type StatusReporter interface {
	Status(ctx context.Context) map[string]string
}

// Endpoints 健康检查中列出的接口
var Endpoints = map[string]string{
	"POST /api/v1/resume/upload": "上传并解析简历",
	"POST /api/v1/resume/match":  "简历与岗位匹配评分",
	"GET /api/v1/health":         "健康检查",
}

// HealthHandler 健康检查
type HealthHandler struct {
	cache     CacheSizer
	storage   StatusReporter
	aiEnabled bool
}

// NewHealthHandler storage 可为 nil
func NewHealthHandler(cache CacheSizer, storage StatusReporter, aiEnabled bool) *HealthHandler {
	return &HealthHandler{cache: cache, storage: storage, aiEnabled: aiEnabled}
}

// HandleHealth GET /api/v1/health
func (h *HealthHandler) HandleHealth(ctx context.Context, c *app.RequestContext) {
	components := utils.H{"ai_enabled": h.aiEnabled}
	if h.cache != nil {
		components["cache_size"] = h.cache.CacheSize()
	}
	if h.storage != nil {
		for name, status := range h.storage.Status(ctx) {
			components[name] = status
		}
	}

	c.JSON(consts.StatusOK, utils.H{
		"success":    true,
		"message":    MsgHealthOK,
		"version":    constants.APIVersion,
		"endpoints":  Endpoints,
		"components": components,
	})
}
