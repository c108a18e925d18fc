package router

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-analysis-go/internal/api/handler"
	appconfig "cv-analysis-go/internal/config"
	"cv-analysis-go/internal/processor"
	"cv-analysis-go/internal/types"
)

type stubService struct{}

func (stubService) Upload(context.Context, []byte, string) (*types.ParsedResume, error) {
	return &types.ParsedResume{CacheKey: "k"}, nil
}

func (stubService) Match(_ context.Context, req processor.MatchRequest) (*types.MatchResult, error) {
	return &types.MatchResult{OverallScore: 50, Recommendations: []string{}}, nil
}

func newTestServer(t *testing.T, keys []string) *server.Hertz {
	t.Helper()
	cfg := appconfig.Default()
	cfg.Server.Address = "127.0.0.1:0"

	h := NewServer(cfg)
	RegisterRoutes(h, handler.NewResumeHandler(stubService{}), handler.NewHealthHandler(nil, nil, false), keys)
	return h
}

func matchBody() *ut.Body {
	raw, _ := json.Marshal(map[string]string{"job_description": "招聘Go工程师", "resume_text": "Go"})
	return &ut.Body{Body: bytes.NewReader(raw), Len: len(raw)}
}

func TestRoutes_HealthAliases(t *testing.T) {
	h := newTestServer(t, nil)

	for _, path := range []string{"/", "/health", "/api/v1/health"} {
		t.Run(path, func(t *testing.T) {
			resp := ut.PerformRequest(h.Engine, consts.MethodGet, path, nil)
			assert.Equal(t, consts.StatusOK, resp.Code)
			assert.Contains(t, resp.Body.String(), handler.MsgHealthOK)
		})
	}
}

func TestRoutes_MatchAliasWithoutAuth(t *testing.T) {
	h := newTestServer(t, nil)

	for _, path := range []string{"/match", "/api/v1/resume/match"} {
		resp := ut.PerformRequest(h.Engine, consts.MethodPost, path, matchBody(),
			ut.Header{Key: "Content-Type", Value: "application/json"})
		assert.Equal(t, consts.StatusOK, resp.Code, "未配置 API Key 时 %s 应直接放行", path)
	}
}

func TestRoutes_APIKeyAuth(t *testing.T) {
	h := newTestServer(t, []string{"secret-key"})

	t.Run("缺少 Key", func(t *testing.T) {
		resp := ut.PerformRequest(h.Engine, consts.MethodPost, "/api/v1/resume/match", matchBody(),
			ut.Header{Key: "Content-Type", Value: "application/json"})
		require.Equal(t, consts.StatusUnauthorized, resp.Code)

		var body handler.Response
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.NotEmpty(t, body.Error)
	})

	t.Run("错误 Key", func(t *testing.T) {
		resp := ut.PerformRequest(h.Engine, consts.MethodPost, "/match", matchBody(),
			ut.Header{Key: "Content-Type", Value: "application/json"},
			ut.Header{Key: "Authorization", Value: "Bearer wrong"})
		assert.Equal(t, consts.StatusUnauthorized, resp.Code)
	})

	t.Run("正确 Key", func(t *testing.T) {
		resp := ut.PerformRequest(h.Engine, consts.MethodPost, "/api/v1/resume/match", matchBody(),
			ut.Header{Key: "Content-Type", Value: "application/json"},
			ut.Header{Key: "Authorization", Value: "Bearer secret-key"})
		assert.Equal(t, consts.StatusOK, resp.Code)
	})

	t.Run("健康检查不需要 Key", func(t *testing.T) {
		resp := ut.PerformRequest(h.Engine, consts.MethodGet, "/api/v1/health", nil)
		assert.Equal(t, consts.StatusOK, resp.Code)
	})
}

func TestRequestLogger_RequestID(t *testing.T) {
	h := newTestServer(t, nil)

	resp := ut.PerformRequest(h.Engine, consts.MethodGet, "/health", nil)
	assert.NotEmpty(t, resp.Result().Header.Get(HeaderRequestID), "应生成请求ID")

	resp = ut.PerformRequest(h.Engine, consts.MethodGet, "/health", nil,
		ut.Header{Key: HeaderRequestID, Value: "req-123"})
	assert.Equal(t, "req-123", resp.Result().Header.Get(HeaderRequestID), "应沿用调用方传入的请求ID")
}
