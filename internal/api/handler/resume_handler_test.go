package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-analysis-go/internal/processor"
	"cv-analysis-go/internal/types"
)

type fakeService struct {
	parsed *types.ParsedResume
	result *types.MatchResult
	err    error

	gotData     []byte
	gotFilename string
	gotMatch    processor.MatchRequest
}

func (f *fakeService) Upload(_ context.Context, data []byte, filename string) (*types.ParsedResume, error) {
	f.gotData = data
	f.gotFilename = filename
	return f.parsed, f.err
}

func (f *fakeService) Match(_ context.Context, req processor.MatchRequest) (*types.MatchResult, error) {
	f.gotMatch = req
	return f.result, f.err
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, c *app.RequestContext) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(c.Response.Body(), &env), "响应应为JSON")
	return env
}

func jsonRequest(method, path string, body any) *app.RequestContext {
	raw, _ := json.Marshal(body)
	return ut.CreateUtRequestContext(method, path, &ut.Body{Body: bytes.NewReader(raw), Len: len(raw)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *app.RequestContext {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return ut.CreateUtRequestContext(consts.MethodPost, "/api/v1/resume/upload",
		&ut.Body{Body: bytes.NewReader(buf.Bytes()), Len: buf.Len()},
		ut.Header{Key: "Content-Type", Value: w.FormDataContentType()})
}

func TestHandleUpload_Multipart(t *testing.T) {
	svc := &fakeService{parsed: &types.ParsedResume{CacheKey: "abc", PageCount: 1}}
	h := NewResumeHandler(svc)

	c := multipartRequest(t, "file", "王强.pdf", []byte("%PDF-1.4 data"))
	h.HandleUpload(context.Background(), c)

	assert.Equal(t, consts.StatusOK, c.Response.StatusCode())
	env := decode(t, c)
	assert.True(t, env.Success)
	assert.Equal(t, MsgUploadOK, env.Message)
	assert.Contains(t, string(env.Data), `"cache_key":"abc"`)
	assert.Equal(t, []byte("%PDF-1.4 data"), svc.gotData)
	assert.Equal(t, "王强.pdf", svc.gotFilename)
}

func TestHandleUpload_JSONBase64(t *testing.T) {
	svc := &fakeService{parsed: &types.ParsedResume{CacheKey: "abc"}}
	h := NewResumeHandler(svc)

	c := jsonRequest(consts.MethodPost, "/upload", map[string]string{
		"file":     base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 data")),
		"filename": "resume.pdf",
	})
	h.HandleUpload(context.Background(), c)

	assert.Equal(t, consts.StatusOK, c.Response.StatusCode())
	assert.Equal(t, []byte("%PDF-1.4 data"), svc.gotData)
	assert.Equal(t, "resume.pdf", svc.gotFilename)
}

func TestHandleUpload_InputErrors(t *testing.T) {
	h := NewResumeHandler(&fakeService{})

	tests := []struct {
		name    string
		ctx     func(t *testing.T) *app.RequestContext
		wantErr string
	}{
		{
			name: "不支持的内容类型",
			ctx: func(*testing.T) *app.RequestContext {
				return ut.CreateUtRequestContext(consts.MethodPost, "/upload", &ut.Body{Body: bytes.NewReader([]byte("x")), Len: 1},
					ut.Header{Key: "Content-Type", Value: "text/plain"})
			},
			wantErr: processor.ErrUnsupportedContentType.Error(),
		},
		{
			name: "multipart 缺少 file 字段",
			ctx: func(t *testing.T) *app.RequestContext {
				return multipartRequest(t, "resume", "a.pdf", []byte("%PDF"))
			},
			wantErr: processor.ErrMissingFile.Error(),
		},
		{
			name: "JSON 缺少 file",
			ctx: func(*testing.T) *app.RequestContext {
				return jsonRequest(consts.MethodPost, "/upload", map[string]string{"filename": "a.pdf"})
			},
			wantErr: processor.ErrMissingFile.Error(),
		},
		{
			name: "JSON file 不是 base64",
			ctx: func(*testing.T) *app.RequestContext {
				return jsonRequest(consts.MethodPost, "/upload", map[string]string{"file": "不是base64!!"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.ctx(t)
			h.HandleUpload(context.Background(), c)

			assert.Equal(t, consts.StatusBadRequest, c.Response.StatusCode())
			env := decode(t, c)
			assert.False(t, env.Success)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, env.Error)
			} else {
				assert.NotEmpty(t, env.Error)
			}
		})
	}
}

func TestHandleUpload_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "文字过少",
			err:        &processor.AnalysisError{CacheKey: "k", Op: "extract", BaseErr: processor.ErrTooLittleText, Detail: "仅提取到 3 个有效字符"},
			wantStatus: consts.StatusUnprocessableEntity,
			wantError:  processor.ErrTooLittleText.Error(),
		},
		{
			name:       "不支持的文件类型",
			err:        &processor.AnalysisError{CacheKey: "k", Op: "detect", BaseErr: processor.ErrUnsupportedFileType},
			wantStatus: consts.StatusBadRequest,
			wantError:  processor.ErrUnsupportedFileType.Error(),
		},
		{
			name:       "提取失败",
			err:        &processor.AnalysisError{CacheKey: "k", Op: "extract", BaseErr: processor.ErrExtractFailed, Detail: "xref"},
			wantStatus: consts.StatusBadRequest,
			wantError:  processor.ErrExtractFailed.Error(),
		},
		{
			name:       "内部错误不暴露细节",
			err:        errors.New("dial tcp 10.0.0.1:3306: connection refused"),
			wantStatus: consts.StatusInternalServerError,
			wantError:  msgInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewResumeHandler(&fakeService{err: tt.err})
			c := multipartRequest(t, "file", "a.pdf", []byte("%PDF-1.4"))
			h.HandleUpload(context.Background(), c)

			assert.Equal(t, tt.wantStatus, c.Response.StatusCode())
			env := decode(t, c)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantError, env.Error)
			assert.NotContains(t, env.Error, "cache_key", "错误信息不应包含内部字段")
		})
	}
}

func TestHandleMatch(t *testing.T) {
	svc := &fakeService{result: &types.MatchResult{OverallScore: 72.5, Recommendations: []string{"x"}}}
	h := NewResumeHandler(svc)

	c := jsonRequest(consts.MethodPost, "/api/v1/resume/match", map[string]any{
		"cache_key":       "abc",
		"job_description": "招聘Go后端工程师",
		"resume_text":     "王强 Go",
		"extracted_info":  map[string]any{"skills": []string{"Go"}},
	})
	h.HandleMatch(context.Background(), c)

	assert.Equal(t, consts.StatusOK, c.Response.StatusCode())
	env := decode(t, c)
	assert.True(t, env.Success)
	assert.Equal(t, MsgMatchOK, env.Message)
	assert.Contains(t, string(env.Data), `"overall_score":72.5`)

	assert.Equal(t, "abc", svc.gotMatch.CacheKey)
	assert.Equal(t, "招聘Go后端工程师", svc.gotMatch.JobDescription)
	assert.Equal(t, "王强 Go", svc.gotMatch.ResumeText)
	require.NotNil(t, svc.gotMatch.ExtractedInfo)
	assert.Equal(t, []string{"Go"}, svc.gotMatch.ExtractedInfo.Skills)
}

func TestHandleMatch_Errors(t *testing.T) {
	t.Run("缺少岗位描述", func(t *testing.T) {
		svc := &fakeService{}
		c := jsonRequest(consts.MethodPost, "/match", map[string]string{"resume_text": "王强"})
		NewResumeHandler(svc).HandleMatch(context.Background(), c)

		assert.Equal(t, consts.StatusBadRequest, c.Response.StatusCode())
		assert.Equal(t, processor.ErrMissingJobDescription.Error(), decode(t, c).Error)
		assert.Empty(t, svc.gotMatch.JobDescription, "校验失败时不应调用服务")
	})

	t.Run("缺少简历", func(t *testing.T) {
		svc := &fakeService{err: processor.ErrMissingResume}
		c := jsonRequest(consts.MethodPost, "/match", map[string]string{"job_description": "招聘"})
		NewResumeHandler(svc).HandleMatch(context.Background(), c)

		assert.Equal(t, consts.StatusBadRequest, c.Response.StatusCode())
		assert.Equal(t, processor.ErrMissingResume.Error(), decode(t, c).Error)
	})

	t.Run("请求体不是JSON", func(t *testing.T) {
		raw := []byte("{not json")
		c := ut.CreateUtRequestContext(consts.MethodPost, "/match", &ut.Body{Body: bytes.NewReader(raw), Len: len(raw)},
			ut.Header{Key: "Content-Type", Value: "application/json"})
		NewResumeHandler(&fakeService{}).HandleMatch(context.Background(), c)

		assert.Equal(t, consts.StatusBadRequest, c.Response.StatusCode())
		assert.False(t, decode(t, c).Success)
	})
}

type fakeStatus map[string]string

func (f fakeStatus) Status(context.Context) map[string]string { return f }

type fakeCache int

func (f fakeCache) CacheSize() int { return int(f) }

func TestHandleHealth(t *testing.T) {
	h := NewHealthHandler(fakeCache(3), fakeStatus{"redis": "up", "minio": "disabled"}, true)
	c := ut.CreateUtRequestContext(consts.MethodGet, "/api/v1/health", nil)
	h.HandleHealth(context.Background(), c)

	assert.Equal(t, consts.StatusOK, c.Response.StatusCode())

	var body struct {
		Success    bool              `json:"success"`
		Message    string            `json:"message"`
		Version    string            `json:"version"`
		Endpoints  map[string]string `json:"endpoints"`
		Components map[string]any    `json:"components"`
	}
	require.NoError(t, json.Unmarshal(c.Response.Body(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, MsgHealthOK, body.Message)
	assert.Equal(t, "1.0.0", body.Version)
	assert.Contains(t, body.Endpoints, "POST /api/v1/resume/upload")
	assert.Equal(t, float64(3), body.Components["cache_size"])
	assert.Equal(t, "up", body.Components["redis"])
	assert.Equal(t, true, body.Components["ai_enabled"])
}

func TestHandleHealth_WithoutStorage(t *testing.T) {
	h := NewHealthHandler(nil, nil, false)
	c := ut.CreateUtRequestContext(consts.MethodGet, "/health", nil)
	h.HandleHealth(context.Background(), c)

	assert.Equal(t, consts.StatusOK, c.Response.StatusCode())
	assert.Contains(t, string(c.Response.Body()), `"ai_enabled":false`)
}
