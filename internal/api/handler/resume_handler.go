package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/go-playground/validator/v10"

	"cv-analysis-go/internal/processor"
	"cv-analysis-go/internal/types"
)

// ResumeService 处理器需要实现的业务接口
type ResumeService interface {
	Upload(ctx context.Context, data []byte, filename string) (*types.ParsedResume, error)
	Match(ctx context.Context, req processor.MatchRequest) (*types.MatchResult, error)
}

// uploadBody JSON 方式上传：base64 编码的文件内容
type uploadBody struct {
	File     string `json:"file" validate:"required,base64"`
	Filename string `json:"filename" validate:"omitempty,max=255"`
}

// matchBody 匹配请求体
type matchBody struct {
	CacheKey       string               `json:"cache_key" validate:"omitempty,max=64"`
	JobDescription string               `json:"job_description" validate:"required"`
	ResumeText     string               `json:"resume_text"`
	ExtractedInfo  *types.ExtractedInfo `json:"extracted_info"`
}

// ResumeHandler 简历上传与匹配接口
type ResumeHandler struct {
	service  ResumeService
	validate *validator.Validate
}

// NewResumeHandler 创建处理器
func NewResumeHandler(service ResumeService) *ResumeHandler {
	return &ResumeHandler{service: service, validate: validator.New()}
}

// HandleUpload 上传并解析简历
// POST /api/v1/resume/upload
func (h *ResumeHandler) HandleUpload(ctx context.Context, c *app.RequestContext) {
	data, filename, err := h.readUpload(c)
	if err != nil {
		fail(ctx, c, err)
		return
	}

	parsed, err := h.service.Upload(ctx, data, filename)
	if err != nil {
		fail(ctx, c, err)
		return
	}
	ok(c, MsgUploadOK, parsed)
}

// readUpload 支持 multipart 的 file 字段和 JSON 的 base64 内容
func (h *ResumeHandler) readUpload(c *app.RequestContext) ([]byte, string, error) {
	contentType := strings.ToLower(string(c.Request.Header.ContentType()))

	switch {
	case strings.Contains(contentType, "multipart/form-data"):
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return nil, "", processor.ErrMissingFile
		}
		file, err := fileHeader.Open()
		if err != nil {
			return nil, "", fmt.Errorf("打开上传文件失败: %w", err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", fmt.Errorf("读取上传文件失败: %w", err)
		}
		if len(data) == 0 {
			return nil, "", processor.ErrMissingFile
		}
		return data, fileHeader.Filename, nil

	case strings.Contains(contentType, "application/json"):
		var body uploadBody
		if err := c.BindJSON(&body); err != nil {
			return nil, "", fmt.Errorf("%w: %v", processor.ErrInvalidBody, err)
		}
		if body.File == "" {
			return nil, "", processor.ErrMissingFile
		}
		if err := h.validate.Struct(&body); err != nil {
			return nil, "", fmt.Errorf("%w: %v", processor.ErrInvalidBody, err)
		}
		data, err := base64.StdEncoding.DecodeString(body.File)
		if err != nil {
			return nil, "", fmt.Errorf("%w: file 不是有效的 base64", processor.ErrInvalidBody)
		}
		return data, body.Filename, nil

	default:
		return nil, "", processor.ErrUnsupportedContentType
	}
}

// HandleMatch 简历与岗位匹配评分
// POST /api/v1/resume/match
func (h *ResumeHandler) HandleMatch(ctx context.Context, c *app.RequestContext) {
	var body matchBody
	if err := c.BindJSON(&body); err != nil {
		fail(ctx, c, fmt.Errorf("%w: %v", processor.ErrInvalidBody, err))
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Field() == "JobDescription" {
			fail(ctx, c, processor.ErrMissingJobDescription)
			return
		}
		fail(ctx, c, fmt.Errorf("%w: %v", processor.ErrInvalidBody, err))
		return
	}

	result, err := h.service.Match(ctx, processor.MatchRequest{
		CacheKey:       body.CacheKey,
		JobDescription: body.JobDescription,
		ResumeText:     body.ResumeText,
		ExtractedInfo:  body.ExtractedInfo,
	})
	if err != nil {
		fail(ctx, c, err)
		return
	}
	ok(c, MsgMatchOK, result)
}
