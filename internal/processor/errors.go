package processor

import (
	"errors"
	"fmt"

	"cv-analysis-go/internal/parser"
)

// 输入错误，对应 400
var (
	ErrUnsupportedContentType = errors.New("不支持的内容类型")
	ErrMissingFile            = errors.New("未找到简历文件")
	ErrInvalidBody            = errors.New("请求体格式错误")
	ErrMissingJobDescription  = errors.New("缺少岗位描述")
	ErrMissingResume          = errors.New("缺少简历数据，请先上传简历或提供 cache_key")
	ErrUnsupportedFileType    = parser.ErrUnsupportedFileType
)

// 提取退化错误，不重试
var (
	ErrTooLittleText = errors.New("简历文本过少，可能是扫描件或图片格式的PDF")
	ErrExtractFailed = errors.New("简历文本提取失败")
)

// AnalysisError 携带缓存键与操作名的错误
type AnalysisError struct {
	CacheKey string
	Op       string
	BaseErr  error
	Detail   string
}

func (e *AnalysisError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, cache_key:%s): %s", e.BaseErr, e.Op, e.CacheKey, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, cache_key:%s)", e.BaseErr, e.Op, e.CacheKey)
}

func (e *AnalysisError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *AnalysisError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

func newAnalysisError(cacheKey, op string, base error, detail string) error {
	return &AnalysisError{CacheKey: cacheKey, Op: op, BaseErr: base, Detail: detail}
}

// IsInputError 是否为调用方输入问题
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrUnsupportedContentType, ErrMissingFile, ErrInvalidBody,
		ErrMissingJobDescription, ErrMissingResume, ErrUnsupportedFileType,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
