package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"cv-analysis-go/internal/constants"
	"cv-analysis-go/internal/logger"
	"cv-analysis-go/internal/types"
)

// ErrUnsupportedFileType 既不是PDF也不是docx
var ErrUnsupportedFileType = errors.New("不支持的文件类型，仅支持 PDF 和 DOCX")

// PageExtractor 从文档字节中按页提取纯文本
type PageExtractor interface {
	ExtractPages(ctx context.Context, data []byte, uri string) ([]types.PageText, error)
}

// namedExtractor 用于日志中标识具体实现
type namedExtractor interface {
	Name() string
}

// DocumentExtractor 按文件类型分派到具体提取器；PDF 主提取器失败或没有任何文字时换兜底提取器再试一次
type DocumentExtractor struct {
	pdfExtractors []PageExtractor
	docx          PageExtractor
}

// NewDocumentExtractor pdfExtractors 按优先级排列，docx 可为 nil（不支持 docx 上传）
func NewDocumentExtractor(docx PageExtractor, pdfExtractors ...PageExtractor) *DocumentExtractor {
	return &DocumentExtractor{pdfExtractors: pdfExtractors, docx: docx}
}

// DetectFileType 根据魔数判断文件类型，魔数不明确时参考扩展名
func DetectFileType(data []byte, filename string) (string, error) {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return constants.FileTypePDF, nil
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		// docx 是 zip 包，里面一定有 word/ 目录
		if bytes.Contains(data, []byte("word/")) || strings.EqualFold(filepath.Ext(filename), ".docx") {
			return constants.FileTypeDOCX, nil
		}
	}
	// 部分生成器会在 %PDF 前写入少量垃圾字节
	if idx := bytes.Index(data[:min(len(data), 1024)], []byte("%PDF-")); idx >= 0 {
		return constants.FileTypePDF, nil
	}
	return "", ErrUnsupportedFileType
}

// Extract 识别类型并按页提取
func (d *DocumentExtractor) Extract(ctx context.Context, data []byte, filename string) (string, []types.PageText, error) {
	fileType, err := DetectFileType(data, filename)
	if err != nil {
		return "", nil, err
	}

	uri := filename
	if uri == "" {
		uri = "upload." + fileType
	}

	switch fileType {
	case constants.FileTypeDOCX:
		if d.docx == nil {
			return "", nil, ErrUnsupportedFileType
		}
		pages, err := d.docx.ExtractPages(ctx, data, uri)
		return fileType, pages, err
	default:
		pages, err := d.extractPDF(ctx, data, uri)
		return fileType, pages, err
	}
}

func (d *DocumentExtractor) extractPDF(ctx context.Context, data []byte, uri string) ([]types.PageText, error) {
	if len(d.pdfExtractors) == 0 {
		return nil, fmt.Errorf("未配置PDF提取器")
	}

	var (
		lastPages []types.PageText
		errs      []error
	)
	for _, ex := range d.pdfExtractors {
		pages, err := ex.ExtractPages(ctx, data, uri)
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("extractor", extractorName(ex)).Str("uri", uri).Msg("PDF提取失败，尝试下一个提取器")
			errs = append(errs, err)
			continue
		}
		if HasText(pages) {
			return pages, nil
		}
		// 全是空页（扫描件）时保留结果，换下一个提取器再试
		lastPages = pages
	}

	if lastPages != nil {
		return lastPages, nil
	}
	return nil, errors.Join(errs...)
}

// HasText 是否至少有一页包含非空白文字
func HasText(pages []types.PageText) bool {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			return true
		}
	}
	return false
}

// JoinPages 按页序拼接全文，每页之后追加换行
func JoinPages(pages []types.PageText) string {
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(p.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

func extractorName(ex PageExtractor) string {
	if n, ok := ex.(namedExtractor); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", ex)
}
