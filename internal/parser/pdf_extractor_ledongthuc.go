package parser

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"cv-analysis-go/internal/types"
)

// LedongthucPDFExtractor 基于 ledongthuc/pdf 的逐页提取，作为 eino 解析失败时的兜底
type LedongthucPDFExtractor struct{}

// NewLedongthucPDFExtractor 创建兜底PDF提取器
func NewLedongthucPDFExtractor() *LedongthucPDFExtractor {
	return &LedongthucPDFExtractor{}
}

// Name 提取器名称
func (l *LedongthucPDFExtractor) Name() string { return "ledongthuc-pdf" }

// ExtractPages 实现 PageExtractor；空白页（扫描件）返回空字符串而不是跳过，保持页码连续
func (l *LedongthucPDFExtractor) ExtractPages(ctx context.Context, data []byte, uri string) (pages []types.PageText, err error) {
	// 该库遇到损坏的对象流会 panic
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("读取PDF失败 (URI %s): %v", uri, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("读取PDF失败 (URI %s): %w", uri, err)
	}

	numPages := reader.NumPage()
	pages = make([]types.PageText, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		text := ""
		if !page.V.IsNull() {
			text, _ = page.GetPlainText(nil)
		}
		pages = append(pages, types.PageText{PageNumber: i, Text: text})
	}
	return pages, nil
}
