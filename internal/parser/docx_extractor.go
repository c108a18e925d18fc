package parser

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"cv-analysis-go/internal/types"
)

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:br\s[^>]*/>`)
	docxTab          = regexp.MustCompile(`<w:tab/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// DocxExtractor 提取 Word(.docx) 正文文本，整篇作为第1页返回
type DocxExtractor struct{}

// NewDocxExtractor 创建 docx 提取器
func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{}
}

// Name 提取器名称
func (d *DocxExtractor) Name() string { return "docx" }

// ExtractPages 实现 PageExtractor
func (d *DocxExtractor) ExtractPages(ctx context.Context, data []byte, uri string) ([]types.PageText, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("解析docx失败 (URI %s): %w", uri, err)
	}
	defer doc.Close()

	text := docxXMLToText(doc.Editable().GetContent())
	return []types.PageText{{PageNumber: 1, Text: text}}, nil
}

// docxXMLToText 把 document.xml 转成纯文本：段落、换行转为 \n，制表转为 \t
func docxXMLToText(content string) string {
	s := docxParagraphEnd.ReplaceAllString(content, "\n")
	s = docxTab.ReplaceAllString(s, "\t")
	s = xmlTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}
