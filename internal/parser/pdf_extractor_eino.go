package parser

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cv-analysis-go/internal/types"
)

// defaultParseTimeout 单个文档的解析超时
const defaultParseTimeout = 30 * time.Second

// EinoPDFTextExtractor 使用 Eino PDF Parser 按页提取文本
type EinoPDFTextExtractor struct {
	parser  *pdf.PDFParser
	logger  zerolog.Logger
	timeout time.Duration
}

// EinoPDFOption PDF提取器的配置选项
type EinoPDFOption func(*EinoPDFTextExtractor)

// WithEinoLogger 配置自定义日志记录器
func WithEinoLogger(logger zerolog.Logger) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		e.logger = logger
	}
}

// WithEinoTimeout 配置解析超时
func WithEinoTimeout(d time.Duration) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEinoPDFTextExtractor 初始化 Eino PDF 文本提取器，按页输出
func NewEinoPDFTextExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: true, // 每页一个 Document，对应 PageText
	})
	if err != nil {
		return nil, fmt.Errorf("创建 Eino PDF 解析器失败: %w", err)
	}

	extractor := &EinoPDFTextExtractor{
		parser:  p,
		logger:  log.With().Str("component", "pdf_eino").Logger(),
		timeout: defaultParseTimeout,
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor, nil
}

// Name 提取器名称
func (e *EinoPDFTextExtractor) Name() string { return "eino-pdf" }

// ExtractPages 实现 PageExtractor
func (e *EinoPDFTextExtractor) ExtractPages(ctx context.Context, data []byte, uri string) ([]types.PageText, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	docs, err := e.parser.Parse(ctx, bytes.NewReader(data),
		einoParser.WithURI(uri),
		einoParser.WithExtraMeta(map[string]any{
			"source_uri":      uri,
			"extraction_time": startTime.Format(time.RFC3339),
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("eino PDF 解析失败 (URI %s): %w", uri, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("eino PDF 解析无结果 (URI %s)", uri)
	}

	pages := make([]types.PageText, 0, len(docs))
	for i, doc := range docs {
		pages = append(pages, types.PageText{PageNumber: i + 1, Text: doc.Content})
	}

	e.logger.Debug().
		Str("uri", uri).
		Int("pages", len(pages)).
		Dur("duration", time.Since(startTime)).
		Msg("PDF提取完成")
	return pages, nil
}
