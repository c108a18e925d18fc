package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 可选的真实简历样本，不存在时跳过
var samplePDFs = []string{
	"testdata/resume_sample.pdf",
	"../../testdata/resume_sample.pdf",
}

func findSamplePDF(t *testing.T) []byte {
	t.Helper()
	for _, p := range samplePDFs {
		if data, err := os.ReadFile(p); err == nil {
			return data
		}
	}
	t.Skip("未找到测试用PDF文件，跳过")
	return nil
}

func TestNewEinoPDFTextExtractor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	extractor, err := NewEinoPDFTextExtractor(ctx)
	require.NoError(t, err, "创建PDF提取器不应返回错误")
	require.NotNil(t, extractor.parser, "PDF提取器内部的parser不应为nil")
	assert.Equal(t, defaultParseTimeout, extractor.timeout)

	custom := zerolog.Nop()
	withOpts, err := NewEinoPDFTextExtractor(ctx, WithEinoLogger(custom), WithEinoTimeout(time.Second))
	require.NoError(t, err, "带选项创建PDF提取器不应返回错误")
	assert.Equal(t, time.Second, withOpts.timeout, "应使用自定义超时")
}

func TestPDFExtractorsRejectGarbage(t *testing.T) {
	ctx := context.Background()
	eino, err := NewEinoPDFTextExtractor(ctx)
	require.NoError(t, err)

	garbage := []byte("this is definitely not a pdf document")
	_, err = eino.ExtractPages(ctx, garbage, "garbage.pdf")
	assert.Error(t, err, "eino 解析非PDF内容应返回错误")

	_, err = NewLedongthucPDFExtractor().ExtractPages(ctx, garbage, "garbage.pdf")
	assert.Error(t, err, "ledongthuc 解析非PDF内容应返回错误")
}

func TestPDFExtractorsOnSample(t *testing.T) {
	data := findSamplePDF(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	eino, err := NewEinoPDFTextExtractor(ctx)
	require.NoError(t, err)

	for _, ex := range []PageExtractor{eino, NewLedongthucPDFExtractor()} {
		pages, err := ex.ExtractPages(ctx, data, filepath.Base(samplePDFs[0]))
		require.NoError(t, err, "%s 提取样本PDF不应出错", extractorName(ex))
		require.NotEmpty(t, pages)
		for i, p := range pages {
			assert.Equal(t, i+1, p.PageNumber, "页码应从1开始连续")
		}
	}
}
