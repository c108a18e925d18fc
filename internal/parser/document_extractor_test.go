package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-analysis-go/internal/constants"
	"cv-analysis-go/internal/types"
)

type fakeExtractor struct {
	pages []types.PageText
	err   error
	calls int
}

func (f *fakeExtractor) ExtractPages(ctx context.Context, data []byte, uri string) ([]types.PageText, error) {
	f.calls++
	return f.pages, f.err
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
		want     string
		wantErr  bool
	}{
		{"PDF魔数", []byte("%PDF-1.7\n..."), "a.bin", constants.FileTypePDF, false},
		{"PDF前有垃圾字节", []byte("\xef\xbb\xbf%PDF-1.4"), "", constants.FileTypePDF, false},
		{"docx压缩包", []byte("PK\x03\x04....word/document.xml"), "", constants.FileTypeDOCX, false},
		{"zip靠扩展名识别", []byte("PK\x03\x04...."), "cv.DOCX", constants.FileTypeDOCX, false},
		{"普通zip", []byte("PK\x03\x04...."), "a.zip", "", true},
		{"纯文本", []byte("hello"), "a.txt", "", true},
		{"空内容", nil, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFileType(tt.data, tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFileType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocumentExtractorFallsBack(t *testing.T) {
	pdfData := []byte("%PDF-1.4 fake")
	ctx := context.Background()

	t.Run("主提取器出错时使用兜底", func(t *testing.T) {
		primary := &fakeExtractor{err: errors.New("boom")}
		fallback := &fakeExtractor{pages: []types.PageText{{PageNumber: 1, Text: "hello"}}}
		d := NewDocumentExtractor(nil, primary, fallback)

		fileType, pages, err := d.Extract(ctx, pdfData, "cv.pdf")
		require.NoError(t, err)
		assert.Equal(t, constants.FileTypePDF, fileType)
		assert.Equal(t, "hello", pages[0].Text)
		assert.Equal(t, 1, fallback.calls)
	})

	t.Run("主提取器成功时不调用兜底", func(t *testing.T) {
		primary := &fakeExtractor{pages: []types.PageText{{PageNumber: 1, Text: "ok"}}}
		fallback := &fakeExtractor{}
		d := NewDocumentExtractor(nil, primary, fallback)

		_, _, err := d.Extract(ctx, pdfData, "cv.pdf")
		require.NoError(t, err)
		assert.Equal(t, 0, fallback.calls, "主提取器有文字时不应调用兜底")
	})

	t.Run("全部为空页时返回空页结果", func(t *testing.T) {
		blank := []types.PageText{{PageNumber: 1, Text: "  "}, {PageNumber: 2, Text: ""}}
		d := NewDocumentExtractor(nil, &fakeExtractor{pages: blank}, &fakeExtractor{pages: blank})

		_, pages, err := d.Extract(ctx, pdfData, "scan.pdf")
		require.NoError(t, err, "扫描件不是提取错误，由上层判断文字过少")
		assert.Len(t, pages, 2)
		assert.False(t, HasText(pages))
	})

	t.Run("全部失败时返回合并错误", func(t *testing.T) {
		e1, e2 := errors.New("e1"), errors.New("e2")
		d := NewDocumentExtractor(nil, &fakeExtractor{err: e1}, &fakeExtractor{err: e2})

		_, _, err := d.Extract(ctx, pdfData, "bad.pdf")
		assert.ErrorIs(t, err, e1)
		assert.ErrorIs(t, err, e2)
	})

	t.Run("未配置docx提取器", func(t *testing.T) {
		d := NewDocumentExtractor(nil, &fakeExtractor{})
		_, _, err := d.Extract(ctx, []byte("PK\x03\x04 word/"), "cv.docx")
		assert.ErrorIs(t, err, ErrUnsupportedFileType)
	})
}

func TestJoinPages(t *testing.T) {
	pages := []types.PageText{{PageNumber: 1, Text: "a"}, {PageNumber: 2, Text: "b"}}
	assert.Equal(t, "a\nb\n", JoinPages(pages))
}

func TestDocxXMLToText(t *testing.T) {
	xml := `<w:document><w:body><w:p><w:r><w:t>姓名：王强</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>技能</w:t><w:tab/><w:t>Go &amp; Python</w:t></w:r></w:p></w:body></w:document>`
	assert.Equal(t, "姓名：王强\n技能\tGo & Python", docxXMLToText(xml))
}
