package storage

import "time"

// ResumeParsedEvent 简历解析完成事件，路由键默认为 resume.parsed
type ResumeParsedEvent struct {
	CacheKey         string    `json:"cache_key"`
	Filename         string    `json:"filename"`
	FileType         string    `json:"file_type"`
	PageCount        int       `json:"page_count"`
	Skills           []string  `json:"skills"`
	ExtractionMethod string    `json:"extraction_method"`
	OriginalObject   string    `json:"original_object,omitempty"`
	ParsedTextObject string    `json:"parsed_text_object,omitempty"`
	ParsedAt         time.Time `json:"parsed_at"`
}
