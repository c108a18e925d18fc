package tracing

import (
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// 写入 span 和日志的字段长度上限（字符）
const (
	DefaultMaxLength  = 200
	maxSQLLength      = 500
	maxKeyLength      = 100
	maxFilenameLength = 80
	maxPreviewLength  = 150
)

// 属性名包含这些词时按个人信息处理
var piiKeywords = []string{
	"name", "姓名", "phone", "电话", "email", "邮箱",
	"address", "地址", "id_card", "身份证", "api_key", "token",
}

// PIIString 生成 span 属性，候选人信息类字段自动掩码，其余超长截断
func PIIString(key, value string) attribute.KeyValue {
	lower := strings.ToLower(key)
	for _, kw := range piiKeywords {
		if strings.Contains(lower, kw) {
			return attribute.String(key, MaskPII(value))
		}
	}
	return attribute.String(key, TruncateString(value, DefaultMaxLength))
}

// MaskPII 两到四个字符保留首尾（姓名），更长的保留首尾各两个（手机号、邮箱）
func MaskPII(value string) string {
	r := []rune(value)
	n := len(r)
	switch {
	case n == 0:
		return ""
	case n == 1:
		return "*"
	case n == 2:
		return string(r[0]) + "*"
	case n <= 4:
		return string(r[0]) + strings.Repeat("*", n-2) + string(r[n-1])
	default:
		return string(r[:2]) + strings.Repeat("*", n-4) + string(r[n-2:])
	}
}

// TruncateString 超长时保留首尾，中间以 ... 连接
func TruncateString(s string, maxLength int) string {
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(r[:maxLength])
	}
	keep := max((maxLength-3)/2, 1)
	return string(r[:keep]) + "..." + string(r[len(r)-keep:])
}

func SafeSQL(sql string) string { return TruncateString(sql, maxSQLLength) }

func SafeRedisKey(key string) string { return TruncateString(key, maxKeyLength) }

func SafeFilename(name string) string { return TruncateString(name, maxFilenameLength) }

// SafeResumeContent 日志里只留简历开头和结尾的片段
func SafeResumeContent(content string) string { return TruncateString(content, maxPreviewLength) }
