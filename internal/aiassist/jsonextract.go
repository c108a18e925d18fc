package aiassist

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// ErrNoJSON 回复中找不到可解析的 JSON 对象
var ErrNoJSON = errors.New("模型回复中没有可解析的 JSON 对象")

var fenceRegex = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// ExtractJSON 从模型回复中取出第一个完整的 JSON 对象。
// 依次处理 BOM、```json 代码块、前后夹杂的说明文字；对象不合法时再尝试修复未转义的引号。
func ExtractJSON(content string) (string, error) {
	text := strings.TrimPrefix(strings.TrimSpace(content), "\uFEFF")
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}

	candidates := make([]string, 0, 2)
	if m := fenceRegex.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	candidates = append(candidates, text)

	for _, c := range candidates {
		spans := objectSpans(c)
		if naive := naiveSpan(c); naive != "" {
			spans = append(spans, naive)
		}
		for _, obj := range spans {
			if gjson.Valid(obj) {
				return obj, nil
			}
			if fixed := sanitizeJSON(obj); gjson.Valid(fixed) {
				return fixed, nil
			}
		}
	}
	return "", ErrNoJSON
}

// objectSpans 返回所有顶层 {...} 片段，括号计数时忽略字符串内的括号
func objectSpans(text string) []string {
	var (
		spans   []string
		level   int
		start   = -1
		inStr   bool
		escaped bool
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			if level > 0 {
				inStr = true
			}
		case '{':
			if level == 0 {
				start = i
			}
			level++
		case '}':
			if level == 0 {
				continue
			}
			level--
			if level == 0 && start >= 0 {
				spans = append(spans, text[start:i+1])
				start = -1
			}
		}
	}
	return spans
}

// naiveSpan 从第一个 { 开始按括号计数，不区分字符串；字符串内引号未转义时 objectSpans 会失效
func naiveSpan(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}
	level := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// sanitizeJSON 把字符串内部未转义的双引号改写为 \"。
// 判断依据：下一个非空白字符是 : , ] } 之一时才认为字符串真正结束。
func sanitizeJSON(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	inStr := false
	escaped := false

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '"' && !escaped:
			if !inStr {
				inStr = true
				b.WriteByte(c)
				break
			}
			j := i + 1
			for j < len(src) && (src[j] == ' ' || src[j] == '\t' || src[j] == '\n' || src[j] == '\r') {
				j++
			}
			if j < len(src) && (src[j] == ':' || src[j] == ',' || src[j] == ']' || src[j] == '}') {
				inStr = false
				b.WriteByte(c)
			} else {
				b.WriteString(`\"`)
			}
			escaped = false
		case c == '\\' && !escaped:
			escaped = true
			b.WriteByte(c)
		default:
			b.WriteByte(c)
			escaped = false
		}
	}
	return b.String()
}
