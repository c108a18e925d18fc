package utils

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strings"
	"unicode"

	"gorm.io/datatypes"
)

// StringPtr 返回字符串的指针，空串返回 nil
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref 安全地解引用字符串指针
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// CalculateMD5 计算字节内容的MD5（小写十六进制），用作缓存键
func CalculateMD5(data []byte) string {
	hasher := md5.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// ConvertArrayToJSON 将字符串数组转换为JSON，失败或为空时返回 []
func ConvertArrayToJSON(arr []string) datatypes.JSON {
	if len(arr) == 0 {
		return datatypes.JSON("[]")
	}
	jsonBytes, err := json.Marshal(arr)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(jsonBytes)
}

// ConvertToJSON 将任意值序列化为 datatypes.JSON，失败时返回 {}
func ConvertToJSON(v any) datatypes.JSON {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(jsonBytes)
}

// TruncateRunes 按字符（而非字节）截断
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// CountNonSpaceRunes 统计非空白字符数
func CountNonSpaceRunes(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// RuneLen 字符长度
func RuneLen(s string) int {
	return len([]rune(strings.TrimSpace(s)))
}
