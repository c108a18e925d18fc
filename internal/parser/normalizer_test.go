package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRepairsSpacedTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"手机号被空格拆开", "电话：138 0000 1234", "电话：13800001234"},
		{"逐位拆开", "1 3 8 0 0 0 0 1 2 3 4", "13800001234"},
		{"邮箱@两侧空白", "wang @ example.com", "wang@example.com"},
		{"邮箱顶级域前空白", "wang@qq . com", "wang@qq.com"},
		{"邮箱整体拆开", "wang @ 163 . com", "wang@163.com"},
		{"全角数字与@", "１３８００００１２３４ ｗａｎｇ＠ｑｑ．ｃｏｍ", "13800001234 wang@qq.com"},
		{"普通句点不受影响", "熟悉Go. 热爱编程", "熟悉Go. 热爱编程"},
		{"数字与汉字之间不合并", "3 年经验", "3 年经验"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeCleansWhitespace(t *testing.T) {
	in := "  姓名：王强  \r\n\r\n\r\n\r\n教育背景\r本科   计算机\x00\x07\x1f\n\n\n\n技能\x7f\u009f"
	want := "姓名：王强\n\n教育背景\n本科 计算机\n\n技能"
	assert.Equal(t, want, Normalize(in), "换行、空白和控制字符应按策略清洗")
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"1 \x01 2",
		"\n \n \n \nabc",
		"a\t\t1 2\t3",
		"wang @ qq . com\r\n1 3 8",
		"ｗａｎｇ ＠ ｑｑ ． ｃｏｍ",
		"张 三\n\n\n\n\n  技能： Go , Python  ",
		"x @ y @ z . cn",
		"1 2　3",
		"中文　　文本\v\f结尾",
		"@x" + strings.Repeat(" . com", 10),
		"邮箱: a @ b" + strings.Repeat(" . cn", 12),
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize 应幂等, 输入: %q", in)
	}
}

func TestNormalizeChainedTLD(t *testing.T) {
	got := Normalize("@x" + strings.Repeat(" . com", 10))
	assert.Equal(t, "@x"+strings.Repeat(".com", 10), got, "链式顶级域碎片应一次修复完")
}

func TestNormalizeNeverPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		Normalize(string([]byte{0xff, 0xfe, '1', ' ', '2', '@', ' '}))
	}, "非法UTF-8输入不应panic")
}
