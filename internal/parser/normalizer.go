package parser

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// PDF 按栏提取时经常把连续字符拆成 "1 3 8 0 0"、"wang @ qq . com" 这样的碎片，
// Normalize 尽力把它们拼回去，并统一换行和空白。
//
// 处理顺序：
//  1. 全角字母数字、＠、．折叠为半角
//  2. 去除不可见控制字符（保留 \t \n \r）
//  3. 数字之间的水平空白删除
//  4. @ 两侧、邮箱域名中顶级域前的 . 两侧空白删除
//  5. 统一换行、逐行去首尾空白、3个及以上换行压缩为2个、连续空格压缩为1个、整体去首尾空白
//
// 任何输入都不会报错，Normalize(Normalize(x)) == Normalize(x)。

var (
	// 邮箱修复：@ 两侧的空白
	spacedAtRegex = regexp.MustCompile(`([A-Za-z0-9._%+\-])[\p{Zs}\t]*@[\p{Zs}\t]*([A-Za-z0-9\-])`)
	// 邮箱修复：@ 之后域名里顶级域前面的 " . "
	spacedTLDRegex = regexp.MustCompile(`(@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)*)[\p{Zs}\t]*\.[\p{Zs}\t]*(com|cn|net|org|edu|gov|io)\b`)

	multiNewlineRegex = regexp.MustCompile(`\n{3,}`)
	multiSpaceRegex   = regexp.MustCompile(` {2,}`)

	fullwidthFolder = runes.If(runes.Predicate(isFoldableFullwidth), width.Narrow, transform.Nop)
)

// Normalize 对提取出的文本做修复和清洗
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := foldFullwidth(text)
	s = stripControlChars(s)
	s = RepairTokens(s)
	return CleanText(s)
}

// RepairTokens 只做碎片修复（步骤3、4），不改变换行结构
func RepairTokens(text string) string {
	s := text
	// 每次改写只删除字符，长度严格递减，循环到不动点必然结束，也保证幂等
	for {
		next := collapseDigitGaps(s)
		next = spacedAtRegex.ReplaceAllString(next, "$1@$2")
		next = spacedTLDRegex.ReplaceAllString(next, "$1.$2")
		if next == s {
			break
		}
		s = next
	}
	return s
}

// CleanText 换行与空白策略
func CleanText(text string) string {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	// 先逐行去首尾空白，再压缩空行，否则 "\n \n \n" 这种会在第二次处理时才被压缩
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")

	s = multiNewlineRegex.ReplaceAllString(s, "\n\n")
	s = multiSpaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// collapseDigitGaps 删除两个数字之间的水平空白，等价于对 (\d)\s+(\d) 反复替换直到不再变化
func collapseDigitGaps(s string) string {
	rs := []rune(s)
	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if isHorizontalSpace(r) && i > 0 && isASCIIDigit(rs[i-1]) {
			j := i
			for j < len(rs) && isHorizontalSpace(rs[j]) {
				j++
			}
			if j < len(rs) && isASCIIDigit(rs[j]) {
				i = j - 1
				continue
			}
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if isStrippedControl(r) {
			return -1
		}
		return r
	}, s)
}

func foldFullwidth(s string) string {
	out, _, err := transform.String(fullwidthFolder, s)
	if err != nil {
		return s
	}
	return out
}

// isStrippedControl 0x00-0x08, 0x0B, 0x0C, 0x0E-0x1F, 0x7F-0x9F
func isStrippedControl(r rune) bool {
	switch {
	case r <= 0x08:
		return true
	case r == 0x0B || r == 0x0C:
		return true
	case r >= 0x0E && r <= 0x1F:
		return true
	case r >= 0x7F && r <= 0x9F:
		return true
	}
	return false
}

func isHorizontalSpace(r rune) bool {
	return r != '\n' && r != '\r' && unicode.IsSpace(r)
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isFoldableFullwidth 全角数字、字母以及 ＠ ．
func isFoldableFullwidth(r rune) bool {
	switch {
	case r >= 0xFF10 && r <= 0xFF19:
		return true
	case r >= 0xFF21 && r <= 0xFF3A:
		return true
	case r >= 0xFF41 && r <= 0xFF5A:
		return true
	case r == 0xFF20 || r == 0xFF0E:
		return true
	}
	return false
}
