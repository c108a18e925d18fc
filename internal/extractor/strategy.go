package extractor

import (
	"regexp"
	"strings"
)

// Source 抽取策略的输入
type Source struct {
	// Text 规范化之后的文本
	Text string
	// Original 规范化之前的原文，用于手机号、邮箱被拆散时的兜底
	Original string
}

// Strategy 单个抽取策略，找不到时返回 ok=false，不允许 panic
type Strategy func(src Source) (string, bool)

// Pipeline 按顺序尝试，第一个成功的策略生效
type Pipeline []Strategy

// Run 执行流水线
func (p Pipeline) Run(src Source) (string, bool) {
	for _, s := range p {
		if v, ok := s(src); ok {
			return v, true
		}
	}
	return "", false
}

// captureIn 在 Text 中取第一个匹配的第1捕获组，经 accept 校验（可为 nil）
func captureIn(re *regexp.Regexp, accept func(string) (string, bool)) Strategy {
	return func(src Source) (string, bool) {
		return firstCapture(re, src.Text, accept)
	}
}

// captureAll 与 captureIn 相同，但会继续尝试后续匹配直到某个通过校验
func captureAll(re *regexp.Regexp, accept func(string) (string, bool)) Strategy {
	return func(src Source) (string, bool) {
		for _, m := range re.FindAllStringSubmatch(src.Text, -1) {
			if v, ok := acceptCapture(m, accept); ok {
				return v, true
			}
		}
		return "", false
	}
}

func firstCapture(re *regexp.Regexp, text string, accept func(string) (string, bool)) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return acceptCapture(m, accept)
}

func acceptCapture(m []string, accept func(string) (string, bool)) (string, bool) {
	if len(m) < 2 {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return "", false
	}
	if accept == nil {
		return v, true
	}
	return accept(v)
}
