package skills

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// 技能两侧可接受的分隔符
const separatorClass = `[\s、，,；;或|/()（）:：。]`

// 单字母词（c、r）两侧不能是任何文字或数字，也不能是 &，避免 "C端"、"R&D" 误报
const shortTermGuard = `[^\p{L}\p{N}_&]`

var (
	softenRegex     = regexp.MustCompile(`[、，,；;或|等]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	alnumTermRegex  = regexp.MustCompile(`^[a-z0-9]+$`)
)

type termPattern struct {
	term   string
	length int
	re     *regexp.Regexp
}

// Scanner 在文本中按“最长优先”扫描技能词，构建后只读，可并发使用
type Scanner struct {
	patterns []termPattern
}

type hit struct {
	term       string
	length     int
	start, end int
	raw        bool // 命中位置属于未软化的原始小写文本
}

// NewScanner 为给定词表编译匹配规则，词表应为小写
func NewScanner(terms []string) *Scanner {
	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			lowered = append(lowered, t)
		}
	}

	patterns := make([]termPattern, 0, len(lowered))
	for _, t := range dedupe(lowered) {
		patterns = append(patterns, termPattern{
			term:   t,
			length: utf8.RuneCountInString(t),
			re:     regexp.MustCompile(buildPattern(t)),
		})
	}
	// 长词优先，如 "tcp/ip" 先于 "tcp"；等长时保持词表顺序
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].length > patterns[j].length
	})
	return &Scanner{patterns: patterns}
}

var defaultScanner = NewScanner(Keywords)

// Extract 使用默认词库扫描，返回小写匹配形式
func Extract(text string) []string {
	return defaultScanner.Scan(text)
}

// Scan 返回按首次出现位置排序、去重后的技能（小写匹配形式）。
// 重叠时长词胜出：已记录的短词被移除，与已记录长词重叠的短词被丢弃。
func (s *Scanner) Scan(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lower := strings.ToLower(text)
	softened := whitespaceRegex.ReplaceAllString(softenRegex.ReplaceAllString(lower, " "), " ")

	var found []hit
	for _, p := range s.patterns {
		raw := false
		locs := p.re.FindAllStringSubmatchIndex(softened, -1)
		if len(locs) == 0 {
			locs = p.re.FindAllStringSubmatchIndex(lower, -1)
			raw = true
		}
		for _, loc := range locs {
			h := hit{term: p.term, length: p.length, start: loc[2], end: loc[3], raw: raw}
			var ok bool
			if found, ok = place(found, h); ok {
				break // 每个技能只记录一次
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].raw != found[j].raw {
			return !found[i].raw
		}
		return found[i].start < found[j].start
	})

	out := make([]string, 0, len(found))
	for _, h := range found {
		out = append(out, h.term)
	}
	return out
}

// place 尝试记录一次命中，返回更新后的列表以及是否记录成功
func place(found []hit, h hit) ([]hit, bool) {
	var evict []int
	for i, f := range found {
		if f.raw != h.raw || h.end <= f.start || h.start >= f.end {
			continue
		}
		if h.length > f.length {
			evict = append(evict, i)
			continue
		}
		return found, false
	}
	if len(evict) > 0 {
		kept := found[:0:0]
		j := 0
		for i, f := range found {
			if j < len(evict) && evict[j] == i {
				j++
				continue
			}
			kept = append(kept, f)
		}
		found = kept
	}
	return append(found, h), true
}

// buildPattern 技能词的匹配规则，技能本身位于第1个捕获组
func buildPattern(term string) string {
	switch {
	case strings.ContainsAny(term, "+#/"):
		body := regexp.QuoteMeta(term)
		if strings.Contains(term, "/") {
			// tcp/ip 也匹配 "tcp ip"、"tcpip"
			parts := strings.SplitN(term, "/", 2)
			body = regexp.QuoteMeta(parts[0]) + `[\s/]*` + regexp.QuoteMeta(parts[1])
		}
		return `(?:^|` + separatorClass + `)(` + body + `)(?:` + separatorClass + `|$)`
	case alnumTermRegex.MatchString(term) && utf8.RuneCountInString(term) == 1:
		return `(?:^|` + shortTermGuard + `)(` + regexp.QuoteMeta(term) + `)(?:` + shortTermGuard + `|$)`
	case alnumTermRegex.MatchString(term):
		return `\b(` + regexp.QuoteMeta(term) + `)\b`
	default:
		return `(` + regexp.QuoteMeta(term) + `)`
	}
}
