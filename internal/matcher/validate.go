package matcher

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"cv-analysis-go/internal/skills"
)

// 岗位描述校验失败的原因，同时作为唯一的一条建议返回给调用方
const (
	ReasonJDEmpty        = "岗位描述为空"
	ReasonJDTooShort     = "岗位描述过短，请提供更详细的岗位要求"
	ReasonJDMeaningless  = "岗位描述无效，请提供有意义的文字描述"
	ReasonJDInsufficient = "岗位描述内容不足，请提供更详细的岗位要求、技能要求等信息"
)

const (
	jdMinRunes          = 10
	jdKeywordMinRunes   = 30 // 超过该长度且含岗位关键词或常见技能即有效
	jdLongEnoughRunes   = 50 // 超过该长度无条件有效
	weakJDPenaltyRunes  = 50 // 没有技能且短于该长度时总分减半
	weakJDPenaltyFactor = 0.5
)

// 岗位描述中常见的词，用于判断描述是否有意义
var jobContextKeywords = []string{
	"岗位", "职位", "招聘", "要求", "职责", "工作", "经验", "学历", "技能",
	"开发", "工程师", "经理", "主管", "专员", "助理", "负责", "参与",
	"熟悉", "掌握", "了解", "精通", "具备", "拥有",
}

// ValidateJobDescription 校验岗位描述，无效时返回原因
func ValidateJobDescription(jd string) (bool, string) {
	jd = strings.TrimSpace(jd)
	if jd == "" {
		return false, ReasonJDEmpty
	}

	n := utf8.RuneCountInString(jd)
	if n < jdMinRunes {
		return false, ReasonJDTooShort
	}
	if !hasWordRune(jd) {
		return false, ReasonJDMeaningless
	}

	if n > jdKeywordMinRunes && (containsAnyWord(jd, jobContextKeywords) || containsAnyWord(strings.ToLower(jd), skills.CommonTerms)) {
		return true, ""
	}
	if n > jdLongEnoughRunes {
		return true, ""
	}
	return false, ReasonJDInsufficient
}

// hasWordRune 只有数字、空白和符号的文本视为无意义
func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || r == '_' {
			return true
		}
	}
	return false
}

func containsAnyWord(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
