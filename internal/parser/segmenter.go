package parser

import (
	"strings"
	"unicode/utf8"

	"cv-analysis-go/internal/types"
)

// headerMaxRunes 含章节关键词且短于该长度的行视为章节标题
const headerMaxRunes = 30

type sectionKeyword struct {
	keyword string
	section types.SectionName
}

// sectionKeywords 按顺序匹配，先命中者生效
var sectionKeywords = []sectionKeyword{
	{"个人信息", types.SectionPersonalInfo},
	{"基本信息", types.SectionPersonalInfo},
	{"联系方式", types.SectionPersonalInfo},
	{"教育背景", types.SectionEducation},
	{"教育经历", types.SectionEducation},
	{"学历", types.SectionEducation},
	{"工作经历", types.SectionWorkExperience},
	{"工作经验", types.SectionWorkExperience},
	{"职业经历", types.SectionWorkExperience},
	{"项目经历", types.SectionProjectExperience},
	{"项目经验", types.SectionProjectExperience},
	{"专业技能", types.SectionSkills},
	{"技能特长", types.SectionSkills},
	{"技术技能", types.SectionSkills},
	{"自我评价", types.SectionSelfEvaluation},
	{"个人简介", types.SectionSelfEvaluation},
	{"个人总结", types.SectionSelfEvaluation},
	{"求职意向", types.SectionJobIntention},
	{"期望职位", types.SectionJobIntention},
	{"获奖情况", types.SectionAwards},
	{"荣誉奖项", types.SectionAwards},
	{"证书", types.SectionCertificates},
	{"资格证书", types.SectionCertificates},
	{"语言能力", types.SectionLanguageAbility},
	{"外语水平", types.SectionLanguageAbility},
}

// Segment 按章节关键词把规范化文本切分为 SectionMap。
// 空行跳过；标题行本身不进入任何章节；第一个标题之前的内容归入 other。
func Segment(text string) types.SectionMap {
	sections := make(types.SectionMap)
	current := types.SectionOther
	var buf []string

	flush := func() {
		if len(buf) == 0 {
			return
		}
		content := strings.Join(buf, "\n")
		if existing, ok := sections[current]; ok && existing != "" {
			sections[current] = existing + "\n" + content
		} else {
			sections[current] = content
		}
		buf = buf[:0]
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if name, ok := headerSection(line); ok {
			flush()
			current = name
			continue
		}
		buf = append(buf, line)
	}
	flush()

	return sections
}

// headerSection 判断一行是否为章节标题
func headerSection(line string) (types.SectionName, bool) {
	if utf8.RuneCountInString(line) >= headerMaxRunes {
		return "", false
	}
	for _, kw := range sectionKeywords {
		if strings.Contains(line, kw.keyword) {
			return kw.section, true
		}
	}
	return "", false
}
