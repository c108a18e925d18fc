package matcher

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"cv-analysis-go/internal/skills"
	"cv-analysis-go/internal/types"
)

// 中性分：岗位没有提出对应要求时使用
const (
	neutralSkillScore      = 50
	neutralExperienceScore = 70
	neutralEducationScore  = 70
)

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ---------- 技能 ----------

// SkillMatch 计算技能匹配度：匹配数 / 岗位要求数 × 100。
// 比较前用 skills.MatchKey 归一（同义词合并，tcp/ip 视为 tcp）；
// 展示时优先使用岗位描述中的写法。
func SkillMatch(resumeSkills, jobSkills []string) types.SkillMatch {
	if len(jobSkills) == 0 {
		matched := skills.DisplayAll(resumeSkills)
		if matched == nil {
			matched = []string{}
		}
		return types.SkillMatch{
			Score:         neutralSkillScore,
			MatchedSkills: matched,
			MissingSkills: []string{},
			ExtraSkills:   []string{},
		}
	}

	resumeKeys := make(map[string]struct{}, len(resumeSkills))
	for _, s := range resumeSkills {
		resumeKeys[skills.MatchKey(s)] = struct{}{}
	}

	var (
		jobOrder []string
		jobFirst = make(map[string]string, len(jobSkills))
	)
	for _, s := range jobSkills {
		k := skills.MatchKey(s)
		if _, ok := jobFirst[k]; ok {
			continue
		}
		jobFirst[k] = s
		jobOrder = append(jobOrder, k)
	}

	result := types.SkillMatch{
		MatchedSkills: []string{},
		MissingSkills: []string{},
		ExtraSkills:   []string{},
	}
	for _, k := range jobOrder {
		if _, ok := resumeKeys[k]; ok {
			result.MatchedSkills = append(result.MatchedSkills, skills.Display(jobFirst[k]))
		} else {
			result.MissingSkills = append(result.MissingSkills, skills.Display(jobFirst[k]))
		}
	}

	seenExtra := make(map[string]struct{})
	for _, s := range resumeSkills {
		k := skills.MatchKey(s)
		if _, ok := jobFirst[k]; ok {
			continue
		}
		if _, ok := seenExtra[k]; ok {
			continue
		}
		seenExtra[k] = struct{}{}
		result.ExtraSkills = append(result.ExtraSkills, skills.Display(s))
	}

	result.Score = round1(float64(len(result.MatchedSkills)) / float64(len(jobOrder)) * 100)
	return result
}

// ---------- 文本相似度 ----------

var tokenRegex = regexp.MustCompile(`[\x{4e00}-\x{9fff}]+|[a-zA-Z]{2,}`)

const (
	minJDTokens      = 3
	dampingThreshold = 80.0
	dampingOverlap   = 0.3
	dampingFactor    = 0.7
)

func tokenize(text string) []string {
	words := tokenRegex.FindAllString(strings.ToLower(text), -1)
	out := words[:0]
	for _, w := range words {
		if len([]rune(w)) > 1 {
			out = append(out, w)
		}
	}
	return out
}

// TextSimilarity 词频向量的余弦相似度 × 100，保留一位小数
func TextSimilarity(resumeText, jobDescription string) float64 {
	words1 := tokenize(resumeText)
	words2 := tokenize(jobDescription)
	if len(words1) == 0 || len(words2) == 0 {
		return 0
	}
	// 岗位描述词太少时相似度没有参考价值
	if len(words2) < minJDTokens {
		return 0
	}

	c1 := countTokens(words1)
	c2 := countTokens(words2)

	var dot, n1, n2 float64
	for w, a := range c1 {
		n1 += float64(a * a)
		if b, ok := c2[w]; ok {
			dot += float64(a * b)
		}
	}
	for _, b := range c2 {
		n2 += float64(b * b)
	}
	if n1 == 0 || n2 == 0 {
		return 0
	}

	similarity := dot / (math.Sqrt(n1) * math.Sqrt(n2)) * 100

	// 相似度很高但共有词很少，多半是巧合
	shared := 0
	for w := range c1 {
		if _, ok := c2[w]; ok {
			shared++
		}
	}
	if similarity > dampingThreshold && float64(shared) < float64(len(words2))*dampingOverlap {
		similarity *= dampingFactor
	}
	return round1(similarity)
}

func countTokens(words []string) map[string]int {
	c := make(map[string]int, len(words))
	for _, w := range words {
		c[w]++
	}
	return c
}

// ---------- 工作经验 ----------

// maxRequiredYears 超过这个数的多半是年份，如 "2024年"
const maxRequiredYears = 50

var (
	leadingNumberRegex = regexp.MustCompile(`(\d+)`)
	requiredYearsRegex = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*年[以上]*[工作]*经[验历]`),
		regexp.MustCompile(`(\d+)\+?\s*年`),
		regexp.MustCompile(`经[验历][：:\s]*(\d+)\s*年`),
	}
)

// RequiredYears 从岗位描述中解析经验年限要求，没有时返回 0
func RequiredYears(jd string) int {
	for _, re := range requiredYearsRegex {
		for _, m := range re.FindAllStringSubmatch(jd, -1) {
			n, err := strconv.Atoi(m[1])
			if err == nil && n > 0 && n <= maxRequiredYears {
				return n
			}
		}
	}
	return 0
}

// ExperienceMatch 比较简历工作年限与岗位要求
func ExperienceMatch(experienceYears, jd string) types.ScoredAnalysis {
	resumeYears := 0
	if m := leadingNumberRegex.FindStringSubmatch(experienceYears); m != nil {
		resumeYears, _ = strconv.Atoi(m[1])
	}

	required := RequiredYears(jd)
	if required == 0 {
		return types.ScoredAnalysis{Score: neutralExperienceScore, Analysis: "岗位未明确经验要求"}
	}

	switch {
	case resumeYears >= required:
		return types.ScoredAnalysis{Score: 100, Analysis: fmt.Sprintf("满足经验要求（%d年 >= %d年）", resumeYears, required)}
	case float64(resumeYears) >= float64(required)*0.7:
		return types.ScoredAnalysis{Score: 70, Analysis: fmt.Sprintf("基本满足（%d年 / %d年）", resumeYears, required)}
	default:
		score := math.Max(30, float64(resumeYears)/float64(required)*100)
		return types.ScoredAnalysis{Score: round1(score), Analysis: fmt.Sprintf("经验不足（%d年 < %d年）", resumeYears, required)}
	}
}

// ---------- 学历 ----------

type degree struct {
	label string
	level int
}

// 按资历从高到低，先命中者生效
var jdDegrees = []degree{
	{"博士", 5}, {"硕士", 4}, {"研究生", 4}, {"本科", 3}, {"学士", 3},
	{"大专", 2}, {"专科", 2}, {"高中", 1},
}

// 简历一侧还可能是英文学历
var resumeDegrees = append(append([]degree{}, jdDegrees...),
	degree{"PhD", 5}, degree{"Doctor", 5}, degree{"EMBA", 4}, degree{"MBA", 4},
	degree{"Master", 4}, degree{"Bachelor", 3},
)

func degreeLevel(text string, table []degree) (string, int) {
	for _, d := range table {
		if strings.Contains(text, d.label) {
			return d.label, d.level
		}
	}
	return "", 0
}

// EducationMatch 比较简历学历与岗位要求：满足100，低一级60，更低30
func EducationMatch(education, jd string) types.ScoredAnalysis {
	_, resumeLevel := degreeLevel(education, resumeDegrees)
	requiredLabel, requiredLevel := degreeLevel(jd, jdDegrees)
	if requiredLevel == 0 {
		return types.ScoredAnalysis{Score: neutralEducationScore, Analysis: "岗位未明确学历要求"}
	}

	actual := education
	if actual == "" {
		actual = "未识别"
	}
	switch {
	case resumeLevel >= requiredLevel:
		return types.ScoredAnalysis{Score: 100, Analysis: fmt.Sprintf("满足学历要求（要求%s，实际%s）", requiredLabel, actual)}
	case resumeLevel == requiredLevel-1:
		return types.ScoredAnalysis{Score: 60, Analysis: fmt.Sprintf("学历略低于要求（要求%s，实际%s）", requiredLabel, actual)}
	default:
		return types.ScoredAnalysis{Score: 30, Analysis: fmt.Sprintf("学历不满足要求（要求%s，实际%s）", requiredLabel, actual)}
	}
}

// ---------- 建议 ----------

const (
	maxRecommendations    = 5
	maxSkillsInCallout    = 5
	noJobSkillsSuggestion = "提示：岗位描述中未检测到明确的技能要求，建议提供更详细的岗位描述以获得更精准的匹配分析"
)

// Recommendations 根据各分项结果生成建议，最多5条
func Recommendations(skill types.SkillMatch, experience types.ScoredAnalysis, overall float64, jobSkillCount int) []string {
	recs := make([]string, 0, maxRecommendations)

	if len(skill.MissingSkills) > 0 {
		recs = append(recs, "建议补充以下技能："+strings.Join(head(skill.MissingSkills, maxSkillsInCallout), ", "))
	}
	if len(skill.MatchedSkills) > 0 {
		recs = append(recs, "已匹配的技能："+strings.Join(head(skill.MatchedSkills, maxSkillsInCallout), ", "))
	}
	if experience.Score < 70 {
		recs = append(recs, "建议在简历中更详细地描述相关工作经验")
	}

	switch {
	case overall < 40:
		recs = append(recs, "整体匹配度较低，建议根据岗位要求调整简历内容，突出相关技能和经验")
	case overall < 60:
		recs = append(recs, "匹配度中等，建议针对岗位要求优化简历，突出匹配的技能和项目经验")
	case overall < 80:
		recs = append(recs, "匹配度良好，建议进一步突出核心技能和项目亮点")
	default:
		recs = append(recs, "简历与岗位匹配度较高，继续保持")
	}

	if jobSkillCount == 0 {
		recs = append(recs, noJobSkillsSuggestion)
	}
	return head(recs, maxRecommendations)
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
