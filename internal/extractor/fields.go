package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nyaruka/phonenumbers"
)

// ---------- 手机号 ----------

var (
	labeledPhoneRegex = regexp.MustCompile(`(?i)(?:联系电话|手机|电话|Tel|Phone|Mobile)(?:号码|号)?[：:\s]*(1[3-9]\d{9})(?:\D|$)`)
	barePhoneRegex    = regexp.MustCompile(`(?:^|\D)(1[3-9]\d{9})(?:\D|$)`)
	// 原文中被空格拆开的号码，如 "1 3 8 0 0 0 0 1 2 3 4"
	spacedPhoneRegex = regexp.MustCompile(`(?:^|\D)(1[ \t\x{00A0}\x{3000}]*[3-9](?:[ \t\x{00A0}\x{3000}]*\d){8,18})`)
	// 带分隔符或国家码的号码，交给 phonenumbers 校验
	formattedPhoneRegex = regexp.MustCompile(`(?:^|[^\d+])(\+?(?:86)?[\s\-]*1[3-9]\d(?:[\s\-.]?\d){8})(?:\D|$)`)
	mobileRegex         = regexp.MustCompile(`^1[3-9]\d{9}$`)
)

// PhonePipeline 手机号抽取策略
var PhonePipeline = Pipeline{
	captureIn(labeledPhoneRegex, nil),
	captureIn(barePhoneRegex, nil),
	spacedPhone,
	formattedPhone,
}

func spacedPhone(src Source) (string, bool) {
	for _, m := range spacedPhoneRegex.FindAllStringSubmatch(src.Original, -1) {
		digits := keepDigits(m[1])
		if len(digits) < 11 {
			continue
		}
		if digits = digits[:11]; mobileRegex.MatchString(digits) {
			return digits, true
		}
	}
	return "", false
}

func formattedPhone(src Source) (string, bool) {
	for _, m := range formattedPhoneRegex.FindAllStringSubmatch(src.Text, -1) {
		num, err := phonenumbers.Parse(m[1], "CN")
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		national := strconv.FormatUint(num.GetNationalNumber(), 10)
		if mobileRegex.MatchString(national) {
			return national, true
		}
	}
	return "", false
}

func keepDigits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ---------- 邮箱 ----------

var (
	labeledEmailRegex = regexp.MustCompile(`(?i)(?:邮箱|Email|E-mail|电子邮件)[：:\s]*([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})`)
	bareEmailRegex    = regexp.MustCompile(`([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})`)
	spacedEmailRegex  = regexp.MustCompile(`([A-Za-z0-9._%+\-](?:[ \t]?[A-Za-z0-9._%+\-])*)[ \t]*@[ \t]*([A-Za-z0-9\-](?:[ \t]?[A-Za-z0-9.\-])*?)[ \t]*\.[ \t]*(com|cn|net|org)\b`)
	emailRegex        = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// EmailPipeline 邮箱抽取策略
var EmailPipeline = Pipeline{
	captureIn(labeledEmailRegex, nil),
	captureIn(bareEmailRegex, nil),
	spacedEmail,
}

func spacedEmail(src Source) (string, bool) {
	m := spacedEmailRegex.FindStringSubmatch(src.Original)
	if m == nil {
		return "", false
	}
	email := stripSpaces(m[1]) + "@" + stripSpaces(m[2]) + "." + m[3]
	if !emailRegex.MatchString(email) {
		return "", false
	}
	return email, true
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// ---------- 姓名 ----------

var (
	labeledNameRegex = regexp.MustCompile(`(?i)(?:姓\s*名|Name)[：:\s]*([^\n\r\t,，。、；;\d]{2,4})`)
	resumeNameRegex  = regexp.MustCompile(`(?i)(?:个人简历|简\s*历|Resume)[：:\s]*([^\n\r\t,，。、；;\d]{2,4})`)
)

// nameLineWindow 无标签时只在前若干个非空行中找姓名
const nameLineWindow = 10

// 常见姓氏
var commonSurnames = map[rune]struct{}{}

func init() {
	for _, r := range "王李张刘陈杨黄赵周吴徐孙马胡朱郭何高林罗郑梁谢宋唐许韩冯邓曹彭曾萧田董袁潘于蒋蔡余杜叶程苏魏吕丁任沈姚卢姜崔钟谭陆汪范金" {
		commonSurnames[r] = struct{}{}
	}
}

// NamePipeline 姓名抽取策略
var NamePipeline = Pipeline{
	captureIn(labeledNameRegex, acceptName),
	captureIn(resumeNameRegex, acceptName),
	nameFromLeadingLines,
}

func acceptName(v string) (string, bool) {
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return "", false
	}
	name := fields[0]
	// "王 强" 这种逐字拆开的姓名拼回去
	if len(fields) > 1 && allSingleRune(fields) {
		name = strings.Join(fields, "")
	}
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 4 || !isValidChineseName(name) {
		return "", false
	}
	return name, true
}

func nameFromLeadingLines(src Source) (string, bool) {
	seen := 0
	for _, line := range strings.Split(src.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if seen++; seen > nameLineWindow {
			break
		}
		n := utf8.RuneCountInString(line)
		if n < 2 || n > 4 {
			continue
		}
		first, _ := utf8.DecodeRuneInString(line)
		if _, ok := commonSurnames[first]; ok && allCJK(line) {
			return line, true
		}
	}
	return "", false
}

// isValidChineseName 首字为常见姓氏，或全部为汉字
func isValidChineseName(name string) bool {
	first, _ := utf8.DecodeRuneInString(name)
	if _, ok := commonSurnames[first]; ok {
		return true
	}
	return allCJK(name)
}

func allCJK(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 0x4E00 || r > 0x9FFF {
			return false
		}
	}
	return true
}

func allSingleRune(fields []string) bool {
	for _, f := range fields {
		if utf8.RuneCountInString(f) != 1 {
			return false
		}
	}
	return true
}

// ---------- 地址 ----------

var (
	labeledAddressRegex = regexp.MustCompile(`(?i)(?:现居住地|居住地|现居|地址|住址|Address)[：:\s]*([^\n\r]+)`)
	cityAddressRegex    = regexp.MustCompile(`((?:北京|上海|广州|深圳|杭州|成都|武汉|南京|西安|重庆|天津|苏州|郑州|长沙|东莞|青岛|沈阳|宁波|昆明)市?[^\n\r,，。]{0,30})`)
	fieldBreakRegex     = regexp.MustCompile(`\s{2,}|\t`)
)

// 院校或学历字样说明这是教育经历而不是住址
var addressExclusions = []string{"大学", "学院", "学校", "中学", "博士", "硕士", "研究生", "本科", "学士", "大专", "专科", "高中"}

// AddressPipeline 地址抽取策略
var AddressPipeline = Pipeline{
	captureAll(labeledAddressRegex, acceptAddress),
	captureAll(cityAddressRegex, acceptAddress),
}

func acceptAddress(v string) (string, bool) {
	if loc := fieldBreakRegex.FindStringIndex(v); loc != nil {
		v = v[:loc[0]]
	}
	v = strings.TrimSpace(v)
	if v == "" || strings.Contains(v, "@") || containsAny(v, addressExclusions) {
		return "", false
	}
	return v, true
}

// ---------- 毕业院校 ----------

var (
	universityLabelRegex = regexp.MustCompile(`(?:教育背景|教育经历|毕业院校|学历)[：:\s]*`)
	schoolRegex          = regexp.MustCompile(`[\p{Han}·]{1,20}?(?:大学|学院|学校|大學)(?:[（(][^）)\n]{1,15}[）)])?|(?:[A-Z][A-Za-z&'.\-]*\s+){0,5}(?:University|College|Institute)(?:\s+of(?:\s+[A-Z][A-Za-z&'.\-]*){1,4})?`)
	parentheticalRegex   = regexp.MustCompile(`[（(][^）)]*[）)]`)
	schoolPrefixRegex    = regexp.MustCompile(`^.*?(?:毕业于|就读于)|^(?:毕业|就读)`)
	degreePrefixRegex    = regexp.MustCompile(`^(?:博士|硕士|研究生|本科|大专|专科|学士)+`)
	schoolSuffixRegex    = regexp.MustCompile(`(?:毕业|就读|专业|学历|学位)+$`)
)

var universityRejects = []string{"经验", "工作", "年限", "电话", "邮箱", "地址", "姓名"}

// UniversityPipeline 毕业院校抽取策略，优先在教育背景等标签之后查找
var UniversityPipeline = Pipeline{
	universityAfterLabel,
	func(src Source) (string, bool) { return scanUniversity(src.Text) },
}

func universityAfterLabel(src Source) (string, bool) {
	for _, loc := range universityLabelRegex.FindAllStringIndex(src.Text, -1) {
		if v, ok := scanUniversity(src.Text[loc[1]:]); ok {
			return v, true
		}
	}
	return "", false
}

func scanUniversity(text string) (string, bool) {
	for _, m := range schoolRegex.FindAllString(text, -1) {
		if v, ok := cleanUniversity(m); ok {
			return v, true
		}
	}
	return "", false
}

func cleanUniversity(v string) (string, bool) {
	v = parentheticalRegex.ReplaceAllString(v, "")
	v = schoolPrefixRegex.ReplaceAllString(v, "")
	v = degreePrefixRegex.ReplaceAllString(v, "")
	v = schoolSuffixRegex.ReplaceAllString(v, "")
	v = strings.TrimSpace(v)
	if containsAny(v, universityRejects) {
		return "", false
	}
	if n := utf8.RuneCountInString(v); n < 3 || n > 50 {
		return "", false
	}
	return v, true
}

// ---------- 求职意向 ----------

var (
	jobIntentionRegex  = regexp.MustCompile(`(?:求职意向|期望职位|期望岗位|应聘岗位|应聘职位|目标岗位|意向岗位)[：:\s]*([^\n\r]+)`)
	intentionStopRegex = regexp.MustCompile(`\s{2,}|\t|[，,。；;|、]`)
	trailingNumRegex   = regexp.MustCompile(`\s*\d+\s*[年月岁]?\s*$`)
)

var intentionStopWords = []string{"经验", "工作", "年限", "学历", "教育", "背景", "电话", "邮箱", "地址", "姓名"}

// JobIntentionPipeline 求职意向抽取策略
var JobIntentionPipeline = Pipeline{
	captureAll(jobIntentionRegex, acceptJobIntention),
}

func acceptJobIntention(v string) (string, bool) {
	if loc := intentionStopRegex.FindStringIndex(v); loc != nil {
		v = v[:loc[0]]
	}
	v = trailingNumRegex.ReplaceAllString(v, "")
	if idx := indexAny(v, intentionStopWords); idx >= 0 {
		v = v[:idx]
	}
	v = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(v), "：:-"))
	if n := utf8.RuneCountInString(v); n < 2 || n > 50 {
		return "", false
	}
	if v[0] >= '0' && v[0] <= '9' {
		return "", false
	}
	return v, true
}

// ---------- 工作年限 ----------

// maxExperienceYears 超过这个数的多半是年份而不是年限
const maxExperienceYears = 50

var experienceRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)[年\s]*(?:以上)?(?:工作)?经[验历]`),
	regexp.MustCompile(`(?:工作)?经[验历][：:\s]*(\d+)年`),
	regexp.MustCompile(`(\d+)\+?[年\s]*(?:开发|工作|从业)`),
}

// ExperiencePipeline 工作年限抽取策略，结果形如 "3年"
var ExperiencePipeline = func() Pipeline {
	p := make(Pipeline, 0, len(experienceRegexes))
	for _, re := range experienceRegexes {
		p = append(p, captureAll(re, acceptYears))
	}
	return p
}()

func acceptYears(v string) (string, bool) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > maxExperienceYears {
		return "", false
	}
	return fmt.Sprintf("%d年", n), true
}

// ---------- 学历 ----------

type educationLevel struct {
	label string
	re    *regexp.Regexp // 为 nil 时按字面包含判断
}

// 按优先级排列，先命中者生效
var educationLevels = []educationLevel{
	{label: "博士"},
	{label: "硕士研究生"},
	{label: "硕士"},
	{label: "本科"},
	{label: "学士"},
	{label: "大专"},
	{label: "专科"},
	{label: "高中"},
	{label: "PhD", re: regexp.MustCompile(`(?i)\bph\.?d\b`)},
	{label: "Doctor", re: regexp.MustCompile(`(?i)\bdoctor(?:ate)?\b`)},
	{label: "Master", re: regexp.MustCompile(`(?i)\bmasters?\b`)},
	{label: "EMBA", re: regexp.MustCompile(`(?i)\bemba\b`)},
	{label: "MBA", re: regexp.MustCompile(`(?i)\bmba\b`)},
	{label: "Bachelor", re: regexp.MustCompile(`(?i)\bbachelors?\b`)},
}

// EducationPipeline 学历抽取策略
var EducationPipeline = Pipeline{firstEducationLevel}

func firstEducationLevel(src Source) (string, bool) {
	for _, lv := range educationLevels {
		if lv.re == nil {
			if strings.Contains(src.Text, lv.label) {
				return lv.label, true
			}
			continue
		}
		if lv.re.MatchString(src.Text) {
			return lv.label, true
		}
	}
	return "", false
}

func containsAny(s string, words []string) bool {
	return indexAny(s, words) >= 0
}

// indexAny 返回最早出现的关键词的字节位置
func indexAny(s string, words []string) int {
	best := -1
	for _, w := range words {
		if i := strings.Index(s, w); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best
}
