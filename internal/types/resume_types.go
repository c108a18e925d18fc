package types

// SectionName 简历章节的规范名称
type SectionName string

const (
	// SectionPersonalInfo 个人信息
	SectionPersonalInfo SectionName = "personal-info"
	// SectionEducation 教育背景
	SectionEducation SectionName = "education"
	// SectionWorkExperience 工作经历
	SectionWorkExperience SectionName = "work-experience"
	// SectionProjectExperience 项目经历
	SectionProjectExperience SectionName = "project-experience"
	// SectionSkills 专业技能
	SectionSkills SectionName = "skills"
	// SectionSelfEvaluation 自我评价
	SectionSelfEvaluation SectionName = "self-evaluation"
	// SectionJobIntention 求职意向
	SectionJobIntention SectionName = "job-intention"
	// SectionAwards 获奖情况
	SectionAwards SectionName = "awards"
	// SectionCertificates 证书
	SectionCertificates SectionName = "certificates"
	// SectionLanguageAbility 语言能力
	SectionLanguageAbility SectionName = "language-ability"
	// SectionOther 未归类内容（首个标题之前的内容也归入此处）
	SectionOther SectionName = "other"
)

// SectionMap 章节名称到章节文本的映射
type SectionMap map[SectionName]string

// PageText 单页提取文本，PageNumber 从1开始
type PageText struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// BasicInfo 基本信息，缺失字段为 nil
type BasicInfo struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// OptionalInfo 可选信息
type OptionalInfo struct {
	JobIntention    *string `json:"job_intention"`
	ExperienceYears *string `json:"experience_years"` // 形如 "3年"
	Education       *string `json:"education"`
	University      *string `json:"university"`
}

// ExtractedInfo 从简历文本中抽取的结构化信息
type ExtractedInfo struct {
	BasicInfo        BasicInfo    `json:"basic_info"`
	OptionalInfo     OptionalInfo `json:"optional_info"`
	Skills           []string     `json:"skills"`
	ExtractionMethod string       `json:"extraction_method"`
}

// ParsedResume 一次上传的完整解析结果，同时也是缓存条目
type ParsedResume struct {
	CacheKey       string         `json:"cache_key"`
	FileName       string         `json:"file_name,omitempty"`
	FileType       string         `json:"file_type"`
	RawText        string         `json:"raw_text"`
	Pages          []PageText     `json:"pages"`
	PageCount      int            `json:"page_count"`
	ExtractedInfo  *ExtractedInfo `json:"extracted_info"`
	StructuredText SectionMap     `json:"structured_text"`
}

// SkillMatch 技能匹配结果
type SkillMatch struct {
	Score         float64  `json:"score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	ExtraSkills   []string `json:"extra_skills"`
}

// ScoredAnalysis 带文字说明的分项得分
type ScoredAnalysis struct {
	Score    float64 `json:"score"`
	Analysis string  `json:"analysis"`
}

// MatchWeights 综合评分权重
type MatchWeights struct {
	Skill      float64 `json:"skill" yaml:"skill"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
	Experience float64 `json:"experience" yaml:"experience"`
	Education  float64 `json:"education" yaml:"education"`
}

// AIAnalysis AI对简历与岗位匹配的分析
type AIAnalysis struct {
	Score              float64  `json:"score"`
	OverallAnalysis    string   `json:"overall_analysis,omitempty"`
	SkillAnalysis      string   `json:"skill_analysis,omitempty"`
	ExperienceAnalysis string   `json:"experience_analysis,omitempty"`
	EducationAnalysis  string   `json:"education_analysis,omitempty"`
	Strengths          []string `json:"strengths,omitempty"`
	Weaknesses         []string `json:"weaknesses,omitempty"`
	Recommendations    []string `json:"recommendations,omitempty"`
	Error              string   `json:"error,omitempty"`
}

// MatchResult 简历与岗位的匹配结果，每次请求重新计算，不落库
type MatchResult struct {
	OverallScore        float64        `json:"overall_score"`
	SkillMatch          SkillMatch     `json:"skill_match"`
	ExperienceMatch     ScoredAnalysis `json:"experience_match"`
	EducationMatch      ScoredAnalysis `json:"education_match"`
	TextSimilarityScore float64        `json:"text_similarity_score"`
	Recommendations     []string       `json:"recommendations"`
	Weights             *MatchWeights  `json:"weights,omitempty"`
	AIAnalysis          *AIAnalysis    `json:"ai_analysis,omitempty"`
}
