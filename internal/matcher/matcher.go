// Package matcher 计算简历与岗位描述的匹配度。
// 规则评分完全确定；可选的 AI 评估只做加权融合，失败时静默回退。
package matcher

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"cv-analysis-go/internal/constants"
	"cv-analysis-go/internal/logger"
	"cv-analysis-go/internal/skills"
	"cv-analysis-go/internal/types"
	"cv-analysis-go/pkg/utils"
)

// Assessor 可选的AI匹配评估协作者
type Assessor interface {
	AssessMatch(ctx context.Context, resumeText, jobDescription string) (*types.AIAnalysis, error)
}

const (
	// DefaultAIWeight AI评分在总分中的占比
	DefaultAIWeight = 0.3
	// DefaultAITimeout AI评估的默认超时
	DefaultAITimeout = 8 * time.Second
	// maxAIRecommendations 最多前置几条AI建议
	maxAIRecommendations = 2
)

// DefaultWeights 技能45%、文本相似度30%、经验15%、学历10%
func DefaultWeights() types.MatchWeights {
	return types.MatchWeights{Skill: 0.45, Similarity: 0.30, Experience: 0.15, Education: 0.10}
}

// Matcher 匹配器，构建后只读，可并发使用
type Matcher struct {
	scanner   *skills.Scanner
	weights   types.MatchWeights
	assessor  Assessor
	aiWeight  float64
	aiTimeout time.Duration
	debug     bool
}

// Option 匹配器选项
type Option func(*Matcher)

// WithWeights 设置评分权重，全部为0时保持默认
func WithWeights(w types.MatchWeights) Option {
	return func(m *Matcher) {
		if w.Skill+w.Similarity+w.Experience+w.Education > 0 {
			m.weights = w
		}
	}
}

// WithAssessor 注入AI评估协作者；weight 为 0 时AI只提供分析和建议、不改变总分，
// 不在 [0,1] 内时使用默认值；timeout<=0 时使用默认值
func WithAssessor(a Assessor, weight float64, timeout time.Duration) Option {
	return func(m *Matcher) {
		m.assessor = a
		if weight >= 0 && weight <= 1 {
			m.aiWeight = weight
		}
		if timeout > 0 {
			m.aiTimeout = timeout
		}
	}
}

// WithDebug 调试模式下AI失败原因写入 ai_analysis.error
func WithDebug(debug bool) Option {
	return func(m *Matcher) {
		m.debug = debug
	}
}

// WithScanner 替换技能扫描器
func WithScanner(s *skills.Scanner) Option {
	return func(m *Matcher) {
		if s != nil {
			m.scanner = s
		}
	}
}

// New 创建匹配器
func New(opts ...Option) *Matcher {
	m := &Matcher{
		scanner:   skills.NewScanner(skills.Keywords),
		weights:   DefaultWeights(),
		aiWeight:  DefaultAIWeight,
		aiTimeout: DefaultAITimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Weights 当前使用的权重
func (m *Matcher) Weights() types.MatchWeights {
	return m.weights
}

// Match 计算匹配结果。info 可为 nil，此时经验按中性分处理。
func (m *Matcher) Match(ctx context.Context, resumeText string, info *types.ExtractedInfo, jobDescription string) *types.MatchResult {
	weights := m.weights

	if ok, reason := ValidateJobDescription(jobDescription); !ok {
		return invalidResult(reason, weights)
	}

	log := logger.FromContext(ctx)

	resumeSkills := m.scanner.Scan(resumeText)
	jobSkills := m.scanner.Scan(jobDescription)
	if info != nil {
		resumeSkills = mergeSkills(resumeSkills, info.Skills)
	}
	log.Debug().Strs("job_skills", jobSkills).Strs("resume_skills", resumeSkills).Msg("技能提取完成")

	skillResult := SkillMatch(resumeSkills, jobSkills)
	similarity := TextSimilarity(resumeText, jobDescription)

	experience := types.ScoredAnalysis{Score: neutralExperienceScore, Analysis: "未检测到明确经验要求"}
	education := ""
	if info != nil {
		experience = ExperienceMatch(utils.Deref(info.OptionalInfo.ExperienceYears), jobDescription)
		education = utils.Deref(info.OptionalInfo.Education)
	}
	educationResult := EducationMatch(education, jobDescription)

	overall := skillResult.Score*weights.Skill +
		similarity*weights.Similarity +
		experience.Score*weights.Experience +
		educationResult.Score*weights.Education

	// 岗位描述里没有任何技能且很短，进一步降低评分
	if len(jobSkills) == 0 && utf8.RuneCountInString(strings.TrimSpace(jobDescription)) < weakJDPenaltyRunes {
		overall *= weakJDPenaltyFactor
	}

	result := &types.MatchResult{
		OverallScore:        round1(overall),
		SkillMatch:          skillResult,
		ExperienceMatch:     experience,
		EducationMatch:      educationResult,
		TextSimilarityScore: similarity,
		Recommendations:     Recommendations(skillResult, experience, overall, len(jobSkills)),
		Weights:             &weights,
	}

	log.Info().
		Float64("overall_score", result.OverallScore).
		Float64("skill_score", skillResult.Score).
		Float64("similarity", similarity).
		Int("matched", len(skillResult.MatchedSkills)).
		Int("missing", len(skillResult.MissingSkills)).
		Msg("规则匹配完成")

	if m.assessor != nil {
		m.blendAI(ctx, result, resumeText, jobDescription)
	}
	return result
}

// blendAI 融合AI评分：overall = (1-w)·规则分 + w·AI分，AI建议最多前置2条。任何失败都保持规则结果。
func (m *Matcher) blendAI(ctx context.Context, result *types.MatchResult, resumeText, jobDescription string) {
	aiCtx, cancel := context.WithTimeout(ctx, m.aiTimeout)
	defer cancel()

	analysis, err := m.assessor.AssessMatch(aiCtx,
		utils.TruncateRunes(resumeText, constants.AITextLimit),
		utils.TruncateRunes(jobDescription, constants.AIJDTextLimit))
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("AI 匹配分析失败，使用规则结果")
		if m.debug {
			result.AIAnalysis = &types.AIAnalysis{Error: err.Error()}
		}
		return
	}
	if analysis == nil || math.IsNaN(analysis.Score) {
		return
	}

	aiScore := math.Max(0, math.Min(100, analysis.Score))
	analysis.Score = aiScore
	result.OverallScore = round1((1-m.aiWeight)*result.OverallScore + m.aiWeight*aiScore)

	var recs []string
	for _, r := range analysis.Recommendations {
		if r = strings.TrimSpace(r); r != "" && len(recs) < maxAIRecommendations {
			recs = append(recs, r)
		}
	}
	result.Recommendations = head(append(recs, result.Recommendations...), maxRecommendations)
	result.AIAnalysis = analysis
}

func invalidResult(reason string, weights types.MatchWeights) *types.MatchResult {
	return &types.MatchResult{
		OverallScore: 0,
		SkillMatch: types.SkillMatch{
			MatchedSkills: []string{},
			MissingSkills: []string{},
			ExtraSkills:   []string{},
		},
		ExperienceMatch:     types.ScoredAnalysis{Analysis: reason},
		EducationMatch:      types.ScoredAnalysis{},
		TextSimilarityScore: 0,
		Recommendations:     []string{reason},
		Weights:             &weights,
	}
}

// mergeSkills 合并文本扫描结果与已抽取的技能，按小写去重，保持先后顺序
func mergeSkills(fromText, fromInfo []string) []string {
	out := make([]string, 0, len(fromText)+len(fromInfo))
	seen := make(map[string]struct{}, cap(out))
	for _, list := range [][]string{fromText, fromInfo} {
		for _, s := range list {
			k := strings.ToLower(strings.TrimSpace(s))
			if k == "" {
				continue
			}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}
