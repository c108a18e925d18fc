// Package extractor 从规范化后的简历文本中抽取结构化字段。
// 每个字段是一条独立的策略流水线，全部找不到时字段为 nil，不会报错。
package extractor

import (
	"context"
	"strings"
	"time"

	"cv-analysis-go/internal/constants"
	"cv-analysis-go/internal/logger"
	"cv-analysis-go/internal/skills"
	"cv-analysis-go/internal/types"
	"cv-analysis-go/pkg/utils"
)

// Enricher 可选的AI抽取协作者，只在配置了密钥时注入
type Enricher interface {
	EnrichExtraction(ctx context.Context, text string) (*types.ExtractedInfo, error)
}

// defaultEnrichTimeout AI抽取的默认超时，超时按失败处理
const defaultEnrichTimeout = 8 * time.Second

// Extractor 字段抽取器，构建后只读，可并发使用
type Extractor struct {
	scanner       *skills.Scanner
	enricher      Enricher
	enrichTimeout time.Duration
}

// Option 抽取器选项
type Option func(*Extractor)

// WithEnricher 注入AI抽取协作者，timeout<=0 时使用默认值
func WithEnricher(e Enricher, timeout time.Duration) Option {
	return func(x *Extractor) {
		x.enricher = e
		if timeout > 0 {
			x.enrichTimeout = timeout
		}
	}
}

// WithScanner 替换技能扫描器
func WithScanner(s *skills.Scanner) Option {
	return func(x *Extractor) {
		if s != nil {
			x.scanner = s
		}
	}
}

// New 创建抽取器
func New(opts ...Option) *Extractor {
	x := &Extractor{
		scanner:       skills.NewScanner(skills.Keywords),
		enrichTimeout: defaultEnrichTimeout,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract 抽取全部字段。text 为规范化文本，original 为规范化之前的原文（可为空，此时用 text 代替）。
// AI 协作者失败只记日志，返回纯规则结果。
func (x *Extractor) Extract(ctx context.Context, text, original string) *types.ExtractedInfo {
	info := x.ExtractRules(text, original)
	if x.enricher == nil || strings.TrimSpace(text) == "" {
		return info
	}

	aiCtx, cancel := context.WithTimeout(ctx, x.enrichTimeout)
	defer cancel()

	aiInfo, err := x.enricher.EnrichExtraction(aiCtx, utils.TruncateRunes(text, constants.AITextLimit))
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("AI 提取失败，使用正则结果")
		return info
	}
	if aiInfo != nil {
		Merge(info, aiInfo)
	}
	return info
}

// ExtractRules 只运行规则流水线，不调用任何外部服务
func (x *Extractor) ExtractRules(text, original string) *types.ExtractedInfo {
	if original == "" {
		original = text
	}
	src := Source{Text: text, Original: original}

	run := func(p Pipeline) *string {
		v, _ := p.Run(src)
		return utils.StringPtr(v)
	}

	skillList := skills.DisplayAll(x.scanner.Scan(text))
	if skillList == nil {
		skillList = []string{}
	}

	return &types.ExtractedInfo{
		BasicInfo: types.BasicInfo{
			Name:    run(NamePipeline),
			Phone:   run(PhonePipeline),
			Email:   run(EmailPipeline),
			Address: run(AddressPipeline),
		},
		OptionalInfo: types.OptionalInfo{
			JobIntention:    run(JobIntentionPipeline),
			ExperienceYears: run(ExperiencePipeline),
			Education:       run(EducationPipeline),
			University:      run(UniversityPipeline),
		},
		Skills:           skillList,
		ExtractionMethod: constants.ExtractionMethodRegex,
	}
}

// Merge 用AI结果补齐规则结果中缺失的字段，已有字段不覆盖；新技能按小写去重后追加
func Merge(base, ai *types.ExtractedInfo) {
	if base == nil || ai == nil {
		return
	}
	fill := func(dst **string, src *string) {
		if (*dst == nil || strings.TrimSpace(**dst) == "") && src != nil && strings.TrimSpace(*src) != "" {
			v := strings.TrimSpace(*src)
			*dst = &v
		}
	}

	fill(&base.BasicInfo.Name, ai.BasicInfo.Name)
	fill(&base.BasicInfo.Phone, ai.BasicInfo.Phone)
	fill(&base.BasicInfo.Email, ai.BasicInfo.Email)
	fill(&base.BasicInfo.Address, ai.BasicInfo.Address)
	fill(&base.OptionalInfo.JobIntention, ai.OptionalInfo.JobIntention)
	fill(&base.OptionalInfo.ExperienceYears, ai.OptionalInfo.ExperienceYears)
	fill(&base.OptionalInfo.Education, ai.OptionalInfo.Education)
	fill(&base.OptionalInfo.University, ai.OptionalInfo.University)

	existing := make(map[string]struct{}, len(base.Skills))
	for _, s := range base.Skills {
		existing[strings.ToLower(s)] = struct{}{}
	}
	for _, s := range ai.Skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := existing[strings.ToLower(s)]; ok {
			continue
		}
		existing[strings.ToLower(s)] = struct{}{}
		base.Skills = append(base.Skills, s)
	}

	base.ExtractionMethod = constants.ExtractionMethodAIEnhanced
}
