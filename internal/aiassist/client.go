package aiassist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"cv-analysis-go/internal/constants"
	"cv-analysis-go/internal/logger"
	"cv-analysis-go/internal/types"
	"cv-analysis-go/pkg/utils"
)

// ErrMissingScore 匹配分析结果里没有可用的分数
var ErrMissingScore = errors.New("模型回复缺少有效的 score 字段")

// Client 面向业务的AI助手，同时满足抽取补全与匹配评估两种用途
type Client struct {
	collaborator Collaborator
}

// NewClient 创建AI助手
func NewClient(c Collaborator) *Client {
	return &Client{collaborator: c}
}

// EnrichExtraction 让模型从简历中抽取字段，返回的结构只包含模型给出的非空值
func (c *Client) EnrichExtraction(ctx context.Context, text string) (*types.ExtractedInfo, error) {
	prompt := fmt.Sprintf(extractionPromptTemplate, utils.TruncateRunes(text, constants.AITextLimit))
	js, err := c.call(ctx, prompt, extractionSchemaLoader)
	if err != nil {
		return nil, err
	}

	doc := gjson.Parse(js)
	info := &types.ExtractedInfo{
		BasicInfo: types.BasicInfo{
			Name:    scalar(doc, "basic_info.name"),
			Phone:   scalar(doc, "basic_info.phone"),
			Email:   scalar(doc, "basic_info.email"),
			Address: scalar(doc, "basic_info.address"),
		},
		OptionalInfo: types.OptionalInfo{
			JobIntention:    scalar(doc, "optional_info.job_intention"),
			ExperienceYears: experienceYears(doc.Get("optional_info.experience_years")),
			Education:       scalar(doc, "optional_info.education"),
			University:      scalar(doc, "optional_info.university"),
		},
		Skills:           stringArray(doc.Get("skills")),
		ExtractionMethod: constants.ExtractionMethodAIEnhanced,
	}
	return info, nil
}

// AssessMatch 让模型评估简历与岗位的匹配度，score 缺失或无法解析时返回 ErrMissingScore
func (c *Client) AssessMatch(ctx context.Context, resumeText, jobDescription string) (*types.AIAnalysis, error) {
	prompt := fmt.Sprintf(matchPromptTemplate,
		utils.TruncateRunes(jobDescription, constants.AIJDTextLimit),
		utils.TruncateRunes(resumeText, constants.AITextLimit))
	js, err := c.call(ctx, prompt, matchSchemaLoader)
	if err != nil {
		return nil, err
	}

	doc := gjson.Parse(js)
	score, ok := parseScore(doc.Get("score"))
	if !ok {
		return nil, ErrMissingScore
	}

	return &types.AIAnalysis{
		Score:              score,
		OverallAnalysis:    doc.Get("overall_analysis").String(),
		SkillAnalysis:      doc.Get("skill_analysis").String(),
		ExperienceAnalysis: doc.Get("experience_analysis").String(),
		EducationAnalysis:  doc.Get("education_analysis").String(),
		Strengths:          stringArray(doc.Get("strengths")),
		Weaknesses:         stringArray(doc.Get("weaknesses")),
		Recommendations:    stringArray(doc.Get("recommendations")),
	}, nil
}

func (c *Client) call(ctx context.Context, prompt string, schema gojsonschema.JSONLoader) (string, error) {
	if c.collaborator == nil {
		return "", fmt.Errorf("aiassist: 未配置模型")
	}
	content, err := c.collaborator.Analyze(ctx, Request{System: systemPrompt, Prompt: prompt})
	if err != nil {
		return "", err
	}

	js, err := ExtractJSON(content)
	if err != nil {
		logger.FromContext(ctx).Debug().Str("content", utils.TruncateRunes(content, 300)).Msg("模型回复中未找到 JSON")
		return "", err
	}
	if err := validateAgainst(schema, js); err != nil {
		return "", err
	}
	return js, nil
}

// scalar 取字符串或数字字段，null、空串返回 nil
func scalar(doc gjson.Result, path string) *string {
	r := doc.Get(path)
	switch r.Type {
	case gjson.String, gjson.Number:
		v := strings.TrimSpace(r.String())
		if v == "" || strings.EqualFold(v, "null") {
			return nil
		}
		return &v
	}
	return nil
}

// experienceYears 数字年限补上单位，与规则结果的 "N年" 格式一致
func experienceYears(r gjson.Result) *string {
	if r.Type == gjson.Number {
		v := strconv.Itoa(int(r.Int())) + "年"
		return &v
	}
	if r.Type != gjson.String {
		return nil
	}
	v := strings.TrimSpace(r.String())
	if v == "" {
		return nil
	}
	if _, err := strconv.Atoi(v); err == nil {
		v += "年"
	}
	return &v
}

func stringArray(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}
	var out []string
	for _, item := range r.Array() {
		if item.Type != gjson.String {
			continue
		}
		if v := strings.TrimSpace(item.String()); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseScore(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Float(), true
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.String()), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}
