package aiassist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-analysis-go/internal/config"
	"cv-analysis-go/internal/constants"
	"cv-analysis-go/pkg/agent"
	"cv-analysis-go/pkg/utils"
)

func newTestClient(content string, err error) (*Client, *agent.MockChatClient) {
	mock := agent.NewMockChatClient(content, err)
	return NewClient(NewChatCollaborator(mock)), mock
}

func TestEnrichExtraction(t *testing.T) {
	reply := "```json\n" + `{
  "basic_info": {"name": "王强", "phone": 13800001234, "email": "wq@example.com", "address": null},
  "optional_info": {"job_intention": "后端开发", "experience_years": 3, "education": "本科", "university": ""},
  "skills": ["Go", "Kubernetes", ""]
}` + "\n```"
	client, mock := newTestClient(reply, nil)

	info, err := client.EnrichExtraction(context.Background(), "王强的简历")
	require.NoError(t, err)

	assert.Equal(t, "王强", utils.Deref(info.BasicInfo.Name))
	assert.Equal(t, "13800001234", utils.Deref(info.BasicInfo.Phone), "数字形式的手机号应转为字符串")
	assert.Equal(t, "wq@example.com", utils.Deref(info.BasicInfo.Email))
	assert.Nil(t, info.BasicInfo.Address, "null 字段应为 nil")
	assert.Equal(t, "后端开发", utils.Deref(info.OptionalInfo.JobIntention))
	assert.Equal(t, "3年", utils.Deref(info.OptionalInfo.ExperienceYears), "数字年限应补上单位")
	assert.Equal(t, "本科", utils.Deref(info.OptionalInfo.Education))
	assert.Nil(t, info.OptionalInfo.University, "空字符串字段应为 nil")
	assert.Equal(t, []string{"Go", "Kubernetes"}, info.Skills)
	assert.Equal(t, constants.ExtractionMethodAIEnhanced, info.ExtractionMethod)

	msgs := mock.GetReceivedMessages()
	require.Len(t, msgs, 2, "应发送系统消息和用户消息")
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "王强的简历")
}

func TestEnrichExtraction_TruncatesText(t *testing.T) {
	client, mock := newTestClient(`{"skills": []}`, nil)
	long := strings.Repeat("甲", constants.AITextLimit) + "乙乙乙"

	_, err := client.EnrichExtraction(context.Background(), long)
	require.NoError(t, err)

	msgs := mock.GetReceivedMessages()
	require.Len(t, msgs, 2)
	assert.NotContains(t, msgs[1].Content, "乙", "超出上限的文本不应发送给模型")
}

func TestEnrichExtraction_StringYears(t *testing.T) {
	client, _ := newTestClient(`{"optional_info": {"experience_years": "5"}}`, nil)
	info, err := client.EnrichExtraction(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "5年", utils.Deref(info.OptionalInfo.ExperienceYears))

	client, _ = newTestClient(`{"optional_info": {"experience_years": "五年以上"}}`, nil)
	info, err = client.EnrichExtraction(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "五年以上", utils.Deref(info.OptionalInfo.ExperienceYears))
}

func TestAssessMatch(t *testing.T) {
	reply := `根据分析：{"score": 82, "overall_analysis": "整体匹配良好", "skill_analysis": "技能较全",
"strengths": ["Python 熟练"], "weaknesses": ["缺少 Redis"], "recommendations": ["补充缓存经验", "完善项目描述"]}`
	client, mock := newTestClient(reply, nil)

	analysis, err := client.AssessMatch(context.Background(), "简历内容", "岗位描述")
	require.NoError(t, err)

	assert.InDelta(t, 82.0, analysis.Score, 1e-9)
	assert.Equal(t, "整体匹配良好", analysis.OverallAnalysis)
	assert.Equal(t, "技能较全", analysis.SkillAnalysis)
	assert.Empty(t, analysis.ExperienceAnalysis)
	assert.Equal(t, []string{"Python 熟练"}, analysis.Strengths)
	assert.Equal(t, []string{"缺少 Redis"}, analysis.Weaknesses)
	assert.Equal(t, []string{"补充缓存经验", "完善项目描述"}, analysis.Recommendations)

	msgs := mock.GetReceivedMessages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, "简历内容")
	assert.Contains(t, msgs[1].Content, "岗位描述")
}

func TestAssessMatch_StringScore(t *testing.T) {
	client, _ := newTestClient(`{"score": " 67.5 "}`, nil)
	analysis, err := client.AssessMatch(context.Background(), "r", "j")
	require.NoError(t, err)
	assert.InDelta(t, 67.5, analysis.Score, 1e-9)
}

func TestAssessMatch_Failures(t *testing.T) {
	upstream := errors.New("connection reset")

	tests := []struct {
		name    string
		content string
		err     error
		check   func(t *testing.T, err error)
	}{
		{"模型调用失败", "", upstream, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, upstream)
		}},
		{"空回复", "   ", nil, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrEmptyResponse)
		}},
		{"没有JSON", "我认为匹配度较高。", nil, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrNoJSON)
		}},
		{"缺少score字段", `{"overall_analysis": "不错"}`, nil, func(t *testing.T, err error) {
			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.NotEmpty(t, schemaErr.Fields)
		}},
		{"score类型错误", `{"score": [80]}`, nil, func(t *testing.T, err error) {
			var schemaErr *SchemaError
			assert.ErrorAs(t, err, &schemaErr)
		}},
		{"score不是数字", `{"score": "高"}`, nil, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrMissingScore)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(tt.content, tt.err)
			analysis, err := client.AssessMatch(context.Background(), "简历", "岗位")
			require.Error(t, err)
			assert.Nil(t, analysis)
			tt.check(t, err)
		})
	}
}

func TestClient_NoCollaborator(t *testing.T) {
	_, err := NewClient(nil).AssessMatch(context.Background(), "r", "j")
	assert.Error(t, err)
}

func TestNewChatModel_DisabledWithoutKey(t *testing.T) {
	m, closer, err := NewChatModel(context.Background(), config.AIConfig{Provider: config.ProviderQwen}, nil)
	require.NoError(t, err)
	assert.Nil(t, m, "未配置密钥时不应创建模型")
	assert.Nil(t, closer)
}

func TestNewChatModel_Qwen(t *testing.T) {
	cfg := config.AIConfig{Provider: config.ProviderQwen, APIKey: "sk-test", Model: "qwen-turbo", QPM: 10}
	m, closer, err := NewChatModel(context.Background(), cfg, map[string]int{"qwen-turbo": 100})
	require.NoError(t, err)
	require.NotNil(t, m)
	require.NotNil(t, closer)
	assert.NoError(t, closer.Close())
}

func TestNewChatModel_UnknownProvider(t *testing.T) {
	_, _, err := NewChatModel(context.Background(), config.AIConfig{Provider: "openai", APIKey: "k"}, nil)
	assert.Error(t, err)
}
