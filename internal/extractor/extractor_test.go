package extractor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-analysis-go/internal/constants"
	"cv-analysis-go/internal/types"
	"cv-analysis-go/pkg/utils"
)

const sampleResume = "姓名：王强\n电话：13800001234\n邮箱：wang@example.com\n本科\n3年经验\nPython, MySQL"

type fakeEnricher struct {
	info  *types.ExtractedInfo
	err   error
	delay time.Duration
	calls int
	text  string
}

func (f *fakeEnricher) EnrichExtraction(ctx context.Context, text string) (*types.ExtractedInfo, error) {
	f.calls++
	f.text = text
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.info, f.err
}

func TestExtract_EndToEnd(t *testing.T) {
	info := New().Extract(context.Background(), sampleResume, "")
	require.NotNil(t, info)

	assert.Equal(t, "王强", utils.Deref(info.BasicInfo.Name))
	assert.Equal(t, "13800001234", utils.Deref(info.BasicInfo.Phone))
	assert.Equal(t, "wang@example.com", utils.Deref(info.BasicInfo.Email))
	assert.Nil(t, info.BasicInfo.Address, "没有地址时应为 nil")
	assert.Equal(t, "本科", utils.Deref(info.OptionalInfo.Education))
	assert.Equal(t, "3年", utils.Deref(info.OptionalInfo.ExperienceYears))
	assert.Nil(t, info.OptionalInfo.JobIntention)
	assert.Nil(t, info.OptionalInfo.University)
	assert.Subset(t, info.Skills, []string{"Python", "MySQL"}, "技能应为展示形式")
	assert.Equal(t, constants.ExtractionMethodRegex, info.ExtractionMethod)
}

func TestExtract_EmptyText(t *testing.T) {
	info := New().Extract(context.Background(), "", "")
	require.NotNil(t, info)
	assert.Nil(t, info.BasicInfo.Name)
	assert.Nil(t, info.BasicInfo.Phone)
	assert.NotNil(t, info.Skills, "技能列表应为空数组而不是 nil")
	assert.Empty(t, info.Skills)
}

func TestExtract_Deterministic(t *testing.T) {
	x := New()
	a := x.Extract(context.Background(), sampleResume, "")
	b := x.Extract(context.Background(), sampleResume, "")
	assert.Equal(t, a, b, "相同输入应得到相同结果")
}

func TestExtract_WithEnricher(t *testing.T) {
	enricher := &fakeEnricher{info: &types.ExtractedInfo{
		BasicInfo: types.BasicInfo{
			Name:    utils.StringPtr("王小强"),
			Address: utils.StringPtr("北京市朝阳区"),
		},
		OptionalInfo: types.OptionalInfo{University: utils.StringPtr("北京大学")},
		Skills:       []string{"python", "Kubernetes", ""},
	}}

	info := New(WithEnricher(enricher, time.Second)).Extract(context.Background(), sampleResume, "")

	assert.Equal(t, 1, enricher.calls)
	assert.Equal(t, "王强", utils.Deref(info.BasicInfo.Name), "规则已抽到的字段不应被覆盖")
	assert.Equal(t, "北京市朝阳区", utils.Deref(info.BasicInfo.Address), "缺失字段应由AI补齐")
	assert.Equal(t, "北京大学", utils.Deref(info.OptionalInfo.University))
	assert.Equal(t, []string{"Python", "MySQL", "Kubernetes"}, info.Skills, "技能按小写去重后追加")
	assert.Equal(t, constants.ExtractionMethodAIEnhanced, info.ExtractionMethod)
}

func TestExtract_EnricherFailureFallsBack(t *testing.T) {
	enricher := &fakeEnricher{err: errors.New("network down")}
	info := New(WithEnricher(enricher, time.Second)).Extract(context.Background(), sampleResume, "")

	assert.Equal(t, 1, enricher.calls)
	assert.Equal(t, constants.ExtractionMethodRegex, info.ExtractionMethod, "AI失败时应保持规则结果")
	assert.Equal(t, "王强", utils.Deref(info.BasicInfo.Name))
}

func TestExtract_EnricherTimeout(t *testing.T) {
	enricher := &fakeEnricher{
		info:  &types.ExtractedInfo{Skills: []string{"Rust"}},
		delay: time.Second,
	}
	start := time.Now()
	info := New(WithEnricher(enricher, 20*time.Millisecond)).Extract(context.Background(), sampleResume, "")

	assert.Less(t, time.Since(start), 500*time.Millisecond, "超时后应立即返回")
	assert.Equal(t, constants.ExtractionMethodRegex, info.ExtractionMethod)
	assert.NotContains(t, info.Skills, "Rust")
}

func TestExtract_EnricherGetsTruncatedText(t *testing.T) {
	enricher := &fakeEnricher{}
	long := sampleResume + "\n" + string(make([]rune, constants.AITextLimit))
	New(WithEnricher(enricher, time.Second)).Extract(context.Background(), long, "")

	assert.Equal(t, constants.AITextLimit, len([]rune(enricher.text)), "发送给AI的文本应截断")
}

func TestMerge_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() { Merge(nil, &types.ExtractedInfo{}) })

	base := &types.ExtractedInfo{ExtractionMethod: constants.ExtractionMethodRegex}
	Merge(base, nil)
	assert.Equal(t, constants.ExtractionMethodRegex, base.ExtractionMethod)
}

func TestMerge_BlankBaseFieldIsFilled(t *testing.T) {
	blank := "  "
	base := &types.ExtractedInfo{BasicInfo: types.BasicInfo{Phone: &blank}}
	Merge(base, &types.ExtractedInfo{BasicInfo: types.BasicInfo{Phone: utils.StringPtr(" 13900001111 ")}})
	assert.Equal(t, "13900001111", utils.Deref(base.BasicInfo.Phone))
}
