package aiassist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		path    string
		want    string
	}{
		{"纯JSON", `{"score": 80}`, "score", "80"},
		{"代码块", "好的，结果如下：\n```json\n{\"score\": 75}\n```\n", "score", "75"},
		{"无语言标记的代码块", "```\n{\"a\": \"b\"}\n```", "a", "b"},
		{"BOM前缀", "\uFEFF{\"name\": \"张三\"}", "name", "张三"},
		{"前后夹杂说明", `分析完毕 {"score": 60, "strengths": ["沟通"]} 以上仅供参考`, "strengths.0", "沟通"},
		{"字符串内含括号", `{"overall_analysis": "匹配度一般 {需补充}", "score": 50}`, "overall_analysis", "匹配度一般 {需补充}"},
		{"嵌套对象", `结果：{"basic_info": {"name": "李四"}, "skills": ["Go"]}`, "basic_info.name", "李四"},
		{"跳过不合法的前一个对象", `{foo} 然后 {"score": 90}`, "score", "90"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			js, err := ExtractJSON(tt.content)
			require.NoError(t, err)
			require.True(t, gjson.Valid(js), "返回值应是合法 JSON")
			assert.Equal(t, tt.want, gjson.Get(js, tt.path).String())
		})
	}
}

func TestExtractJSON_RepairsUnescapedQuotes(t *testing.T) {
	content := `{"overall_analysis": "候选人具备"高并发"经验", "score": 85}`

	js, err := ExtractJSON(content)
	require.NoError(t, err, "未转义的引号应被修复")
	assert.Equal(t, `候选人具备"高并发"经验`, gjson.Get(js, "overall_analysis").String())
	assert.Equal(t, int64(85), gjson.Get(js, "score").Int())
}

func TestExtractJSON_NoObject(t *testing.T) {
	for _, content := range []string{"", "抱歉，我无法完成这个请求。", "{ 未闭合", "[1, 2, 3]"} {
		_, err := ExtractJSON(content)
		assert.ErrorIs(t, err, ErrNoJSON, "内容 %q 不应解析出对象", content)
	}
}

func TestSanitizeJSON(t *testing.T) {
	assert.Equal(t, `{"a": "x\"y\"z"}`, sanitizeJSON(`{"a": "x"y"z"}`))
	assert.Equal(t, `{"a": "ok", "b": 1}`, sanitizeJSON(`{"a": "ok", "b": 1}`), "合法 JSON 保持不变")
	assert.Equal(t, `{"a": "already \"escaped\""}`, sanitizeJSON(`{"a": "already \"escaped\""}`))
}
