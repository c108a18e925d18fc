package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBasic(t *testing.T) {
	got := Extract("熟练掌握 Python、Go 和 MySQL，了解 Docker/Kubernetes")
	assert.Equal(t, []string{"python", "go", "mysql", "docker", "kubernetes"}, got, "应按首次出现位置输出")
}

func TestExtractLongestMatchWins(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"tcp/ip 压制重叠的 tcp", "熟悉 tcp/ip 协议栈", []string{"tcp/ip"}},
		{"tcp ip 写法", "熟悉 TCP IP 协议", []string{"tcp/ip"}},
		{"独立出现的 tcp 仍被记录", "熟悉 tcp/ip，另外精通 tcp 调优", []string{"tcp/ip", "tcp"}},
		{"spring boot 压制 spring", "使用 Spring Boot 开发", []string{"spring boot"}},
		{"vue.js 压制 vue 与 js", "前端使用 vue.js", []string{"vue.js"}},
		{"c++ 压制 c", "c++ 与 java", []string{"c++", "java"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

func TestExtractWordBoundaries(t *testing.T) {
	assert.Empty(t, Extract("google gopher"), "go 不应匹配单词内部")
	assert.Equal(t, []string{"go"}, Extract("熟悉go语言"), "中文与字母之间视为边界")
	assert.Equal(t, []string{"c#"}, Extract("语言：c#"), "冒号视为分隔符")
}

func TestExtractSingleLetterTerms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"C端不是C语言", "负责C端产品后端开发，熟悉Java", []string{"java"}},
		{"R&D不是R语言", "参与公司R&D项目，使用Python", []string{"python"}},
		{"B端C端并列", "熟悉B端、C端业务", []string{}},
		{"独立的 C", "熟悉 C 和 Go", []string{"c", "go"}},
		{"顿号分隔的 R", "工具：Python、R、MySQL", []string{"python", "r", "mysql"}},
		{"句首与句尾", "c 与 r", []string{"c", "r"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractIsDeterministicAndWhitespaceInsensitive(t *testing.T) {
	text := "Java, Python  以及\tRedis 或 Kafka 等; 熟悉 k8s"
	first := Extract(text)
	assert.Equal(t, first, Extract(text), "重复扫描结果应一致")

	spaced := "Java,   Python 以及 Redis   或 Kafka 等;\n\n熟悉   k8s"
	assert.ElementsMatch(t, first, Extract(spaced), "空白差异不应改变技能集合")
	assert.ElementsMatch(t, []string{"java", "python", "redis", "kafka", "k8s"}, first)
}

func TestExtractDeduplicates(t *testing.T) {
	assert.Equal(t, []string{"python"}, Extract("python python PYTHON"))
}

func TestExtractEmpty(t *testing.T) {
	assert.Empty(t, Extract(""))
	assert.Empty(t, Extract("   \n  "))
}

func TestCustomScanner(t *testing.T) {
	s := NewScanner([]string{"ab", "abc", "ABC", ""})
	assert.Equal(t, []string{"abc"}, s.Scan("xx abc yy"), "重复与空词应被忽略，长词优先")
}
