package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAliyunQwenChatModelRequiresKey(t *testing.T) {
	_, err := NewAliyunQwenChatModel("  ", "", "")
	assert.Error(t, err, "空的API密钥应返回错误")
}

func TestAliyunQwenGenerate(t *testing.T) {
	var got openAIChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"x","choices":[{"index":0,"message":{"role":"assistant","content":"{\"score\": 80}"}}]}`))
	}))
	defer srv.Close()

	m, err := NewAliyunQwenChatModel("test-key", "", srv.URL, WithQwenTemperature(0.1))
	require.NoError(t, err)

	resp, err := m.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage("hello"),
	})
	require.NoError(t, err, "正常响应不应返回错误")
	assert.Equal(t, `{"score": 80}`, resp.Content)
	assert.Equal(t, schema.Assistant, resp.Role)

	assert.Equal(t, defaultQwenModelName, got.Model, "未指定模型时应使用默认模型")
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[1].Content)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.1, *got.Temperature, 1e-6)
}

func TestAliyunQwenGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"非200状态", http.StatusTooManyRequests, `{"error":"rate"}`},
		{"空选项", http.StatusOK, `{"choices":[]}`},
		{"非法JSON", http.StatusOK, `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			m, err := NewAliyunQwenChatModel("k", "qwen-turbo", srv.URL)
			require.NoError(t, err)
			_, err = m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
			assert.Error(t, err)
		})
	}
}
