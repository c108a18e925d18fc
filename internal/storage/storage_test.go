package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-analysis-go/internal/cache"
	"cv-analysis-go/internal/config"
	"cv-analysis-go/internal/types"
)

func TestObjectNames(t *testing.T) {
	assert.Equal(t, "resume/abc/original.pdf", OriginalObjectName("abc", "pdf"))
	assert.Equal(t, "resume/abc/original.docx", OriginalObjectName("abc", ".DOCX"))
	assert.Equal(t, "resume/abc/original.bin", OriginalObjectName("abc", ""))
	assert.Equal(t, "resume/abc/parsed_text.txt", ParsedTextObjectName("abc"))
}

func TestNewStorage_AllDisabled(t *testing.T) {
	s := NewStorage(context.Background(), config.Default())
	require.NotNil(t, s)

	assert.Nil(t, s.Redis)
	assert.Nil(t, s.MinIO)
	assert.Nil(t, s.MySQL)
	assert.Nil(t, s.RabbitMQ)
	assert.Equal(t, map[string]string{
		"redis":    StatusDisabled,
		"minio":    StatusDisabled,
		"mysql":    StatusDisabled,
		"rabbitmq": StatusDisabled,
	}, s.Status(context.Background()))
	s.Close()
}

func TestNewStorage_UnreachableComponentsStayNil(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.Enabled = true
	cfg.Redis.Address = "127.0.0.1:1" // 不可达端口
	cfg.Redis.DialTimeoutSeconds = 1
	cfg.Redis.MaxRetries = -1

	s := NewStorage(context.Background(), cfg)
	assert.Nil(t, s.Redis, "连接失败的组件应保持为 nil")
	assert.Equal(t, StatusDisabled, s.Status(context.Background())["redis"])
}

// redisForTest 连接本地Redis，不可用时跳过
func redisForTest(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("未设置 REDIS_TEST_ADDR，跳过Redis集成测试")
	}
	cfg := config.Default().Redis
	cfg.Address = addr
	r, err := NewRedisAdapter(context.Background(), &cfg)
	if err != nil {
		t.Skipf("Redis不可用: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRedis_ParsedResumeRoundTrip(t *testing.T) {
	r := redisForTest(t)
	ctx := context.Background()
	key := "test-" + time.Now().Format("150405.000000")

	_, err := r.LoadParsedResume(ctx, key)
	assert.ErrorIs(t, err, cache.ErrMiss)

	name := "王强"
	in := &types.ParsedResume{
		CacheKey: key,
		RawText:  "王强 Python",
		ExtractedInfo: &types.ExtractedInfo{
			BasicInfo: types.BasicInfo{Name: &name},
			Skills:    []string{"Python"},
		},
	}
	require.NoError(t, r.SaveParsedResume(ctx, key, in, time.Minute))

	out, err := r.LoadParsedResume(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, in, out, "读回的结果应与写入一致")
}

func TestRedis_MarkParsed(t *testing.T) {
	r := redisForTest(t)
	ctx := context.Background()
	md5 := "md5-" + time.Now().Format("150405.000000")
	defer r.Client.SRem(ctx, "app:file:dedup_set", md5)

	seen, err := r.MarkParsed(ctx, md5)
	require.NoError(t, err)
	assert.False(t, seen, "首次标记时不应已存在")

	seen, err = r.MarkParsed(ctx, md5)
	require.NoError(t, err)
	assert.True(t, seen, "重复标记时应已存在")
}

func TestStatus_NilStorage(t *testing.T) {
	var s *Storage
	status := s.Status(context.Background())
	assert.Len(t, status, 4)
	for name, v := range status {
		assert.Equal(t, StatusDisabled, v, "%s 应为未启用", name)
	}
}
