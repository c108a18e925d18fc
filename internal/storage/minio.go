package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"cv-analysis-go/internal/config"
	"cv-analysis-go/internal/constants"
	"cv-analysis-go/internal/logger"
)

var contentTypes = map[string]string{
	constants.FileTypePDF:  "application/pdf",
	constants.FileTypeDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// OriginalObjectName 原始文件的对象路径 resume/<cache_key>/original.<ext>
func OriginalObjectName(cacheKey, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "bin"
	}
	return path.Join("resume", cacheKey, "original."+ext)
}

// ParsedTextObjectName 解析文本的对象路径 resume/<cache_key>/parsed_text.txt
func ParsedTextObjectName(cacheKey string) string {
	return path.Join("resume", cacheKey, "parsed_text.txt")
}

// MinIO 归档原始简历与解析文本
type MinIO struct {
	client *minio.Client
	cfg    *config.MinIOConfig
	bucket string
}

// NewMinIO 创建MinIO客户端，确保存储桶存在并设置过期规则
func NewMinIO(ctx context.Context, cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("MinIO存储桶名称不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	m := &MinIO{client: client, cfg: cfg, bucket: cfg.BucketName}
	if err := m.ensureBucketExists(ctx); err != nil {
		return nil, err
	}
	if cfg.ExpireDays > 0 {
		if err := m.setupLifecycle(ctx, cfg.ExpireDays); err != nil {
			// 生命周期规则失败不影响归档
			logger.Logger.Warn().Err(err).Str("bucket", m.bucket).Msg("设置MinIO生命周期规则失败")
		}
	}
	return m, nil
}

func (m *MinIO) ensureBucketExists(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 是否存在时出错: %w", m.bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.cfg.Location}); err != nil {
		return fmt.Errorf("创建存储桶 %s 失败: %w", m.bucket, err)
	}
	logger.Logger.Info().Str("bucket", m.bucket).Msg("已创建MinIO存储桶")
	return nil
}

func (m *MinIO) setupLifecycle(ctx context.Context, days int) error {
	cfg := lifecycle.NewConfiguration()
	cfg.Rules = []lifecycle.Rule{
		{
			ID:         "expire-resume-archive",
			Status:     "Enabled",
			RuleFilter: lifecycle.Filter{Prefix: "resume/"},
			Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(days)},
		},
	}
	return m.client.SetBucketLifecycle(ctx, m.bucket, cfg)
}

// putObject 上传并返回 bucket/object 形式的路径
func (m *MinIO) putObject(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("上传对象 %s 失败: %w", objectName, err)
	}
	return m.bucket + "/" + objectName, nil
}

// ArchiveOriginal 归档原始上传文件
func (m *MinIO) ArchiveOriginal(ctx context.Context, cacheKey, fileType string, data []byte) (string, error) {
	ct, ok := contentTypes[fileType]
	if !ok {
		ct = "application/octet-stream"
	}
	return m.putObject(ctx, OriginalObjectName(cacheKey, fileType), bytes.NewReader(data), int64(len(data)), ct)
}

// ArchiveParsedText 归档解析后的纯文本
func (m *MinIO) ArchiveParsedText(ctx context.Context, cacheKey, text string) (string, error) {
	return m.putObject(ctx, ParsedTextObjectName(cacheKey), strings.NewReader(text), int64(len(text)), "text/plain; charset=utf-8")
}

// GetParsedText 读取归档的解析文本
func (m *MinIO) GetParsedText(ctx context.Context, cacheKey string) (string, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, ParsedTextObjectName(cacheKey), minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("获取解析文本失败: %w", err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return "", fmt.Errorf("读取解析文本失败: %w", err)
	}
	return string(data), nil
}

// Ping 存储桶是否可访问
func (m *MinIO) Ping(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.bucket)
	return err
}
