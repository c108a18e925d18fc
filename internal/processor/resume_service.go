// Package processor 编排简历上传解析与岗位匹配两条流程。
package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"cv-analysis-go/internal/cache"
	"cv-analysis-go/internal/constants"
	"cv-analysis-go/internal/logger"
	"cv-analysis-go/internal/parser"
	"cv-analysis-go/internal/storage"
	"cv-analysis-go/internal/storage/models"
	"cv-analysis-go/internal/tracing"
	"cv-analysis-go/internal/types"
	"cv-analysis-go/pkg/utils"
)

var tracer = otel.Tracer("cv-analysis-go/processor")

// DocumentExtractor 识别文件类型并按页提取文本
type DocumentExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, []types.PageText, error)
}

// FieldExtractor 从规范化文本中抽取结构化字段
type FieldExtractor interface {
	Extract(ctx context.Context, text, original string) *types.ExtractedInfo
}

// ResumeMatcher 计算简历与岗位的匹配度
type ResumeMatcher interface {
	Match(ctx context.Context, resumeText string, info *types.ExtractedInfo, jobDescription string) *types.MatchResult
}

// Archive 归档原始文件与解析文本
type Archive interface {
	ArchiveOriginal(ctx context.Context, cacheKey, fileType string, data []byte) (string, error)
	ArchiveParsedText(ctx context.Context, cacheKey, text string) (string, error)
	GetParsedText(ctx context.Context, cacheKey string) (string, error)
}

// RecordStore 解析记录
type RecordStore interface {
	UpsertResumeAnalysis(ctx context.Context, rec *models.ResumeAnalysis) error
	GetResumeAnalysis(ctx context.Context, cacheKey string) (*models.ResumeAnalysis, error)
}

// EventPublisher 发布解析完成事件
type EventPublisher interface {
	PublishResumeParsed(ctx context.Context, evt *storage.ResumeParsedEvent) error
}

// Deduplicator 记录已解析过的文件
type Deduplicator interface {
	MarkParsed(ctx context.Context, md5Hex string) (bool, error)
}

// MatchRequest 匹配请求；cache_key 命中时优先于 resume_text
type MatchRequest struct {
	CacheKey       string               `json:"cache_key"`
	JobDescription string               `json:"job_description"`
	ResumeText     string               `json:"resume_text"`
	ExtractedInfo  *types.ExtractedInfo `json:"extracted_info"`
}

// ResumeService 简历解析与匹配服务，构建后可并发使用
type ResumeService struct {
	documents DocumentExtractor
	fields    FieldExtractor
	matcher   ResumeMatcher
	cache     cache.Store

	archive Archive
	records RecordStore
	events  EventPublisher
	dedup   Deduplicator

	minTextRunes      int
	sideEffectTimeout time.Duration
}

// Option 服务选项
type Option func(*ResumeService)

// WithCache 替换解析结果缓存
func WithCache(c cache.Store) Option {
	return func(s *ResumeService) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithStorage 按已初始化的组件注入归档、入库、事件和去重
func WithStorage(st *storage.Storage) Option {
	return func(s *ResumeService) {
		if st == nil {
			return
		}
		// 逐个判断，避免把 nil 指针装进接口
		if st.MinIO != nil {
			s.archive = st.MinIO
		}
		if st.MySQL != nil {
			s.records = st.MySQL
		}
		if st.RabbitMQ != nil {
			s.events = st.RabbitMQ
		}
		if st.Redis != nil {
			s.dedup = st.Redis
		}
	}
}

// WithArchive 注入归档
func WithArchive(a Archive) Option {
	return func(s *ResumeService) { s.archive = a }
}

// WithRecordStore 注入解析记录存储
func WithRecordStore(r RecordStore) Option {
	return func(s *ResumeService) { s.records = r }
}

// WithEventPublisher 注入事件发布
func WithEventPublisher(p EventPublisher) Option {
	return func(s *ResumeService) { s.events = p }
}

// WithDeduplicator 注入去重集合
func WithDeduplicator(d Deduplicator) Option {
	return func(s *ResumeService) { s.dedup = d }
}

// WithMinTextRunes 可解析文本的最少非空白字符数
func WithMinTextRunes(n int) Option {
	return func(s *ResumeService) {
		if n > 0 {
			s.minTextRunes = n
		}
	}
}

// WithSideEffectTimeout 上传后处理的总超时
func WithSideEffectTimeout(d time.Duration) Option {
	return func(s *ResumeService) {
		if d > 0 {
			s.sideEffectTimeout = d
		}
	}
}

// NewResumeService 创建服务
func NewResumeService(documents DocumentExtractor, fields FieldExtractor, matcher ResumeMatcher, opts ...Option) *ResumeService {
	s := &ResumeService{
		documents:         documents,
		fields:            fields,
		matcher:           matcher,
		cache:             cache.NewMemory(constants.DefaultCacheCapacity, constants.DefaultCacheTTL),
		minTextRunes:      constants.MinTextRunes,
		sideEffectTimeout: constants.SideEffectTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CacheSize 当前缓存条目数
func (s *ResumeService) CacheSize() int {
	return s.cache.Len()
}

// Upload 解析上传的简历。同一文件（MD5相同）直接返回缓存结果。
func (s *ResumeService) Upload(ctx context.Context, data []byte, filename string) (*types.ParsedResume, error) {
	if len(data) == 0 {
		return nil, ErrMissingFile
	}
	cacheKey := utils.CalculateMD5(data)

	ctx, span := tracer.Start(ctx, "ResumeService.Upload", trace.WithAttributes(
		attribute.String("resume.cache_key", cacheKey),
		attribute.String("resume.filename", tracing.SafeFilename(filename)),
		attribute.Int("resume.size_bytes", len(data)),
	))
	defer span.End()

	log := logger.FromContext(ctx).With().Str("cache_key", cacheKey).Logger()

	if cached, ok := s.cache.Get(ctx, cacheKey); ok {
		span.SetAttributes(attribute.Bool("resume.cache_hit", true))
		log.Info().Msg("命中解析缓存")
		return cached, nil
	}
	span.SetAttributes(attribute.Bool("resume.cache_hit", false))

	parsed, err := s.parse(ctx, cacheKey, data, filename)
	if err != nil {
		errType := tracing.ErrorTypeExtraction
		if IsInputError(err) {
			errType = tracing.ErrorTypeValidation
		}
		tracing.RecordError(span, err, errType)
		return nil, err
	}

	s.cache.Set(ctx, cacheKey, parsed)
	s.runSideEffects(ctx, parsed, data)

	span.SetAttributes(
		attribute.Int("resume.page_count", parsed.PageCount),
		attribute.Int("resume.skill_count", len(parsed.ExtractedInfo.Skills)),
		tracing.PIIString("candidate.name", utils.Deref(parsed.ExtractedInfo.BasicInfo.Name)),
	)
	span.SetStatus(codes.Ok, "")
	log.Info().
		Str("file_type", parsed.FileType).
		Int("pages", parsed.PageCount).
		Str("candidate", tracing.MaskPII(utils.Deref(parsed.ExtractedInfo.BasicInfo.Name))).
		Str("method", parsed.ExtractedInfo.ExtractionMethod).
		Msg("简历解析完成")
	return parsed, nil
}

func (s *ResumeService) parse(ctx context.Context, cacheKey string, data []byte, filename string) (*types.ParsedResume, error) {
	fileType, pages, err := s.documents.Extract(ctx, data, filename)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFileType) {
			return nil, newAnalysisError(cacheKey, "detect", ErrUnsupportedFileType, filename)
		}
		return nil, newAnalysisError(cacheKey, "extract", ErrExtractFailed, err.Error())
	}

	// 原文保留空格碎片，供号码、邮箱的兜底策略使用
	original := parser.JoinPages(pages)
	text := parser.Normalize(original)
	if n := utils.CountNonSpaceRunes(text); n < s.minTextRunes {
		return nil, newAnalysisError(cacheKey, "extract", ErrTooLittleText, fmt.Sprintf("仅提取到 %d 个有效字符", n))
	}

	cleaned := make([]types.PageText, len(pages))
	for i, p := range pages {
		cleaned[i] = types.PageText{PageNumber: p.PageNumber, Text: parser.Normalize(p.Text)}
	}

	logger.FromContext(ctx).Debug().Str("preview", tracing.SafeResumeContent(text)).Msg("文本提取完成")

	return &types.ParsedResume{
		CacheKey:       cacheKey,
		FileName:       filename,
		FileType:       fileType,
		RawText:        text,
		Pages:          cleaned,
		PageCount:      len(cleaned),
		ExtractedInfo:  s.fields.Extract(ctx, text, original),
		StructuredText: parser.Segment(text),
	}, nil
}

// runSideEffects 归档、入库、发布事件、去重；全部尽力而为，失败只记日志
func (s *ResumeService) runSideEffects(ctx context.Context, parsed *types.ParsedResume, data []byte) {
	if s.archive == nil && s.records == nil && s.events == nil && s.dedup == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sideEffectTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "ResumeService.SideEffects")
	defer span.End()

	log := logger.FromContext(ctx).With().Str("cache_key", parsed.CacheKey).Logger()
	soft := func(op string, errType tracing.ErrorType, fn func() error) func() error {
		return func() error {
			if err := fn(); err != nil {
				log.Warn().Err(err).Str("op", op).Msg("上传后处理失败，已忽略")
				tracing.RecordError(span, err, errType, attribute.String("side_effect.op", op))
			}
			return nil
		}
	}

	// 先归档，路径写入记录和事件
	var originalPath, textPath string
	if s.archive != nil {
		var g errgroup.Group
		g.Go(soft("archive_original", tracing.ErrorTypeStorage, func() (err error) {
			originalPath, err = s.archive.ArchiveOriginal(ctx, parsed.CacheKey, parsed.FileType, data)
			return err
		}))
		g.Go(soft("archive_text", tracing.ErrorTypeStorage, func() (err error) {
			textPath, err = s.archive.ArchiveParsedText(ctx, parsed.CacheKey, parsed.RawText)
			return err
		}))
		_ = g.Wait()
	}

	var g errgroup.Group
	if s.records != nil {
		g.Go(soft("record", tracing.ErrorTypeDB, func() error {
			rec, err := newAnalysisRecord(parsed, originalPath, textPath)
			if err != nil {
				return err
			}
			return s.records.UpsertResumeAnalysis(ctx, rec)
		}))
	}
	if s.events != nil {
		g.Go(soft("publish", tracing.ErrorTypeRabbitMQ, func() error {
			return s.events.PublishResumeParsed(ctx, &storage.ResumeParsedEvent{
				CacheKey:         parsed.CacheKey,
				Filename:         parsed.FileName,
				FileType:         parsed.FileType,
				PageCount:        parsed.PageCount,
				Skills:           parsed.ExtractedInfo.Skills,
				ExtractionMethod: parsed.ExtractedInfo.ExtractionMethod,
				OriginalObject:   originalPath,
				ParsedTextObject: textPath,
				ParsedAt:         time.Now(),
			})
		}))
	}
	if s.dedup != nil {
		g.Go(soft("dedup", tracing.ErrorTypeRedis, func() error {
			seen, err := s.dedup.MarkParsed(ctx, parsed.CacheKey)
			if err == nil && seen {
				log.Info().Msg("该文件此前已解析过，本地缓存已失效")
			}
			return err
		}))
	}
	_ = g.Wait()
}

func newAnalysisRecord(parsed *types.ParsedResume, originalPath, textPath string) (*models.ResumeAnalysis, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成记录ID失败: %w", err)
	}
	info := parsed.ExtractedInfo
	return &models.ResumeAnalysis{
		ID:                 id.String(),
		CacheKey:           parsed.CacheKey,
		OriginalFilename:   parsed.FileName,
		FileType:           parsed.FileType,
		PageCount:          parsed.PageCount,
		ExtractionMethod:   info.ExtractionMethod,
		CandidateName:      utils.Deref(info.BasicInfo.Name),
		ExtractedInfoJSON:  utils.ConvertToJSON(info),
		SectionsJSON:       utils.ConvertToJSON(parsed.StructuredText),
		SkillsJSON:         utils.ConvertArrayToJSON(info.Skills),
		OriginalObjectPath: originalPath,
		ParsedTextPath:     textPath,
	}, nil
}

// Match 计算匹配度。岗位描述为空或找不到简历时返回输入错误。
func (s *ResumeService) Match(ctx context.Context, req MatchRequest) (*types.MatchResult, error) {
	ctx, span := tracer.Start(ctx, "ResumeService.Match", trace.WithAttributes(
		attribute.String("resume.cache_key", req.CacheKey),
		attribute.Int("job.description_runes", len([]rune(req.JobDescription))),
	))
	defer span.End()

	if req.JobDescription == "" {
		tracing.RecordError(span, ErrMissingJobDescription, tracing.ErrorTypeValidation)
		return nil, ErrMissingJobDescription
	}

	text, info, source := s.resolveResume(ctx, req)
	if source == "" {
		tracing.RecordError(span, ErrMissingResume, tracing.ErrorTypeValidation)
		return nil, ErrMissingResume
	}
	span.SetAttributes(attribute.String("resume.source", source))

	result := s.matcher.Match(ctx, text, info, req.JobDescription)
	span.SetAttributes(attribute.Float64("match.overall_score", result.OverallScore))
	span.SetStatus(codes.Ok, "")

	logger.FromContext(ctx).Info().
		Str("cache_key", req.CacheKey).
		Str("source", source).
		Float64("score", result.OverallScore).
		Bool("ai", result.AIAnalysis != nil && result.AIAnalysis.Error == "").
		Msg("匹配分析完成")
	return result, nil
}

// 简历来源
const (
	sourceCache   = "cache"
	sourceRequest = "request"
	sourceArchive = "archive"
)

// resolveResume 依次尝试缓存、请求中的文本、归档；都没有时 source 为空
func (s *ResumeService) resolveResume(ctx context.Context, req MatchRequest) (string, *types.ExtractedInfo, string) {
	if req.CacheKey != "" {
		if cached, ok := s.cache.Get(ctx, req.CacheKey); ok {
			return cached.RawText, cached.ExtractedInfo, sourceCache
		}
	}
	if strings.TrimSpace(req.ResumeText) != "" {
		return req.ResumeText, req.ExtractedInfo, sourceRequest
	}
	if req.CacheKey != "" && s.archive != nil {
		if text, info, ok := s.recoverFromArchive(ctx, req.CacheKey); ok {
			return text, info, sourceArchive
		}
	}
	return "", nil, ""
}

// recoverFromArchive 缓存过期后从归档的解析文本恢复；有入库记录时复用记录里的字段
func (s *ResumeService) recoverFromArchive(ctx context.Context, cacheKey string) (string, *types.ExtractedInfo, bool) {
	log := logger.FromContext(ctx).With().Str("cache_key", cacheKey).Logger()

	text, err := s.archive.GetParsedText(ctx, cacheKey)
	if err != nil || strings.TrimSpace(text) == "" {
		log.Debug().Err(err).Msg("归档中没有可用的解析文本")
		return "", nil, false
	}

	var info *types.ExtractedInfo
	if s.records != nil {
		rec, err := s.records.GetResumeAnalysis(ctx, cacheKey)
		if err == nil && len(rec.ExtractedInfoJSON) > 0 {
			var restored types.ExtractedInfo
			if err := json.Unmarshal(rec.ExtractedInfoJSON, &restored); err == nil {
				info = &restored
			}
		}
	}
	if info == nil {
		info = s.fields.Extract(ctx, text, text)
	}
	log.Info().Msg("已从归档恢复简历文本")
	return text, info, true
}
