package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"

	"cv-analysis-go/internal/aiassist"
	"cv-analysis-go/internal/cache"
	"cv-analysis-go/internal/config"
	"cv-analysis-go/internal/constants"
	"cv-analysis-go/internal/extractor"
	"cv-analysis-go/internal/logger"
	"cv-analysis-go/internal/matcher"
	"cv-analysis-go/internal/parser"
	"cv-analysis-go/internal/skills"
	"cv-analysis-go/internal/storage"
)

const defaultRedisTTL = 24 * time.Hour

// NewFromConfig 按配置组装服务。chat 为 nil 时不启用AI；st 为 nil 时不做任何上传后处理。
func NewFromConfig(ctx context.Context, cfg *config.Config, chat model.BaseChatModel, st *storage.Storage) (*ResumeService, error) {
	eino, err := parser.NewEinoPDFTextExtractor(ctx,
		parser.WithEinoLogger(logger.Logger.With().Str("component", "pdf_eino").Logger()))
	if err != nil {
		return nil, fmt.Errorf("初始化PDF提取器失败: %w", err)
	}
	documents := parser.NewDocumentExtractor(parser.NewDocxExtractor(), eino, parser.NewLedongthucPDFExtractor())

	scanner := skills.NewScanner(skills.Keywords)
	extOpts := []extractor.Option{extractor.WithScanner(scanner)}
	matchOpts := []matcher.Option{
		matcher.WithScanner(scanner),
		matcher.WithWeights(cfg.Matcher.Weights()),
		matcher.WithDebug(cfg.Server.Debug),
	}
	if chat != nil {
		client := aiassist.NewClient(aiassist.NewChatCollaborator(chat))
		timeout := config.GetDuration(cfg.AI.Timeout, matcher.DefaultAITimeout)
		extOpts = append(extOpts, extractor.WithEnricher(client, timeout))
		matchOpts = append(matchOpts, matcher.WithAssessor(client, cfg.Matcher.AIWeight, timeout))
		logger.Info().Str("provider", cfg.AI.Provider).Str("model", cfg.AI.Model).Msg("AI 协作者已启用")
	}

	var remote cache.Remote
	if cfg.Cache.UseRedis && st != nil && st.Redis != nil {
		remote = st.Redis
	}
	local := cache.NewMemory(cfg.Cache.Capacity, config.GetDuration(cfg.Cache.TTL, constants.DefaultCacheTTL))
	local.StartPurger(ctx, constants.CachePurgeInterval)
	resultCache := cache.NewTiered(
		local,
		remote,
		config.GetDuration(cfg.Cache.RedisTTL, defaultRedisTTL),
	)

	return NewResumeService(documents, extractor.New(extOpts...), matcher.New(matchOpts...),
		WithCache(resultCache),
		WithStorage(st),
		WithMinTextRunes(cfg.Extraction.MinTextRunes),
	), nil
}
