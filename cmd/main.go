package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"cv-analysis-go/internal/aiassist"
	"cv-analysis-go/internal/api/handler"
	"cv-analysis-go/internal/api/router"
	"cv-analysis-go/internal/config"
	"cv-analysis-go/internal/logger"
	"cv-analysis-go/internal/processor"
	"cv-analysis-go/internal/storage"
	"cv-analysis-go/internal/tracing"
)

func main() {
	// .env 不存在时忽略
	_ = godotenv.Load()

	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径，留空时自动查找 config.yaml")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("加载配置失败")
	}

	log := logger.Init(cfg.Logger)
	hlog.SetLogger(hertzadapter.From(log))
	if cfg.Server.Debug {
		hlog.SetLevel(hlog.LevelDebug)
	}
	log.Info().Str("address", cfg.Server.Address).Msg("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.InitProvider(ctx, cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("初始化链路追踪失败，span 不会导出")
		shutdownTracing = func(context.Context) error { return nil }
	}

	store := storage.NewStorage(ctx, cfg)
	defer store.Close()

	chat, chatCloser, err := aiassist.NewChatModel(ctx, cfg.AI, cfg.ModelQPMLimits)
	if err != nil {
		log.Warn().Err(err).Msg("初始化AI模型失败，仅使用规则分析")
		chat = nil
	}
	if chatCloser != nil {
		defer chatCloser.Close()
	}

	svc, err := processor.NewFromConfig(ctx, cfg, chat, store)
	if err != nil {
		log.Fatal().Err(err).Msg("初始化简历服务失败")
	}

	resumeHandler := handler.NewResumeHandler(svc)
	healthHandler := handler.NewHealthHandler(svc, store, chat != nil)

	h := router.NewServer(cfg)
	router.RegisterRoutes(h, resumeHandler, healthHandler, cfg.Server.APIKeys)
	if len(cfg.Server.APIKeys) > 0 {
		log.Info().Int("keys", len(cfg.Server.APIKeys)).Msg("已启用 API Key 鉴权")
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("HTTP 服务器启动中")
		if err := h.Run(); err != nil {
			log.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("接收到终止信号，正在优雅退出...")

	wait := time.Duration(cfg.Server.ExitWaitTimeMS) * time.Millisecond
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), wait)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("服务器关闭失败")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("关闭链路追踪失败")
	}
	log.Info().Msg("优雅退出完成")
}
