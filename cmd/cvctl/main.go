// cvctl 在本地解析简历并与岗位描述匹配，不启动 HTTP 服务也不连接外部存储。
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cv-analysis-go/internal/aiassist"
	"cv-analysis-go/internal/config"
	"cv-analysis-go/internal/logger"
	"cv-analysis-go/internal/processor"
)

var (
	configPath string
	disableAI  bool
)

var rootCmd = &cobra.Command{
	Use:           "cvctl",
	Short:         "简历解析与岗位匹配命令行工具",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径，留空时自动查找 config.yaml")
	rootCmd.PersistentFlags().BoolVar(&disableAI, "no-ai", false, "只使用规则分析")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// newService 组装不带存储的处理器，返回的 cleanup 负责关闭模型
func newService(ctx context.Context) (*processor.ResumeService, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	// 日志写到 stderr，stdout 只留给 JSON 结果
	cfg.Logger.Format = "pretty"
	logger.Init(cfg.Logger)

	if disableAI {
		cfg.AI.APIKey = ""
	}
	chat, closer, err := aiassist.NewChatModel(ctx, cfg.AI, cfg.ModelQPMLimits)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {}
	if closer != nil {
		cleanup = func() { _ = closer.Close() }
	}

	svc, err := processor.NewFromConfig(ctx, cfg, chat, nil)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
