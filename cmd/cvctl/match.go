package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"cv-analysis-go/internal/processor"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "计算简历与岗位描述的匹配度",
	Long:  "--resume 可以是 PDF/DOCX 文件、纯文本文件或直接给出的简历文本；--jd 是岗位描述文件。",
	RunE:  runMatch,
}

var (
	matchResume string
	matchJD     string
)

func init() {
	matchCmd.Flags().StringVarP(&matchResume, "resume", "r", "", "简历文件路径或简历文本 (必填)")
	matchCmd.Flags().StringVarP(&matchJD, "jd", "j", "", "岗位描述文件路径 (必填)")
	_ = matchCmd.MarkFlagRequired("resume")
	_ = matchCmd.MarkFlagRequired("jd")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	jd, err := os.ReadFile(matchJD)
	if err != nil {
		return fmt.Errorf("读取岗位描述失败: %w", err)
	}

	// 先确定简历来源，路径写错时不必初始化服务
	data, err := os.ReadFile(matchResume)
	asText := err != nil
	if asText && looksLikePath(matchResume) {
		return fmt.Errorf("读取简历失败: %w", err)
	}

	ctx := cmd.Context()
	svc, cleanup, err := newService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	req := processor.MatchRequest{JobDescription: string(jd)}
	switch {
	case asText:
		req.ResumeText = matchResume
	case isDocument(matchResume):
		parsed, err := svc.Upload(ctx, data, filepath.Base(matchResume))
		if err != nil {
			return err
		}
		req.CacheKey = parsed.CacheKey
	default:
		req.ResumeText = string(data)
	}

	result, err := svc.Match(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

// looksLikePath 不含空白且带扩展名或路径分隔符的参数视为文件路径
func looksLikePath(arg string) bool {
	if arg == "" || strings.ContainsFunc(arg, unicode.IsSpace) {
		return false
	}
	return strings.ContainsRune(arg, '/') || strings.ContainsRune(arg, filepath.Separator) || filepath.Ext(arg) != ""
}
