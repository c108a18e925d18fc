package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "解析 PDF/DOCX 简历并输出结构化 JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("读取简历文件失败: %w", err)
	}

	svc, cleanup, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	parsed, err := svc.Upload(cmd.Context(), data, filepath.Base(args[0]))
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), parsed)
}
