package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cv-analysis-go/internal/config"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "生成带默认值的示例配置文件",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.CreateSampleConfig(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已生成示例配置: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initConfigCmd)
}
