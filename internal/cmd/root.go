// Package cmd 实现 shoprec 命令行入口。
package cmd

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "shoprec",
	Short: "电商推荐引擎命令行",
	Long: `shoprec 基于用户行为与商品内容产出个性化推荐。

支持协同过滤、内容召回与混合策略,推荐结果携带结构化理由与解释文案。
配置 GEMINI_API_KEY 后解释文案由生成式模型产出,否则使用模板兜底。`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env 不存在时静默忽略
		_ = godotenv.Load()

		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).
			With().Timestamp().Logger()
	},
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
}

// Execute 运行根命令。
func Execute() error {
	return rootCmd.Execute()
}
