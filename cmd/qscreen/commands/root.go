package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "qscreen",
	Short: "qscreen - 퀄리티 주식 스크리너",
	Long: `qscreen Unified CLI

Quality stock screener over a tabular market export.
4단계 파이프라인: hard filters, component scores, weighted final score, ranking.

Usage:
  go run ./cmd/qscreen [command]

Examples:
  go run ./cmd/qscreen api
  go run ./cmd/qscreen screen --file data/stocks.csv
  go run ./cmd/qscreen validate-config --strategy config/strategy/quality_v1.yaml
  go run ./cmd/qscreen migrate up`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML (default: STRATEGY_FILE or built-in quality_v1)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
