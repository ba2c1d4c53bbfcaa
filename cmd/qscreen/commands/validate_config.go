package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/qscreen/internal/strategyconfig"
)

// validateConfigCmd checks a strategy YAML without running anything
var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "전략 YAML 검증",
	Long: `전략 YAML 을 파싱/검증하고 경고와 해시를 출력합니다.

알 수 없는 필드는 즉시 실패합니다.

Example:
  go run ./cmd/qscreen validate-config --strategy config/strategy/quality_v1.yaml`,
	RunE: runValidateConfig,
}

func init() {
	rootCmd.AddCommand(validateConfigCmd)
}

func runValidateConfig(cmd *cobra.Command, args []string) error {
	if strategyFile == "" {
		return fmt.Errorf("--strategy is required")
	}

	PrintHeader("Strategy Validation")

	cfg, data, err := strategyconfig.Load(strategyFile)
	if err != nil {
		PrintError(err.Error())
		return fmt.Errorf("invalid strategy")
	}
	PrintSuccess(fmt.Sprintf("%s parsed and validated", strategyFile))

	snap, err := strategyconfig.NewDecisionSnapshot(cfg, data, 0)
	if err != nil {
		return fmt.Errorf("hash strategy: %w", err)
	}

	PrintKeyValue("Strategy", cfg.Meta.StrategyID, 10)
	PrintKeyValue("Version", cfg.Meta.Version, 10)
	PrintKeyValue("Hash", snap.ConfigHash, 10)
	PrintKeyValue("Weights", fmt.Sprintf("V %.2f / P %.2f / G %.2f / Q %.2f",
		cfg.Weights.Valuation, cfg.Weights.Profitability, cfg.Weights.Growth, cfg.Weights.Quality), 10)
	PrintKeyValue("Ranking", fmt.Sprintf("min_score %.1f, limit %d", cfg.Ranking.MinScore, cfg.Ranking.Limit), 10)
	PrintSeparator()

	warnings := strategyconfig.Warn(cfg)
	if len(warnings) == 0 {
		PrintSuccess("No warnings")
		return nil
	}
	for _, w := range warnings {
		PrintWarning(fmt.Sprintf("[%s] %s", w.Code, w.Message))
	}
	return nil
}
