package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wonny/qscreen/internal/brain"
	"github.com/wonny/qscreen/internal/s0_data"
	"github.com/wonny/qscreen/internal/s0_data/quality"
	"github.com/wonny/qscreen/internal/selection"
	"github.com/wonny/qscreen/pkg/config"
	"github.com/wonny/qscreen/pkg/database"
)

// screenCmd runs one screening pass and prints the ranking
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "스크리닝 1회 실행",
	Long: `스냅샷을 로드하고 S1 → S4 파이프라인을 실행해 순위를 출력합니다.

--file 을 주면 DATA_SOURCE 대신 해당 파일을 읽습니다 (CSV 또는 HTML 테이블).

Example:
  go run ./cmd/qscreen screen --file data/stocks.csv
  go run ./cmd/qscreen screen --file export.html --limit 10 --min-score 60
  go run ./cmd/qscreen screen --strategy config/strategy/quality_v1.yaml --json`,
	RunE: runScreen,
}

var (
	screenFile     string
	screenLimit    int
	screenMinScore float64
	screenSortBy   string
	screenJSON     bool
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringVar(&screenFile, "file", "", "CSV/HTML export to screen")
	screenCmd.Flags().IntVar(&screenLimit, "limit", 0, "max results (default: strategy ranking.limit)")
	screenCmd.Flags().Float64Var(&screenMinScore, "min-score", -1, "score cutoff 0-100 (default: strategy ranking.min_score)")
	screenCmd.Flags().StringVar(&screenSortBy, "sort-by", "", "presentation order: score, market_cap, pe_ttm, roe, ...")
	screenCmd.Flags().BoolVar(&screenJSON, "json", false, "print the full result as JSON")
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if screenFile != "" {
		cfg.Data.Source = config.SourceFile
		cfg.Data.File = screenFile
		cfg.Data.Format = "" // 확장자로 판단
	}
	log := newLogger(cfg)

	strategy, _, err := loadStrategy(cfg)
	if err != nil {
		return fmt.Errorf("load strategy: %w", err)
	}
	params := brain.ParamsFromStrategy(strategy)
	if screenLimit > 0 {
		params.Rank.Limit = screenLimit
	}
	if screenMinScore >= 0 {
		if screenMinScore > 100 {
			return fmt.Errorf("--min-score must be between 0 and 100")
		}
		params.Rank.MinScore = screenMinScore
	}
	if screenSortBy != "" {
		key, err := selection.ParseSortKey(screenSortBy)
		if err != nil {
			return err
		}
		params.SortBy = key
	}

	ctx := context.Background()

	var deps sourceDeps
	if cfg.Data.Source == config.SourcePostgres {
		db, err := database.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		deps.db = db
	}

	source, err := newSource(cfg, deps, log)
	if err != nil {
		return err
	}

	store := s0_data.NewStore(log)
	refresher := s0_data.NewRefresher(source, store, log,
		s0_data.WithQualityGate(quality.NewGate(strategy.ToStageConfigs().Gate)))
	loaded, err := refresher.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	result, err := brain.RunPipeline(store.Current(), params, log)
	if err != nil {
		return fmt.Errorf("screening pipeline: %w", err)
	}

	if screenJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printScreenResult(strategy.Meta.StrategyID, loaded, result)
	return nil
}

func printScreenResult(strategyID string, loaded *s0_data.RefreshResult, result *brain.PipelineResult) {
	PrintHeader(fmt.Sprintf("Quality Screen (%s)", strategyID))
	PrintKeyValue("Source", loaded.Source, 10)
	PrintKeyValue("Records", fmt.Sprintf("%d accepted, %d rejected", loaded.Accepted, loaded.Rejected), 10)
	PrintKeyValue("Passed S1", fmt.Sprintf("%d / %d", result.Screen.Passed, result.Screen.TotalInput), 10)
	PrintKeyValue("Qualified", fmt.Sprintf("%d (below min %d, no data %d)",
		result.Rank.Qualified, result.Rank.BelowMin, result.Rank.NoData), 10)
	PrintSeparator()

	if len(result.Screen.Filtered) > 0 {
		names := make([]string, 0, len(result.Screen.Filtered))
		for name := range result.Screen.Filtered {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("Filtered out:")
		for _, name := range names {
			PrintKeyValue(name, fmt.Sprintf("%d", result.Screen.Filtered[name]), 28)
		}
		PrintSeparator()
	}

	if len(result.Results) == 0 {
		PrintWarning("No stocks qualified")
		return
	}

	widths := []int{4, 12, 28, 6, 6, 6, 6, 6}
	PrintTableHeader([]string{"Rank", "Symbol", "Name", "Final", "Val", "Prof", "Grow", "Qual"}, widths)
	for _, s := range result.Results {
		PrintTableRow([]string{
			fmt.Sprintf("%d", s.Rank),
			s.Record.Key(),
			s.Record.Name,
			fmt.Sprintf("%.1f", s.FinalScore),
			fmt.Sprintf("%.1f", s.Components.Valuation.Normalized),
			fmt.Sprintf("%.1f", s.Components.Profitability.Normalized),
			fmt.Sprintf("%.1f", s.Components.Growth.Normalized),
			fmt.Sprintf("%.1f", s.Components.Quality.Normalized),
		}, widths)
	}
	fmt.Println()
	PrintSuccess(fmt.Sprintf("%d stocks ranked in %v", len(result.Results), result.Duration))
}
