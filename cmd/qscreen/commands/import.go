package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/qscreen/internal/s0_data"
	"github.com/wonny/qscreen/internal/s0_data/quality"
	"github.com/wonny/qscreen/pkg/config"
	"github.com/wonny/qscreen/pkg/database"
)

// importCmd loads an export into screener.stock_records
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "CSV/HTML 익스포트를 DB에 적재",
	Long: `익스포트 파일을 읽어 screener.stock_records 를 교체합니다.
DATA_SOURCE=postgres 로 API 서버가 이 테이블을 읽습니다.

식별자 검증과 품질 게이트를 통과한 레코드만 적재됩니다.

Example:
  go run ./cmd/qscreen import data/stocks.csv
  go run ./cmd/qscreen import export.html`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg)

	strategy, _, err := loadStrategy(cfg)
	if err != nil {
		return fmt.Errorf("load strategy: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	// Refresher 를 거쳐 식별자 검증/품질 게이트를 동일하게 적용
	store := s0_data.NewStore(log)
	refresher := s0_data.NewRefresher(s0_data.NewFileSource(args[0], "", log), store, log,
		s0_data.WithQualityGate(quality.NewGate(strategy.ToStageConfigs().Gate)))
	loaded, err := refresher.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	repo := s0_data.NewRepository(db.Pool)
	n, err := repo.ReplaceRecords(ctx, store.Current().Records())
	if err != nil {
		return err
	}

	PrintSuccess(fmt.Sprintf("imported %d records from %s (%d rejected)", n, args[0], loaded.Rejected))
	return nil
}
