package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/qscreen/migrations"
	"github.com/wonny/qscreen/pkg/config"
)

// migrateCmd manages the screener schema
var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status]",
	Short: "DB 스키마 마이그레이션",
	Long: `screener 스키마 마이그레이션을 실행합니다 (goose, embedded SQL).

Example:
  go run ./cmd/qscreen migrate up
  go run ./cmd/qscreen migrate status
  go run ./cmd/qscreen migrate down`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down", "status"},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	action := "up"
	if len(args) == 1 {
		action = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.Database.Enabled() {
		return fmt.Errorf("DATABASE_URL is required")
	}

	m, err := migrations.Open(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer m.Close()

	ctx := context.Background()
	switch action {
	case "up":
		err = m.Up(ctx)
	case "down":
		err = m.Down(ctx)
	case "status":
		err = m.Status(ctx)
	default:
		return fmt.Errorf("unknown action %q (up, down, status)", action)
	}
	if err != nil {
		return err
	}

	version, err := m.Version(ctx)
	if err != nil {
		return err
	}
	PrintSuccess(fmt.Sprintf("migrate %s done (schema version %d)", action, version))
	return nil
}
