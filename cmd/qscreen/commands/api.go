package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/wonny/qscreen/internal/api"
	"github.com/wonny/qscreen/internal/api/handlers"
	"github.com/wonny/qscreen/internal/brain"
	"github.com/wonny/qscreen/internal/s0_data"
	"github.com/wonny/qscreen/internal/s0_data/quality"
	"github.com/wonny/qscreen/internal/scheduler"
	"github.com/wonny/qscreen/internal/scheduler/jobs"
	"github.com/wonny/qscreen/internal/selection"
	"github.com/wonny/qscreen/pkg/config"
	"github.com/wonny/qscreen/pkg/database"
	"github.com/wonny/qscreen/pkg/metrics"
	"github.com/wonny/qscreen/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- 스냅샷 로드 (DATA_SOURCE)
- HTTP API 서버 시작
- 주기적 스냅샷 갱신 및 전략 스크리닝 스케줄링

Endpoints:
  GET  /health                   - Health check
  GET  /api/stocks               - 종목 목록 (symbol, sector, market_cap, pe 필터)
  GET  /api/stocks/search?q=     - 종목 검색
  GET  /api/screen/quality       - 퀄리티 스크리닝 (query overrides)
  POST /api/screen               - 퀄리티 스크리닝 (JSON body)
  GET  /api/screen/runs/latest   - 최근 저장된 스크리닝
  POST /api/snapshot/reload      - 스냅샷 재로드
  GET  /ws/snapshot              - 스냅샷 갱신 스트림

Example:
  go run ./cmd/qscreen api
  go run ./cmd/qscreen api --port 8080 --no-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort        string
	apiNoScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
	apiCmd.Flags().BoolVar(&apiNoScheduler, "no-scheduler", false, "스케줄러 비활성화")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== qscreen API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := newLogger(cfg)

	strategy, _, err := loadStrategy(cfg)
	if err != nil {
		return fmt.Errorf("load strategy: %w", err)
	}
	stages := strategy.ToStageConfigs()
	params := brain.ParamsFromStrategy(strategy)

	log.WithFields(map[string]interface{}{
		"port":     cfg.Port,
		"env":      cfg.Env,
		"source":   cfg.Data.Source,
		"strategy": strategy.Meta.StrategyID,
	}).Info("Initializing API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Metrics
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	}

	// 4. Optional database
	db, err := database.New(ctx, cfg)
	switch {
	case errors.Is(err, database.ErrNotConfigured):
		log.Info("DATABASE_URL not set, run history disabled")
	case err != nil:
		return fmt.Errorf("connect to database: %w", err)
	default:
		defer db.Close()
		log.Info("Connected to database")
	}

	// 5. Redis (disabled client is a no-op)
	rdb, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()
	cache := redis.NewCache(rdb, "qscreen")
	limiter := redis.NewRateLimiter(rdb, "qscreen")

	// 6. Snapshot pipeline: source → gate → store → search index
	source, err := newSource(cfg, sourceDeps{db: db, limiter: limiter, metrics: m}, log)
	if err != nil {
		return err
	}
	store := s0_data.NewStore(log)
	index := s0_data.NewSearchIndex(log)
	defer index.Close()

	refresher := s0_data.NewRefresher(source, store, log,
		s0_data.WithQualityGate(quality.NewGate(stages.Gate)),
		s0_data.WithSearchIndex(index),
		s0_data.WithMetrics(m),
	)

	// 초기 로드 실패는 치명적이지 않음: /api/snapshot/reload 로 재시도 가능
	if result, err := refresher.Refresh(ctx); err != nil {
		log.WithError(err).Warn("Initial snapshot load failed, serving without data")
	} else {
		log.WithFields(map[string]interface{}{
			"generation": result.Generation,
			"records":    result.Accepted,
		}).Info("Initial snapshot loaded")
	}

	// 7. Orchestrator
	orchOpts := []brain.Option{
		brain.WithCache(cache, cfg.ResultCacheTTL),
		brain.WithMetrics(m),
	}
	var runs handlers.RunReader
	if db != nil {
		repo := selection.NewRepository(db.Pool)
		orchOpts = append(orchOpts, brain.WithRunStore(repo))
		runs = repo
	}
	orchestrator := brain.NewOrchestrator(store, log, orchOpts...)

	// 8. Scheduler
	if !apiNoScheduler && cfg.Data.RefreshSchedule != "" {
		sched := scheduler.New(log)
		if err := sched.AddJob(jobs.NewRefreshJob(refresher, cfg.Data.RefreshSchedule, log)); err != nil {
			return fmt.Errorf("schedule refresh: %w", err)
		}
		if err := sched.AddJob(jobs.NewScreenJob(orchestrator, params, "", log)); err != nil {
			return fmt.Errorf("schedule screen: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 9. Handlers and router
	router := api.NewRouter(api.Handlers{
		Data:   handlers.NewDataHandler(store, refresher, limiter, cache, log),
		Stock:  handlers.NewStockHandler(store, index, log),
		Screen: handlers.NewScreenHandler(orchestrator, params, runs, log),
		Feed:   handlers.NewFeedHandler(store, log),
	}, m, log)

	// 10. Serve until SIGINT/SIGTERM
	server := api.New(cfg, log, router)

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
