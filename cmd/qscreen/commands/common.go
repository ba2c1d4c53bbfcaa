package commands

import (
	"fmt"
	"net/url"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/internal/s0_data"
	"github.com/wonny/qscreen/internal/strategyconfig"
	"github.com/wonny/qscreen/pkg/config"
	"github.com/wonny/qscreen/pkg/database"
	"github.com/wonny/qscreen/pkg/httputil"
	"github.com/wonny/qscreen/pkg/logger"
	"github.com/wonny/qscreen/pkg/metrics"
	"github.com/wonny/qscreen/pkg/redis"
)

// loadStrategy resolves --strategy, then STRATEGY_FILE, then the built-in default
func loadStrategy(cfg *config.Config) (*strategyconfig.Config, []byte, error) {
	path := strategyFile
	if path == "" && cfg != nil {
		path = cfg.StrategyFile
	}
	if path == "" {
		return strategyconfig.Default(), nil, nil
	}
	return strategyconfig.Load(path)
}

// newLogger applies --verbose on top of LOG_LEVEL
func newLogger(cfg *config.Config) *logger.Logger {
	if verbose {
		cfg.LogLevel = "debug"
	}
	return logger.New(cfg)
}

// sourceDeps are the optional collaborators a snapshot source may need
type sourceDeps struct {
	db      *database.DB
	limiter *redis.RateLimiter
	metrics *metrics.Metrics
}

// newSource builds the snapshot source selected by DATA_SOURCE
func newSource(cfg *config.Config, deps sourceDeps, log *logger.Logger) (contracts.SnapshotSource, error) {
	switch cfg.Data.Source {
	case config.SourceFile:
		return s0_data.NewFileSource(cfg.Data.File, cfg.Data.Format, log), nil

	case config.SourceHTTP:
		client := httputil.New(cfg, log)
		if deps.limiter != nil && deps.limiter.Enabled() {
			client = client.WithRateLimiter(deps.limiter, redis.SourceRateLimit(sourceHost(cfg.Data.URL), cfg.Data.RequestsPerSec))
		}
		return s0_data.NewHTTPSource(cfg.Data.URL, cfg.Data.Format, client, s0_data.DefaultBreakerConfig(), deps.metrics, log), nil

	case config.SourcePostgres:
		if deps.db == nil {
			return nil, fmt.Errorf("postgres source requires DATABASE_URL")
		}
		return s0_data.NewPostgresSource(s0_data.NewRepository(deps.db.Pool)), nil

	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

// sourceHost returns the host part of a source URL, the shared rate limit key
func sourceHost(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Host
	}
	return raw
}
