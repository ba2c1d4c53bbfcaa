package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/qscreen/internal/contracts"
)

// ErrRunNotFound is returned when no screening run matches
var ErrRunNotFound = errors.New("screening run not found")

// Run is one persisted screening execution
type Run struct {
	ID           uuid.UUID                `json:"id"`
	CreatedAt    time.Time                `json:"created_at"`
	Generation   uint64                   `json:"generation"`
	StrategyHash string                   `json:"strategy_hash"`
	Screen       ScreenStats              `json:"screen"`
	Rank         RankStats                `json:"rank"`
	Results      []contracts.ScoredRecord `json:"results"`
}

// Repository handles screening run persistence
// ⭐ SSOT: 스크리닝 결과 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new selection repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveRun stores a run and its ranked results in one transaction
func (r *Repository) SaveRun(ctx context.Context, run *Run) error {
	filteredJSON, err := json.Marshal(run.Screen.Filtered)
	if err != nil {
		return fmt.Errorf("failed to marshal filtered: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO screener.screening_runs (
			id, created_at, generation, strategy_hash,
			total_input, total_passed, filtered,
			no_data, below_min, qualified, returned
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		run.ID, run.CreatedAt, int64(run.Generation), run.StrategyHash,
		run.Screen.TotalInput, run.Screen.Passed, filteredJSON,
		run.Rank.NoData, run.Rank.BelowMin, run.Rank.Qualified, run.Rank.Returned,
	)
	if err != nil {
		return fmt.Errorf("failed to insert screening run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, s := range run.Results {
		batch.Queue(`
			INSERT INTO screener.screening_results (
				run_id, rank, symbol, isin, name, final_score,
				valuation, profitability, growth, quality
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			run.ID, s.Rank, s.Record.Symbol, s.Record.ISIN, s.Record.Name, s.FinalScore,
			s.Components.Valuation.Normalized, s.Components.Profitability.Normalized,
			s.Components.Growth.Normalized, s.Components.Quality.Normalized,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert screening results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetLatestRun returns the most recent run with its results
func (r *Repository) GetLatestRun(ctx context.Context) (*Run, error) {
	query := `
		SELECT id, created_at, generation, strategy_hash,
			total_input, total_passed, filtered,
			no_data, below_min, qualified, returned
		FROM screener.screening_runs
		ORDER BY created_at DESC
		LIMIT 1
	`

	var run Run
	var generation int64
	var filteredJSON []byte

	err := r.pool.QueryRow(ctx, query).Scan(
		&run.ID, &run.CreatedAt, &generation, &run.StrategyHash,
		&run.Screen.TotalInput, &run.Screen.Passed, &filteredJSON,
		&run.Rank.NoData, &run.Rank.BelowMin, &run.Rank.Qualified, &run.Rank.Returned,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	run.Generation = uint64(generation)

	if err := json.Unmarshal(filteredJSON, &run.Screen.Filtered); err != nil {
		return nil, fmt.Errorf("failed to unmarshal filtered: %w", err)
	}

	results, err := r.GetRunResults(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	run.Results = results

	return &run, nil
}

// GetRunResults returns the ranked rows of a run
func (r *Repository) GetRunResults(ctx context.Context, runID uuid.UUID) ([]contracts.ScoredRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rank, symbol, isin, name, final_score,
			valuation, profitability, growth, quality
		FROM screener.screening_results
		WHERE run_id = $1
		ORDER BY rank ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query screening results: %w", err)
	}
	defer rows.Close()

	results := make([]contracts.ScoredRecord, 0)
	for rows.Next() {
		var s contracts.ScoredRecord
		err := rows.Scan(
			&s.Rank, &s.Record.Symbol, &s.Record.ISIN, &s.Record.Name, &s.FinalScore,
			&s.Components.Valuation.Normalized, &s.Components.Profitability.Normalized,
			&s.Components.Growth.Normalized, &s.Components.Quality.Normalized,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		s.Components.Valuation.Component = contracts.ComponentValuation
		s.Components.Profitability.Component = contracts.ComponentProfitability
		s.Components.Growth.Component = contracts.ComponentGrowth
		s.Components.Quality.Component = contracts.ComponentQuality
		results = append(results, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}
