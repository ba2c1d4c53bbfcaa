package s0_data

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/qscreen/internal/contracts"
)

// stockRecordColumns is the column order of screener.stock_records
var stockRecordColumns = []string{
	"name", "symbol", "isin", "secondary_code", "sector", "industry",
	"current_price", "market_cap",
	"pe_ttm", "pe_current", "peg_ttm", "pb", "ps", "pct_days_below_pe",
	"roe", "roa", "net_margin", "operating_margin", "operating_margin_qtr",
	"revenue_growth", "revenue_growth_qtr_yoy", "revenue_growth_qoq",
	"profit_growth", "profit_growth_qtr_yoy", "eps_growth_ttm",
	"financial_health", "durability", "valuation_score", "momentum",
	"sector_pe", "industry_pe", "sector_revenue_growth", "sector_profit_growth",
}

// recordFields returns pointers to every column field of r, in column order.
// Used both for writing (values are dereferenced by pgx) and scanning.
func recordFields(r *contracts.StockRecord) []any {
	return []any{
		&r.Name, &r.Symbol, &r.ISIN, &r.SecondaryCode, &r.Sector, &r.Industry,
		&r.CurrentPrice, &r.MarketCap,
		&r.PETTM, &r.PECurrent, &r.PEG, &r.PB, &r.PS, &r.PctDaysBelowPE,
		&r.ROE, &r.ROA, &r.NetMargin, &r.OperatingMargin, &r.OperatingMarginQtr,
		&r.RevenueGrowth, &r.RevenueGrowthQtrYoY, &r.RevenueGrowthQoQ,
		&r.ProfitGrowth, &r.ProfitGrowthQtrYoY, &r.EPSGrowthTTM,
		&r.FinancialHealth, &r.Durability, &r.ValuationScore, &r.Momentum,
		&r.SectorPE, &r.IndustryPE, &r.SectorRevenueGrowth, &r.SectorProfitGrowth,
	}
}

// recordValues returns the column values of r for COPY
func recordValues(r contracts.StockRecord) []any {
	return []any{
		r.Name, r.Symbol, r.ISIN, r.SecondaryCode, r.Sector, r.Industry,
		r.CurrentPrice, r.MarketCap,
		r.PETTM, r.PECurrent, r.PEG, r.PB, r.PS, r.PctDaysBelowPE,
		r.ROE, r.ROA, r.NetMargin, r.OperatingMargin, r.OperatingMarginQtr,
		r.RevenueGrowth, r.RevenueGrowthQtrYoY, r.RevenueGrowthQoQ,
		r.ProfitGrowth, r.ProfitGrowthQtrYoY, r.EPSGrowthTTM,
		r.FinancialHealth, r.Durability, r.ValuationScore, r.Momentum,
		r.SectorPE, r.IndustryPE, r.SectorRevenueGrowth, r.SectorProfitGrowth,
	}
}

// Repository handles stock record persistence for S0
// ⭐ SSOT: screener.stock_records 읽기/쓰기는 여기서만
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ReplaceRecords swaps the whole table contents in one transaction
func (r *Repository) ReplaceRecords(ctx context.Context, records []contracts.StockRecord) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM screener.stock_records"); err != nil {
		return 0, fmt.Errorf("clear stock records: %w", err)
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"screener", "stock_records"},
		stockRecordColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			return recordValues(records[i]), nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy stock records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return n, nil
}

// LoadRecords returns every stored record in insertion order
func (r *Repository) LoadRecords(ctx context.Context) ([]contracts.StockRecord, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM screener.stock_records ORDER BY id ASC",
		strings.Join(stockRecordColumns, ", "),
	)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query stock records: %w", err)
	}
	defer rows.Close()

	records := make([]contracts.StockRecord, 0)
	for rows.Next() {
		var rec contracts.StockRecord
		if err := rows.Scan(recordFields(&rec)...); err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock records: %w", err)
	}

	return records, nil
}

// PostgresSource loads snapshots from screener.stock_records
type PostgresSource struct {
	repo *Repository
}

// NewPostgresSource creates a Postgres-backed source
func NewPostgresSource(repo *Repository) *PostgresSource {
	return &PostgresSource{repo: repo}
}

// Name returns the source name
func (s *PostgresSource) Name() string {
	return "postgres"
}

// Load reads every stored record
func (s *PostgresSource) Load(ctx context.Context) ([]contracts.StockRecord, error) {
	return s.repo.LoadRecords(ctx)
}
