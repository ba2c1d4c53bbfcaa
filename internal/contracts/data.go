package contracts

import (
	"errors"
	"math"
	"strings"
)

// ErrMissingIdentity is returned when a record has no name or no exchange identifier
var ErrMissingIdentity = errors.New("stock record identity is incomplete")

// Score bounds for third-party style metrics
const (
	FinancialHealthMax = 9.0
	AnalyticalScoreMax = 100.0
	PctDaysMax         = 100.0
)

// StockRecord is one security in a snapshot (S0 → S1..S4)
// ⭐ SSOT: 스크리닝 엔진이 소비하는 유일한 종목 표현
//
// A nil metric means "unknown" and is never treated as zero.
// Records are immutable once they enter a Snapshot.
type StockRecord struct {
	// Identity
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`                   // primary exchange code
	ISIN          string `json:"isin"`
	SecondaryCode string `json:"secondary_code,omitempty"` // e.g. BSE code
	Sector        string `json:"sector,omitempty"`
	Industry      string `json:"industry,omitempty"`

	CurrentPrice *float64 `json:"current_price,omitempty"`
	MarketCap    *float64 `json:"market_cap,omitempty"`

	// Valuation
	PETTM          *float64 `json:"pe_ttm,omitempty"`
	PECurrent      *float64 `json:"pe_current,omitempty"`
	PEG            *float64 `json:"peg_ttm,omitempty"`
	PB             *float64 `json:"pb,omitempty"`
	PS             *float64 `json:"ps,omitempty"`
	PctDaysBelowPE *float64 `json:"pct_days_below_pe,omitempty"` // 0..100

	// Profitability
	ROE                *float64 `json:"roe,omitempty"`
	ROA                *float64 `json:"roa,omitempty"`
	NetMargin          *float64 `json:"net_margin,omitempty"`
	OperatingMargin    *float64 `json:"operating_margin,omitempty"`
	OperatingMarginQtr *float64 `json:"operating_margin_qtr,omitempty"`

	// Growth (%)
	RevenueGrowth       *float64 `json:"revenue_growth,omitempty"`         // annual YoY
	RevenueGrowthQtrYoY *float64 `json:"revenue_growth_qtr_yoy,omitempty"` // quarterly YoY
	RevenueGrowthQoQ    *float64 `json:"revenue_growth_qoq,omitempty"`
	ProfitGrowth        *float64 `json:"profit_growth,omitempty"`         // annual YoY
	ProfitGrowthQtrYoY  *float64 `json:"profit_growth_qtr_yoy,omitempty"` // quarterly YoY
	EPSGrowthTTM        *float64 `json:"eps_growth_ttm,omitempty"`

	// Quality index
	FinancialHealth *float64 `json:"financial_health,omitempty"` // 0..9
	Durability      *float64 `json:"durability,omitempty"`       // 0..100
	ValuationScore  *float64 `json:"valuation_score,omitempty"`  // 0..100
	Momentum        *float64 `json:"momentum,omitempty"`         // 0..100

	// Sector / industry reference values
	SectorPE            *float64 `json:"sector_pe,omitempty"`
	IndustryPE          *float64 `json:"industry_pe,omitempty"`
	SectorRevenueGrowth *float64 `json:"sector_revenue_growth,omitempty"`
	SectorProfitGrowth  *float64 `json:"sector_profit_growth,omitempty"`
}

// Metric returns a pointer to a known value
func Metric(v float64) *float64 {
	return &v
}

// Finite drops NaN and ±Inf to unknown
func Finite(p *float64) *float64 {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return nil
	}
	v := *p
	return &v
}

// Bounded keeps a value only when it lies in [lo, hi]
func Bounded(p *float64, lo, hi float64) *float64 {
	p = Finite(p)
	if p == nil || *p < lo || *p > hi {
		return nil
	}
	return p
}

// NonNegative keeps a value only when it is ≥ 0
func NonNegative(p *float64) *float64 {
	p = Finite(p)
	if p == nil || *p < 0 {
		return nil
	}
	return p
}

// Normalize returns a copy with invalid metrics turned into unknowns.
// Every metric pointer in the copy is freshly allocated, so the result shares no
// state with the receiver.
func (r StockRecord) Normalize() StockRecord {
	out := r
	out.Name = strings.TrimSpace(r.Name)
	out.Symbol = strings.TrimSpace(r.Symbol)
	out.ISIN = strings.TrimSpace(r.ISIN)
	out.SecondaryCode = strings.TrimSpace(r.SecondaryCode)

	out.CurrentPrice = NonNegative(r.CurrentPrice)
	out.MarketCap = NonNegative(r.MarketCap)

	out.PETTM = Finite(r.PETTM)
	out.PECurrent = Finite(r.PECurrent)
	out.PEG = Finite(r.PEG)
	out.PB = Finite(r.PB)
	out.PS = Finite(r.PS)
	out.PctDaysBelowPE = Bounded(r.PctDaysBelowPE, 0, PctDaysMax)

	out.ROE = Finite(r.ROE)
	out.ROA = Finite(r.ROA)
	out.NetMargin = Finite(r.NetMargin)
	out.OperatingMargin = Finite(r.OperatingMargin)
	out.OperatingMarginQtr = Finite(r.OperatingMarginQtr)

	out.RevenueGrowth = Finite(r.RevenueGrowth)
	out.RevenueGrowthQtrYoY = Finite(r.RevenueGrowthQtrYoY)
	out.RevenueGrowthQoQ = Finite(r.RevenueGrowthQoQ)
	out.ProfitGrowth = Finite(r.ProfitGrowth)
	out.ProfitGrowthQtrYoY = Finite(r.ProfitGrowthQtrYoY)
	out.EPSGrowthTTM = Finite(r.EPSGrowthTTM)

	out.FinancialHealth = Bounded(r.FinancialHealth, 0, FinancialHealthMax)
	out.Durability = Bounded(r.Durability, 0, AnalyticalScoreMax)
	out.ValuationScore = Bounded(r.ValuationScore, 0, AnalyticalScoreMax)
	out.Momentum = Bounded(r.Momentum, 0, AnalyticalScoreMax)

	out.SectorPE = Finite(r.SectorPE)
	out.IndustryPE = Finite(r.IndustryPE)
	out.SectorRevenueGrowth = Finite(r.SectorRevenueGrowth)
	out.SectorProfitGrowth = Finite(r.SectorProfitGrowth)

	return out
}

// Clone returns a copy that shares no metric pointers with the receiver
func (r StockRecord) Clone() StockRecord {
	out := r
	for _, p := range out.metrics() {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	return out
}

func (r *StockRecord) metrics() []**float64 {
	return []**float64{
		&r.CurrentPrice, &r.MarketCap,
		&r.PETTM, &r.PECurrent, &r.PEG, &r.PB, &r.PS, &r.PctDaysBelowPE,
		&r.ROE, &r.ROA, &r.NetMargin, &r.OperatingMargin, &r.OperatingMarginQtr,
		&r.RevenueGrowth, &r.RevenueGrowthQtrYoY, &r.RevenueGrowthQoQ,
		&r.ProfitGrowth, &r.ProfitGrowthQtrYoY, &r.EPSGrowthTTM,
		&r.FinancialHealth, &r.Durability, &r.ValuationScore, &r.Momentum,
		&r.SectorPE, &r.IndustryPE, &r.SectorRevenueGrowth, &r.SectorProfitGrowth,
	}
}

// Validate checks the identity fields
func (r *StockRecord) Validate() error {
	if r.Name == "" {
		return ErrMissingIdentity
	}
	if r.Symbol == "" && r.ISIN == "" {
		return ErrMissingIdentity
	}
	return nil
}

// Key returns the identifier used for lookups and logs
func (r *StockRecord) Key() string {
	if r.Symbol != "" {
		return r.Symbol
	}
	return r.ISIN
}

// Ratio divides two metrics. A zero or unknown denominator yields unknown.
func Ratio(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	return Finite(Metric(*num / *den))
}
