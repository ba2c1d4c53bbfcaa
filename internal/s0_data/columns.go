package s0_data

import (
	"errors"
	"strconv"
	"strings"

	"github.com/wonny/qscreen/internal/contracts"
)

// ErrNoColumns is returned when a header row matches none of the known columns
var ErrNoColumns = errors.New("no known columns in header")

// column binds one record field to the header names that may carry it.
// Aliases are tried in order; the first one present wins.
type column struct {
	field   string
	aliases []string
	text    func(r *contracts.StockRecord, v string)
	number  func(r *contracts.StockRecord, v *float64)
}

// ⭐ SSOT: 외부 export 컬럼명 매핑은 여기서만
var columns = []column{
	// Identity
	{field: "name", aliases: []string{"Stock Name", "Name", "Company Name", "Company"},
		text: func(r *contracts.StockRecord, v string) { r.Name = v }},
	{field: "symbol", aliases: []string{"NSE Code", "Stock Code", "Symbol", "Stock Symbol", "Ticker"},
		text: func(r *contracts.StockRecord, v string) { r.Symbol = v }},
	{field: "isin", aliases: []string{"ISIN", "ISIN Code"},
		text: func(r *contracts.StockRecord, v string) { r.ISIN = v }},
	{field: "secondary_code", aliases: []string{"BSE Code"},
		text: func(r *contracts.StockRecord, v string) { r.SecondaryCode = v }},
	{field: "sector", aliases: []string{"sector_name", "Sector", "Industry Sector"},
		text: func(r *contracts.StockRecord, v string) { r.Sector = v }},
	{field: "industry", aliases: []string{"Industry Name", "Industry"},
		text: func(r *contracts.StockRecord, v string) { r.Industry = v }},

	{field: "current_price", aliases: []string{"Current Price", "Price", "Last Price", "Close"},
		number: func(r *contracts.StockRecord, v *float64) { r.CurrentPrice = v }},
	{field: "market_cap", aliases: []string{"Market Capitalization", "Market Cap", "Mkt Cap"},
		number: func(r *contracts.StockRecord, v *float64) { r.MarketCap = v }},

	// Valuation
	{field: "pe_ttm", aliases: []string{"PE TTM Price to Earnings", "PE TTM", "PE Ratio", "P/E Ratio", "PE", "P/E"},
		number: func(r *contracts.StockRecord, v *float64) { r.PETTM = v }},
	{field: "pe_current", aliases: []string{"Current PE", "PE Current"},
		number: func(r *contracts.StockRecord, v *float64) { r.PECurrent = v }},
	{field: "peg_ttm", aliases: []string{"PEG TTM PE to Growth", "PEG TTM", "PEG"},
		number: func(r *contracts.StockRecord, v *float64) { r.PEG = v }},
	{field: "pb", aliases: []string{"Price to Book Value Adjusted", "PBV Adjusted", "PB Ratio", "P/B", "PB"},
		number: func(r *contracts.StockRecord, v *float64) { r.PB = v }},
	{field: "ps", aliases: []string{"Price to Sales TTM", "Price to Sales", "P/S", "P/S Ratio"},
		number: func(r *contracts.StockRecord, v *float64) { r.PS = v }},
	{field: "pct_days_below_pe", aliases: []string{"%Days traded below current PE Price to Earnings"},
		number: func(r *contracts.StockRecord, v *float64) { r.PctDaysBelowPE = v }},

	// Profitability
	{field: "roe", aliases: []string{"ROE Annual %", "ROE", "Return on Equity", "Return on Equity %"},
		number: func(r *contracts.StockRecord, v *float64) { r.ROE = v }},
	{field: "roa", aliases: []string{"RoA Annual %", "ROA", "Return on Assets", "Return on Assets %"},
		number: func(r *contracts.StockRecord, v *float64) { r.ROA = v }},
	{field: "net_margin", aliases: []string{"NPM TTM %", "Net Profit Margin %", "Net Margin", "Profit Margin"},
		number: func(r *contracts.StockRecord, v *float64) { r.NetMargin = v }},
	{field: "operating_margin", aliases: []string{"OPM TTM %", "OPM Ann  %", "Operating Margin %", "Operating Margin", "OP Margin"},
		number: func(r *contracts.StockRecord, v *float64) { r.OperatingMargin = v }},
	{field: "operating_margin_qtr", aliases: []string{"Operating Profit Margin Qtr %"},
		number: func(r *contracts.StockRecord, v *float64) { r.OperatingMarginQtr = v }},

	// Growth
	{field: "revenue_growth", aliases: []string{"Revenue Growth Annual YoY %", "Revenue Growth %", "Revenue Growth", "Rev Growth"},
		number: func(r *contracts.StockRecord, v *float64) { r.RevenueGrowth = v }},
	{field: "revenue_growth_qtr_yoy", aliases: []string{"Revenue Growth Qtr YoY %"},
		number: func(r *contracts.StockRecord, v *float64) { r.RevenueGrowthQtrYoY = v }},
	{field: "revenue_growth_qoq", aliases: []string{"Revenue QoQ Growth %"},
		number: func(r *contracts.StockRecord, v *float64) { r.RevenueGrowthQoQ = v }},
	{field: "profit_growth", aliases: []string{"Net Profit Annual YoY Growth %", "Profit Growth %", "Profit Growth", "Net Profit Growth"},
		number: func(r *contracts.StockRecord, v *float64) { r.ProfitGrowth = v }},
	{field: "profit_growth_qtr_yoy", aliases: []string{"Net Profit Qtr Growth YoY %"},
		number: func(r *contracts.StockRecord, v *float64) { r.ProfitGrowthQtrYoY = v }},
	{field: "eps_growth_ttm", aliases: []string{"EPS TTM Growth %"},
		number: func(r *contracts.StockRecord, v *float64) { r.EPSGrowthTTM = v }},

	// Quality index
	{field: "financial_health", aliases: []string{"Piotroski Score"},
		number: func(r *contracts.StockRecord, v *float64) { r.FinancialHealth = v }},
	{field: "durability", aliases: []string{"Trendlyne Durability Score", "Durability Score"},
		number: func(r *contracts.StockRecord, v *float64) { r.Durability = v }},
	{field: "valuation_score", aliases: []string{"Trendlyne Valuation Score", "Valuation Score"},
		number: func(r *contracts.StockRecord, v *float64) { r.ValuationScore = v }},
	{field: "momentum", aliases: []string{"Trendlyne Momentum Score", "Momentum Score"},
		number: func(r *contracts.StockRecord, v *float64) { r.Momentum = v }},

	// Sector / industry reference
	{field: "sector_pe", aliases: []string{"Sector PE TTM"},
		number: func(r *contracts.StockRecord, v *float64) { r.SectorPE = v }},
	{field: "industry_pe", aliases: []string{"Industry PE TTM"},
		number: func(r *contracts.StockRecord, v *float64) { r.IndustryPE = v }},
	{field: "sector_revenue_growth", aliases: []string{"Sector Revenue Growth Annual YoY %"},
		number: func(r *contracts.StockRecord, v *float64) { r.SectorRevenueGrowth = v }},
	{field: "sector_profit_growth", aliases: []string{"Sector Net Profit Growth Ann  YoY %", "Sector Net Profit Growth Qtr YoY %"},
		number: func(r *contracts.StockRecord, v *float64) { r.SectorProfitGrowth = v }},
}

// ColumnMap is a header row resolved against the known columns
type ColumnMap struct {
	index   []int // per columns entry, -1 when absent
	matched map[string]string
}

// MapHeader resolves header names. Exact matches win over case-insensitive ones.
func MapHeader(header []string) (*ColumnMap, error) {
	exact := make(map[string]int, len(header))
	folded := make(map[string]int, len(header))
	clean := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		clean[i] = h
		if _, ok := exact[h]; !ok {
			exact[h] = i
		}
		key := strings.ToLower(h)
		if _, ok := folded[key]; !ok {
			folded[key] = i
		}
	}

	m := &ColumnMap{
		index:   make([]int, len(columns)),
		matched: make(map[string]string),
	}
	for ci, col := range columns {
		m.index[ci] = -1
		for _, alias := range col.aliases {
			if i, ok := exact[alias]; ok {
				m.index[ci] = i
				break
			}
		}
		if m.index[ci] < 0 {
			for _, alias := range col.aliases {
				if i, ok := folded[strings.ToLower(alias)]; ok {
					m.index[ci] = i
					break
				}
			}
		}
		if m.index[ci] >= 0 {
			m.matched[col.field] = clean[m.index[ci]]
		}
	}

	if len(m.matched) == 0 {
		return nil, ErrNoColumns
	}
	return m, nil
}

// Matched returns field -> header name for every resolved column
func (m *ColumnMap) Matched() map[string]string {
	out := make(map[string]string, len(m.matched))
	for k, v := range m.matched {
		out[k] = v
	}
	return out
}

// Record builds one record from a data row.
// It also returns how many numeric cells could not be parsed; those become unknown.
func (m *ColumnMap) Record(row []string) (contracts.StockRecord, int) {
	var rec contracts.StockRecord
	bad := 0

	for ci, col := range columns {
		i := m.index[ci]
		if i < 0 || i >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[i])
		if col.text != nil {
			if !isMissing(cell) {
				col.text(&rec, cell)
			}
			continue
		}
		v, ok := ParseNumber(cell)
		if !ok {
			bad++
		}
		col.number(&rec, v)
	}

	return rec, bad
}

// ParseNumber reads an export cell as a metric.
// Missing markers give (nil, true); malformed text gives (nil, false).
func ParseNumber(cell string) (*float64, bool) {
	cell = strings.TrimSpace(cell)
	if isMissing(cell) {
		return nil, true
	}
	cell = strings.ReplaceAll(cell, ",", "")
	cell = strings.TrimSuffix(cell, "%")
	cell = strings.TrimSpace(cell)

	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, false
	}
	return contracts.Finite(&v), true
}

func isMissing(cell string) bool {
	switch strings.ToUpper(cell) {
	case "", "-", "--", "NA", "N/A", "NAN", "NULL":
		return true
	}
	return false
}
