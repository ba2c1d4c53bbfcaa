package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/wonny/qscreen/internal/brain"
	"github.com/wonny/qscreen/internal/s2_signals"
	"github.com/wonny/qscreen/internal/selection"
	"github.com/wonny/qscreen/pkg/logger"
)

// Screener runs the screening pipeline
type Screener interface {
	Run(ctx context.Context, config brain.RunConfig) (*brain.RunResult, error)
}

// RunReader reads persisted screening runs
type RunReader interface {
	GetLatestRun(ctx context.Context) (*selection.Run, error)
}

// ScreenHandler handles screening API endpoints
// ⭐ SSOT: 스크리닝 API 핸들러는 이 구조체에서만
type ScreenHandler struct {
	screener Screener
	base     brain.Params
	runs     RunReader
	logger   *logger.Logger
}

// NewScreenHandler creates a new screen handler.
// base holds the strategy defaults every request starts from; runs may be nil.
func NewScreenHandler(screener Screener, base brain.Params, runs RunReader, log *logger.Logger) *ScreenHandler {
	return &ScreenHandler{
		screener: screener,
		base:     base,
		runs:     runs,
		logger:   log,
	}
}

// queryBound maps a query param onto a filter bound and, where the scorer
// shares the threshold, onto the scorer too
type queryBound struct {
	keys   []string // first is canonical, the rest are accepted aliases
	filter func(p *brain.Params) **float64
	scorer func(p *brain.Params) **float64
}

var qualityQueryBounds = []queryBound{
	{[]string{"min_market_cap"}, func(p *brain.Params) **float64 { return &p.Filter.MinMarketCap }, nil},
	{[]string{"max_market_cap"}, func(p *brain.Params) **float64 { return &p.Filter.MaxMarketCap }, nil},
	{[]string{"max_pe_ttm"}, func(p *brain.Params) **float64 { return &p.Filter.MaxPETTM }, func(p *brain.Params) **float64 { return &p.Scorer.MaxPETTM }},
	{[]string{"max_pe_vs_sector"}, func(p *brain.Params) **float64 { return &p.Filter.MaxPEVsSector }, nil},
	{[]string{"max_pe_vs_industry"}, func(p *brain.Params) **float64 { return &p.Filter.MaxPEVsIndustry }, nil},
	{[]string{"min_roe"}, func(p *brain.Params) **float64 { return &p.Filter.MinROE }, func(p *brain.Params) **float64 { return &p.Scorer.MinROE }},
	{[]string{"min_financial_health", "min_piotroski"}, func(p *brain.Params) **float64 { return &p.Filter.MinFinancialHealth }, nil},
	{[]string{"min_revenue_growth"}, func(p *brain.Params) **float64 { return &p.Filter.MinRevenueGrowth }, func(p *brain.Params) **float64 { return &p.Scorer.MinRevenueGrowth }},
	{[]string{"min_profit_growth"}, func(p *brain.Params) **float64 { return &p.Filter.MinProfitGrowth }, func(p *brain.Params) **float64 { return &p.Scorer.MinProfitGrowth }},
	{[]string{"min_revenue_growth_qtr", "min_revenue_growth_qtr_yoy"}, func(p *brain.Params) **float64 { return &p.Filter.MinRevenueGrowthQtrYoY }, func(p *brain.Params) **float64 { return &p.Scorer.MinRevenueGrowthQtrYoY }},
	{[]string{"min_growth_vs_sector"}, func(p *brain.Params) **float64 { return &p.Filter.MinGrowthVsSector }, nil},
	{[]string{"min_profit_growth_vs_sector"}, func(p *brain.Params) **float64 { return &p.Filter.MinProfitGrowthVsSector }, nil},
	{[]string{"min_durability", "min_trendlyne_durability"}, func(p *brain.Params) **float64 { return &p.Filter.MinDurability }, nil},
	{[]string{"min_valuation_score", "min_trendlyne_valuation"}, func(p *brain.Params) **float64 { return &p.Filter.MinValuationScore }, nil},
}

// GetQualityStocks screens with the strategy defaults, each overridable by query param.
// A bound set to "off" disables that filter.
// GET /api/screen/quality?min_roe=15&max_pe_ttm=25&min_score=60&limit=10
func (h *ScreenHandler) GetQualityStocks(w http.ResponseWriter, r *http.Request) {
	params := h.base
	q := r.URL.Query()

	for _, b := range qualityQueryBounds {
		key, raw := firstQuery(r, b.keys)
		if raw == "" {
			continue
		}
		if strings.EqualFold(raw, "off") {
			*b.filter(&params) = nil
			continue
		}
		v, ok := queryFloat(r, key)
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid "+key)
			return
		}
		*b.filter(&params) = v
		if b.scorer != nil {
			*b.scorer(&params) = v
		}
	}

	if q.Get("min_score") != "" {
		v, ok := queryFloat(r, "min_score")
		if !ok || *v < 0 || *v > 100 {
			respondError(w, http.StatusBadRequest, "min_score must be in range [0, 100]")
			return
		}
		params.Rank.MinScore = *v
	}
	params.Rank.Limit = queryInt(r, "limit", params.Rank.Limit)

	if s := q.Get("missing_policy"); s != "" {
		policy, ok := parseMissingPolicy(s)
		if !ok {
			respondError(w, http.StatusBadRequest, "missing_policy must be retain or reject")
			return
		}
		params.Filter.Missing = policy
	}
	if s := q.Get("sort_by"); s != "" {
		key, err := selection.ParseSortKey(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		params.SortBy = key
	}
	if s := q.Get("skip_missing_components"); s != "" {
		params.Weights.SkipMissingComponents = s == "true" || s == "1"
	}

	h.run(w, r, brain.RunConfig{Params: params, Origin: "api"})
}

// ScreenRequest is the body of POST /api/screen. Each field overrides the
// strategy default it names; anything omitted keeps the default.
type ScreenRequest struct {
	Filter   *selection.FilterConfig  `json:"filter,omitempty"`
	Scorer   *s2_signals.ScorerConfig `json:"scorer,omitempty"`
	Weights  *selection.WeightConfig  `json:"weights,omitempty"`
	MinScore *float64                 `json:"min_score,omitempty"`
	Limit    *int                     `json:"limit,omitempty"`
	SortBy   string                   `json:"sort_by,omitempty"`
	Persist  bool                     `json:"persist,omitempty"`
}

// cloneParams deep-copies the defaults so a decoded body never writes
// through the shared metric pointers
func cloneParams(base brain.Params) (brain.Params, error) {
	var params brain.Params
	raw, err := json.Marshal(base)
	if err != nil {
		return params, err
	}
	err = json.Unmarshal(raw, &params)
	return params, err
}

// Screen runs a fully configurable screen
// POST /api/screen
func (h *ScreenHandler) Screen(w http.ResponseWriter, r *http.Request) {
	params, err := cloneParams(h.base)
	if err != nil {
		h.logger.WithError(err).Error("Failed to copy screen defaults")
		respondError(w, http.StatusInternalServerError, "Failed to prepare screen")
		return
	}

	// sections decode onto the defaults field by field
	req := ScreenRequest{
		Filter:  &params.Filter,
		Scorer:  &params.Scorer,
		Weights: &params.Weights,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Filter == nil || req.Scorer == nil || req.Weights == nil {
		respondError(w, http.StatusBadRequest, "filter, scorer and weights must be objects")
		return
	}

	if _, ok := parseMissingPolicy(string(params.Filter.Missing)); !ok {
		respondError(w, http.StatusBadRequest, "filter.missing must be retain or reject")
		return
	}
	switch params.Scorer.Shortfall {
	case "", s2_signals.ShortfallZero, s2_signals.ShortfallExclude:
	default:
		respondError(w, http.StatusBadRequest, "scorer.shortfall must be zero or exclude")
		return
	}
	if req.MinScore != nil {
		params.Rank.MinScore = *req.MinScore
	}
	if req.Limit != nil {
		params.Rank.Limit = *req.Limit
	}
	if req.SortBy != "" {
		key, err := selection.ParseSortKey(req.SortBy)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		params.SortBy = key
	}

	h.run(w, r, brain.RunConfig{Params: params, Origin: "api", Persist: req.Persist})
}

// GetLatestRun returns the most recent persisted screening run
// GET /api/screen/runs/latest
func (h *ScreenHandler) GetLatestRun(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, http.StatusServiceUnavailable, "Run history requires a database")
		return
	}

	run, err := h.runs.GetLatestRun(r.Context())
	if errors.Is(err, selection.ErrRunNotFound) {
		respondError(w, http.StatusNotFound, "No screening runs found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get latest run")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve latest run")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    run,
	})
}

func (h *ScreenHandler) run(w http.ResponseWriter, r *http.Request, config brain.RunConfig) {
	result, err := h.screener.Run(r.Context(), config)
	switch {
	case errors.Is(err, brain.ErrNoSnapshot):
		respondError(w, http.StatusServiceUnavailable, "Stock data not loaded")
		return
	case errors.Is(err, selection.ErrInvalidWeights):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.WithError(err).Error("Screening failed")
		respondError(w, http.StatusInternalServerError, "Screening failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

func firstQuery(r *http.Request, keys []string) (string, string) {
	q := r.URL.Query()
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return k, v
		}
	}
	return keys[0], ""
}

func parseMissingPolicy(s string) (selection.MissingPolicy, bool) {
	switch p := selection.MissingPolicy(strings.ToLower(s)); p {
	case "", selection.MissingRetain, selection.MissingReject:
		return p, true
	default:
		return "", false
	}
}
