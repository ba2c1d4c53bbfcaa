package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/internal/s0_data"
	"github.com/wonny/qscreen/pkg/logger"
)

// StockHandler handles stock lookup API endpoints
// ⭐ SSOT: 종목 조회 API 핸들러는 이 구조체에서만
type StockHandler struct {
	snapshots contracts.SnapshotProvider
	index     *s0_data.SearchIndex
	logger    *logger.Logger
}

// NewStockHandler creates a new stock handler. index may be nil.
func NewStockHandler(snapshots contracts.SnapshotProvider, index *s0_data.SearchIndex, log *logger.Logger) *StockHandler {
	return &StockHandler{
		snapshots: snapshots,
		index:     index,
		logger:    log,
	}
}

// ListStocks returns records matching simple filters
// GET /api/stocks?symbol=&sector=&market_cap_min=&market_cap_max=&pe_min=&pe_max=&limit=100
func (h *StockHandler) ListStocks(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshots.Current()
	if snap == nil {
		respondError(w, http.StatusServiceUnavailable, "Stock data not loaded")
		return
	}

	q := r.URL.Query()
	filter := s0_data.ListFilter{
		Symbol: q.Get("symbol"),
		Sector: q.Get("sector"),
		Limit:  queryInt(r, "limit", s0_data.DefaultListLimit),
	}

	bounds := []struct {
		key string
		dst **float64
	}{
		{"market_cap_min", &filter.MinMarketCap},
		{"market_cap_max", &filter.MaxMarketCap},
		{"pe_min", &filter.MinPE},
		{"pe_max", &filter.MaxPE},
	}
	for _, b := range bounds {
		v, ok := queryFloat(r, b.key)
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid "+b.key)
			return
		}
		*b.dst = v
	}

	stocks := s0_data.List(snap, filter)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"generation": snap.Generation,
		"count":      len(stocks),
		"data":       stocks,
	})
}

// SearchStocks runs a full-text search over name, symbol, ISIN and sector
// GET /api/stocks/search?q=tata&limit=20
func (h *StockHandler) SearchStocks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	if h.index == nil || h.snapshots.Current() == nil {
		respondError(w, http.StatusServiceUnavailable, "Search index not ready")
		return
	}

	stocks, err := h.index.Search(query, queryInt(r, "limit", s0_data.DefaultSearchLimit))
	if err != nil {
		h.logger.WithError(err).WithField("query", query).Error("Failed to search stocks")
		respondError(w, http.StatusInternalServerError, "Failed to search stocks")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"generation": h.index.Generation(),
		"count":      len(stocks),
		"data":       stocks,
	})
}

// GetStockByISIN returns one record by ISIN
// GET /api/stocks/isin/{isin}
func (h *StockHandler) GetStockByISIN(w http.ResponseWriter, r *http.Request) {
	isin := mux.Vars(r)["isin"]
	snap := h.snapshots.Current()
	if snap == nil {
		respondError(w, http.StatusServiceUnavailable, "Stock data not loaded")
		return
	}

	stock, ok := snap.FindByISIN(isin)
	if !ok {
		respondError(w, http.StatusNotFound, "Stock with ISIN '"+isin+"' not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    stock,
	})
}

// GetStockBySymbol returns one record by exchange code
// GET /api/stocks/{symbol}
func (h *StockHandler) GetStockBySymbol(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	snap := h.snapshots.Current()
	if snap == nil {
		respondError(w, http.StatusServiceUnavailable, "Stock data not loaded")
		return
	}

	stock, ok := snap.FindBySymbol(symbol)
	if !ok {
		respondError(w, http.StatusNotFound, "Stock with symbol '"+symbol+"' not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    stock,
	})
}
