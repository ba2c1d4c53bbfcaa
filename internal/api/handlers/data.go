package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/wonny/qscreen/internal/s0_data"
	"github.com/wonny/qscreen/pkg/logger"
	"github.com/wonny/qscreen/pkg/redis"
)

// Refresher reloads the snapshot on demand
type Refresher interface {
	Refresh(ctx context.Context) (*s0_data.RefreshResult, error)
	Status() s0_data.RefreshStatus
	SourceName() string
}

// DataHandler handles snapshot-related API endpoints
// ⭐ SSOT: 스냅샷 API 핸들러는 이 구조체에서만
type DataHandler struct {
	store     *s0_data.Store
	refresher Refresher
	limiter   *redis.RateLimiter
	cache     *redis.Cache
	logger    *logger.Logger
}

// NewDataHandler creates a new data handler. limiter and cache may be nil.
func NewDataHandler(
	store *s0_data.Store,
	refresher Refresher,
	limiter *redis.RateLimiter,
	cache *redis.Cache,
	log *logger.Logger,
) *DataHandler {
	return &DataHandler{
		store:     store,
		refresher: refresher,
		limiter:   limiter,
		cache:     cache,
		logger:    log,
	}
}

// Health returns service health with snapshot state
// GET /health
func (h *DataHandler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Current()

	body := map[string]interface{}{
		"status":          "ok",
		"service":         "qscreen-api",
		"snapshot_loaded": snap != nil,
		"total_stocks":    snap.Len(),
		"generation":      h.store.Generation(),
	}
	if snap != nil {
		body["loaded_at"] = snap.LoadedAt
		body["source"] = snap.Source
	}
	if h.refresher != nil {
		body["refresh"] = h.refresher.Status()
	}

	respondJSON(w, http.StatusOK, body)
}

// GetStats returns dataset statistics for the current snapshot
// GET /api/stats
func (h *DataHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap := h.store.Current()
	if snap == nil {
		respondError(w, http.StatusServiceUnavailable, "No snapshot loaded")
		return
	}

	key := redis.StatsKey(snap.Generation)
	if h.cache != nil {
		var cached s0_data.Stats
		if hit, err := h.cache.Get(ctx, key, &cached); err != nil {
			h.logger.WithError(err).Warn("Stats cache read failed")
		} else if hit {
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"data":    cached,
			})
			return
		}
	}

	stats := s0_data.ComputeStats(snap)

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, stats, redis.TTLLong); err != nil {
			h.logger.WithError(err).Warn("Stats cache write failed")
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    stats,
	})
}

// Reload refreshes the snapshot from its source
// POST /api/snapshot/reload
func (h *DataHandler) Reload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.refresher == nil {
		respondError(w, http.StatusServiceUnavailable, "Snapshot refresh is not configured")
		return
	}

	if h.limiter != nil {
		allowed, _, err := h.limiter.Allow(ctx, redis.ReloadRateLimit)
		if err != nil {
			h.logger.WithError(err).Warn("Reload rate limit check failed")
		} else if !allowed {
			respondError(w, http.StatusTooManyRequests, "Reload rate limit exceeded")
			return
		}
	}

	result, err := h.refresher.Refresh(ctx)
	if err != nil {
		h.logger.WithError(err).WithField("source", h.refresher.SourceName()).Error("Failed to reload snapshot")
		respondJSON(w, http.StatusBadGateway, map[string]interface{}{
			"success":    false,
			"error":      "Failed to reload snapshot",
			"detail":     err.Error(),
			"generation": h.store.Generation(),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Data reloaded successfully",
		"data":    result,
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// queryInt parses a positive int query param, falling back to def
func queryInt(r *http.Request, key string, def int) int {
	if s := r.URL.Query().Get(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

// queryFloat parses an optional finite float query param. ok is false on a malformed value.
func queryFloat(r *http.Request, key string) (v *float64, ok bool) {
	s := strings.TrimSpace(r.URL.Query().Get(key))
	if s == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &f, true
}
