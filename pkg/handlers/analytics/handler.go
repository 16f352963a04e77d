// Package analytics serves the comprehensive analytics endpoint: cache-first
// reads of completed analysis snapshots, recompute on miss or forceRefresh.
package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-tools/seller-atlas/pkg/adapters"
	"github.com/wb-tools/seller-atlas/pkg/models/api"
	"github.com/wb-tools/seller-atlas/pkg/models/domain"
	"github.com/wb-tools/seller-atlas/pkg/models/store"
	"github.com/wb-tools/seller-atlas/pkg/services/analysis"
	"github.com/wb-tools/seller-atlas/pkg/services/cabinet"
	"github.com/wb-tools/seller-atlas/pkg/store/sqlite/cache"
)

const (
	defaultWindowDays = 30
	dateLayout        = "2006-01-02"
)

// Runner executes one complete analysis. *analysis.Service satisfies it.
type Runner interface {
	RunCompleteAnalysis(ctx context.Context, cab domain.Cabinet, from, to time.Time) (*analysis.Result, error)
}

type Handler struct {
	cabinets cabinet.Registry
	runner   Runner
	cache    cache.Store
	ttl      time.Duration
}

func NewHandler(cabinets cabinet.Registry, runner Runner, cacheStore cache.Store) *Handler {
	return &Handler{
		cabinets: cabinets,
		runner:   runner,
		cache:    cacheStore,
		ttl:      cache.DefaultTTL,
	}
}

// GetComprehensive handles
// GET /api/v1/analytics/comprehensive?dateFrom=&dateTo=&cabinet=&forceRefresh=
func (h *Handler) GetComprehensive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	from, to, err := parseWindow(r.URL.Query().Get("dateFrom"), r.URL.Query().Get("dateTo"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	cab, err := h.cabinets.GetCabinet(ctx, r.URL.Query().Get("cabinet"))
	if err != nil {
		// Configuration error: the run never starts.
		writeError(w, http.StatusBadRequest, "no usable cabinet", err.Error())
		return
	}

	key := store.CacheKey{
		CabinetID: cab.ID,
		DateFrom:  from.Format(dateLayout),
		DateTo:    to.Format(dateLayout),
	}
	forceRefresh := r.URL.Query().Get("forceRefresh") == "true"

	if !forceRefresh {
		if resp := h.cachedResponse(ctx, key); resp != nil {
			writeJSON(w, http.StatusOK, resp)
			return
		}
	}

	result, err := h.runner.RunCompleteAnalysis(ctx, cab, from, to)
	if err != nil {
		logger.Error().Err(err).Msg("analysis run failed")
		writeError(w, http.StatusInternalServerError, "analysis failed", publicDetails(err))
		return
	}

	data := adapters.MapAnalysisResultToAPI(result)
	resp := api.ComprehensiveResponse{
		Success:     true,
		Data:        data,
		GeneratedAt: result.GeneratedAt,
	}

	h.storeInCache(ctx, key, data, result.GeneratedAt)
	writeJSON(w, http.StatusOK, resp)
}

// cachedResponse returns a ready response for a fresh cache entry, nil
// otherwise. Cache read failures fall through to a recompute.
func (h *Handler) cachedResponse(ctx context.Context, key store.CacheKey) *api.ComprehensiveResponse {
	logger := zerolog.Ctx(ctx)

	entry, err := h.cache.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Msg("cache read failed, recomputing")
		return nil
	}
	if entry == nil {
		return nil
	}

	var data api.ComprehensiveData
	if err := json.Unmarshal(entry.Payload, &data); err != nil {
		logger.Warn().Err(err).Msg("cache payload corrupt, recomputing")
		return nil
	}

	return &api.ComprehensiveResponse{
		Success:     true,
		Data:        data,
		FromCache:   true,
		CacheAge:    int(time.Since(entry.GeneratedAt).Minutes()),
		GeneratedAt: entry.GeneratedAt,
	}
}

// storeInCache persists the snapshot. Write failures are logged and swallowed;
// the computed result is served regardless.
func (h *Handler) storeInCache(ctx context.Context, key store.CacheKey, data api.ComprehensiveData, generatedAt time.Time) {
	logger := zerolog.Ctx(ctx)

	payload, err := json.Marshal(data)
	if err != nil {
		logger.Error().Err(err).Msg("cache payload marshal failed")
		return
	}
	err = h.cache.Put(ctx, store.AnalyticsCacheEntry{
		Key:         key,
		Payload:     payload,
		GeneratedAt: generatedAt,
		ExpiresAt:   generatedAt.Add(h.ttl),
	})
	if err != nil {
		logger.Error().Err(err).Msg("cache write failed")
	}
}

func parseWindow(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	from := now.AddDate(0, 0, -defaultWindowDays)
	to := now

	var err error
	if fromStr != "" {
		if from, err = time.Parse(dateLayout, fromStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if toStr != "" {
		if to, err = time.Parse(dateLayout, toStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errBackwardsWindow
	}
	return from, to, nil
}

var errBackwardsWindow = &windowError{"dateTo is before dateFrom"}

type windowError struct{ msg string }

func (e *windowError) Error() string { return e.msg }

// publicDetails keeps internal error chains out of production responses.
func publicDetails(err error) string {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		return err.Error()
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, api.Error{Error: message, Details: details})
}
