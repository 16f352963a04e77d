package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-tools/seller-atlas/pkg/models/api"
	"github.com/wb-tools/seller-atlas/pkg/models/domain"
	"github.com/wb-tools/seller-atlas/pkg/services/analysis"
	"github.com/wb-tools/seller-atlas/pkg/services/assistant"
	"github.com/wb-tools/seller-atlas/pkg/services/cabinet"
)

type Runner interface {
	RunCompleteAnalysis(ctx context.Context, cab domain.Cabinet, from, to time.Time) (*analysis.Result, error)
}

type Handler struct {
	cabinets  cabinet.Registry
	runner    Runner
	optimizer *assistant.Optimizer
}

func NewHandler(cabinets cabinet.Registry, runner Runner, optimizer *assistant.Optimizer) *Handler {
	return &Handler{cabinets: cabinets, runner: runner, optimizer: optimizer}
}

type optimizeRequest struct {
	Cabinet  string `json:"cabinet,omitempty"`
	NmID     int64  `json:"nmId"`
	Title    string `json:"title"`
	Category string `json:"category"`
	DateFrom string `json:"dateFrom,omitempty"`
	DateTo   string `json:"dateTo,omitempty"`
}

type optimizeResponse struct {
	NmID   int64  `json:"nmId"`
	Advice string `json:"advice"`
}

// Optimize handles POST /api/v1/assistant/optimize: runs (or reuses) the
// period analysis and asks the completion service for listing advice.
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	if h.optimizer == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant is not configured")
		return
	}

	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Category == "" {
		writeError(w, http.StatusBadRequest, "title and category are required")
		return
	}

	cab, err := h.cabinets.GetCabinet(ctx, req.Cabinet)
	if err != nil {
		writeError(w, http.StatusBadRequest, "no usable cabinet")
		return
	}

	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -30)
	if req.DateFrom != "" {
		if from, err = time.Parse("2006-01-02", req.DateFrom); err != nil {
			writeError(w, http.StatusBadRequest, "invalid dateFrom")
			return
		}
	}
	if req.DateTo != "" {
		if to, err = time.Parse("2006-01-02", req.DateTo); err != nil {
			writeError(w, http.StatusBadRequest, "invalid dateTo")
			return
		}
	}

	result, err := h.runner.RunCompleteAnalysis(ctx, cab, from, to)
	if err != nil {
		logger.Error().Err(err).Msg("analysis for assistant failed")
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	suggestions, err := h.optimizer.SuggestImprovements(ctx, assistant.ListingReview{
		Title:    req.Title,
		Category: req.Category,
		NmID:     req.NmID,
	}, result.Analytics)
	if err != nil {
		logger.Error().Err(err).Msg("assistant request failed")
		writeError(w, http.StatusBadGateway, "assistant unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(optimizeResponse{NmID: suggestions.NmID, Advice: suggestions.Advice})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Error{Error: message})
}
