package cabinets

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/wb-tools/seller-atlas/pkg/adapters"
	"github.com/wb-tools/seller-atlas/pkg/models/api"
	"github.com/wb-tools/seller-atlas/pkg/services/cabinet"
)

type Handler struct {
	registry cabinet.Registry
}

func NewHandler(registry cabinet.Registry) *Handler {
	return &Handler{registry: registry}
}

// ListCabinets handles GET /api/v1/cabinets. Tokens never leave the server.
func (h *Handler) ListCabinets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	cabinets, err := h.registry.GetCabinets(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list cabinets")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(api.Error{Error: "failed to list cabinets"})
		return
	}

	response := make([]api.Cabinet, 0, len(cabinets))
	for _, c := range cabinets {
		response = append(response, adapters.MapCabinetToAPI(c))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode cabinets")
	}
}
