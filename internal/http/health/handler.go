package health

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/avandenberg/tally/internal/ledger"
)

type Handler struct {
	ledgerSvc *ledger.Service
}

func NewHandler(ledgerSvc *ledger.Service) *Handler {
	return &Handler{ledgerSvc: ledgerSvc}
}

type healthResponse struct {
	Status  string `json:"status"`
	HasData bool   `json:"has_data"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	hasData, err := h.ledgerSvc.HasData(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok", HasData: hasData}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
