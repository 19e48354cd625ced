package reconcile

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avandenberg/tally/internal/ledger"
	"github.com/avandenberg/tally/internal/recon"
)

type Handler struct {
	engine    *recon.Engine
	ledgerSvc *ledger.Service
	defaults  recon.Config
}

func NewHandler(engine *recon.Engine, ledgerSvc *ledger.Service, defaults recon.Config) *Handler {
	return &Handler{
		engine:    engine,
		ledgerSvc: ledgerSvc,
		defaults:  defaults,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.run)
}

// reconcileRequest carries the matching settings. The fee percentage comes
// in as a percent (4.0 means 4%) and is converted to a fraction before it
// reaches the engine.
type reconcileRequest struct {
	DateWindowDays  *int     `json:"date_window_days"`
	AmountTolerance *float64 `json:"amount_tolerance"`
	PSPFeeAbs       *float64 `json:"psp_fee_abs"`
	PSPFeePct       *float64 `json:"psp_fee_pct"`
	OnlyPSPNames    *bool    `json:"only_psp_names"`
	Persist         bool     `json:"persist"`
}

type reconcileResponse struct {
	RunID    uuid.UUID     `json:"run_id"`
	Summary  recon.Summary `json:"summary"`
	Invoices int           `json:"invoices"`
	Bank     int           `json:"bank"`
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	cfg := h.config(req)
	if err := cfg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	invoices, bank, err := h.ledgerSvc.Snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	invoices, bank, summary, err := h.engine.Reconcile(invoices, bank, cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if req.Persist {
		if err := h.ledgerSvc.CommitMatches(r.Context(), invoices, bank); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	resp := reconcileResponse{
		RunID:    uuid.New(),
		Summary:  summary,
		Invoices: len(invoices),
		Bank:     len(bank),
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// config overlays the request on top of the configured defaults.
func (h *Handler) config(req reconcileRequest) recon.Config {
	cfg := h.defaults

	if req.DateWindowDays != nil {
		cfg.DateWindowDays = *req.DateWindowDays
	}

	if req.AmountTolerance != nil {
		cfg.AmountTolerance = decimal.NewFromFloat(*req.AmountTolerance)
	}

	if req.PSPFeeAbs != nil {
		cfg.PSPFeeAbs = decimal.NewFromFloat(*req.PSPFeeAbs)
	}

	if req.PSPFeePct != nil {
		cfg.PSPFeePct = decimal.NewFromFloat(*req.PSPFeePct).Div(decimal.NewFromInt(100))
	}

	if req.OnlyPSPNames != nil {
		cfg.OnlyPSPNames = *req.OnlyPSPNames
	}

	return cfg
}
