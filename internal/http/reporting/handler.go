package reporting

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avandenberg/tally/internal/report"
)

type Handler struct {
	reportSvc *report.Service
}

func NewHandler(reportSvc *report.Service) *Handler {
	return &Handler{reportSvc: reportSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/overview", h.overview)
	r.Get("/exceptions", h.exceptions)
	r.Get("/journal", h.journal)
}

func (h *Handler) KPI(w http.ResponseWriter, r *http.Request) {
	overview, err := h.reportSvc.Overview(r.Context(), r.URL.Query().Get("entity"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, overview.KPIs)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.reportSvc.Overview(r.Context(), r.URL.Query().Get("entity"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, overview)
}

func (h *Handler) exceptions(w http.ResponseWriter, r *http.Request) {
	exceptions, err := h.reportSvc.Exceptions(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, exceptions)
}

func (h *Handler) journal(w http.ResponseWriter, r *http.Request) {
	journal, err := h.reportSvc.Journal(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, journal)
}

func (h *Handler) BoardPack(w http.ResponseWriter, r *http.Request) {
	blob, err := h.reportSvc.BoardPack(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="board_pack.zip"`)

	if _, err := w.Write(blob); err != nil {
		slog.Error("failed to write board pack", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
