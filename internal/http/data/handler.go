package data

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avandenberg/tally/internal/importer"
	"github.com/avandenberg/tally/internal/ledger"
)

type Handler struct {
	importSvc *importer.Service
	ledgerSvc *ledger.Service
}

func NewHandler(importSvc *importer.Service, ledgerSvc *ledger.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		ledgerSvc: ledgerSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/sample", h.loadSample)
	r.Post("/reset", h.reset)
	r.Post("/upload/{dataset}", h.upload)
}

type loadResponse struct {
	Invoices int `json:"invoices"`
	BankTx   int `json:"bank_tx"`
}

type uploadResponse struct {
	Dataset importer.Dataset `json:"dataset"`
	Rows    int              `json:"rows"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type datasetResponse struct {
	Dataset importer.Dataset `json:"dataset"`
	Rows    any              `json:"rows"`
}

func (h *Handler) loadSample(w http.ResponseWriter, r *http.Request) {
	invoices, bank, err := h.importSvc.LoadSample()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	invCount, err := h.ledgerSvc.ReplaceInvoices(r.Context(), invoices)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	bankCount, err := h.ledgerSvc.ReplaceBankTransactions(r.Context(), bank)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, loadResponse{Invoices: invCount, BankTx: bankCount})
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.ledgerSvc.Reset(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "reset"})
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	dataset := importer.Dataset(chi.URLParam(r, "dataset"))
	if !dataset.Valid() {
		http.Error(w, "unknown dataset: "+string(dataset), http.StatusNotFound)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var rows int

	switch dataset {
	case importer.DatasetInvoices:
		invoices, err := h.importSvc.ParseInvoices(file)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rows, err = h.ledgerSvc.ReplaceInvoices(r.Context(), invoices)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	case importer.DatasetBankTx:
		bank, err := h.importSvc.ParseBankTransactions(file)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rows, err = h.ledgerSvc.ReplaceBankTransactions(r.Context(), bank)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusCreated, uploadResponse{Dataset: dataset, Rows: rows})
}

func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	dataset := importer.Dataset(chi.URLParam(r, "dataset"))
	if !dataset.Valid() {
		http.Error(w, "unknown dataset: "+string(dataset), http.StatusNotFound)
		return
	}

	invoices, bank, err := h.ledgerSvc.Snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	switch dataset {
	case importer.DatasetInvoices:
		writeJSON(w, http.StatusOK, datasetResponse{Dataset: dataset, Rows: invoices})
	case importer.DatasetBankTx:
		writeJSON(w, http.StatusOK, datasetResponse{Dataset: dataset, Rows: bank})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
