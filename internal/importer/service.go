package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/avandenberg/tally/internal/ledger"
)

// Dataset names one of the two importable tables.
type Dataset string

const (
	DatasetInvoices Dataset = "invoices"
	DatasetBankTx   Dataset = "bank_tx"
)

// Valid reports whether the dataset name is one we can import.
func (d Dataset) Valid() bool {
	return d == DatasetInvoices || d == DatasetBankTx
}

type Service struct {
	dataDir string
}

// NewService creates an import service. dataDir is where the bundled sample
// CSVs live.
func NewService(dataDir string) *Service {
	return &Service{dataDir: dataDir}
}

// ParseInvoices reads an invoice CSV. Required columns: date, amount,
// entity, kind (or its legacy alias "type"). Missing ids are generated;
// missing optional columns are backfilled as unset.
func (s *Service) ParseInvoices(r io.Reader) ([]ledger.Invoice, error) {
	cols, rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	if err := cols.require("date", "amount", "entity"); err != nil {
		return nil, err
	}

	kindIdx := cols.index("kind", "type")
	if kindIdx < 0 {
		return nil, fmt.Errorf("missing required columns: kind")
	}

	var (
		idIdx        = cols.index("id")
		dateIdx      = cols.index("date")
		amountIdx    = cols.index("amount")
		entityIdx    = cols.index("entity")
		invoiceNoIdx = cols.index("invoice_no")
		matchIdx     = cols.index("match_id")
		statusIdx    = cols.index("status")
	)

	invoices := make([]ledger.Invoice, 0, len(rows))

	for n, row := range rows {
		if len(row) == 0 || cellValue(row, dateIdx) == "" {
			continue
		}

		date, err := parseDate(cellValue(row, dateIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}

		amount, err := parseAmount(cellValue(row, amountIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}

		id := cellValue(row, idIdx)
		if id == "" {
			id = "INV-" + uuid.NewString()
		}

		invoices = append(invoices, ledger.Invoice{
			ID:        id,
			Date:      date,
			Amount:    amount,
			Entity:    cellValue(row, entityIdx),
			Kind:      ledger.Kind(cellValue(row, kindIdx)),
			InvoiceNo: cellValue(row, invoiceNoIdx),
			MatchID:   parseMatchID(cellValue(row, matchIdx)),
			Status:    parseStatus(cellValue(row, statusIdx)),
		})
	}

	return invoices, nil
}

// ParseBankTransactions reads a bank statement CSV. Required columns: date,
// amount, entity, direction. Partner/memo are optional and only matter for
// the processor-name filter.
func (s *Service) ParseBankTransactions(r io.Reader) ([]ledger.BankTransaction, error) {
	cols, rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	if err := cols.require("date", "amount", "entity", "direction"); err != nil {
		return nil, err
	}

	var (
		idIdx      = cols.index("id")
		dateIdx    = cols.index("date")
		amountIdx  = cols.index("amount")
		entityIdx  = cols.index("entity")
		dirIdx     = cols.index("direction")
		partnerIdx = cols.index("partner")
		memoIdx    = cols.index("memo")
		matchIdx   = cols.index("match_id")
		statusIdx  = cols.index("status")
	)

	txs := make([]ledger.BankTransaction, 0, len(rows))

	for n, row := range rows {
		if len(row) == 0 || cellValue(row, dateIdx) == "" {
			continue
		}

		date, err := parseDate(cellValue(row, dateIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}

		amount, err := parseAmount(cellValue(row, amountIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}

		id := cellValue(row, idIdx)
		if id == "" {
			id = "BT-" + uuid.NewString()
		}

		txs = append(txs, ledger.BankTransaction{
			ID:        id,
			Date:      date,
			Amount:    amount,
			Entity:    cellValue(row, entityIdx),
			Direction: ledger.Direction(cellValue(row, dirIdx)),
			Partner:   cellValue(row, partnerIdx),
			Memo:      cellValue(row, memoIdx),
			MatchID:   parseMatchID(cellValue(row, matchIdx)),
			Status:    parseStatus(cellValue(row, statusIdx)),
		})
	}

	return txs, nil
}

// LoadSample reads the bundled demo datasets from the data directory.
func (s *Service) LoadSample() ([]ledger.Invoice, []ledger.BankTransaction, error) {
	invFile, err := os.Open(filepath.Join(s.dataDir, "invoices.csv"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening sample invoices: %w", err)
	}
	defer invFile.Close()

	invoices, err := s.ParseInvoices(invFile)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing sample invoices: %w", err)
	}

	bankFile, err := os.Open(filepath.Join(s.dataDir, "bank_tx.csv"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening sample bank transactions: %w", err)
	}
	defer bankFile.Close()

	bank, err := s.ParseBankTransactions(bankFile)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing sample bank transactions: %w", err)
	}

	return invoices, bank, nil
}
