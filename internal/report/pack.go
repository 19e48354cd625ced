package report

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/avandenberg/tally/internal/ledger"
)

const dateLayout = "2006-01-02"

// BuildBoardPack assembles the downloadable reporting bundle: the journal,
// monthly P&L and cash summaries, and the raw datasets, zipped as CSVs.
func BuildBoardPack(invoices []ledger.Invoice, bank []ledger.BankTransaction) ([]byte, error) {
	var buf bytes.Buffer

	z := zip.NewWriter(&buf)

	files := []struct {
		name string
		rows [][]string
	}{
		{"journal.csv", journalCSV(BuildJournal(invoices, bank))},
		{"pl_monthly.csv", pnlCSV(filterRevenue(monthlyRevenue(invoices), EntityAll))},
		{"cash_monthly.csv", cashCSV(filterCash(monthlyCash(bank), EntityAll))},
		{"invoices_raw.csv", invoicesCSV(invoices)},
		{"bank_raw.csv", bankCSV(bank)},
	}

	for _, f := range files {
		w, err := z.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", f.name, err)
		}

		cw := csv.NewWriter(w)
		if err := cw.WriteAll(f.rows); err != nil {
			return nil, fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	if err := z.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	return buf.Bytes(), nil
}

func journalCSV(rows []JournalRow) [][]string {
	out := [][]string{{"date", "entity", "account", "debit", "credit", "ref"}}

	for _, r := range rows {
		out = append(out, []string{
			r.Date.Format(dateLayout),
			r.Entity,
			r.Account,
			r.Debit.StringFixed(2),
			r.Credit.StringFixed(2),
			r.Ref,
		})
	}

	return out
}

func pnlCSV(rows []MonthlyRevenue) [][]string {
	out := [][]string{{"month", "revenue", "expense"}}

	for _, r := range rows {
		out = append(out, []string{
			r.Month.Format(dateLayout),
			r.Revenue.StringFixed(2),
			r.Expense.StringFixed(2),
		})
	}

	return out
}

func cashCSV(rows []MonthlyCash) [][]string {
	out := [][]string{{"month", "net_cash"}}

	for _, r := range rows {
		out = append(out, []string{
			r.Month.Format(dateLayout),
			r.NetCash.StringFixed(2),
		})
	}

	return out
}

func invoicesCSV(invoices []ledger.Invoice) [][]string {
	out := [][]string{{"id", "date", "amount", "entity", "kind", "invoice_no", "match_id", "status"}}

	for _, inv := range invoices {
		out = append(out, []string{
			inv.ID,
			inv.Date.Format(dateLayout),
			inv.Amount.StringFixed(2),
			inv.Entity,
			string(inv.Kind),
			inv.InvoiceNo,
			derefString(inv.MatchID),
			statusString(inv.Status),
		})
	}

	return out
}

func bankCSV(bank []ledger.BankTransaction) [][]string {
	out := [][]string{{"id", "date", "amount", "entity", "direction", "partner", "memo", "match_id", "status"}}

	for _, tx := range bank {
		out = append(out, []string{
			tx.ID,
			tx.Date.Format(dateLayout),
			tx.Amount.StringFixed(2),
			tx.Entity,
			string(tx.Direction),
			tx.Partner,
			tx.Memo,
			derefString(tx.MatchID),
			statusString(tx.Status),
		})
	}

	return out
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func statusString(s *ledger.MatchStatus) string {
	if s == nil {
		return ""
	}

	return string(*s)
}
