package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avandenberg/tally/internal/ledger"
)

// Chart of accounts used by the journal.
const (
	AccountCash    = "1000-Cash"
	AccountAR      = "1200-Accounts Receivable"
	AccountRevenue = "4000-Revenue"
	AccountPSPFees = "6060-Payment Processing Fees"
)

// Refs for rows that have no settled bank counterpart.
const (
	refUnmatched  = "UNMATCHED"
	refUnresolved = "UNRESOLVED"
)

// JournalRow is one double-entry posting.
type JournalRow struct {
	Date    time.Time       `json:"date"`
	Entity  string          `json:"entity"`
	Account string          `json:"account"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Ref     string          `json:"ref"`
}

// BuildJournal posts matched invoices against cash, with a processor fee leg
// when the match was fee-tolerant or batched, and accrues unmatched revenue
// to accounts receivable. Invoices sharing a match id settle against a single
// cash posting so the journal stays balanced.
func BuildJournal(invoices []ledger.Invoice, bank []ledger.BankTransaction) []JournalRow {
	bankByMatch := make(map[string]ledger.BankTransaction)

	for _, tx := range bank {
		if !tx.Matched() {
			continue
		}

		if _, ok := bankByMatch[*tx.MatchID]; !ok {
			bankByMatch[*tx.MatchID] = tx
		}
	}

	var (
		order  []string
		groups = make(map[string][]ledger.Invoice)
	)

	for _, inv := range invoices {
		if !inv.Matched() {
			continue
		}

		id := *inv.MatchID
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}

		groups[id] = append(groups[id], inv)
	}

	var journal []JournalRow

	for _, matchID := range order {
		group := groups[matchID]

		tx, ok := bankByMatch[matchID]
		if !ok {
			// Match id with no bank counterpart in the snapshot.
			for _, inv := range group {
				journal = append(journal, accrualLegs(inv, refUnresolved)...)
			}

			continue
		}

		first := group[0]

		journal = append(journal, JournalRow{
			Date:    first.Date,
			Entity:  first.Entity,
			Account: AccountCash,
			Debit:   tx.Amount,
			Ref:     matchID,
		})

		var gross decimal.Decimal

		feeContext := statusHasFee(tx.Status)

		for _, inv := range group {
			gross = gross.Add(inv.Amount)
			feeContext = feeContext || statusHasFee(inv.Status)

			journal = append(journal, JournalRow{
				Date:    inv.Date,
				Entity:  inv.Entity,
				Account: AccountRevenue,
				Credit:  inv.Amount,
				Ref:     matchID,
			})
		}

		if feeContext {
			fee := gross.Sub(tx.Amount).Round(2)
			if fee.IsPositive() {
				journal = append(journal, JournalRow{
					Date:    first.Date,
					Entity:  first.Entity,
					Account: AccountPSPFees,
					Debit:   fee,
					Ref:     matchID,
				})
			}
		}
	}

	for _, inv := range invoices {
		if inv.Kind == ledger.KindRevenue && !inv.Matched() {
			journal = append(journal, accrualLegs(inv, refUnmatched)...)
		}
	}

	return journal
}

func accrualLegs(inv ledger.Invoice, ref string) []JournalRow {
	return []JournalRow{
		{
			Date:    inv.Date,
			Entity:  inv.Entity,
			Account: AccountAR,
			Debit:   inv.Amount,
			Ref:     ref,
		},
		{
			Date:    inv.Date,
			Entity:  inv.Entity,
			Account: AccountRevenue,
			Credit:  inv.Amount,
			Ref:     ref,
		},
	}
}

func statusHasFee(status *ledger.MatchStatus) bool {
	if status == nil {
		return false
	}

	s := strings.ToLower(string(*status))

	return strings.Contains(s, "fee") || strings.Contains(s, "batch")
}
