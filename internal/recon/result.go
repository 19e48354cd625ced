package recon

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/avandenberg/tally/internal/ledger"
)

// Rule tags the pass that produced a match.
type Rule string

const (
	RuleExact Rule = "R1 exact"
	RuleFee   Rule = "R2 fee"
	RuleBatch Rule = "R3 batch"
)

// MatchKey identifies one accepted match: the rule plus the ordered
// participant row ids. Rows store the rendered string as their match id; the
// structured form is the primary representation.
type MatchKey struct {
	Rule       Rule
	InvoiceIDs []string
	BankID     string
}

// String renders the composite match id written onto matched rows.
func (k MatchKey) String() string {
	switch k.Rule {
	case RuleExact:
		return fmt.Sprintf("M%s-%s", k.InvoiceIDs[0], k.BankID)
	case RuleFee:
		return fmt.Sprintf("F%s-%s", k.InvoiceIDs[0], k.BankID)
	case RuleBatch:
		return fmt.Sprintf("B%s-%s", k.BankID, strings.Join(k.InvoiceIDs, ","))
	}

	return ""
}

// MatchEvent is one audit record, emitted per accepted match in discovery
// order.
type MatchEvent struct {
	Rule       Rule            `json:"rule"`
	InvoiceIDs []string        `json:"invoice_ids"`
	BankID     string          `json:"bank_id"`
	MatchID    string          `json:"match_id"`
	Fee        decimal.Decimal `json:"fee"`
}

// Summary counts accepted matches per rule and carries the full ordered
// audit trail.
type Summary struct {
	Rule1Count int          `json:"rule1_count"`
	Rule2Count int          `json:"rule2_count"`
	Rule3Count int          `json:"rule3_count"`
	Events     []MatchEvent `json:"events"`
}

// provisionalMatch is discovered read-only against the pre-pass pool and
// committed at the end of the pass.
type provisionalMatch struct {
	key      MatchKey
	invoices []int // indices into the working invoice slice
	bank     int   // index into the working bank slice
	fee      decimal.Decimal
}

// bankStatus maps a rule to the status written on the bank side. Invoices
// always get StatusMatched regardless of rule.
func bankStatus(r Rule) ledger.MatchStatus {
	switch r {
	case RuleFee:
		return ledger.StatusMatchedFee
	case RuleBatch:
		return ledger.StatusMatchedBatch
	}

	return ledger.StatusMatched
}

// apply commits provisional matches to the working copies in discovery order
// and appends one audit event per accepted match. Because candidates within a
// pass are evaluated against the pre-pass pool, two provisional matches can
// claim the same row; the first-discovered match wins and the later one is
// dropped whole. Returns the number of matches actually committed.
func apply(invoices []ledger.Invoice, bank []ledger.BankTransaction, matches []provisionalMatch, sum *Summary) int {
	applied := 0

	for _, m := range matches {
		if bank[m.bank].Matched() {
			continue
		}

		claimed := false

		for _, i := range m.invoices {
			if invoices[i].Matched() {
				claimed = true
				break
			}
		}

		if claimed {
			continue
		}

		matchID := m.key.String()

		for _, i := range m.invoices {
			id := matchID
			st := ledger.StatusMatched
			invoices[i].MatchID = &id
			invoices[i].Status = &st
		}

		id := matchID
		st := bankStatus(m.key.Rule)
		bank[m.bank].MatchID = &id
		bank[m.bank].Status = &st

		sum.Events = append(sum.Events, MatchEvent{
			Rule:       m.key.Rule,
			InvoiceIDs: m.key.InvoiceIDs,
			BankID:     m.key.BankID,
			MatchID:    matchID,
			Fee:        m.fee,
		})

		applied++
	}

	return applied
}
