package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies an invoice line.
type Kind string

const (
	KindRevenue Kind = "revenue"
	KindExpense Kind = "expense"
)

// Direction is the money flow of a bank transaction as seen from the account.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// MatchStatus is the reconciliation state written by the matching engine.
// A nil status means the row has never been matched.
type MatchStatus string

const (
	StatusMatched      MatchStatus = "Matched"
	StatusMatchedFee   MatchStatus = "Matched (fee)"
	StatusMatchedBatch MatchStatus = "Matched (batch)"
)

// Invoice is one accounts-receivable row. Only revenue invoices take part in
// matching; expense rows exist for reporting.
type Invoice struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Entity    string          `json:"entity"`
	Kind      Kind            `json:"kind"`
	InvoiceNo string          `json:"invoice_no,omitempty"`
	MatchID   *string         `json:"match_id"`
	Status    *MatchStatus    `json:"status"`
}

// Matched reports whether the engine has already linked this invoice.
// A non-empty match id is permanent: it is never reassigned or cleared.
func (i Invoice) Matched() bool {
	return i.MatchID != nil && *i.MatchID != ""
}

// BankTransaction is one bank statement row. Only inbound rows take part in
// matching.
type BankTransaction struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Entity    string          `json:"entity"`
	Direction Direction       `json:"direction"`
	Partner   string          `json:"partner,omitempty"`
	Memo      string          `json:"memo,omitempty"`
	MatchID   *string         `json:"match_id"`
	Status    *MatchStatus    `json:"status"`
}

// Matched reports whether the engine has already linked this bank row.
func (b BankTransaction) Matched() bool {
	return b.MatchID != nil && *b.MatchID != ""
}

// PartnerText is the free text used for payment-processor name filtering:
// the partner field when set, otherwise the memo.
func (b BankTransaction) PartnerText() string {
	if b.Partner != "" {
		return b.Partner
	}

	return b.Memo
}

// Month truncates a date to the first day of its month, the bucket used by
// all monthly reporting.
func Month(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
