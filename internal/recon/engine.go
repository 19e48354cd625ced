package recon

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avandenberg/tally/internal/ledger"
)

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// Reconcile runs the three matching passes over defensive copies of the two
// snapshots and returns the mutated copies plus a summary. The caller's
// slices are never touched. Empty input is not an error: the copies come
// back unchanged with a zero summary.
//
// Within each pass all accepted matches are collected first and committed
// together at the end, so a candidate evaluated later in the pass still sees
// the pre-pass pool. Commit-time conflicts are resolved first-discovered-wins
// (see apply).
func (e *Engine) Reconcile(invoices []ledger.Invoice, bank []ledger.BankTransaction, cfg Config) ([]ledger.Invoice, []ledger.BankTransaction, Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, Summary{}, err
	}

	inv := slices.Clone(invoices)
	btx := slices.Clone(bank)

	var sum Summary

	if len(inv) == 0 || len(btx) == 0 {
		return inv, btx, sum, nil
	}

	sum.Rule1Count = apply(inv, btx, e.exactPass(inv, btx, cfg), &sum)
	sum.Rule2Count = apply(inv, btx, e.feePass(inv, btx, cfg), &sum)
	sum.Rule3Count = apply(inv, btx, e.batchPass(inv, btx, cfg), &sum)

	return inv, btx, sum, nil
}

// exactPass implements Rule 1: a 1:1 match accepted only when exactly one
// bank row qualifies. Zero candidates and multiple candidates both leave the
// invoice unmatched; ambiguity is never resolved automatically.
func (e *Engine) exactPass(inv []ledger.Invoice, btx []ledger.BankTransaction, cfg Config) []provisionalMatch {
	bankPool := openBankRows(btx)

	var matches []provisionalMatch

	for _, i := range openInvoices(inv) {
		var candidates []int

		for _, b := range bankPool {
			if btx[b].Entity != inv[i].Entity {
				continue
			}

			if !withinWindow(inv[i].Date, btx[b].Date, cfg.DateWindowDays) {
				continue
			}

			if !withinTolerance(inv[i].Amount, btx[b].Amount, cfg.AmountTolerance) {
				continue
			}

			candidates = append(candidates, b)
		}

		if len(candidates) != 1 {
			continue
		}

		b := candidates[0]
		matches = append(matches, provisionalMatch{
			key: MatchKey{
				Rule:       RuleExact,
				InvoiceIDs: []string{inv[i].ID},
				BankID:     btx[b].ID,
			},
			invoices: []int{i},
			bank:     b,
		})
	}

	return matches
}

// feePass implements Rule 2: a 1:1 match where the bank amount is the invoice
// amount net of a processor fee. The first candidate passing the fee check
// wins; there is no comparison across candidates.
func (e *Engine) feePass(inv []ledger.Invoice, btx []ledger.BankTransaction, cfg Config) []provisionalMatch {
	bankPool := openBankRows(btx)

	if cfg.OnlyPSPNames {
		bankPool = filterPSPNames(btx, bankPool)
	}

	var matches []provisionalMatch

	for _, i := range openInvoices(inv) {
		for _, b := range bankPool {
			if btx[b].Entity != inv[i].Entity {
				continue
			}

			if !withinWindow(inv[i].Date, btx[b].Date, cfg.DateWindowDays) {
				continue
			}

			ok, fee := FeeCheck(inv[i].Amount, btx[b].Amount, cfg.PSPFeeAbs, cfg.PSPFeePct)
			if !ok {
				continue
			}

			matches = append(matches, provisionalMatch{
				key: MatchKey{
					Rule:       RuleFee,
					InvoiceIDs: []string{inv[i].ID},
					BankID:     btx[b].ID,
				},
				invoices: []int{i},
				bank:     b,
				fee:      fee,
			})

			break
		}
	}

	return matches
}

// batchPass implements Rule 3: one bank payout settling several invoices.
// For each open bank row the same-entity invoices inside the date window are
// offered to PickBatch in ascending date order. A bank row whose accumulation
// never reaches acceptance keeps no partial state.
func (e *Engine) batchPass(inv []ledger.Invoice, btx []ledger.BankTransaction, cfg Config) []provisionalMatch {
	invPool := openInvoices(inv)

	var matches []provisionalMatch

	for _, b := range openBankRows(btx) {
		var candidateIdx []int

		for _, i := range invPool {
			if inv[i].Entity != btx[b].Entity {
				continue
			}

			if !withinWindow(inv[i].Date, btx[b].Date, cfg.DateWindowDays) {
				continue
			}

			candidateIdx = append(candidateIdx, i)
		}

		if len(candidateIdx) == 0 {
			continue
		}

		sort.SliceStable(candidateIdx, func(x, y int) bool {
			a, c := inv[candidateIdx[x]], inv[candidateIdx[y]]
			if !a.Date.Equal(c.Date) {
				return a.Date.Before(c.Date)
			}

			return a.ID < c.ID
		})

		candidates := make([]BatchCandidate, len(candidateIdx))
		byID := make(map[string]int, len(candidateIdx))

		for n, i := range candidateIdx {
			candidates[n] = BatchCandidate{ID: inv[i].ID, Amount: inv[i].Amount}
			byID[inv[i].ID] = i
		}

		result, ok := PickBatch(candidates, btx[b].Amount, cfg.AmountTolerance, cfg.PSPFeeAbs, cfg.PSPFeePct)
		if !ok || len(result.IDs) == 0 {
			continue
		}

		picked := make([]int, len(result.IDs))
		for n, id := range result.IDs {
			picked[n] = byID[id]
		}

		matches = append(matches, provisionalMatch{
			key: MatchKey{
				Rule:       RuleBatch,
				InvoiceIDs: result.IDs,
				BankID:     btx[b].ID,
			},
			invoices: picked,
			bank:     b,
			fee:      result.Fee,
		})
	}

	return matches
}

// openInvoices returns indices of unmatched revenue invoices, ascending by id
// so that pass iteration order is stable across runs.
func openInvoices(inv []ledger.Invoice) []int {
	var open []int

	for i := range inv {
		if inv[i].Kind == ledger.KindRevenue && !inv[i].Matched() {
			open = append(open, i)
		}
	}

	sort.Slice(open, func(x, y int) bool { return inv[open[x]].ID < inv[open[y]].ID })

	return open
}

// openBankRows returns indices of unmatched inbound bank rows, ascending by id.
func openBankRows(btx []ledger.BankTransaction) []int {
	var open []int

	for b := range btx {
		if btx[b].Direction == ledger.DirectionIn && !btx[b].Matched() {
			open = append(open, b)
		}
	}

	sort.Slice(open, func(x, y int) bool { return btx[open[x]].ID < btx[open[y]].ID })

	return open
}

// filterPSPNames keeps bank rows whose partner/memo text mentions a known
// payment processor.
func filterPSPNames(btx []ledger.BankTransaction, pool []int) []int {
	var kept []int

	for _, b := range pool {
		text := strings.ToLower(btx[b].PartnerText())
		if text == "" {
			continue
		}

		for _, frag := range pspNameFragments {
			if strings.Contains(text, frag) {
				kept = append(kept, b)
				break
			}
		}
	}

	return kept
}

// withinTolerance compares two amounts at cent precision against an
// inclusive tolerance.
func withinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Round(2).Sub(b.Round(2)).Abs().LessThanOrEqual(tolerance)
}

// withinWindow tests the absolute day difference between two dates against
// the window, symmetric in both directions.
func withinWindow(a, b time.Time, windowDays int) bool {
	days := dateOnly(a).Sub(dateOnly(b)) / (24 * time.Hour)
	if days < 0 {
		days = -days
	}

	return int(days) <= windowDays
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
