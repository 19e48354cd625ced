package recon

import "github.com/shopspring/decimal"

// BatchCandidate is one open invoice offered to the batch accumulator.
type BatchCandidate struct {
	ID     string
	Amount decimal.Decimal
}

// BatchResult is the invoice set a batch accumulation settled on.
type BatchResult struct {
	IDs   []string
	Gross decimal.Decimal
	Fee   decimal.Decimal
}

// PickBatch greedily accumulates candidates against a target bank amount.
// Candidates must already be in scan order (ascending by date). A candidate
// that would push the running sum past target+feeAbsMax is skipped, not
// aborted on: smaller later candidates may still fit. After each inclusion
// the running sum is tested for acceptance, either within tolerance of the
// target or passing the fee check; the first acceptance wins and stops the
// scan. If the list is exhausted without acceptance nothing is kept.
//
// Inputs are never mutated; the greedy result is deliberately not an optimal
// subset, so identical inputs always produce identical picks.
func PickBatch(candidates []BatchCandidate, target, tolerance, feeAbsMax, feePctMax decimal.Decimal) (BatchResult, bool) {
	limit := target.Add(feeAbsMax)
	gross := decimal.Zero

	var picked []string

	for _, c := range candidates {
		if gross.Add(c.Amount).GreaterThan(limit) {
			continue
		}

		picked = append(picked, c.ID)
		gross = gross.Add(c.Amount)

		if gross.Sub(target).Round(2).Abs().LessThanOrEqual(tolerance) {
			return BatchResult{IDs: picked, Gross: gross}, true
		}

		if ok, fee := FeeCheck(gross, target, feeAbsMax, feePctMax); ok {
			return BatchResult{IDs: picked, Gross: gross, Fee: fee}, true
		}
	}

	return BatchResult{}, false
}
