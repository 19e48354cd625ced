package recon

import "github.com/shopspring/decimal"

// FeeCheck decides whether the gap between a gross invoice amount and a net
// bank amount is explainable as a payment-processor fee. The fee is
// gross - net rounded to cents; it must be positive, at most feeAbsMax, and
// at most feePctMax of gross. Returns the fee when accepted, zero otherwise.
//
// Rule 2 and Rule 3 share this single policy.
func FeeCheck(gross, net, feeAbsMax, feePctMax decimal.Decimal) (bool, decimal.Decimal) {
	fee := gross.Sub(net).Round(2)
	if fee.Sign() <= 0 {
		return false, decimal.Zero
	}

	if gross.Sign() > 0 && fee.LessThanOrEqual(feeAbsMax) && fee.Div(gross).LessThanOrEqual(feePctMax) {
		return true, fee
	}

	return false, decimal.Zero
}
