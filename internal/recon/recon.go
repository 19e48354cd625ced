// Package recon links accounts-receivable invoices to the bank transactions
// that settled them. Three rules run in fixed order over shrinking pools of
// unmatched rows: exact 1:1 match, fee-tolerant 1:1 match (a payment
// processor paid out net of its fee), and greedy many-to-one batch match (one
// payout settling several invoices). The engine is a pure batch computation:
// it copies its inputs, never revisits a matched row, and is deterministic
// for identical inputs and settings.
package recon

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidConfig = errors.New("invalid reconciliation config")

// Config holds the matching tolerances. All amounts are compared at cent
// precision.
type Config struct {
	// DateWindowDays is the maximum absolute day gap between an invoice and
	// a candidate bank row, symmetric in both directions.
	DateWindowDays int

	// AmountTolerance is the slack allowed on an exact amount comparison.
	AmountTolerance decimal.Decimal

	// PSPFeeAbs is the largest absolute processor fee accepted.
	PSPFeeAbs decimal.Decimal

	// PSPFeePct is the largest fee accepted as a fraction of gross, in [0,1].
	PSPFeePct decimal.Decimal

	// OnlyPSPNames restricts fee-tolerant candidates to bank rows whose
	// partner/memo text mentions a known payment processor.
	OnlyPSPNames bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		DateWindowDays:  3,
		AmountTolerance: decimal.RequireFromString("0.50"),
		PSPFeeAbs:       decimal.RequireFromString("50.00"),
		PSPFeePct:       decimal.RequireFromString("0.04"),
		OnlyPSPNames:    true,
	}
}

func (c Config) Validate() error {
	if c.DateWindowDays < 0 {
		return fmt.Errorf("%w: date window days %d is negative", ErrInvalidConfig, c.DateWindowDays)
	}

	if c.AmountTolerance.IsNegative() {
		return fmt.Errorf("%w: amount tolerance %s is negative", ErrInvalidConfig, c.AmountTolerance)
	}

	if c.PSPFeeAbs.IsNegative() {
		return fmt.Errorf("%w: psp fee abs %s is negative", ErrInvalidConfig, c.PSPFeeAbs)
	}

	if c.PSPFeePct.IsNegative() || c.PSPFeePct.GreaterThan(decimal.New(1, 0)) {
		return fmt.Errorf("%w: psp fee pct %s outside [0,1]", ErrInvalidConfig, c.PSPFeePct)
	}

	return nil
}

// pspNameFragments are the processor names recognised by the OnlyPSPNames
// filter, matched case-insensitively as substrings of the partner/memo text.
var pspNameFragments = []string{
	"stripe",
	"adyen",
	"mollie",
	"paypal",
	"checkout.com",
	"braintree",
}
