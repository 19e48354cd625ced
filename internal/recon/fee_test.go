package recon_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/avandenberg/tally/internal/recon"
)

func TestFeeCheck(t *testing.T) {
	dec := decimal.RequireFromString

	type testCase struct {
		name    string
		gross   string
		net     string
		feeAbs  string
		feePct  string
		wantOK  bool
		wantFee string
	}

	tests := []testCase{
		{
			// 4 <= 50 and 4/100 = 0.04 <= 0.04: boundary inclusive.
			name:  "AcceptedAtPctBoundary",
			gross: "100", net: "96", feeAbs: "50", feePct: "0.04",
			wantOK: true, wantFee: "4",
		},
		{
			name:  "RejectedZeroFee",
			gross: "100", net: "100", feeAbs: "50", feePct: "0.04",
			wantOK: false, wantFee: "0",
		},
		{
			name:  "RejectedNegativeFee",
			gross: "100", net: "105", feeAbs: "50", feePct: "0.04",
			wantOK: false, wantFee: "0",
		},
		{
			name:  "RejectedAboveAbsCap",
			gross: "5000", net: "4900", feeAbs: "50", feePct: "0.04",
			wantOK: false, wantFee: "0",
		},
		{
			name:  "RejectedAbovePctCap",
			gross: "100", net: "90", feeAbs: "50", feePct: "0.04",
			wantOK: false, wantFee: "0",
		},
		{
			name:  "AcceptedAtAbsBoundary",
			gross: "2000", net: "1950", feeAbs: "50", feePct: "0.04",
			wantOK: true, wantFee: "50",
		},
		{
			// Sub-cent noise rounds away before comparison.
			name:  "RoundsToCents",
			gross: "100.004", net: "96.001", feeAbs: "50", feePct: "0.05",
			wantOK: true, wantFee: "4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, fee := recon.FeeCheck(dec(tt.gross), dec(tt.net), dec(tt.feeAbs), dec(tt.feePct))

			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, dec(tt.wantFee).Equal(fee), "fee = %s, want %s", fee, tt.wantFee)
		})
	}
}
