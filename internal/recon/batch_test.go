package recon_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avandenberg/tally/internal/recon"
)

func TestPickBatch_ExactAccept(t *testing.T) {
	dec := decimal.RequireFromString

	cands := []recon.BatchCandidate{
		{ID: "INV-1", Amount: dec("100.00")},
		{ID: "INV-2", Amount: dec("100.00")},
		{ID: "INV-3", Amount: dec("100.00")},
	}

	result, ok := recon.PickBatch(cands, dec("300.00"), dec("0"), dec("50"), dec("0.04"))
	require.True(t, ok)
	assert.Equal(t, []string{"INV-1", "INV-2", "INV-3"}, result.IDs)
	assert.True(t, dec("300.00").Equal(result.Gross))
	assert.True(t, result.Fee.IsZero())
}

func TestPickBatch_SkipAndContinue(t *testing.T) {
	dec := decimal.RequireFromString

	// 200 overshoots 135+10 and is skipped; the scan continues and settles
	// on 50+90=140, accepted as a 5.00 fee against the 135 target.
	cands := []recon.BatchCandidate{
		{ID: "INV-1", Amount: dec("200.00")},
		{ID: "INV-2", Amount: dec("50.00")},
		{ID: "INV-3", Amount: dec("90.00")},
	}

	result, ok := recon.PickBatch(cands, dec("135.00"), dec("0.50"), dec("10"), dec("0.04"))
	require.True(t, ok)
	assert.Equal(t, []string{"INV-2", "INV-3"}, result.IDs)
	assert.True(t, dec("140.00").Equal(result.Gross))
	assert.True(t, dec("5.00").Equal(result.Fee), "fee = %s", result.Fee)
}

func TestPickBatch_NoAcceptanceKeepsNothing(t *testing.T) {
	dec := decimal.RequireFromString

	cands := []recon.BatchCandidate{
		{ID: "INV-1", Amount: dec("10.00")},
		{ID: "INV-2", Amount: dec("20.00")},
	}

	result, ok := recon.PickBatch(cands, dec("500.00"), dec("0.50"), dec("50"), dec("0.04"))
	assert.False(t, ok)
	assert.Empty(t, result.IDs)
}

func TestPickBatch_StopsAtFirstAcceptance(t *testing.T) {
	dec := decimal.RequireFromString

	// INV-1 alone is within tolerance; INV-2 must not be dragged in.
	cands := []recon.BatchCandidate{
		{ID: "INV-1", Amount: dec("100.25")},
		{ID: "INV-2", Amount: dec("40.00")},
	}

	result, ok := recon.PickBatch(cands, dec("100.00"), dec("0.50"), dec("50"), dec("0.04"))
	require.True(t, ok)
	assert.Equal(t, []string{"INV-1"}, result.IDs)
}

func TestPickBatch_EmptyCandidates(t *testing.T) {
	dec := decimal.RequireFromString

	_, ok := recon.PickBatch(nil, dec("100.00"), dec("0.50"), dec("50"), dec("0.04"))
	assert.False(t, ok)
}
